package ast

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Ident represents any identifier like variable names, type names, etc.
// Example: "clamp", "counter", "north"
type Ident struct {
	Pos   Position
	Value string
}

func (i *Ident) NodePos() Position  { return i.Pos }
func (*Ident) NodeType() NodeType   { return IDENT }
func (i *Ident) String() string     { return i.Value }

func (m *Module) NodePos() Position  { return m.Pos }
func (*Module) NodeType() NodeType   { return MODULE }

func (t *TypeDef) NodePos() Position  { return t.Pos }
func (*TypeDef) NodeType() NodeType   { return TYPE_DEF }

func (v *VarDecl) NodePos() Position  { return v.Pos }
func (*VarDecl) NodeType() NodeType   { return VAR_DECL }

func (f *Function) NodePos() Position  { return f.Pos }
func (*Function) NodeType() NodeType   { return FUNCTION }

func (f *ImportedFunction) NodePos() Position  { return f.Pos }
func (*ImportedFunction) NodeType() NodeType   { return IMPORTED_FUNCTION }

func (t *NamedType) NodePos() Position  { return t.Pos }
func (*NamedType) NodeType() NodeType   { return NAMED_TYPE }

func (t *TupleType) NodePos() Position  { return t.Pos }
func (*TupleType) NodeType() NodeType   { return TUPLE_TYPE }

func (f *TypeField) NodePos() Position  { return f.Pos }
func (*TypeField) NodeType() NodeType   { return TYPE_FIELD }

func (t *VectorType) NodePos() Position  { return t.Pos }
func (*VectorType) NodeType() NodeType   { return VECTOR_TYPE }

func (t *SumType) NodePos() Position  { return t.Pos }
func (*SumType) NodeType() NodeType   { return SUM_TYPE }

func (v *SumVariant) NodePos() Position  { return v.Pos }
func (*SumVariant) NodeType() NodeType   { return SUM_VARIANT }

func (t *EnumType) NodePos() Position  { return t.Pos }
func (*EnumType) NodeType() NodeType   { return ENUM_TYPE }

func (tg *EnumTag) NodePos() Position  { return tg.Pos }
func (*EnumTag) NodeType() NodeType    { return ENUM_TAG }

func (t *PointerType) NodePos() Position  { return t.Pos }
func (*PointerType) NodeType() NodeType   { return POINTER_TYPE }

func (b *Block) NodePos() Position  { return b.Pos }
func (*Block) NodeType() NodeType   { return BLOCK }

func (s *SetStmt) NodePos() Position  { return s.Pos }
func (*SetStmt) NodeType() NodeType   { return SET_STMT }

func (w *WithBinding) NodePos() Position  { return w.Pos }
func (*WithBinding) NodeType() NodeType   { return WITH_BINDING }

func (e *SetEntry) NodePos() Position  { return e.Pos }
func (*SetEntry) NodeType() NodeType   { return SET_ENTRY }

func (s *IfStmt) NodePos() Position  { return s.Pos }
func (*IfStmt) NodeType() NodeType   { return IF_STMT }

func (a *IfArm) NodePos() Position  { return a.Pos }
func (*IfArm) NodeType() NodeType   { return IF_ARM }

func (s *ForStmt) NodePos() Position  { return s.Pos }
func (*ForStmt) NodeType() NodeType   { return FOR_STMT }

func (s *WhileStmt) NodePos() Position  { return s.Pos }
func (*WhileStmt) NodeType() NodeType   { return WHILE_STMT }

func (s *MatchStmt) NodePos() Position  { return s.Pos }
func (*MatchStmt) NodeType() NodeType   { return MATCH_STMT }

func (a *MatchArm) NodePos() Position  { return a.Pos }
func (*MatchArm) NodeType() NodeType   { return MATCH_ARM }

func (p *Pattern) NodePos() Position  { return p.Pos }
func (*Pattern) NodeType() NodeType   { return PATTERN }

func (s *ExprStmt) NodePos() Position  { return s.Pos }
func (*ExprStmt) NodeType() NodeType   { return EXPR_STMT }

func (e *LiteralExpr) NodePos() Position  { return e.Pos }
func (*LiteralExpr) NodeType() NodeType   { return LITERAL_EXPR }

func (e *IdentExpr) NodePos() Position  { return e.Pos }
func (*IdentExpr) NodeType() NodeType   { return IDENT_EXPR }

func (e *BinaryExpr) NodePos() Position  { return e.Pos }
func (*BinaryExpr) NodeType() NodeType   { return BINARY_EXPR }

func (e *UnaryExpr) NodePos() Position  { return e.Pos }
func (*UnaryExpr) NodeType() NodeType   { return UNARY_EXPR }

func (e *CallExpr) NodePos() Position  { return e.Pos }
func (*CallExpr) NodeType() NodeType   { return CALL_EXPR }

func (e *TupleExpr) NodePos() Position  { return e.Pos }
func (*TupleExpr) NodeType() NodeType   { return TUPLE_EXPR }

func (f *TupleExprField) NodePos() Position  { return f.Pos }
func (*TupleExprField) NodeType() NodeType   { return TUPLE_EXPR_FIELD }

func (e *VectorExpr) NodePos() Position  { return e.Pos }
func (*VectorExpr) NodeType() NodeType   { return VECTOR_EXPR }

func (e *FieldAccessExpr) NodePos() Position  { return e.Pos }
func (*FieldAccessExpr) NodeType() NodeType   { return FIELD_ACCESS_EXPR }

func (e *IndexExpr) NodePos() Position  { return e.Pos }
func (*IndexExpr) NodeType() NodeType   { return INDEX_EXPR }

func (e *FoldExpr) NodePos() Position  { return e.Pos }
func (*FoldExpr) NodeType() NodeType   { return FOLD_EXPR }

func (e *VariantExpr) NodePos() Position  { return e.Pos }
func (*VariantExpr) NodeType() NodeType   { return VARIANT_EXPR }

func (e *EnumConstExpr) NodePos() Position  { return e.Pos }
func (*EnumConstExpr) NodeType() NodeType   { return ENUM_CONST_EXPR }
