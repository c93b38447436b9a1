package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	// High-level constructs
	MODULE
	IDENT

	// Declarations
	TYPE_DEF
	VAR_DECL
	FUNCTION
	IMPORTED_FUNCTION

	// Type expressions
	NAMED_TYPE
	TUPLE_TYPE
	TYPE_FIELD
	VECTOR_TYPE
	SUM_TYPE
	SUM_VARIANT
	ENUM_TYPE
	ENUM_TAG
	POINTER_TYPE

	// Instructions
	BLOCK
	SET_STMT
	WITH_BINDING
	SET_ENTRY
	IF_STMT
	IF_ARM
	FOR_STMT
	WHILE_STMT
	MATCH_STMT
	MATCH_ARM
	PATTERN
	EXPR_STMT

	// Expressions
	LITERAL_EXPR
	IDENT_EXPR
	BINARY_EXPR
	UNARY_EXPR
	CALL_EXPR
	TUPLE_EXPR
	TUPLE_EXPR_FIELD
	VECTOR_EXPR
	FIELD_ACCESS_EXPR
	INDEX_EXPR
	FOLD_EXPR
	VARIANT_EXPR
	ENUM_CONST_EXPR
)
