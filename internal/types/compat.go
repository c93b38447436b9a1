package types

// Compatibility classifies how two types relate for implicit conversion.
type Compatibility int

const (
	// Compatible: the types agree as-is, no cast needed.
	Compatible Compatibility = iota
	// CastRequired: the types agree after a lossless implicit widening to
	// the common type carried in CheckResult.Type.
	CastRequired
	// Incompatible: no implicit conversion exists.
	Incompatible
)

func (c Compatibility) String() string {
	switch c {
	case Compatible:
		return "compatible"
	case CastRequired:
		return "cast required"
	default:
		return "incompatible"
	}
}

// CheckResult is the outcome of a compatibility check. Type is the common
// type for Compatible and CastRequired, nil for Incompatible.
type CheckResult struct {
	Status Compatibility
	Type   Type
}

var incompatible = CheckResult{Status: Incompatible}

// scalarInfo describes an integer scalar for the widening table.
type scalarInfo struct {
	signed bool
	width  int // bits
}

var intInfo = map[ScalarKind]scalarInfo{
	U8:  {false, 8},
	I8:  {true, 8},
	U16: {false, 16},
	I16: {true, 16},
	U32: {false, 32},
	I32: {true, 32},
}

var signedByWidth = map[int]ScalarKind{8: I8, 16: I16, 32: I32}
var unsignedByWidth = map[int]ScalarKind{8: U8, 16: U16, 32: U32}

// Check resolves the compatibility of two types.
//
// Numeric scalars widen to the smallest representation that loses no value
// from either operand: u8+i8 -> i16, u16+i16 -> i32. i32 and u32 never
// implicitly cast to each other or to f32; f32 absorbs only the scalars its
// 24-bit mantissa represents exactly (u8, i8, u16, i16). Tuples require an
// identical field-name sequence with pairwise-compatible fields; vectors
// require equal length and compatible elements. Everything else must be
// structurally equal.
func Check(a, b Type) CheckResult {
	if a.Equal(b) {
		return CheckResult{Status: Compatible, Type: a}
	}

	switch at := a.(type) {
	case *Scalar:
		bt, ok := b.(*Scalar)
		if !ok {
			return incompatible
		}
		return checkScalars(at, bt)
	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok {
			return incompatible
		}
		return checkTuples(at, bt)
	case *Vector:
		bt, ok := b.(*Vector)
		if !ok {
			return incompatible
		}
		return checkVectors(at, bt)
	}

	// Sum types, enums and pointers only match structurally equal peers,
	// and equality was already ruled out above.
	return incompatible
}

func checkScalars(a, b *Scalar) CheckResult {
	// bool is compatible only with bool; the equal case never reaches here.
	if a.Kind == Bool || b.Kind == Bool {
		return incompatible
	}

	if a.Kind == F32 || b.Kind == F32 {
		other := a.Kind
		if a.Kind == F32 {
			other = b.Kind
		}
		switch other {
		case U8, I8, U16, I16:
			return CheckResult{Status: CastRequired, Type: TypeF32}
		}
		// f32 with u32/i32 would truncate the mantissa.
		return incompatible
	}

	ai, bi := intInfo[a.Kind], intInfo[b.Kind]

	if ai.signed == bi.signed {
		width := ai.width
		if bi.width > width {
			width = bi.width
		}
		byWidth := unsignedByWidth
		if ai.signed {
			byWidth = signedByWidth
		}
		return CheckResult{Status: CastRequired, Type: ScalarOf(byWidth[width])}
	}

	// Mixed signedness: the common type must be signed, wide enough for the
	// signed operand, and strictly wider than the unsigned operand.
	uw, sw := ai.width, bi.width
	if ai.signed {
		uw, sw = bi.width, ai.width
	}
	need := sw
	if uw*2 > need {
		need = uw * 2
	}
	kind, ok := signedByWidth[need]
	if !ok {
		// u32 mixed with any signed type would need i64, which does not
		// exist in the scalar family.
		return incompatible
	}
	return CheckResult{Status: CastRequired, Type: ScalarOf(kind)}
}

func checkTuples(a, b *Tuple) CheckResult {
	if len(a.Fields) != len(b.Fields) {
		return incompatible
	}
	widened := make([]TupleField, len(a.Fields))
	status := Compatible
	for i, f := range a.Fields {
		if f.Name != b.Fields[i].Name {
			return incompatible
		}
		res := Check(f.Type, b.Fields[i].Type)
		if res.Status == Incompatible {
			return incompatible
		}
		if res.Status == CastRequired {
			status = CastRequired
		}
		widened[i] = TupleField{Name: f.Name, Type: res.Type}
	}
	if status == Compatible {
		return CheckResult{Status: Compatible, Type: a}
	}
	return CheckResult{Status: CastRequired, Type: &Tuple{Fields: widened}}
}

func checkVectors(a, b *Vector) CheckResult {
	if a.Length != b.Length {
		return incompatible
	}
	res := Check(a.Elem, b.Elem)
	if res.Status == Incompatible {
		return incompatible
	}
	if res.Status == Compatible {
		return CheckResult{Status: Compatible, Type: a}
	}
	return CheckResult{Status: CastRequired, Type: &Vector{Elem: res.Type, Length: a.Length}}
}

// WidensTo reports whether a value of type from may be implicitly widened to
// type to, meaning the common type of the pair is exactly to.
func WidensTo(from, to Type) bool {
	res := Check(from, to)
	switch res.Status {
	case Compatible:
		return true
	case CastRequired:
		return res.Type.Equal(to)
	}
	return false
}

// IntegerRange returns the inclusive value range of an integer scalar kind.
func IntegerRange(kind ScalarKind) (min, max int64) {
	switch kind {
	case U8:
		return 0, 255
	case I8:
		return -128, 127
	case U16:
		return 0, 65535
	case I16:
		return -32768, 32767
	case U32:
		return 0, 4294967295
	case I32:
		return -2147483648, 2147483647
	}
	return 0, 0
}

// SmallestIntFor returns the narrowest integer scalar holding v, or nil
// when v exceeds every scalar's range.
func SmallestIntFor(v int64) *Scalar {
	if v >= 0 {
		switch {
		case v <= 255:
			return TypeU8
		case v <= 65535:
			return TypeU16
		case v <= 4294967295:
			return TypeU32
		default:
			return nil
		}
	}
	switch {
	case v >= -128:
		return TypeI8
	case v >= -32768:
		return TypeI16
	case v >= -2147483648:
		return TypeI32
	default:
		return nil
	}
}
