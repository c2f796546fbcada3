package core

import (
	"fmt"
	"math"
	"strconv"
)

// PrimKind enumerates the built-in literal types. A Constant is tagged with
// the PrimKind it inhabits, so the type of a constant is always recoverable.
type PrimKind int

const (
	PrimU8 PrimKind = iota
	PrimU16
	PrimU32
	PrimU64
	PrimS8
	PrimS16
	PrimS32
	PrimS64
	PrimF32
	PrimF64
	PrimChar
	PrimString
)

var primNames = [...]string{
	PrimU8:     "U8",
	PrimU16:    "U16",
	PrimU32:    "U32",
	PrimU64:    "U64",
	PrimS8:     "S8",
	PrimS16:    "S16",
	PrimS32:    "S32",
	PrimS64:    "S64",
	PrimF32:    "F32",
	PrimF64:    "F64",
	PrimChar:   "Char",
	PrimString: "String",
}

// Name returns the surface spelling of the primitive type
func (k PrimKind) Name() string {
	if int(k) < len(primNames) {
		return primNames[k]
	}
	return "Prim?"
}

// PrimByName resolves a surface name to a primitive kind
func PrimByName(name string) (PrimKind, bool) {
	for k, n := range primNames {
		if n == name {
			return PrimKind(k), true
		}
	}
	return 0, false
}

// IsUnsigned reports whether the kind is one of U8..U64
func (k PrimKind) IsUnsigned() bool { return k >= PrimU8 && k <= PrimU64 }

// IsSigned reports whether the kind is one of S8..S64
func (k PrimKind) IsSigned() bool { return k >= PrimS8 && k <= PrimS64 }

// IsFloat reports whether the kind is F32 or F64
func (k PrimKind) IsFloat() bool { return k == PrimF32 || k == PrimF64 }

// Constant is a tagged literal constant value
type Constant struct {
	Kind  PrimKind
	Uint  uint64  // U8..U64
	Int   int64   // S8..S64
	Float float64 // F32, F64
	Char  rune    // Char
	Str   string  // String
}

func (c Constant) String() string {
	switch {
	case c.Kind.IsUnsigned():
		return strconv.FormatUint(c.Uint, 10)
	case c.Kind.IsSigned():
		return strconv.FormatInt(c.Int, 10)
	case c.Kind.IsFloat():
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case c.Kind == PrimChar:
		return fmt.Sprintf("%q", c.Char)
	case c.Kind == PrimString:
		return fmt.Sprintf("%q", c.Str)
	}
	return "<const>"
}

// Equal compares two constants for definitional equality
func (c Constant) Equal(d Constant) bool {
	if c.Kind != d.Kind {
		return false
	}
	switch {
	case c.Kind.IsUnsigned():
		return c.Uint == d.Uint
	case c.Kind.IsSigned():
		return c.Int == d.Int
	case c.Kind.IsFloat():
		return c.Float == d.Float
	case c.Kind == PrimChar:
		return c.Char == d.Char
	default:
		return c.Str == d.Str
	}
}

// FitsUnsigned reports whether magnitude fits kind (one of U8..U64)
func FitsUnsigned(kind PrimKind, magnitude uint64) bool {
	switch kind {
	case PrimU8:
		return magnitude <= math.MaxUint8
	case PrimU16:
		return magnitude <= math.MaxUint16
	case PrimU32:
		return magnitude <= math.MaxUint32
	case PrimU64:
		return true
	}
	return false
}

// FitsSigned reports whether the signed value -magnitude (negative true) or
// +magnitude fits kind (one of S8..S64)
func FitsSigned(kind PrimKind, magnitude uint64, negative bool) bool {
	var max uint64
	switch kind {
	case PrimS8:
		max = math.MaxInt8
	case PrimS16:
		max = math.MaxInt16
	case PrimS32:
		max = math.MaxInt32
	case PrimS64:
		max = math.MaxInt64
	default:
		return false
	}
	if negative {
		return magnitude <= max+1
	}
	return magnitude <= max
}
