package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/deplang/internal/core"
	deperrors "github.com/sunholo/deplang/internal/errors"
	"github.com/sunholo/deplang/internal/eval"
	"github.com/sunholo/deplang/internal/parser"
	"github.com/sunholo/deplang/internal/types"
)

func inferString(t *testing.T, input string) (eval.Value, core.Term, error) {
	t.Helper()
	e, err := parser.ParseString(input, "test")
	require.NoError(t, err, "parse %q", input)
	return types.Infer(types.NewContext(), e)
}

// evalType parses and elaborates a type expression, returning its value
func evalType(t *testing.T, ctx *types.Context, input string) eval.Value {
	t.Helper()
	e, err := parser.ParseString(input, "test")
	require.NoError(t, err)
	_, tt, err := types.Infer(ctx, e)
	require.NoError(t, err)
	v, err := eval.Eval(ctx.Env(), tt)
	require.NoError(t, err)
	return v
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	rep, ok := deperrors.AsReport(err)
	require.True(t, ok, "expected a structured report, got %v", err)
	require.Equal(t, code, rep.Code, "message: %s", rep.Message)
}

func TestIdentity(t *testing.T) {
	ctx := types.NewContext()
	want := evalType(t, ctx, "(A : Type) -> A -> A")

	e, err := parser.ParseString("fun A a => a", "test")
	require.NoError(t, err)
	elab, err := types.Check(ctx, e, want)
	require.NoError(t, err)

	v, err := eval.Eval(ctx.Env(), elab)
	require.NoError(t, err)
	v, err = eval.Apply(v, &eval.VPrim{Kind: core.PrimString})
	require.NoError(t, err)
	v, err = eval.Apply(v, &eval.VLit{Const: core.Constant{Kind: core.PrimString, Str: "hi"}})
	require.NoError(t, err)

	lit, ok := v.(*eval.VLit)
	require.True(t, ok, "expected a literal, got %s", v)
	require.Equal(t, "hi", lit.Const.Str)

	// The result type after both applications is String.
	pi := want.(*eval.VPi)
	cod, err := eval.AppClosure(pi.Cod, &eval.VPrim{Kind: core.PrimString})
	require.NoError(t, err)
	inner := cod.(*eval.VPi)
	resT, err := eval.AppClosure(inner.Cod, lit)
	require.NoError(t, err)
	eq, err := eval.Convertible(0, resT, &eval.VPrim{Kind: core.PrimString})
	require.NoError(t, err)
	require.True(t, eq)
}

func TestConst(t *testing.T) {
	typ, elab, err := inferString(t,
		`((fun A B a b => a) : (A B : Type) -> A -> B -> A) S32 String 1 "x"`)
	require.NoError(t, err)

	eq, err := eval.Convertible(0, typ, &eval.VPrim{Kind: core.PrimS32})
	require.NoError(t, err)
	require.True(t, eq, "expected S32, got %s", typ)

	v, err := eval.Eval(nil, elab)
	require.NoError(t, err)
	lit, ok := v.(*eval.VLit)
	require.True(t, ok, "expected a literal, got %s", v)
	require.Equal(t, int64(1), lit.Const.Int)
	require.Equal(t, core.PrimS32, lit.Const.Kind)
}

func TestRecordFieldDependency(t *testing.T) {
	typ, elab, err := inferString(t,
		`(record { T = S32, x = 0 } : Record { T : Type, x : T }).x`)
	require.NoError(t, err)

	eq, err := eval.Convertible(0, typ, &eval.VPrim{Kind: core.PrimS32})
	require.NoError(t, err)
	require.True(t, eq, "projecting .x should have type S32, got %s", typ)

	v, err := eval.Eval(nil, elab)
	require.NoError(t, err)
	lit, ok := v.(*eval.VLit)
	require.True(t, ok)
	require.Equal(t, int64(0), lit.Const.Int)
}

func TestLiteralInference(t *testing.T) {
	t.Run("binary literal at S32", func(t *testing.T) {
		typ, elab, err := inferString(t, "0b1001_0101 : S32")
		require.NoError(t, err)
		require.Equal(t, "S32", typ.String())
		v, err := eval.Eval(nil, elab)
		require.NoError(t, err)
		require.Equal(t, int64(0x95), v.(*eval.VLit).Const.Int)
	})

	t.Run("hex literal at U64", func(t *testing.T) {
		typ, elab, err := inferString(t, "0x01234_abcdef_ABCDEF : U64")
		require.NoError(t, err)
		require.Equal(t, "U64", typ.String())
		v, err := eval.Eval(nil, elab)
		require.NoError(t, err)
		require.Equal(t, uint64(0x1234abcdefABCDEF), v.(*eval.VLit).Const.Uint)
	})

	t.Run("unicode escape at Char", func(t *testing.T) {
		typ, elab, err := inferString(t, `'\u{0001}' : Char`)
		require.NoError(t, err)
		require.Equal(t, "Char", typ.String())
		v, err := eval.Eval(nil, elab)
		require.NoError(t, err)
		require.Equal(t, rune(1), v.(*eval.VLit).Const.Char)
	})

	t.Run("string literal infers String", func(t *testing.T) {
		typ, _, err := inferString(t, `"hello"`)
		require.NoError(t, err)
		require.Equal(t, "String", typ.String())
	})

	t.Run("float literal infers F64", func(t *testing.T) {
		typ, _, err := inferString(t, "3.5")
		require.NoError(t, err)
		require.Equal(t, "F64", typ.String())
	})

	t.Run("bare integer is ambiguous", func(t *testing.T) {
		_, _, err := inferString(t, "42")
		requireCode(t, err, deperrors.TC008)
	})
}

func TestUniverseInference(t *testing.T) {
	// The field A : Type lifts the record type to Type^1.
	typ, _, err := inferString(t, "Record { A : Type, x : A }")
	require.NoError(t, err)
	u, ok := typ.(*eval.VUniverse)
	require.True(t, ok, "expected a universe, got %s", typ)
	require.Equal(t, 1, u.Level)
}

func TestUniverseMonotonicity(t *testing.T) {
	for level := 0; level < 5; level++ {
		input := "Type"
		if level > 0 {
			input = "Type^" + string(rune('0'+level))
		}
		typ, _, err := inferString(t, input)
		require.NoError(t, err)
		u, ok := typ.(*eval.VUniverse)
		require.True(t, ok)
		require.Equal(t, level+1, u.Level, "Type^%d : Type^%d", level, level+1)
	}
}

func TestMismatchRejection(t *testing.T) {
	_, _, err := inferString(t, "4.0 : S32")
	requireCode(t, err, deperrors.TC002)
	rep, _ := deperrors.AsReport(err)
	require.Equal(t, "S32", rep.Data["expected"])
	require.Equal(t, "F64", rep.Data["found"])
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"unbound variable", "x", deperrors.TC001},
		{"type mismatch", "true : S32", deperrors.TC002},
		{"expected function", "true false", deperrors.TC003},
		{"expected record", "true.x", deperrors.TC004},
		{"unknown field", "(record {} : Record {}).x", deperrors.TC005},
		{"missing field", "record { x = 1 } : Record { x : S32, y : S32 }", deperrors.TC005},
		{"extra field", "record { x = 1 } : Record {}", deperrors.TC005},
		{"field order", "record { y = 0, x = 1 } : Record { x : S32, y : S32 }", deperrors.TC006},
		{"universe expected", "(x : true) -> Bool", deperrors.TC007},
		{"ambiguous lambda", "fun x => x", deperrors.TC008},
		{"ambiguous hole", "? : Bool", deperrors.TC008},
		{"pattern mismatch", "(case true of { record {} => true }) : Bool", deperrors.TC009},
		{"unsigned overflow", "300 : U8", deperrors.TC010},
		{"negative at unsigned", "-1 : U8", deperrors.TC010},
		{"signed overflow", "2147483648 : S32", deperrors.TC010},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := inferString(t, tt.input)
			requireCode(t, err, tt.code)
		})
	}
}

func TestAlphaInvariance(t *testing.T) {
	ctx := types.NewContext()
	want := evalType(t, ctx, "(A : Type) -> A -> A")

	e1, err := parser.ParseString("fun A a => a", "test")
	require.NoError(t, err)
	e2, err := parser.ParseString("fun B b => b", "test")
	require.NoError(t, err)

	t1, err := types.Check(ctx, e1, want)
	require.NoError(t, err)
	t2, err := types.Check(ctx, e2, want)
	require.NoError(t, err)
	require.True(t, core.AlphaEq(t1, t2), "renaming binders changed elaboration")
}

func TestDependentSubstitution(t *testing.T) {
	// Applying the polymorphic identity to Bool specializes its type to
	// Bool -> Bool.
	typ, _, err := inferString(t, "((fun A a => a) : (A : Type) -> A -> A) Bool")
	require.NoError(t, err)

	ctx := types.NewContext()
	want := evalType(t, ctx, "Bool -> Bool")
	eq, err := eval.Convertible(0, typ, want)
	require.NoError(t, err)
	require.True(t, eq, "expected Bool -> Bool, got %s", typ)
}

func TestCheckIf(t *testing.T) {
	typ, elab, err := inferString(t, "(fun b => if b then false else true) : Bool -> Bool")
	require.NoError(t, err)

	pi, ok := typ.(*eval.VPi)
	require.True(t, ok)
	_ = pi

	v, err := eval.Eval(nil, elab)
	require.NoError(t, err)
	v, err = eval.Apply(v, &eval.VBool{Value: true})
	require.NoError(t, err)
	b, ok := v.(*eval.VBool)
	require.True(t, ok)
	require.False(t, b.Value)
}

func TestCheckCaseBool(t *testing.T) {
	_, elab, err := inferString(t,
		"(fun b => case b of { true => 1, false => 0 }) : Bool -> S32")
	require.NoError(t, err)

	v, err := eval.Eval(nil, elab)
	require.NoError(t, err)
	v, err = eval.Apply(v, &eval.VBool{Value: false})
	require.NoError(t, err)
	require.Equal(t, int64(0), v.(*eval.VLit).Const.Int)
}

func TestCheckCaseRecordPattern(t *testing.T) {
	_, elab, err := inferString(t,
		"(fun r => case r of { record { x = a, y = b } => b }) : Record { x : S32, y : Bool } -> Bool")
	require.NoError(t, err)

	arg := &eval.VRecord{
		Label: "x",
		Field: &eval.VLit{Const: core.Constant{Kind: core.PrimS32, Int: 7}},
		Rest: eval.FnClosure(func(eval.Value) eval.Value {
			return &eval.VRecord{
				Label: "y",
				Field: &eval.VBool{Value: true},
				Rest:  eval.FnClosure(func(eval.Value) eval.Value { return &eval.VRecordNil{} }),
			}
		}),
	}
	v, err := eval.Eval(nil, elab)
	require.NoError(t, err)
	v, err = eval.Apply(v, arg)
	require.NoError(t, err)
	b, ok := v.(*eval.VBool)
	require.True(t, ok, "expected a boolean, got %s", v)
	require.True(t, b.Value)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"((fun A a => a) : (A : Type) -> A -> A) Bool true",
		"record { T = Bool, x = true } : Record { T : Type, x : T }",
		"if true then false else true",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			typ, elab, err := inferString(t, input)
			require.NoError(t, err)
			_ = typ

			v1, err := eval.Eval(nil, elab)
			require.NoError(t, err)
			q1, err := eval.Quote(0, v1)
			require.NoError(t, err)
			v2, err := eval.Eval(nil, q1)
			require.NoError(t, err)
			eq, err := eval.Convertible(0, v1, v2)
			require.NoError(t, err)
			require.True(t, eq, "readback changed the value of %s", input)
		})
	}
}

func TestShadowingPrimitives(t *testing.T) {
	// A claim for S32 shadows the built-in primitive type.
	ctx := types.NewContext().ExtendClaim("S32", &eval.VBoolType{})
	e, err := parser.ParseString("S32", "test")
	require.NoError(t, err)
	typ, elab, err := types.Infer(ctx, e)
	require.NoError(t, err)
	require.IsType(t, &eval.VBoolType{}, typ)
	require.IsType(t, &core.Var{}, elab)
}
