package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/eval"
)

func TestLookupClaimShadowing(t *testing.T) {
	ctx := NewContext().
		ExtendClaim("x", &eval.VBoolType{}).
		ExtendClaim("y", &eval.VUniverse{Level: 0}).
		ExtendClaim("x", &eval.VUniverse{Level: 1})

	index, typ, ok := ctx.LookupClaim("x")
	require.True(t, ok)
	require.Equal(t, 0, index, "most recent claim wins")
	require.IsType(t, &eval.VUniverse{}, typ)
	require.Equal(t, 1, typ.(*eval.VUniverse).Level)

	index, typ, ok = ctx.LookupClaim("y")
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.IsType(t, &eval.VUniverse{}, typ)

	_, _, ok = ctx.LookupClaim("z")
	require.False(t, ok)
}

func TestClaimsBindNeutrals(t *testing.T) {
	ctx := NewContext().ExtendClaim("a", &eval.VBoolType{})
	v, ok := ctx.Env().Lookup(0)
	require.True(t, ok)
	n, ok := v.(*eval.VNeutral)
	require.True(t, ok, "a claim must bind a neutral variable")
	nv, ok := n.N.(*eval.NVar)
	require.True(t, ok)
	require.Equal(t, 0, nv.Level)
}

func TestDefinitionsBindValues(t *testing.T) {
	def := &core.BoolLit{Value: true}
	ctx := NewContext().ExtendDefine("b", &eval.VBoolType{}, def, &eval.VBool{Value: true})

	got, ok := ctx.LookupDefinition("b")
	require.True(t, ok)
	require.True(t, core.AlphaEq(def, got))

	v, ok := ctx.Env().Lookup(0)
	require.True(t, ok)
	require.IsType(t, &eval.VBool{}, v)
}

func TestScopedExtension(t *testing.T) {
	outer := NewContext().ExtendClaim("x", &eval.VBoolType{})
	inner := outer.ExtendClaim("y", &eval.VBoolType{})
	also := outer.ExtendClaim("z", &eval.VBoolType{})

	require.Equal(t, 1, outer.Len(), "extension must not mutate the receiver")
	require.Equal(t, 2, inner.Len())
	require.Equal(t, 2, also.Len())

	_, _, ok := outer.LookupClaim("y")
	require.False(t, ok)
	_, _, ok = also.LookupClaim("y")
	require.False(t, ok, "sibling scopes must not leak into each other")
	_, _, ok = inner.LookupClaim("y")
	require.True(t, ok)
}
