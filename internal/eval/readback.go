package eval

import (
	"github.com/sunholo/deplang/internal/core"
)

// Quote reads a value back into a core term at the given binder depth.
// Neutral variables become de Bruijn indices relative to the depth; closures
// are opened once against a fresh neutral (beta-short on lambdas) and record
// tails are forced field by field (eta-long on records).
func Quote(depth int, v Value) (t core.Term, err error) {
	defer recoverFault(&err)
	return quote(depth, v), nil
}

// Convertible decides definitional equality of two values at the given
// depth. It compares structurally, opening closures against a shared fresh
// variable at each binder; the outcome coincides with quoting both values
// and comparing for alpha-equivalence.
func Convertible(depth int, a, b Value) (eq bool, err error) {
	defer recoverFault(&err)
	return convertible(depth, a, b), nil
}

func quote(depth int, v Value) core.Term {
	switch v := v.(type) {
	case *VUniverse:
		return &core.Universe{Level: v.Level}
	case *VPrim:
		return &core.Prim{Kind: v.Kind}
	case *VLit:
		return &core.Lit{Const: v.Const}
	case *VBoolType:
		return &core.BoolType{}
	case *VBool:
		return &core.BoolLit{Value: v.Value}
	case *VPi:
		dom := quote(depth, v.Dom)
		cod := quote(depth+1, v.Cod.apply(FreshNeutral(depth, v.Name)))
		return &core.Pi{Name: v.Name, Dom: dom, Cod: cod}
	case *VLam:
		dom := quote(depth, v.Dom)
		body := quote(depth+1, v.Body.apply(FreshNeutral(depth, v.Name)))
		return &core.Lam{Name: v.Name, Dom: dom, Body: body}
	case *VRecordTypeNil:
		return &core.RecordTypeNil{}
	case *VRecordType:
		field := quote(depth, v.Field)
		rest := quote(depth+1, v.Rest.apply(FreshNeutral(depth, v.Label)))
		return &core.RecordTypeCons{Label: v.Label, Type: field, Rest: rest}
	case *VRecordNil:
		return &core.RecordNil{}
	case *VRecord:
		field := quote(depth, v.Field)
		rest := quote(depth+1, v.Rest.apply(v.Field))
		return &core.RecordCons{Label: v.Label, Value: field, Rest: rest}
	case *VNeutral:
		return quoteNeutral(depth, v.N)
	}
	fault("cannot quote value %s", v)
	return nil
}

func quoteNeutral(depth int, n Neutral) core.Term {
	switch n := n.(type) {
	case *NVar:
		index := depth - 1 - n.Level
		if index < 0 {
			fault("neutral variable level %d escapes depth %d", n.Level, depth)
		}
		return &core.Var{Index: index, Name: n.Name}
	case *NApp:
		return &core.App{Fn: quoteNeutral(depth, n.Fn), Arg: quote(depth, n.Arg)}
	case *NProj:
		return &core.Proj{Term: quoteNeutral(depth, n.Rec), Label: n.Label}
	case *NIf:
		return &core.If{
			Cond: quoteNeutral(depth, n.Cond),
			Then: quote(depth, evalTerm(n.Env, n.Then)),
			Else: quote(depth, evalTerm(n.Env, n.Else)),
		}
	case *NCase:
		arms := make([]core.CaseArm, len(n.Arms))
		for i, arm := range n.Arms {
			binders := core.Binders(arm.Pattern)
			armEnv := n.Env
			for j := 0; j < binders; j++ {
				armEnv = armEnv.Extend(FreshNeutral(depth+j, ""))
			}
			arms[i] = core.CaseArm{
				Pattern: arm.Pattern,
				Body:    quote(depth+binders, evalTerm(armEnv, arm.Body)),
			}
		}
		return &core.Case{Scrutinee: quote(depth, n.Scrut), Arms: arms}
	}
	fault("cannot quote neutral %s", n)
	return nil
}

func convertible(depth int, a, b Value) bool {
	switch a := a.(type) {
	case *VUniverse:
		b, ok := b.(*VUniverse)
		return ok && a.Level == b.Level
	case *VPrim:
		b, ok := b.(*VPrim)
		return ok && a.Kind == b.Kind
	case *VLit:
		b, ok := b.(*VLit)
		return ok && a.Const.Equal(b.Const)
	case *VBoolType:
		_, ok := b.(*VBoolType)
		return ok
	case *VBool:
		b, ok := b.(*VBool)
		return ok && a.Value == b.Value
	case *VPi:
		b, ok := b.(*VPi)
		if !ok || !convertible(depth, a.Dom, b.Dom) {
			return false
		}
		fresh := FreshNeutral(depth, a.Name)
		return convertible(depth+1, a.Cod.apply(fresh), b.Cod.apply(fresh))
	case *VLam:
		b, ok := b.(*VLam)
		if !ok || !convertible(depth, a.Dom, b.Dom) {
			return false
		}
		fresh := FreshNeutral(depth, a.Name)
		return convertible(depth+1, a.Body.apply(fresh), b.Body.apply(fresh))
	case *VRecordTypeNil:
		_, ok := b.(*VRecordTypeNil)
		return ok
	case *VRecordType:
		b, ok := b.(*VRecordType)
		if !ok || a.Label != b.Label || !convertible(depth, a.Field, b.Field) {
			return false
		}
		fresh := FreshNeutral(depth, a.Label)
		return convertible(depth+1, a.Rest.apply(fresh), b.Rest.apply(fresh))
	case *VRecordNil:
		_, ok := b.(*VRecordNil)
		return ok
	case *VRecord:
		b, ok := b.(*VRecord)
		if !ok || a.Label != b.Label || !convertible(depth, a.Field, b.Field) {
			return false
		}
		return convertible(depth+1, a.Rest.apply(a.Field), b.Rest.apply(b.Field))
	case *VNeutral:
		b, ok := b.(*VNeutral)
		return ok && convertibleNeutral(depth, a.N, b.N)
	}
	return false
}

func convertibleNeutral(depth int, a, b Neutral) bool {
	switch a := a.(type) {
	case *NVar:
		b, ok := b.(*NVar)
		return ok && a.Level == b.Level
	case *NApp:
		b, ok := b.(*NApp)
		return ok && convertibleNeutral(depth, a.Fn, b.Fn) && convertible(depth, a.Arg, b.Arg)
	case *NProj:
		b, ok := b.(*NProj)
		return ok && a.Label == b.Label && convertibleNeutral(depth, a.Rec, b.Rec)
	case *NIf:
		b, ok := b.(*NIf)
		if !ok || !convertibleNeutral(depth, a.Cond, b.Cond) {
			return false
		}
		return convertible(depth, evalTerm(a.Env, a.Then), evalTerm(b.Env, b.Then)) &&
			convertible(depth, evalTerm(a.Env, a.Else), evalTerm(b.Env, b.Else))
	case *NCase:
		b, ok := b.(*NCase)
		if !ok || len(a.Arms) != len(b.Arms) || !convertible(depth, a.Scrut, b.Scrut) {
			return false
		}
		for i := range a.Arms {
			if !core.AlphaEqPattern(a.Arms[i].Pattern, b.Arms[i].Pattern) {
				return false
			}
			binders := core.Binders(a.Arms[i].Pattern)
			aEnv, bEnv := a.Env, b.Env
			for j := 0; j < binders; j++ {
				fresh := FreshNeutral(depth+j, "")
				aEnv = aEnv.Extend(fresh)
				bEnv = bEnv.Extend(fresh)
			}
			if !convertible(depth+binders, evalTerm(aEnv, a.Arms[i].Body), evalTerm(bEnv, b.Arms[i].Body)) {
				return false
			}
		}
		return true
	}
	return false
}
