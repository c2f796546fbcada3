package eval

import (
	"fmt"

	"github.com/sunholo/deplang/internal/core"
)

// evalFault is the panic payload for the rare runtime faults a well-typed
// term cannot produce (unmatched case, projection from a non-record). The
// exported entry points recover it into an ordinary error so the core never
// throws across its API boundary.
type evalFault struct {
	msg string
}

func fault(format string, args ...any) {
	panic(&evalFault{msg: fmt.Sprintf(format, args...)})
}

func recoverFault(err *error) {
	if r := recover(); r != nil {
		if f, ok := r.(*evalFault); ok {
			*err = fmt.Errorf("evaluation fault: %s", f.msg)
			return
		}
		panic(r)
	}
}

// Eval normalizes a core term to a value under the given environment
func Eval(env *Env, t core.Term) (v Value, err error) {
	defer recoverFault(&err)
	return evalTerm(env, t), nil
}

// Apply applies a function value to an argument
func Apply(fn Value, arg Value) (v Value, err error) {
	defer recoverFault(&err)
	return applyValue(fn, arg), nil
}

// AppClosure opens a closure against a value
func AppClosure(c Closure, arg Value) (v Value, err error) {
	defer recoverFault(&err)
	return c.apply(arg), nil
}

// Project projects the field at label out of a record value
func Project(rec Value, label string) (v Value, err error) {
	defer recoverFault(&err)
	return projectValue(rec, label), nil
}

// evalTerm is the evaluator proper, one rule per core constructor
func evalTerm(env *Env, t core.Term) Value {
	switch t := t.(type) {
	case *core.Var:
		v, ok := env.Lookup(t.Index)
		if !ok {
			fault("variable %s out of scope at depth %d", t, env.Len())
		}
		return v
	case *core.Universe:
		return &VUniverse{Level: t.Level}
	case *core.Prim:
		return &VPrim{Kind: t.Kind}
	case *core.Lit:
		return &VLit{Const: t.Const}
	case *core.BoolType:
		return &VBoolType{}
	case *core.BoolLit:
		return &VBool{Value: t.Value}
	case *core.Ann:
		return evalTerm(env, t.Term)
	case *core.Pi:
		return &VPi{
			Name: t.Name,
			Dom:  evalTerm(env, t.Dom),
			Cod:  &TermClosure{Env: env, Body: t.Cod},
		}
	case *core.Lam:
		return &VLam{
			Name: t.Name,
			Dom:  evalTerm(env, t.Dom),
			Body: &TermClosure{Env: env, Body: t.Body},
		}
	case *core.App:
		fn := evalTerm(env, t.Fn)
		arg := evalTerm(env, t.Arg)
		return applyValue(fn, arg)
	case *core.If:
		switch cond := evalTerm(env, t.Cond).(type) {
		case *VBool:
			if cond.Value {
				return evalTerm(env, t.Then)
			}
			return evalTerm(env, t.Else)
		case *VNeutral:
			return &VNeutral{N: &NIf{Cond: cond.N, Then: t.Then, Else: t.Else, Env: env}}
		default:
			fault("if scrutinee is not a boolean: %s", cond)
		}
	case *core.Case:
		scrut := evalTerm(env, t.Scrutinee)
		if _, ok := scrut.(*VNeutral); ok {
			return &VNeutral{N: &NCase{Scrut: scrut, Arms: t.Arms, Env: env}}
		}
		return evalCase(env, scrut, t.Arms)
	case *core.RecordTypeNil:
		return &VRecordTypeNil{}
	case *core.RecordTypeCons:
		return &VRecordType{
			Label: t.Label,
			Field: evalTerm(env, t.Type),
			Rest:  &TermClosure{Env: env, Body: t.Rest},
		}
	case *core.RecordNil:
		return &VRecordNil{}
	case *core.RecordCons:
		return &VRecord{
			Label: t.Label,
			Field: evalTerm(env, t.Value),
			Rest:  &TermClosure{Env: env, Body: t.Rest},
		}
	case *core.Proj:
		return projectValue(evalTerm(env, t.Term), t.Label)
	}
	fault("cannot evaluate term %s", t)
	return nil
}

func applyValue(fn Value, arg Value) Value {
	switch fn := fn.(type) {
	case *VLam:
		return fn.Body.apply(arg)
	case *VNeutral:
		return &VNeutral{N: &NApp{Fn: fn.N, Arg: arg}}
	default:
		fault("applied a non-function value: %s", fn)
		return nil
	}
}

func projectValue(rec Value, label string) Value {
	for {
		switch r := rec.(type) {
		case *VRecord:
			if r.Label == label {
				return r.Field
			}
			rec = r.Rest.apply(r.Field)
		case *VNeutral:
			return &VNeutral{N: &NProj{Rec: r.N, Label: label}}
		default:
			fault("projected .%s from a non-record value: %s", label, rec)
			return nil
		}
	}
}

// matchOutcome distinguishes an arm that fails (try the next one) from one
// stuck on a neutral sub-value (the whole case is neutral)
type matchOutcome int

const (
	matched matchOutcome = iota
	failed
	stuck
)

// evalCase tries arms in declaration order against a WHNF scrutinee
func evalCase(env *Env, scrut Value, arms []core.CaseArm) Value {
	for _, arm := range arms {
		bound, outcome := matchPattern(arm.Pattern, scrut, nil)
		switch outcome {
		case matched:
			armEnv := env
			for _, v := range bound {
				armEnv = armEnv.Extend(v)
			}
			return evalTerm(armEnv, arm.Body)
		case stuck:
			// A neutral buried in the scrutinee blocks discrimination.
			return &VNeutral{N: &NCase{Scrut: scrut, Arms: arms, Env: env}}
		}
	}
	fault("no case arm matched %s", scrut)
	return nil
}

// matchPattern matches a pattern against a WHNF, accumulating bindings for
// pattern variables left to right
func matchPattern(p core.Pattern, v Value, bound []Value) ([]Value, matchOutcome) {
	switch p := p.(type) {
	case *core.PVar:
		return append(bound, v), matched
	case *core.PBool:
		switch v := v.(type) {
		case *VBool:
			if v.Value == p.Value {
				return bound, matched
			}
			return bound, failed
		default:
			return bound, stuck
		}
	case *core.PRecord:
		rec := v
		for _, f := range p.Fields {
			r, ok := rec.(*VRecord)
			if !ok {
				if _, isNil := rec.(*VRecordNil); isNil {
					return bound, failed
				}
				return bound, stuck
			}
			if r.Label != f.Label {
				return bound, failed
			}
			var outcome matchOutcome
			bound, outcome = matchPattern(f.Pattern, r.Field, bound)
			if outcome != matched {
				return bound, outcome
			}
			rec = r.Rest.apply(r.Field)
		}
		switch rec.(type) {
		case *VRecordNil:
			return bound, matched
		case *VRecord:
			return bound, failed
		default:
			return bound, stuck
		}
	}
	return bound, failed
}
