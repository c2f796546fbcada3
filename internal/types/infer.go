package types

import (
	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/eval"
)

// Infer synthesizes the type value of a raw term, returning the type and the
// elaborated core term.
func Infer(ctx *Context, e ast.Expr) (eval.Value, core.Term, error) {
	switch e := e.(type) {
	case *ast.Ann:
		_, ty, err := inferUniverse(ctx, e.Type)
		if err != nil {
			return nil, nil, err
		}
		want, err := eval.Eval(ctx.Env(), ty)
		if err != nil {
			return nil, nil, err
		}
		t, err := Check(ctx, e.Term, want)
		if err != nil {
			return nil, nil, err
		}
		return want, &core.Ann{Term: t, Type: ty}, nil

	case *ast.Universe:
		return &eval.VUniverse{Level: e.Level + 1}, &core.Universe{Level: e.Level}, nil

	case *ast.BoolType:
		return &eval.VUniverse{Level: 0}, &core.BoolType{}, nil

	case *ast.BoolLit:
		return &eval.VBoolType{}, &core.BoolLit{Value: e.Value}, nil

	case *ast.Literal:
		return inferLiteral(e)

	case *ast.Var:
		if index, typ, ok := ctx.LookupClaim(e.Name); ok {
			return typ, &core.Var{Index: index, Name: e.Name}, nil
		}
		if kind, ok := core.PrimByName(e.Name); ok {
			return &eval.VUniverse{Level: 0}, &core.Prim{Kind: kind}, nil
		}
		return nil, nil, errUnbound(e.Pos, e.Name)

	case *ast.Pi:
		domLevel, dom, err := inferUniverse(ctx, e.Dom)
		if err != nil {
			return nil, nil, err
		}
		domV, err := eval.Eval(ctx.Env(), dom)
		if err != nil {
			return nil, nil, err
		}
		codLevel, cod, err := inferUniverse(ctx.ExtendClaim(e.Name, domV), e.Cod)
		if err != nil {
			return nil, nil, err
		}
		return &eval.VUniverse{Level: max(domLevel, codLevel)},
			&core.Pi{Name: e.Name, Dom: dom, Cod: cod}, nil

	case *ast.Lambda:
		if e.Dom == nil {
			return nil, nil, errAmbiguous(e.Pos, "an unannotated function")
		}
		_, dom, err := inferUniverse(ctx, e.Dom)
		if err != nil {
			return nil, nil, err
		}
		domV, err := eval.Eval(ctx.Env(), dom)
		if err != nil {
			return nil, nil, err
		}
		inner := ctx.ExtendClaim(e.Name, domV)
		bodyT, body, err := Infer(inner, e.Body)
		if err != nil {
			return nil, nil, err
		}
		// The codomain value is turned back into a term under the binder so
		// the resulting Pi closes over the current environment.
		cod, err := eval.Quote(inner.Len(), bodyT)
		if err != nil {
			return nil, nil, err
		}
		pi := &eval.VPi{
			Name: e.Name,
			Dom:  domV,
			Cod:  &eval.TermClosure{Env: ctx.Env(), Body: cod},
		}
		return pi, &core.Lam{Name: e.Name, Dom: dom, Body: body}, nil

	case *ast.App:
		fnT, fn, err := Infer(ctx, e.Fn)
		if err != nil {
			return nil, nil, err
		}
		pi, ok := fnT.(*eval.VPi)
		if !ok {
			return nil, nil, errNotFunction(ctx, e.Pos, fnT)
		}
		arg, err := Check(ctx, e.Arg, pi.Dom)
		if err != nil {
			return nil, nil, err
		}
		// The elaborated argument, not the raw one, is what flows into the
		// dependent codomain.
		argV, err := eval.Eval(ctx.Env(), arg)
		if err != nil {
			return nil, nil, err
		}
		resT, err := eval.AppClosure(pi.Cod, argV)
		if err != nil {
			return nil, nil, err
		}
		return resT, &core.App{Fn: fn, Arg: arg}, nil

	case *ast.If:
		cond, err := Check(ctx, e.Cond, &eval.VBoolType{})
		if err != nil {
			return nil, nil, err
		}
		thenT, then, err := Infer(ctx, e.Then)
		if err != nil {
			return nil, nil, err
		}
		els, err := Check(ctx, e.Else, thenT)
		if err != nil {
			return nil, nil, err
		}
		return thenT, &core.If{Cond: cond, Then: then, Else: els}, nil

	case *ast.RecordType:
		level, t, err := inferRecordType(ctx, e.Fields)
		if err != nil {
			return nil, nil, err
		}
		return &eval.VUniverse{Level: level}, t, nil

	case *ast.Record:
		if len(e.Fields) == 0 {
			return &eval.VRecordTypeNil{}, &core.RecordNil{}, nil
		}
		return nil, nil, errAmbiguous(e.Pos, "a record")

	case *ast.Proj:
		recT, rec, err := Infer(ctx, e.Term)
		if err != nil {
			return nil, nil, err
		}
		recV, err := eval.Eval(ctx.Env(), rec)
		if err != nil {
			return nil, nil, err
		}
		cur := recT
		for {
			switch t := cur.(type) {
			case *eval.VRecordType:
				if t.Label == e.Label {
					return t.Field, &core.Proj{Term: rec, Label: e.Label}, nil
				}
				// Downstream field types see the actual fields of this
				// record, not the bound names.
				fieldV, err := eval.Project(recV, t.Label)
				if err != nil {
					return nil, nil, err
				}
				cur, err = eval.AppClosure(t.Rest, fieldV)
				if err != nil {
					return nil, nil, err
				}
			case *eval.VRecordTypeNil:
				return nil, nil, errUnknownField(e.Pos, e.Label)
			default:
				return nil, nil, errNotRecord(ctx, e.Pos, recT)
			}
		}

	case *ast.Case:
		return nil, nil, errAmbiguous(e.Pos, "a case expression")

	case *ast.Hole:
		return nil, nil, errAmbiguous(e.Pos, "a hole")

	case *ast.ListLit:
		return nil, nil, errAmbiguous(e.Pos, "a list literal")
	}
	return nil, nil, errAmbiguous(e.Position(), "this term")
}

// inferUniverse infers a term that must be a type, returning its level
func inferUniverse(ctx *Context, e ast.Expr) (int, core.Term, error) {
	typ, t, err := Infer(ctx, e)
	if err != nil {
		return 0, nil, err
	}
	u, ok := typ.(*eval.VUniverse)
	if !ok {
		return 0, nil, errNotUniverse(ctx, e.Position(), typ)
	}
	return u.Level, t, nil
}

// inferRecordType elaborates a record type telescope; each field's type may
// mention the labels of the fields before it
func inferRecordType(ctx *Context, fields []ast.TypeField) (int, core.Term, error) {
	if len(fields) == 0 {
		return 0, &core.RecordTypeNil{}, nil
	}
	f := fields[0]
	fieldLevel, fieldT, err := inferUniverse(ctx, f.Type)
	if err != nil {
		return 0, nil, err
	}
	fieldV, err := eval.Eval(ctx.Env(), fieldT)
	if err != nil {
		return 0, nil, err
	}
	restLevel, rest, err := inferRecordType(ctx.ExtendClaim(f.Name, fieldV), fields[1:])
	if err != nil {
		return 0, nil, err
	}
	return max(fieldLevel, restLevel),
		&core.RecordTypeCons{Label: f.Name, Type: fieldT, Rest: rest}, nil
}

// inferLiteral assigns default types to the unambiguous literal classes.
// Integer literals alone are ambiguous; a surrounding annotation or
// application picks their width.
func inferLiteral(e *ast.Literal) (eval.Value, core.Term, error) {
	switch e.Kind {
	case ast.FloatLit:
		return &eval.VPrim{Kind: core.PrimF64},
			&core.Lit{Const: core.Constant{Kind: core.PrimF64, Float: e.FloatVal}}, nil
	case ast.CharLit:
		return &eval.VPrim{Kind: core.PrimChar},
			&core.Lit{Const: core.Constant{Kind: core.PrimChar, Char: e.CharVal}}, nil
	case ast.StringLit:
		return &eval.VPrim{Kind: core.PrimString},
			&core.Lit{Const: core.Constant{Kind: core.PrimString, Str: e.StrVal}}, nil
	default:
		return nil, nil, errAmbiguous(e.Pos, "an integer literal")
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
