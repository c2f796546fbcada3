package types

import (
	"fmt"

	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/eval"
)

// Check checks a raw term against an expected type value, returning the
// elaborated core term. Cases the checker cannot resolve are delegated to
// Infer and closed with the conversion judgement.
func Check(ctx *Context, e ast.Expr, expected eval.Value) (core.Term, error) {
	switch e := e.(type) {
	case *ast.Lambda:
		pi, ok := expected.(*eval.VPi)
		if !ok {
			// Fall through to C-CONV: an annotated lambda is reported as a
			// mismatch, an unannotated one as ambiguous by Infer.
			break
		}
		if e.Dom != nil {
			// An annotated domain must agree with the expected one.
			_, dom, err := inferUniverse(ctx, e.Dom)
			if err != nil {
				return nil, err
			}
			domV, err := eval.Eval(ctx.Env(), dom)
			if err != nil {
				return nil, err
			}
			eq, err := eval.Convertible(ctx.Len(), domV, pi.Dom)
			if err != nil {
				return nil, err
			}
			if !eq {
				return nil, errMismatch(ctx, e.Pos, pi.Dom, domV)
			}
		}
		inner := ctx.ExtendClaim(e.Name, pi.Dom)
		codT, err := eval.AppClosure(pi.Cod, eval.FreshNeutral(ctx.Len(), e.Name))
		if err != nil {
			return nil, err
		}
		body, err := Check(inner, e.Body, codT)
		if err != nil {
			return nil, err
		}
		dom, err := eval.Quote(ctx.Len(), pi.Dom)
		if err != nil {
			return nil, err
		}
		return &core.Lam{Name: e.Name, Dom: dom, Body: body}, nil

	case *ast.If:
		cond, err := Check(ctx, e.Cond, &eval.VBoolType{})
		if err != nil {
			return nil, err
		}
		then, err := Check(ctx, e.Then, expected)
		if err != nil {
			return nil, err
		}
		els, err := Check(ctx, e.Else, expected)
		if err != nil {
			return nil, err
		}
		return &core.If{Cond: cond, Then: then, Else: els}, nil

	case *ast.Case:
		scrutT, scrut, err := Infer(ctx, e.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms := make([]core.CaseArm, len(e.Arms))
		for i, arm := range e.Arms {
			pat, inner, _, err := checkPattern(ctx, arm.Pattern, scrutT)
			if err != nil {
				return nil, err
			}
			body, err := Check(inner, arm.Body, expected)
			if err != nil {
				return nil, err
			}
			arms[i] = core.CaseArm{Pattern: pat, Body: body}
		}
		return &core.Case{Scrutinee: scrut, Arms: arms}, nil

	case *ast.Record:
		switch expected.(type) {
		case *eval.VRecordType, *eval.VRecordTypeNil:
			return checkRecord(ctx, e.Pos, e.Fields, expected)
		default:
			return nil, errNotRecord(ctx, e.Pos, expected)
		}

	case *ast.Literal:
		if prim, ok := expected.(*eval.VPrim); ok {
			c, err := checkLiteral(ctx, e, prim.Kind)
			if err != nil {
				return nil, err
			}
			return &core.Lit{Const: c}, nil
		}
	}

	// C-CONV: infer and compare up to definitional equality.
	found, t, err := Infer(ctx, e)
	if err != nil {
		return nil, err
	}
	eq, err := eval.Convertible(ctx.Len(), expected, found)
	if err != nil {
		return nil, err
	}
	if !eq {
		return nil, errMismatch(ctx, e.Position(), expected, found)
	}
	return t, nil
}

// checkRecord checks record fields against a record type telescope. Each
// checked field is bound as a definition so later fields and later field
// types see its value.
func checkRecord(ctx *Context, pos ast.Pos, fields []ast.TermField, expected eval.Value) (core.Term, error) {
	switch ex := expected.(type) {
	case *eval.VRecordTypeNil:
		if len(fields) > 0 {
			return nil, errUnknownField(pos, fields[0].Name)
		}
		return &core.RecordNil{}, nil
	case *eval.VRecordType:
		if len(fields) == 0 {
			return nil, errMissingField(pos, ex.Label)
		}
		f := fields[0]
		if f.Name != ex.Label {
			return nil, errFieldOrder(pos, ex.Label, f.Name)
		}
		value, err := Check(ctx, f.Value, ex.Field)
		if err != nil {
			return nil, err
		}
		fieldV, err := eval.Eval(ctx.Env(), value)
		if err != nil {
			return nil, err
		}
		tail, err := eval.AppClosure(ex.Rest, fieldV)
		if err != nil {
			return nil, err
		}
		inner := ctx.ExtendDefine(f.Name, ex.Field, value, fieldV)
		rest, err := checkRecord(inner, pos, fields[1:], tail)
		if err != nil {
			return nil, err
		}
		return &core.RecordCons{Label: f.Name, Value: value, Rest: rest}, nil
	default:
		return nil, errNotRecord(ctx, pos, expected)
	}
}

// checkPattern checks a pattern against the scrutinee type, binding pattern
// variables as claims. It also returns the value the pattern stands for,
// used to open dependent record tails.
func checkPattern(ctx *Context, p ast.Pattern, typ eval.Value) (core.Pattern, *Context, eval.Value, error) {
	switch p := p.(type) {
	case *ast.PatternVar:
		v := eval.FreshNeutral(ctx.Len(), p.Name)
		return &core.PVar{Name: p.Name}, ctx.ExtendClaim(p.Name, typ), v, nil

	case *ast.PatternBool:
		if _, ok := typ.(*eval.VBoolType); !ok {
			return nil, nil, nil, errPattern(ctx, p.Pos, p.String(), typ)
		}
		return &core.PBool{Value: p.Value}, ctx, &eval.VBool{Value: p.Value}, nil

	case *ast.PatternRecord:
		labels := make([]string, 0, len(p.Fields))
		values := make([]eval.Value, 0, len(p.Fields))
		fields := make([]core.PField, 0, len(p.Fields))
		cur := typ
		for _, f := range p.Fields {
			rt, ok := cur.(*eval.VRecordType)
			if !ok {
				return nil, nil, nil, errPattern(ctx, p.Pos, p.String(), typ)
			}
			if rt.Label != f.Name {
				return nil, nil, nil, errPattern(ctx, p.Pos, p.String(), typ)
			}
			sub, inner, v, err := checkPattern(ctx, f.Pattern, rt.Field)
			if err != nil {
				return nil, nil, nil, err
			}
			ctx = inner
			fields = append(fields, core.PField{Label: f.Name, Pattern: sub})
			labels = append(labels, f.Name)
			values = append(values, v)
			cur, err = eval.AppClosure(rt.Rest, v)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		if _, ok := cur.(*eval.VRecordTypeNil); !ok {
			return nil, nil, nil, errPattern(ctx, p.Pos, p.String(), typ)
		}
		return &core.PRecord{Fields: fields}, ctx, recordValue(labels, values, 0), nil
	}
	return nil, nil, nil, errPattern(ctx, p.Position(), p.String(), typ)
}

// recordValue rebuilds the record value a record pattern denotes from its
// sub-pattern values
func recordValue(labels []string, values []eval.Value, i int) eval.Value {
	if i == len(labels) {
		return &eval.VRecordNil{}
	}
	return &eval.VRecord{
		Label: labels[i],
		Field: values[i],
		Rest: eval.FnClosure(func(eval.Value) eval.Value {
			return recordValue(labels, values, i+1)
		}),
	}
}

// checkLiteral validates a literal against a primitive type, producing the
// tagged constant
func checkLiteral(ctx *Context, e *ast.Literal, kind core.PrimKind) (core.Constant, error) {
	none := core.Constant{}
	switch e.Kind {
	case ast.IntLit:
		switch {
		case kind.IsUnsigned():
			if e.Negative {
				return none, errLiteral(e.Pos, fmt.Sprintf("negative literal for unsigned type %s", kind.Name()))
			}
			if !core.FitsUnsigned(kind, e.IntVal) {
				return none, errLiteral(e.Pos, fmt.Sprintf("literal %d does not fit %s", e.IntVal, kind.Name()))
			}
			return core.Constant{Kind: kind, Uint: e.IntVal}, nil
		case kind.IsSigned():
			if !core.FitsSigned(kind, e.IntVal, e.Negative) {
				return none, errLiteral(e.Pos, fmt.Sprintf("literal %s does not fit %s", e, kind.Name()))
			}
			v := int64(e.IntVal)
			if e.Negative {
				v = -v
			}
			return core.Constant{Kind: kind, Int: v}, nil
		default:
			return none, errMismatch(ctx, e.Pos, &eval.VPrim{Kind: kind}, defaultLiteralType(e))
		}
	case ast.FloatLit:
		if kind.IsFloat() {
			return core.Constant{Kind: kind, Float: e.FloatVal}, nil
		}
		return none, errMismatch(ctx, e.Pos, &eval.VPrim{Kind: kind}, defaultLiteralType(e))
	case ast.CharLit:
		if kind == core.PrimChar {
			return core.Constant{Kind: core.PrimChar, Char: e.CharVal}, nil
		}
		return none, errMismatch(ctx, e.Pos, &eval.VPrim{Kind: kind}, defaultLiteralType(e))
	default: // ast.StringLit
		if kind == core.PrimString {
			return core.Constant{Kind: core.PrimString, Str: e.StrVal}, nil
		}
		return none, errMismatch(ctx, e.Pos, &eval.VPrim{Kind: kind}, defaultLiteralType(e))
	}
}

// defaultLiteralType names the literal's own class for mismatch reporting
func defaultLiteralType(e *ast.Literal) eval.Value {
	switch e.Kind {
	case ast.FloatLit:
		return &eval.VPrim{Kind: core.PrimF64}
	case ast.CharLit:
		return &eval.VPrim{Kind: core.PrimChar}
	case ast.StringLit:
		return &eval.VPrim{Kind: core.PrimString}
	default:
		return &eval.VPrim{Kind: core.PrimS64}
	}
}
