package core

import (
	"fmt"
	"strings"
)

// Pretty renders a closed core term with surface syntax, resolving de Bruijn
// indices back to binder names. Shadowed or missing hints are freshened with
// a prime so the output stays unambiguous.
func Pretty(t Term) string {
	return PrettyUnder(nil, t)
}

// PrettyUnder renders a term whose free indices refer to names, innermost
// binder first.
func PrettyUnder(names []string, t Term) string {
	return prettyPrec(names, t, precAnn)
}

const (
	precAnn = iota // e : T
	precArrow
	precApp
	precAtom
)

func freshen(names []string, hint string) string {
	if hint == "" || hint == "_" {
		hint = "x"
	}
	name := hint
	for contains(names, name) {
		name += "'"
	}
	return name
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func prettyPrec(names []string, t Term, prec int) string {
	switch t := t.(type) {
	case *Var:
		if t.Index < len(names) {
			return names[len(names)-1-t.Index]
		}
		return t.String()
	case *Universe:
		return t.String()
	case *Prim:
		return t.Kind.Name()
	case *Lit:
		return t.Const.String()
	case *BoolType:
		return "Bool"
	case *BoolLit:
		return t.String()
	case *Ann:
		s := fmt.Sprintf("%s : %s",
			prettyPrec(names, t.Term, precArrow),
			prettyPrec(names, t.Type, precAnn))
		return paren(prec > precAnn, s)
	case *Pi:
		var s string
		if usesBinder(t.Cod, 0) {
			name := freshen(names, t.Name)
			s = fmt.Sprintf("(%s : %s) -> %s",
				name,
				prettyPrec(names, t.Dom, precAnn),
				prettyPrec(append(names, name), t.Cod, precArrow))
		} else {
			s = fmt.Sprintf("%s -> %s",
				prettyPrec(names, t.Dom, precApp),
				prettyPrec(append(names, "_"), t.Cod, precArrow))
		}
		return paren(prec > precArrow, s)
	case *Lam:
		name := freshen(names, t.Name)
		s := fmt.Sprintf("fun %s : %s => %s",
			name,
			prettyPrec(names, t.Dom, precAnn),
			prettyPrec(append(names, name), t.Body, precAnn))
		return paren(prec > precAnn, s)
	case *App:
		s := fmt.Sprintf("%s %s",
			prettyPrec(names, t.Fn, precApp),
			prettyPrec(names, t.Arg, precAtom))
		return paren(prec > precApp, s)
	case *If:
		s := fmt.Sprintf("if %s then %s else %s",
			prettyPrec(names, t.Cond, precApp),
			prettyPrec(names, t.Then, precApp),
			prettyPrec(names, t.Else, precAnn))
		return paren(prec > precAnn, s)
	case *Case:
		arms := make([]string, len(t.Arms))
		for i, arm := range t.Arms {
			armNames := names
			for _, n := range patternNames(arm.Pattern) {
				armNames = append(armNames, freshen(armNames, n))
			}
			arms[i] = fmt.Sprintf("%s => %s",
				prettyPattern(arm.Pattern),
				prettyPrec(armNames, arm.Body, precAnn))
		}
		s := fmt.Sprintf("case %s of { %s }",
			prettyPrec(names, t.Scrutinee, precApp),
			strings.Join(arms, ", "))
		return paren(prec > precAnn, s)
	case *RecordTypeNil:
		return "Record {}"
	case *RecordTypeCons:
		fields := []string{}
		cur := Term(t)
		for {
			cons, ok := cur.(*RecordTypeCons)
			if !ok {
				break
			}
			name := freshen(names, cons.Label)
			fields = append(fields, fmt.Sprintf("%s : %s", cons.Label, prettyPrec(names, cons.Type, precAnn)))
			names = append(names, name)
			cur = cons.Rest
		}
		return fmt.Sprintf("Record { %s }", strings.Join(fields, ", "))
	case *RecordNil:
		return "record {}"
	case *RecordCons:
		fields := []string{}
		cur := Term(t)
		for {
			cons, ok := cur.(*RecordCons)
			if !ok {
				break
			}
			name := freshen(names, cons.Label)
			fields = append(fields, fmt.Sprintf("%s = %s", cons.Label, prettyPrec(names, cons.Value, precAnn)))
			names = append(names, name)
			cur = cons.Rest
		}
		return fmt.Sprintf("record { %s }", strings.Join(fields, ", "))
	case *Proj:
		return fmt.Sprintf("%s.%s", prettyPrec(names, t.Term, precAtom), t.Label)
	}
	return t.String()
}

func paren(need bool, s string) string {
	if need {
		return "(" + s + ")"
	}
	return s
}

func prettyPattern(p Pattern) string {
	return p.String()
}

// patternNames lists binder hints of a pattern, left to right
func patternNames(p Pattern) []string {
	switch p := p.(type) {
	case *PVar:
		return []string{p.Name}
	case *PRecord:
		var names []string
		for _, f := range p.Fields {
			names = append(names, patternNames(f.Pattern)...)
		}
		return names
	}
	return nil
}

// usesBinder reports whether index occurs free in t
func usesBinder(t Term, index int) bool {
	switch t := t.(type) {
	case *Var:
		return t.Index == index
	case *Universe, *Prim, *Lit, *BoolType, *BoolLit, *RecordTypeNil, *RecordNil:
		return false
	case *Ann:
		return usesBinder(t.Term, index) || usesBinder(t.Type, index)
	case *Pi:
		return usesBinder(t.Dom, index) || usesBinder(t.Cod, index+1)
	case *Lam:
		return usesBinder(t.Dom, index) || usesBinder(t.Body, index+1)
	case *App:
		return usesBinder(t.Fn, index) || usesBinder(t.Arg, index)
	case *If:
		return usesBinder(t.Cond, index) || usesBinder(t.Then, index) || usesBinder(t.Else, index)
	case *Case:
		if usesBinder(t.Scrutinee, index) {
			return true
		}
		for _, arm := range t.Arms {
			if usesBinder(arm.Body, index+Binders(arm.Pattern)) {
				return true
			}
		}
		return false
	case *RecordTypeCons:
		return usesBinder(t.Type, index) || usesBinder(t.Rest, index+1)
	case *RecordCons:
		return usesBinder(t.Value, index) || usesBinder(t.Rest, index+1)
	case *Proj:
		return usesBinder(t.Term, index)
	}
	return false
}
