package core

// AlphaEq compares two core terms for alpha-equivalence. With de Bruijn
// indices this is plain structural equality; binder name hints are ignored.
func AlphaEq(a, b Term) bool {
	switch a := a.(type) {
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Index == b.Index
	case *Universe:
		b, ok := b.(*Universe)
		return ok && a.Level == b.Level
	case *Prim:
		b, ok := b.(*Prim)
		return ok && a.Kind == b.Kind
	case *Lit:
		b, ok := b.(*Lit)
		return ok && a.Const.Equal(b.Const)
	case *BoolType:
		_, ok := b.(*BoolType)
		return ok
	case *BoolLit:
		b, ok := b.(*BoolLit)
		return ok && a.Value == b.Value
	case *Ann:
		b, ok := b.(*Ann)
		return ok && AlphaEq(a.Term, b.Term) && AlphaEq(a.Type, b.Type)
	case *Pi:
		b, ok := b.(*Pi)
		return ok && AlphaEq(a.Dom, b.Dom) && AlphaEq(a.Cod, b.Cod)
	case *Lam:
		b, ok := b.(*Lam)
		return ok && AlphaEq(a.Dom, b.Dom) && AlphaEq(a.Body, b.Body)
	case *App:
		b, ok := b.(*App)
		return ok && AlphaEq(a.Fn, b.Fn) && AlphaEq(a.Arg, b.Arg)
	case *If:
		b, ok := b.(*If)
		return ok && AlphaEq(a.Cond, b.Cond) && AlphaEq(a.Then, b.Then) && AlphaEq(a.Else, b.Else)
	case *Case:
		b, ok := b.(*Case)
		if !ok || len(a.Arms) != len(b.Arms) || !AlphaEq(a.Scrutinee, b.Scrutinee) {
			return false
		}
		for i := range a.Arms {
			if !AlphaEqPattern(a.Arms[i].Pattern, b.Arms[i].Pattern) {
				return false
			}
			if !AlphaEq(a.Arms[i].Body, b.Arms[i].Body) {
				return false
			}
		}
		return true
	case *RecordTypeNil:
		_, ok := b.(*RecordTypeNil)
		return ok
	case *RecordTypeCons:
		b, ok := b.(*RecordTypeCons)
		return ok && a.Label == b.Label && AlphaEq(a.Type, b.Type) && AlphaEq(a.Rest, b.Rest)
	case *RecordNil:
		_, ok := b.(*RecordNil)
		return ok
	case *RecordCons:
		b, ok := b.(*RecordCons)
		return ok && a.Label == b.Label && AlphaEq(a.Value, b.Value) && AlphaEq(a.Rest, b.Rest)
	case *Proj:
		b, ok := b.(*Proj)
		return ok && a.Label == b.Label && AlphaEq(a.Term, b.Term)
	}
	return false
}

// AlphaEqPattern compares patterns structurally, ignoring variable names
// (a pattern variable is a binder; its name is a printing hint)
func AlphaEqPattern(a, b Pattern) bool {
	switch a := a.(type) {
	case *PVar:
		_, ok := b.(*PVar)
		return ok
	case *PBool:
		b, ok := b.(*PBool)
		return ok && a.Value == b.Value
	case *PRecord:
		b, ok := b.(*PRecord)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Label != b.Fields[i].Label {
				return false
			}
			if !AlphaEqPattern(a.Fields[i].Pattern, b.Fields[i].Pattern) {
				return false
			}
		}
		return true
	}
	return false
}
