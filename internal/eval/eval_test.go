package eval

import (
	"testing"

	"github.com/sunholo/deplang/internal/core"
)

func mustEval(t *testing.T, env *Env, term core.Term) Value {
	t.Helper()
	v, err := Eval(env, term)
	if err != nil {
		t.Fatalf("eval %s: %v", term, err)
	}
	return v
}

func mustQuote(t *testing.T, depth int, v Value) core.Term {
	t.Helper()
	q, err := Quote(depth, v)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	return q
}

func s32(v int64) core.Term {
	return &core.Lit{Const: core.Constant{Kind: core.PrimS32, Int: v}}
}

func TestEvalWHNFHeads(t *testing.T) {
	tests := []struct {
		name string
		term core.Term
		want string
	}{
		{"universe", &core.Universe{Level: 2}, "Type^2"},
		{"bool type", &core.BoolType{}, "Bool"},
		{"true", &core.BoolLit{Value: true}, "true"},
		{"literal", s32(7), "7"},
		{"prim", &core.Prim{Kind: core.PrimU64}, "U64"},
		{"empty record type", &core.RecordTypeNil{}, "Record {}"},
		{"empty record", &core.RecordNil{}, "record {}"},
		{"annotation discarded", &core.Ann{Term: &core.BoolLit{Value: true}, Type: &core.BoolType{}}, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustEval(t, nil, tt.term)
			if v.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, v.String())
			}
		})
	}
}

func TestBetaReduction(t *testing.T) {
	// (fun x : Bool => x) true
	id := &core.Lam{Name: "x", Dom: &core.BoolType{}, Body: &core.Var{Index: 0}}
	v := mustEval(t, nil, &core.App{Fn: id, Arg: &core.BoolLit{Value: true}})
	b, ok := v.(*VBool)
	if !ok || !b.Value {
		t.Fatalf("expected true, got %s", v)
	}
}

func TestClosureCapture(t *testing.T) {
	// (fun x : Bool => fun y : Bool => x) true false  ==>  true
	konst := &core.Lam{Name: "x", Dom: &core.BoolType{},
		Body: &core.Lam{Name: "y", Dom: &core.BoolType{}, Body: &core.Var{Index: 1}}}
	term := &core.App{
		Fn:  &core.App{Fn: konst, Arg: &core.BoolLit{Value: true}},
		Arg: &core.BoolLit{Value: false},
	}
	v := mustEval(t, nil, term)
	b, ok := v.(*VBool)
	if !ok || !b.Value {
		t.Fatalf("expected true, got %s", v)
	}
}

func TestIfReduction(t *testing.T) {
	term := &core.If{Cond: &core.BoolLit{Value: false}, Then: s32(1), Else: s32(2)}
	v := mustEval(t, nil, term)
	if v.String() != "2" {
		t.Fatalf("expected 2, got %s", v)
	}
}

func TestNeutralIf(t *testing.T) {
	// Under one claim b : Bool, `if b then 1 else 2` is stuck on b and
	// reads back as itself.
	env := (*Env)(nil).Extend(FreshNeutral(0, "b"))
	term := &core.If{Cond: &core.Var{Index: 0, Name: "b"}, Then: s32(1), Else: s32(2)}
	v := mustEval(t, env, term)
	if _, ok := v.(*VNeutral); !ok {
		t.Fatalf("expected a neutral, got %s", v)
	}
	q := mustQuote(t, 1, v)
	if !core.AlphaEq(q, term) {
		t.Errorf("readback changed the stuck if: %s", q)
	}
}

func TestNeutralApplicationSpine(t *testing.T) {
	// f true reads back with the variable at the right index
	env := (*Env)(nil).Extend(FreshNeutral(0, "f"))
	term := &core.App{Fn: &core.Var{Index: 0, Name: "f"}, Arg: &core.BoolLit{Value: true}}
	q := mustQuote(t, 1, mustEval(t, env, term))
	if !core.AlphaEq(q, term) {
		t.Errorf("expected %s, got %s", term, q)
	}
}

func recordXY() core.Term {
	// record { x = 1, y = 2 }
	return &core.RecordCons{Label: "x", Value: s32(1),
		Rest: &core.RecordCons{Label: "y", Value: s32(2), Rest: &core.RecordNil{}}}
}

func TestProjection(t *testing.T) {
	v := mustEval(t, nil, &core.Proj{Term: recordXY(), Label: "y"})
	if v.String() != "2" {
		t.Fatalf("expected 2, got %s", v)
	}
}

func TestProjectionNeutral(t *testing.T) {
	env := (*Env)(nil).Extend(FreshNeutral(0, "r"))
	term := &core.Proj{Term: &core.Var{Index: 0, Name: "r"}, Label: "x"}
	q := mustQuote(t, 1, mustEval(t, env, term))
	if !core.AlphaEq(q, term) {
		t.Errorf("expected %s, got %s", term, q)
	}
}

func TestCaseBooleanMatch(t *testing.T) {
	term := &core.Case{
		Scrutinee: &core.BoolLit{Value: false},
		Arms: []core.CaseArm{
			{Pattern: &core.PBool{Value: true}, Body: s32(1)},
			{Pattern: &core.PBool{Value: false}, Body: s32(0)},
		},
	}
	v := mustEval(t, nil, term)
	if v.String() != "0" {
		t.Fatalf("expected 0, got %s", v)
	}
}

func TestCaseVariableBinds(t *testing.T) {
	term := &core.Case{
		Scrutinee: s32(9),
		Arms: []core.CaseArm{
			{Pattern: &core.PVar{Name: "n"}, Body: &core.Var{Index: 0, Name: "n"}},
		},
	}
	v := mustEval(t, nil, term)
	if v.String() != "9" {
		t.Fatalf("expected 9, got %s", v)
	}
}

func TestCaseRecordPattern(t *testing.T) {
	// case record { x = 1, y = 2 } of { record { x = a, y = b } => a }
	term := &core.Case{
		Scrutinee: recordXY(),
		Arms: []core.CaseArm{
			{
				Pattern: &core.PRecord{Fields: []core.PField{
					{Label: "x", Pattern: &core.PVar{Name: "a"}},
					{Label: "y", Pattern: &core.PVar{Name: "b"}},
				}},
				// a is bound first, so under two binders it is index 1
				Body: &core.Var{Index: 1, Name: "a"},
			},
		},
	}
	v := mustEval(t, nil, term)
	if v.String() != "1" {
		t.Fatalf("expected 1, got %s", v)
	}
}

func TestCaseFirstMatchWins(t *testing.T) {
	term := &core.Case{
		Scrutinee: &core.BoolLit{Value: true},
		Arms: []core.CaseArm{
			{Pattern: &core.PVar{Name: "v"}, Body: s32(1)},
			{Pattern: &core.PBool{Value: true}, Body: s32(2)},
		},
	}
	v := mustEval(t, nil, term)
	if v.String() != "1" {
		t.Fatalf("expected the first arm, got %s", v)
	}
}

func TestCaseNoMatchFaults(t *testing.T) {
	term := &core.Case{
		Scrutinee: &core.BoolLit{Value: true},
		Arms: []core.CaseArm{
			{Pattern: &core.PBool{Value: false}, Body: s32(1)},
		},
	}
	if _, err := Eval(nil, term); err == nil {
		t.Fatal("expected an evaluation fault")
	}
}

func TestQuoteEtaLongRecords(t *testing.T) {
	q := mustQuote(t, 0, mustEval(t, nil, recordXY()))
	if !core.AlphaEq(q, recordXY()) {
		t.Errorf("record readback mismatch: %s", q)
	}
}

func TestQuoteLambda(t *testing.T) {
	id := &core.Lam{Name: "x", Dom: &core.BoolType{}, Body: &core.Var{Index: 0}}
	q := mustQuote(t, 0, mustEval(t, nil, id))
	if !core.AlphaEq(q, id) {
		t.Errorf("lambda readback mismatch: %s", q)
	}
}

func TestIdempotentNormalization(t *testing.T) {
	terms := []core.Term{
		&core.App{
			Fn:  &core.Lam{Name: "x", Dom: &core.BoolType{}, Body: &core.Var{Index: 0}},
			Arg: &core.BoolLit{Value: true},
		},
		recordXY(),
		&core.Pi{Name: "A", Dom: &core.Universe{}, Cod: &core.Var{Index: 0}},
	}
	for _, term := range terms {
		v1 := mustEval(t, nil, term)
		q1 := mustQuote(t, 0, v1)
		v2 := mustEval(t, nil, q1)
		q2 := mustQuote(t, 0, v2)
		if !core.AlphaEq(q1, q2) {
			t.Errorf("normalization not idempotent for %s: %s vs %s", term, q1, q2)
		}
	}
}

func TestConvertibleAgreesWithReadback(t *testing.T) {
	// Conversion by structural comparison must coincide with quoting both
	// sides and comparing for alpha-equivalence.
	id := &core.Lam{Name: "x", Dom: &core.BoolType{}, Body: &core.Var{Index: 0}}
	idEta := &core.Lam{Name: "y", Dom: &core.BoolType{}, Body: &core.Var{Index: 0, Name: "y"}}
	pairs := []struct {
		a, b core.Term
		want bool
	}{
		{id, idEta, true},
		{id, &core.Lam{Name: "x", Dom: &core.BoolType{}, Body: &core.BoolLit{Value: true}}, false},
		{&core.Universe{Level: 1}, &core.Universe{Level: 1}, true},
		{&core.Universe{Level: 1}, &core.Universe{Level: 2}, false},
		{recordXY(), recordXY(), true},
	}
	for _, tt := range pairs {
		va := mustEval(t, nil, tt.a)
		vb := mustEval(t, nil, tt.b)
		eq, err := Convertible(0, va, vb)
		if err != nil {
			t.Fatalf("convertible: %v", err)
		}
		if eq != tt.want {
			t.Errorf("Convertible(%s, %s) = %v, want %v", tt.a, tt.b, eq, tt.want)
		}
		qa := mustQuote(t, 0, va)
		qb := mustQuote(t, 0, vb)
		if core.AlphaEq(qa, qb) != eq {
			t.Errorf("conversion disagrees with readback for %s vs %s", tt.a, tt.b)
		}
	}
}

func TestEnvLookup(t *testing.T) {
	env := (*Env)(nil).Extend(&VBool{Value: true}).Extend(&VBool{Value: false})
	v, ok := env.Lookup(0)
	if !ok || v.String() != "false" {
		t.Fatalf("index 0: expected false, got %v", v)
	}
	v, ok = env.Lookup(1)
	if !ok || v.String() != "true" {
		t.Fatalf("index 1: expected true, got %v", v)
	}
	if _, ok := env.Lookup(2); ok {
		t.Fatal("index 2 should be out of range")
	}
	if env.Len() != 2 {
		t.Fatalf("expected len 2, got %d", env.Len())
	}
}
