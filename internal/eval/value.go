// Package eval implements normalization by evaluation: core terms evaluate
// into weak-head normal values whose binder bodies are suspended in closures,
// and values read back into core terms for display and equality.
package eval

import (
	"fmt"

	"github.com/sunholo/deplang/internal/core"
)

// Value is a weak-head normal form or a neutral computation
type Value interface {
	Type() string
	String() string
	value()
}

// VUniverse is Type_i
type VUniverse struct {
	Level int
}

func (v *VUniverse) value()       {}
func (v *VUniverse) Type() string { return "universe" }
func (v *VUniverse) String() string {
	if v.Level == 0 {
		return "Type"
	}
	return fmt.Sprintf("Type^%d", v.Level)
}

// VPrim is a built-in literal type constant
type VPrim struct {
	Kind core.PrimKind
}

func (v *VPrim) value()         {}
func (v *VPrim) Type() string   { return "prim" }
func (v *VPrim) String() string { return v.Kind.Name() }

// VLit is a literal constant
type VLit struct {
	Const core.Constant
}

func (v *VLit) value()         {}
func (v *VLit) Type() string   { return "literal" }
func (v *VLit) String() string { return v.Const.String() }

// VBoolType is the Bool type
type VBoolType struct{}

func (v *VBoolType) value()         {}
func (v *VBoolType) Type() string   { return "bool-type" }
func (v *VBoolType) String() string { return "Bool" }

// VBool is true or false
type VBool struct {
	Value bool
}

func (v *VBool) value()       {}
func (v *VBool) Type() string { return "bool" }
func (v *VBool) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// VPi is a dependent function type with an evaluated domain and a suspended
// codomain
type VPi struct {
	Name string
	Dom  Value
	Cod  Closure
}

func (v *VPi) value()         {}
func (v *VPi) Type() string   { return "pi" }
func (v *VPi) String() string { return fmt.Sprintf("(%s : %s) -> <closure>", v.Name, v.Dom) }

// VLam is a function value
type VLam struct {
	Name string
	Dom  Value
	Body Closure
}

func (v *VLam) value()         {}
func (v *VLam) Type() string   { return "lambda" }
func (v *VLam) String() string { return fmt.Sprintf("fun %s => <closure>", v.Name) }

// VRecordTypeNil is the empty record type
type VRecordTypeNil struct{}

func (v *VRecordTypeNil) value()         {}
func (v *VRecordTypeNil) Type() string   { return "record-type" }
func (v *VRecordTypeNil) String() string { return "Record {}" }

// VRecordType is a record type telescope head; Rest is opened against the
// value eventually stored at Label
type VRecordType struct {
	Label string
	Field Value
	Rest  Closure
}

func (v *VRecordType) value()       {}
func (v *VRecordType) Type() string { return "record-type" }
func (v *VRecordType) String() string {
	return fmt.Sprintf("Record { %s : %s, ... }", v.Label, v.Field)
}

// VRecordNil is the empty record
type VRecordNil struct{}

func (v *VRecordNil) value()         {}
func (v *VRecordNil) Type() string   { return "record" }
func (v *VRecordNil) String() string { return "record {}" }

// VRecord is a record head; Rest is opened against Field
type VRecord struct {
	Label string
	Field Value
	Rest  Closure
}

func (v *VRecord) value()       {}
func (v *VRecord) Type() string { return "record" }
func (v *VRecord) String() string {
	return fmt.Sprintf("record { %s = %s, ... }", v.Label, v.Field)
}

// VNeutral is a computation stuck on a free variable
type VNeutral struct {
	N Neutral
}

func (v *VNeutral) value()         {}
func (v *VNeutral) Type() string   { return "neutral" }
func (v *VNeutral) String() string { return v.N.String() }

// Neutral is a free variable together with the eliminations applied to it
type Neutral interface {
	String() string
	neutral()
}

// NVar is a free variable identified by its de Bruijn level
type NVar struct {
	Level int
	Name  string // printing hint only
}

func (n *NVar) neutral() {}
func (n *NVar) String() string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("@%d", n.Level)
}

// NApp is a neutral applied to an argument
type NApp struct {
	Fn  Neutral
	Arg Value
}

func (n *NApp) neutral()       {}
func (n *NApp) String() string { return fmt.Sprintf("(%s %s)", n.Fn, n.Arg) }

// NIf is a conditional stuck on its scrutinee; the branches stay as
// un-evaluated core terms under the captured environment
type NIf struct {
	Cond Neutral
	Then core.Term
	Else core.Term
	Env  *Env
}

func (n *NIf) neutral()       {}
func (n *NIf) String() string { return fmt.Sprintf("if %s then ... else ...", n.Cond) }

// NCase is a case stuck on its scrutinee. The scrutinee is a value rather
// than a bare neutral: discrimination can also block on a neutral buried
// inside a record head.
type NCase struct {
	Scrut Value
	Arms  []core.CaseArm
	Env   *Env
}

func (n *NCase) neutral()       {}
func (n *NCase) String() string { return fmt.Sprintf("case %s of { ... }", n.Scrut) }

// NProj is a projection stuck on its record
type NProj struct {
	Rec   Neutral
	Label string
}

func (n *NProj) neutral()       {}
func (n *NProj) String() string { return fmt.Sprintf("%s.%s", n.Rec, n.Label) }

// FreshNeutral returns the neutral variable at the given level
func FreshNeutral(level int, name string) Value {
	return &VNeutral{N: &NVar{Level: level, Name: name}}
}

// Closure is a suspended binder body: invoking it supplies the value for the
// one variable the body is waiting on.
type Closure interface {
	apply(v Value) Value
}

// TermClosure captures an environment plus a core term body; invoking it
// evaluates the body under the environment extended with the argument.
type TermClosure struct {
	Env  *Env
	Body core.Term
}

func (c *TermClosure) apply(v Value) Value {
	return evalTerm(c.Env.Extend(v), c.Body)
}

// FnClosure is a host-function closure, used where a value must be
// synthesized without a core term (pattern typing). It must
// stay observationally equivalent to a TermClosure.
type FnClosure func(v Value) Value

func (c FnClosure) apply(v Value) Value { return c(v) }
