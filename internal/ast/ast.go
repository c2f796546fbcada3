// Package ast defines the raw surface terms produced by the parser.
// Raw terms may contain holes and omitted annotations; the checker elaborates
// them into core terms (internal/core), which never do.
package ast

import (
	"fmt"
	"strings"
)

// Pos represents a position in the source code
type Pos struct {
	Line   int
	Column int
	File   string
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the base interface for all surface AST nodes
type Node interface {
	String() string
	Position() Pos
}

// Expr is a raw surface term
type Expr interface {
	Node
	exprNode()
}

// Var references a name bound in the surrounding context
type Var struct {
	Name string
	Pos  Pos
}

func (v *Var) String() string { return v.Name }
func (v *Var) Position() Pos  { return v.Pos }
func (v *Var) exprNode()      {}

// Universe is Type^i; Type alone is level 0
type Universe struct {
	Level int
	Pos   Pos
}

func (u *Universe) String() string {
	if u.Level == 0 {
		return "Type"
	}
	return fmt.Sprintf("Type^%d", u.Level)
}
func (u *Universe) Position() Pos { return u.Pos }
func (u *Universe) exprNode()     {}

// Hole is the ? placeholder; it never survives elaboration
type Hole struct {
	Pos Pos
}

func (h *Hole) String() string { return "?" }
func (h *Hole) Position() Pos  { return h.Pos }
func (h *Hole) exprNode()      {}

// LitKind classifies a surface literal before a type is assigned
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	StringLit
)

// Literal is a surface literal. Integer literals keep their magnitude and
// sign separately; the checker picks a width from the expected type.
type Literal struct {
	Kind     LitKind
	IntVal   uint64 // magnitude for IntLit
	Negative bool   // sign for IntLit
	FloatVal float64
	CharVal  rune
	StrVal   string
	Pos      Pos
}

func (l *Literal) String() string {
	switch l.Kind {
	case IntLit:
		if l.Negative {
			return fmt.Sprintf("-%d", l.IntVal)
		}
		return fmt.Sprintf("%d", l.IntVal)
	case FloatLit:
		return fmt.Sprintf("%g", l.FloatVal)
	case CharLit:
		return fmt.Sprintf("%q", l.CharVal)
	case StringLit:
		return fmt.Sprintf("%q", l.StrVal)
	}
	return "<literal>"
}
func (l *Literal) Position() Pos { return l.Pos }
func (l *Literal) exprNode()     {}
func (l *Literal) patternNode()  {}

// BoolType is the built-in Bool type
type BoolType struct {
	Pos Pos
}

func (b *BoolType) String() string { return "Bool" }
func (b *BoolType) Position() Pos  { return b.Pos }
func (b *BoolType) exprNode()      {}

// BoolLit is true or false
type BoolLit struct {
	Value bool
	Pos   Pos
}

func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BoolLit) Position() Pos { return b.Pos }
func (b *BoolLit) exprNode()     {}

// Ann is a type-annotated term e : T
type Ann struct {
	Term Expr
	Type Expr
	Pos  Pos
}

func (a *Ann) String() string { return fmt.Sprintf("%s : %s", a.Term, a.Type) }
func (a *Ann) Position() Pos  { return a.Pos }
func (a *Ann) exprNode()      {}

// Pi is the dependent function type (x : A) -> B. A non-dependent arrow
// A -> B parses with Name "_".
type Pi struct {
	Name string
	Dom  Expr
	Cod  Expr
	Pos  Pos
}

func (p *Pi) String() string {
	if p.Name == "_" || p.Name == "" {
		return fmt.Sprintf("%s -> %s", p.Dom, p.Cod)
	}
	return fmt.Sprintf("(%s : %s) -> %s", p.Name, p.Dom, p.Cod)
}
func (p *Pi) Position() Pos { return p.Pos }
func (p *Pi) exprNode()     {}

// Lambda is a single-binder function. Multi-binder surface lambdas are
// desugared by the parser before reaching the checker. Dom may be nil when
// the surface form omitted the annotation.
type Lambda struct {
	Name string
	Dom  Expr
	Body Expr
	Pos  Pos
}

func (l *Lambda) String() string {
	if l.Dom != nil {
		return fmt.Sprintf("fun %s : %s => %s", l.Name, l.Dom, l.Body)
	}
	return fmt.Sprintf("fun %s => %s", l.Name, l.Body)
}
func (l *Lambda) Position() Pos { return l.Pos }
func (l *Lambda) exprNode()     {}

// App is a single application; surface application chains are left-nested
type App struct {
	Fn  Expr
	Arg Expr
	Pos Pos
}

func (a *App) String() string { return fmt.Sprintf("(%s %s)", a.Fn, a.Arg) }
func (a *App) Position() Pos  { return a.Pos }
func (a *App) exprNode()      {}

// If is the boolean conditional
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (i *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}
func (i *If) Position() Pos { return i.Pos }
func (i *If) exprNode()     {}

// CaseArm is one pattern -> body arm
type CaseArm struct {
	Pattern Pattern
	Body    Expr
}

func (a CaseArm) String() string { return fmt.Sprintf("%s => %s", a.Pattern, a.Body) }

// Case scrutinizes a term against arms tried in declaration order
type Case struct {
	Scrutinee Expr
	Arms      []CaseArm
	Pos       Pos
}

func (c *Case) String() string {
	arms := make([]string, len(c.Arms))
	for i, a := range c.Arms {
		arms[i] = a.String()
	}
	return fmt.Sprintf("case %s of { %s }", c.Scrutinee, strings.Join(arms, ", "))
}
func (c *Case) Position() Pos { return c.Pos }
func (c *Case) exprNode()     {}

// TypeField is one labelled entry of a record type telescope. Later fields
// scope over earlier labels.
type TypeField struct {
	Doc  []string // doc comments, carried through for tooling
	Name string
	Type Expr
}

// RecordType is Record { l1 : A1, ... }; zero fields is the empty record type
type RecordType struct {
	Fields []TypeField
	Pos    Pos
}

func (r *RecordType) String() string {
	if len(r.Fields) == 0 {
		return "Record {}"
	}
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s : %s", f.Name, f.Type)
	}
	return fmt.Sprintf("Record { %s }", strings.Join(parts, ", "))
}
func (r *RecordType) Position() Pos { return r.Pos }
func (r *RecordType) exprNode()     {}

// TermField is one labelled entry of a record term
type TermField struct {
	Doc   []string
	Name  string
	Value Expr
}

// Record is record { l1 = e1, ... }; zero fields is the empty record
type Record struct {
	Fields []TermField
	Pos    Pos
}

func (r *Record) String() string {
	if len(r.Fields) == 0 {
		return "record {}"
	}
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Name, f.Value)
	}
	return fmt.Sprintf("record { %s }", strings.Join(parts, ", "))
}
func (r *Record) Position() Pos { return r.Pos }
func (r *Record) exprNode()     {}

// Proj is field projection e.l
type Proj struct {
	Term  Expr
	Label string
	Pos   Pos
}

func (p *Proj) String() string { return fmt.Sprintf("%s.%s", p.Term, p.Label) }
func (p *Proj) Position() Pos  { return p.Pos }
func (p *Proj) exprNode()      {}

// ListLit is the [e1, e2, ...] literal form. Arrays live at the data-model
// boundary; the checker currently rejects lists it cannot assign a type.
type ListLit struct {
	Elems []Expr
	Pos   Pos
}

func (l *ListLit) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
func (l *ListLit) Position() Pos { return l.Pos }
func (l *ListLit) exprNode()     {}
