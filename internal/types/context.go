// Package types implements the bidirectional checker: mutually recursive
// check and infer judgements over raw terms, elaborating them into core
// terms under a context of typing claims and definitions.
package types

import (
	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/eval"
)

// entry is one context slot: a claim x : V, optionally carrying a definition
type entry struct {
	name   string
	typ    eval.Value
	def    core.Term // nil for a bare claim
	hasDef bool
}

// Context is an ordered sequence of claims and definitions together with the
// parallel value environment used for evaluation. Claims bind a fresh
// neutral variable at their position; definitions bind the evaluated
// definiens. Extension is scoped: callers discard the returned context when
// leaving the binder.
type Context struct {
	entries []entry
	env     *eval.Env
}

// NewContext creates an empty context
func NewContext() *Context {
	return &Context{}
}

// Len returns the number of entries, which is also the current binder depth
func (c *Context) Len() int {
	return len(c.entries)
}

// Env returns the value environment, one value per entry
func (c *Context) Env() *eval.Env {
	return c.env
}

// Names returns the entry names, outermost first
func (c *Context) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Entry returns the i-th entry, outermost first
func (c *Context) Entry(i int) (name string, typ eval.Value, def core.Term, hasDef bool) {
	e := c.entries[i]
	return e.name, e.typ, e.def, e.hasDef
}

// LookupClaim finds the most recent claim for name, returning its de Bruijn
// index and type value
func (c *Context) LookupClaim(name string) (int, eval.Value, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].name == name {
			return len(c.entries) - 1 - i, c.entries[i].typ, true
		}
	}
	return 0, nil, false
}

// LookupDefinition finds the most recent definition for name
func (c *Context) LookupDefinition(name string) (core.Term, bool) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].name == name && c.entries[i].hasDef {
			return c.entries[i].def, true
		}
	}
	return nil, false
}

// ExtendClaim binds name : typ with a fresh neutral variable in the
// environment. The receiver is unchanged.
func (c *Context) ExtendClaim(name string, typ eval.Value) *Context {
	entries := append(c.entries[:len(c.entries):len(c.entries)], entry{name: name, typ: typ})
	return &Context{
		entries: entries,
		env:     c.env.Extend(eval.FreshNeutral(c.Len(), name)),
	}
}

// ExtendDefine binds name : typ = def with the evaluated definiens in the
// environment. The receiver is unchanged.
func (c *Context) ExtendDefine(name string, typ eval.Value, def core.Term, v eval.Value) *Context {
	entries := append(c.entries[:len(c.entries):len(c.entries)], entry{name: name, typ: typ, def: def, hasDef: true})
	return &Context{
		entries: entries,
		env:     c.env.Extend(v),
	}
}
