package types

import (
	"fmt"

	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/errors"
	"github.com/sunholo/deplang/internal/eval"
)

const phase = "typecheck"

func errUnbound(pos ast.Pos, name string) error {
	return errors.WithData(errors.TC001, phase,
		fmt.Sprintf("unbound variable %s", name), &pos,
		map[string]any{"name": name})
}

// errMismatch reports the C-CONV failure, carrying both types after readback
// so downstream rendering can show them
func errMismatch(ctx *Context, pos ast.Pos, expected, found eval.Value) error {
	want := render(ctx, expected)
	got := render(ctx, found)
	return errors.WithData(errors.TC002, phase,
		fmt.Sprintf("type mismatch: expected %s, found %s", want, got), &pos,
		map[string]any{"expected": want, "found": got})
}

func errNotFunction(ctx *Context, pos ast.Pos, found eval.Value) error {
	got := render(ctx, found)
	return errors.WithData(errors.TC003, phase,
		fmt.Sprintf("expected a function type, found %s", got), &pos,
		map[string]any{"found": got})
}

func errNotRecord(ctx *Context, pos ast.Pos, found eval.Value) error {
	got := render(ctx, found)
	return errors.WithData(errors.TC004, phase,
		fmt.Sprintf("expected a record type, found %s", got), &pos,
		map[string]any{"found": got})
}

func errUnknownField(pos ast.Pos, label string) error {
	return errors.WithData(errors.TC005, phase,
		fmt.Sprintf("unknown field %s", label), &pos,
		map[string]any{"label": label})
}

func errMissingField(pos ast.Pos, label string) error {
	return errors.WithData(errors.TC005, phase,
		fmt.Sprintf("missing field %s", label), &pos,
		map[string]any{"label": label})
}

func errFieldOrder(pos ast.Pos, want, got string) error {
	return errors.WithData(errors.TC006, phase,
		fmt.Sprintf("field order mismatch: expected %s, found %s", want, got), &pos,
		map[string]any{"expected": want, "found": got})
}

func errNotUniverse(ctx *Context, pos ast.Pos, found eval.Value) error {
	got := render(ctx, found)
	return errors.WithData(errors.TC007, phase,
		fmt.Sprintf("expected a universe, found %s", got), &pos,
		map[string]any{"found": got})
}

func errAmbiguous(pos ast.Pos, what string) error {
	return errors.New(errors.TC008, phase,
		fmt.Sprintf("cannot infer a type for %s without an annotation", what), &pos)
}

func errPattern(ctx *Context, pos ast.Pos, what string, scrutinee eval.Value) error {
	got := render(ctx, scrutinee)
	return errors.WithData(errors.TC009, phase,
		fmt.Sprintf("pattern %s does not match scrutinee type %s", what, got), &pos,
		map[string]any{"scrutinee": got})
}

func errLiteral(pos ast.Pos, msg string) error {
	return errors.New(errors.TC010, phase, msg, &pos)
}

// render reads a value back under the context depth and pretty-prints it
// with the context's binder names
func render(ctx *Context, v eval.Value) string {
	t, err := eval.Quote(ctx.Len(), v)
	if err != nil {
		return v.String()
	}
	return core.PrettyUnder(ctx.Names(), t)
}
