// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/sunholo/deplang/internal/ast"
	"github.com/sunholo/deplang/internal/config"
	"github.com/sunholo/deplang/internal/core"
	deperrors "github.com/sunholo/deplang/internal/errors"
	"github.com/sunholo/deplang/internal/eval"
	"github.com/sunholo/deplang/internal/parser"
	"github.com/sunholo/deplang/internal/types"
)

// Color functions for pretty output
var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// REPL holds the session state: a context that grows with :assume and :let
type REPL struct {
	cfg     *config.Config
	ctx     *types.Context
	version string
}

// New creates a REPL with the given configuration
func New(cfg *config.Config, version string) *REPL {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.NoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	if version == "" {
		version = "dev"
	}
	return &REPL{cfg: cfg, ctx: types.NewContext(), version: version}
}

// Start begins the REPL session
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	if f, err := os.Open(r.cfg.HistoryFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("deplang"), dim(r.version))
	fmt.Fprintf(out, "Type %s for help, %s to exit\n", cyan(":help"), cyan(":quit"))

	for {
		input, err := line.Prompt(r.cfg.Prompt)
		if err != nil {
			// io.EOF on ctrl-d, liner.ErrPromptAborted on ctrl-c
			fmt.Fprintln(out)
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == ":quit" || input == ":q" {
			break
		}
		r.handle(out, input)
	}

	if f, err := os.Create(r.cfg.HistoryFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handle dispatches one line of input
func (r *REPL) handle(out io.Writer, input string) {
	switch {
	case input == ":help" || input == ":h":
		r.printHelp(out)
	case input == ":context" || input == ":ctx":
		r.printContext(out)
	case input == ":clear":
		r.ctx = types.NewContext()
		fmt.Fprintln(out, dim("context cleared"))
	case strings.HasPrefix(input, ":type ") || strings.HasPrefix(input, ":t "):
		arg := strings.TrimSpace(input[strings.Index(input, " "):])
		r.showType(out, arg)
	case strings.HasPrefix(input, ":assume "):
		r.assume(out, strings.TrimSpace(strings.TrimPrefix(input, ":assume")))
	case strings.HasPrefix(input, ":let "):
		r.define(out, strings.TrimSpace(strings.TrimPrefix(input, ":let")))
	case strings.HasPrefix(input, ":"):
		fmt.Fprintf(out, "%s unknown command %s\n", red("error:"), input)
	default:
		r.evalTerm(out, input)
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintf(out, `%s
  <term>            infer, normalize and print value : type
  :type <term>      infer and print the type only
  :assume x : T     extend the context with a claim
  :let x = <term>   extend the context with a definition
  :context          show the current context
  :clear            reset the context
  :quit             exit
`, bold("Commands"))
}

func (r *REPL) printContext(out io.Writer) {
	if r.ctx.Len() == 0 {
		fmt.Fprintln(out, dim("empty context"))
		return
	}
	var names []string
	for i := 0; i < r.ctx.Len(); i++ {
		name, typ, def, hasDef := r.ctx.Entry(i)
		typStr := r.renderAt(names, typ, i)
		if hasDef {
			fmt.Fprintf(out, "  %s : %s = %s\n", bold(name), typStr, core.PrettyUnder(names, def))
		} else {
			fmt.Fprintf(out, "  %s : %s\n", bold(name), typStr)
		}
		names = append(names, name)
	}
}

// renderAt pretty-prints a type value quoted at entry depth i
func (r *REPL) renderAt(names []string, v eval.Value, depth int) string {
	t, err := eval.Quote(depth, v)
	if err != nil {
		return v.String()
	}
	return core.PrettyUnder(names, t)
}

// render pretty-prints a value at the current context depth
func (r *REPL) render(v eval.Value) string {
	return r.renderAt(r.ctx.Names(), v, r.ctx.Len())
}

func (r *REPL) reportError(out io.Writer, err error) {
	if rep, ok := deperrors.AsReport(err); ok {
		if rep.Pos != nil {
			fmt.Fprintf(out, "%s %s %s %s\n", red("error:"), dim("["+rep.Code+"]"), rep.Message, dim("at "+rep.Pos.String()))
		} else {
			fmt.Fprintf(out, "%s %s %s\n", red("error:"), dim("["+rep.Code+"]"), rep.Message)
		}
		return
	}
	fmt.Fprintf(out, "%s %s\n", red("error:"), err)
}

// evalTerm infers, normalizes, and prints value : type
func (r *REPL) evalTerm(out io.Writer, input string) {
	e, err := parser.ParseString(input, "<repl>")
	if err != nil {
		r.reportError(out, err)
		return
	}
	typ, t, err := types.Infer(r.ctx, e)
	if err != nil {
		r.reportError(out, err)
		return
	}
	v, err := eval.Eval(r.ctx.Env(), t)
	if err != nil {
		r.reportError(out, err)
		return
	}
	fmt.Fprintf(out, "%s : %s\n", green(r.render(v)), cyan(r.render(typ)))
}

func (r *REPL) showType(out io.Writer, input string) {
	e, err := parser.ParseString(input, "<repl>")
	if err != nil {
		r.reportError(out, err)
		return
	}
	typ, _, err := types.Infer(r.ctx, e)
	if err != nil {
		r.reportError(out, err)
		return
	}
	fmt.Fprintf(out, ": %s\n", cyan(r.render(typ)))
}

// assume handles :assume x : T
func (r *REPL) assume(out io.Writer, input string) {
	e, err := parser.ParseString(input, "<repl>")
	if err != nil {
		r.reportError(out, err)
		return
	}
	ann, ok := e.(*ast.Ann)
	if !ok {
		fmt.Fprintf(out, "%s usage: :assume x : T\n", red("error:"))
		return
	}
	name, ok := ann.Term.(*ast.Var)
	if !ok {
		fmt.Fprintf(out, "%s usage: :assume x : T\n", red("error:"))
		return
	}
	typ, t, err := types.Infer(r.ctx, ann.Type)
	if err != nil {
		r.reportError(out, err)
		return
	}
	if _, ok := typ.(*eval.VUniverse); !ok {
		fmt.Fprintf(out, "%s %s is not a type\n", red("error:"), ann.Type)
		return
	}
	v, err := eval.Eval(r.ctx.Env(), t)
	if err != nil {
		r.reportError(out, err)
		return
	}
	r.ctx = r.ctx.ExtendClaim(name.Name, v)
	fmt.Fprintf(out, "%s : %s\n", bold(name.Name), cyan(core.PrettyUnder(r.ctx.Names()[:r.ctx.Len()-1], t)))
}

// define handles :let x = e
func (r *REPL) define(out io.Writer, input string) {
	idx := strings.Index(input, "=")
	if idx < 0 {
		fmt.Fprintf(out, "%s usage: :let x = <term>\n", red("error:"))
		return
	}
	name := strings.TrimSpace(input[:idx])
	body := strings.TrimSpace(input[idx+1:])
	if name == "" || body == "" {
		fmt.Fprintf(out, "%s usage: :let x = <term>\n", red("error:"))
		return
	}
	e, err := parser.ParseString(body, "<repl>")
	if err != nil {
		r.reportError(out, err)
		return
	}
	typ, t, err := types.Infer(r.ctx, e)
	if err != nil {
		r.reportError(out, err)
		return
	}
	v, err := eval.Eval(r.ctx.Env(), t)
	if err != nil {
		r.reportError(out, err)
		return
	}
	oldNames := r.ctx.Names()
	r.ctx = r.ctx.ExtendDefine(name, typ, t, v)
	fmt.Fprintf(out, "%s : %s\n", bold(name), cyan(r.renderAt(oldNames, typ, len(oldNames))))
}
