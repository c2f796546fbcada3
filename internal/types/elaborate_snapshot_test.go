package types_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/deplang/internal/core"
	"github.com/sunholo/deplang/internal/eval"
)

// TestElaborationSnapshots pins the pretty-printed elaboration output for a
// few representative terms.
func TestElaborationSnapshots(t *testing.T) {
	inputs := []string{
		"((fun A a => a) : (A : Type) -> A -> A)",
		"record { T = S32, x = 0 } : Record { T : Type, x : T }",
		"(fun b => if b then false else true) : Bool -> Bool",
		"Record { A : Type, x : A }",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			typ, elab, err := inferString(t, input)
			require.NoError(t, err)
			typT, err := eval.Quote(0, typ)
			require.NoError(t, err)
			snaps.MatchSnapshot(t, core.Pretty(elab)+" : "+core.Pretty(typT))
		})
	}
}
