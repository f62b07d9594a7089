package eval

import (
	"testing"

	"github.com/duality-lang/duality/internal/core"
)

func TestEvalLeafValuesAreStable(t *testing.T) {
	ctx := core.NewCtx()
	for _, e := range []core.Expr{&core.Any{}, &core.Void{}, &core.Variable{ID: 7}} {
		result, ternary := EvalExpr(ctx, e)
		if ternary != core.Yes {
			t.Fatalf("EvalExpr(%v) = %v, want Yes", e, ternary)
		}
		if result != e {
			t.Fatalf("EvalExpr(%v) rebuilt an already-stable leaf", e)
		}
	}
}

func TestEvalFunctionApplication(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()

	// fun x : Void => x   (identity over Void)
	fn := core.NewAssumption(core.Positive, false, id, &core.Void{}, &core.Variable{ID: id})

	elim := &core.Elim{
		Expr:        fn,
		Simple:      core.Simple{Tag: core.SimpleProof, Proof: &core.Void{}, Out: &core.Void{}},
		CheckResult: core.Yes,
	}

	result, ternary := EvalExpr(ctx, elim)
	if ternary == core.No {
		t.Fatalf("identity application over Void failed to evaluate")
	}
	if _, isVoid := result.(*core.Void); !isVoid && ternary == core.Yes {
		t.Fatalf("expected identity application to reduce to Void, got %T", result)
	}
}
