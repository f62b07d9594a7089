package subtype

import (
	"testing"

	"github.com/duality-lang/duality/internal/core"
)

func TestReflexivityOnAny(t *testing.T) {
	ctx := core.NewCtx()
	res, _ := IsSubtype(ctx, &core.Any{}, &core.Any{}, &core.Any{})
	if res != core.Yes {
		t.Fatalf("Any <: Any = %v, want Yes", res)
	}
}

func TestVoidIsBottom(t *testing.T) {
	ctx := core.NewCtx()
	res, _ := IsSubtype(ctx, &core.Void{}, &core.Any{}, &core.Void{})
	if res != core.Yes {
		t.Fatalf("Void <: Any = %v, want Yes", res)
	}
}

func TestAnyUnderVoidIsMaybe(t *testing.T) {
	ctx := core.NewCtx()
	res, _ := IsSubtype(ctx, &core.Any{}, &core.Void{}, &core.Any{})
	if res != core.Maybe {
		t.Fatalf("Any <: Void = %v, want Maybe", res)
	}
}

func TestInferenceVarGeneratesConstraint(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	watermark := ctx.ConstraintWatermark()

	res, _ := IsSubtype(ctx, &core.InferenceVar{ID: id}, &core.Any{}, &core.InferenceVar{ID: id})
	if res != core.Maybe {
		t.Fatalf("?id <: Any = %v, want Maybe", res)
	}
	if len(ctx.Constraints) != watermark+1 {
		t.Fatalf("expected exactly one constraint recorded, got %d", len(ctx.Constraints)-watermark)
	}
	if ctx.Constraints[watermark].ID != id {
		t.Fatalf("constraint recorded against wrong id")
	}
}

func TestPositiveChoiceEitherArmSuffices(t *testing.T) {
	ctx := core.NewCtx()
	choice := core.NewChoice(core.Positive, false, &core.Void{}, &core.Any{})
	res, _ := IsSubtype(ctx, choice, &core.Any{}, choice)
	if res != core.Yes {
		t.Fatalf("(Void | Any) <: Any = %v, want Yes", res)
	}
}

func TestNegativeChoiceBothArmsRequired(t *testing.T) {
	ctx := core.NewCtx()
	choice := core.NewChoice(core.Negative, false, &core.Void{}, &core.Any{})
	res, _ := IsSubtype(ctx, choice, &core.Any{}, choice)
	if res != core.Yes {
		t.Fatalf("(Void & Any) <: Any = %v, want Yes", res)
	}
}

func TestRecursionSelfSubtypeTerminates(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	rec := core.NewRecursion(core.Positive, false, id, &core.Variable{ID: id})

	res, _ := IsSubtype(ctx, rec, rec, rec)
	if res != core.Yes {
		t.Fatalf("rec <: rec = %v, want Yes", res)
	}
}

func TestRecursionUnfoldBudgetDefersInsteadOfHanging(t *testing.T) {
	ctx := core.NewCtx()
	ctx.RecursionUnfoldBudget = 1

	recC := core.NewRecursion(core.Positive, false, ctx.FreshID(), &core.Any{})
	recD := core.NewRecursion(core.Positive, false, ctx.FreshID(), &core.Any{})
	recA := core.NewRecursion(core.Positive, false, ctx.FreshID(), recC)
	recB := core.NewRecursion(core.Positive, false, ctx.FreshID(), recD)

	res, _ := IsSubtype(ctx, recA, recB, recA)
	if res != core.Maybe {
		t.Fatalf("expected a budget of 1 to defer a two-level unfold to Maybe, got %v", res)
	}
}

func TestRecursionUnfoldBudgetOfZeroIsUnlimited(t *testing.T) {
	ctx := core.NewCtx()
	ctx.RecursionUnfoldBudget = 0

	recC := core.NewRecursion(core.Positive, false, ctx.FreshID(), &core.Any{})
	recD := core.NewRecursion(core.Positive, false, ctx.FreshID(), &core.Any{})
	recA := core.NewRecursion(core.Positive, false, ctx.FreshID(), recC)
	recB := core.NewRecursion(core.Positive, false, ctx.FreshID(), recD)

	res, _ := IsSubtype(ctx, recA, recB, recA)
	if res != core.Yes {
		t.Fatalf("expected an unbounded budget to resolve the two-level unfold to Yes, got %v", res)
	}
}
