package constraint

import (
	"testing"

	"github.com/duality-lang/duality/internal/core"
)

func TestGetReturnsNothingBeforeAnyConstraintRecorded(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()

	if _, found := Get(ctx, id, core.Positive, 0); found {
		t.Fatalf("expected no bound before any constraint was recorded")
	}
}

func TestGetResolvesLowerBoundForPositivePolarity(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	ctx.AddConstraint(core.Constraint{ID: id, Lower: &core.Void{}})

	resolved, found := Get(ctx, id, core.Positive, 0)
	if !found {
		t.Fatalf("expected a resolved lower bound")
	}
	if _, isVoid := resolved.(*core.Void); !isVoid {
		t.Fatalf("expected resolved bound to be Void, got %T", resolved)
	}
}

func TestGetResolvesUpperBoundForNegativePolarity(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	ctx.AddConstraint(core.Constraint{ID: id, Upper: &core.Any{}})

	resolved, found := Get(ctx, id, core.Negative, 0)
	if !found {
		t.Fatalf("expected a resolved upper bound")
	}
	if _, isAny := resolved.(*core.Any); !isAny {
		t.Fatalf("expected resolved bound to be Any, got %T", resolved)
	}
}

func TestJoinDropsDuplicateEqualBounds(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	start1 := ctx.ConstraintWatermark()
	ctx.AddConstraint(core.Constraint{ID: id, Lower: &core.Void{}})
	start2 := ctx.ConstraintWatermark()
	ctx.AddConstraint(core.Constraint{ID: id, Lower: &core.Void{}})

	Join(ctx, start1, start2, core.Positive)

	if len(ctx.Constraints) != 1 {
		t.Fatalf("expected equal duplicate bounds to collapse into one entry, got %d", len(ctx.Constraints))
	}
}

func TestJoinCombinesDifferingBoundsIntoAChoice(t *testing.T) {
	ctx := core.NewCtx()
	id := ctx.FreshID()
	start1 := ctx.ConstraintWatermark()
	ctx.AddConstraint(core.Constraint{ID: id, Lower: &core.Void{}})
	start2 := ctx.ConstraintWatermark()
	ctx.AddConstraint(core.Constraint{ID: id, Lower: &core.Any{}})

	Join(ctx, start1, start2, core.Positive)

	if len(ctx.Constraints) != 1 {
		t.Fatalf("expected differing bounds to merge into one entry, got %d", len(ctx.Constraints))
	}
	intro, ok := ctx.Constraints[0].Lower.(*core.Intro)
	if !ok || !intro.IsComplex || intro.ComplexTag != core.ComplexChoice {
		t.Fatalf("expected merged lower bound to be a Choice, got %T", ctx.Constraints[0].Lower)
	}
}
