package errors

import (
	"testing"

	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/customs"
)

func TestWalkFindsNoReportsInAWellCheckedTree(t *testing.T) {
	ctx := core.NewCtx()
	reports := Walk(ctx, &core.Void{})
	if len(reports) != 0 {
		t.Fatalf("expected no reports from a leaf expression, got %d", len(reports))
	}
}

func TestWalkReportsHardSubtypeFailure(t *testing.T) {
	ctx := core.NewCtx()
	elim := &core.Elim{
		Expr:        &core.Void{},
		Simple:      core.Simple{Tag: core.SimpleUnfold, Out: &core.Any{}},
		CheckResult: core.No,
	}

	reports := Walk(ctx, elim)
	if len(reports) != 1 {
		t.Fatalf("expected exactly one report, got %d", len(reports))
	}
	if reports[0].Code != CHK001 {
		t.Fatalf("expected code %s, got %s", CHK001, reports[0].Code)
	}
}

func TestWalkReportsUnboundVariableMarker(t *testing.T) {
	ctx := core.NewCtx()
	id := customs.RegisterUnboundVariable(ctx)
	marker := customs.NewUnboundVariable(id, "foo", "test.dy:1:1")

	reports := Walk(ctx, marker)
	if len(reports) != 1 {
		t.Fatalf("expected exactly one report, got %d", len(reports))
	}
	if reports[0].Code != ELAB001 {
		t.Fatalf("expected code %s, got %s", ELAB001, reports[0].Code)
	}
}

func TestWalkDescendsIntoAssumptionBody(t *testing.T) {
	ctx := core.NewCtx()
	id := customs.RegisterUnboundVariable(ctx)
	marker := customs.NewUnboundVariable(id, "foo", "test.dy:1:1")
	fn := core.NewAssumption(core.Positive, false, ctx.FreshID(), &core.Void{}, marker)

	reports := Walk(ctx, fn)
	if len(reports) != 1 {
		t.Fatalf("expected the walker to find the marker nested in a body, got %d", len(reports))
	}
}
