package errors

import (
	"fmt"

	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/customs"
)

// Walk traverses a checked expression tree looking for the two things
// checking never turns into a Go error: an Elim whose CheckResult is
// core.No (a hard subtype failure left in place at its elimination
// site), and an unbound-variable marker Custom node (elaboration
// always succeeds, so this is the only place that failure surfaces).
// It returns one Report per occurrence found, in a stable left-to-right
// order.
func Walk(ctx *core.Ctx, expr core.Expr) []*Report {
	var reports []*Report
	walk(ctx, expr, &reports)
	return reports
}

func walk(ctx *core.Ctx, expr core.Expr, reports *[]*Report) {
	switch e := expr.(type) {
	case *core.Intro:
		if e.IsComplex {
			switch e.ComplexTag {
			case core.ComplexAssumption:
				walk(ctx, e.Assumption.Type, reports)
				walk(ctx, e.Assumption.Body, reports)
			case core.ComplexChoice:
				walk(ctx, e.Choice.Left, reports)
				walk(ctx, e.Choice.Right, reports)
			case core.ComplexRecursion:
				walk(ctx, e.Recursion.Body, reports)
			}
			return
		}
		walkSimple(ctx, e.Simple, reports)

	case *core.Elim:
		walk(ctx, e.Expr, reports)
		walkSimple(ctx, e.Simple, reports)
		if e.CheckResult == core.No {
			*reports = append(*reports, newReport(
				CHK001,
				"check",
				fmt.Sprintf("eliminating %s doesn't satisfy the expected type %s", core.Pretty(ctx, e.Expr), core.Pretty(ctx, e.Simple.Out)),
				nil,
			))
		}

	case *core.Map:
		switch e.Tag {
		case core.MapAssumption:
			walk(ctx, e.AssumptionType, reports)
			walk(ctx, e.AssumptionBody.Body, reports)
		case core.MapChoice:
			walk(ctx, e.ChoiceLeft.Body, reports)
			walk(ctx, e.ChoiceRight.Body, reports)
		case core.MapRecursion:
			walk(ctx, e.RecursionBody.Body, reports)
		}

	case *core.InferenceCtx:
		walk(ctx, e.Body, reports)

	case *core.Custom:
		if u, ok := e.Payload.(customs.UnboundVariable); ok {
			*reports = append(*reports, newReport(
				ELAB001,
				"elaborate",
				fmt.Sprintf("unbound variable %q", u.Name),
				nil,
			))
			return
		}
		// Other customs may themselves embed checked subexpressions
		// (e.g. a payload carrying an Expr field); there's no generic
		// way to reach into an opaque payload from here, so unknown
		// customs are treated as leaves.

	case *core.Variable, *core.InferenceVar, *core.Any, *core.Void:
		// leaves
	}
}

func walkSimple(ctx *core.Ctx, s core.Simple, reports *[]*Report) {
	walk(ctx, s.Out, reports)
	if s.Tag == core.SimpleProof {
		walk(ctx, s.Proof, reports)
	}
}
