// Package eval implements Duality's evaluator (C6): weak-head-normal-
// form reduction of Core expressions, re-entering the check and
// subtype engines whenever an elimination site needs to confirm what
// it's eliminating actually matches before reducing (function
// application, choice-arm selection, recursion unfolding).
package eval

import (
	"github.com/duality-lang/duality/internal/check"
	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/subtype"
)

// EvalExpr reduces expr one weak-head step at a time, recursing until
// the result stabilizes or gets stuck. Yes means expr is now a value;
// Maybe means the result is stuck on an open eliminee (commonly a free
// Variable or an inference variable standing in a Simple.Proof
// position) and further reduction requires more information; No means
// evaluation hit an elimination whose subtype check actually failed
// (which the check pass should have already ruled out for a
// well-checked program — it is only possible here on malformed input).
func EvalExpr(ctx *core.Ctx, expr core.Expr) (core.Expr, core.Ternary) {
	switch e := expr.(type) {
	case *core.Intro:
		return evalIntro(ctx, e)

	case *core.Elim:
		return evalElim(ctx, e)

	case *core.Map:
		return evalMap(ctx, e)

	case *core.Variable, *core.InferenceVar, *core.Any, *core.Void:
		return expr, core.Yes

	case *core.InferenceCtx:
		return EvalExpr(ctx, e.Body)

	case *core.Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		result, isValue := ops.Eval(ctx, e.Payload)
		if isValue {
			return result, core.Yes
		}
		return result, core.Maybe
	}
	panic("eval: impossible expr type")
}

// evalIntro only descends into a simple Intro's Out (the domain/
// continuation type that determines how it participates in further
// elimination); complex Intros (Assumption/Choice/Recursion bodies)
// are already values — a function body isn't reduced until applied.
func evalIntro(ctx *core.Ctx, e *core.Intro) (core.Expr, core.Ternary) {
	if e.IsComplex {
		return e, core.Yes
	}
	newOut, result := EvalExpr(ctx, e.Simple.Out)
	if result == core.No {
		return e, core.No
	}
	cp := *e
	cp.Simple.Out = newOut
	return &cp, result
}

func evalMap(ctx *core.Ctx, m *core.Map) (core.Expr, core.Ternary) {
	switch m.Tag {
	case core.MapAssumption:
		newType, result := EvalExpr(ctx, m.AssumptionType)
		if result == core.No {
			return m, core.No
		}
		cp := *m
		cp.AssumptionType = newType
		return &cp, result
	case core.MapChoice:
		newLeftType, leftResult := EvalExpr(ctx, m.ChoiceLeft.Type)
		newRightType, rightResult := EvalExpr(ctx, m.ChoiceRight.Type)
		if leftResult == core.No || rightResult == core.No {
			return m, core.No
		}
		cp := *m
		cp.ChoiceLeft.Type = newLeftType
		cp.ChoiceRight.Type = newRightType
		if leftResult == core.Maybe || rightResult == core.Maybe {
			return &cp, core.Maybe
		}
		return &cp, core.Yes
	default: // MapRecursion: domain is the bound id itself, nothing to reduce.
		return m, core.Yes
	}
}

// evalElim is stuck on an Elim whose check_result isn't Yes: a No is a
// hard failure that must block further reduction of the enclosing
// term, and a surviving Maybe is only promotable by re-entering the
// subtype engine against the freshly-reduced operands — the point at
// which deferred inference, now resolved further up the tree, can turn
// a stuck application into a reducible one.
func evalElim(ctx *core.Ctx, e *core.Elim) (core.Expr, core.Ternary) {
	if e.CheckResult == core.No {
		return e, core.No
	}

	left, leftResult := EvalExpr(ctx, e.Expr)

	var proof core.Expr
	proofResult := core.Yes
	if e.Simple.Tag == core.SimpleProof {
		proof, proofResult = EvalExpr(ctx, e.Simple.Proof)
	}

	out, outResult := EvalExpr(ctx, e.Simple.Out)

	if leftResult == core.No || proofResult == core.No || outResult == core.No {
		return e, core.No
	}

	rebuilt := *e
	rebuilt.Expr = left
	rebuilt.Simple = e.Simple
	rebuilt.Simple.Out = out
	if e.Simple.Tag == core.SimpleProof {
		rebuilt.Simple.Proof = proof
	}

	if e.CheckResult == core.Maybe {
		watermark := ctx.ConstraintWatermark()
		innerType := core.TypeOf(ctx, left)
		subT, supT := check.SynthesizeElimSupertype(ctx, e, innerType, rebuilt.Simple)
		result, coerced := subtype.IsSubtype(ctx, subT, supT, left)
		if result == core.No {
			ctx.FreeConstraintsFrom(watermark)
			rebuilt.CheckResult = core.No
			return &rebuilt, core.No
		}
		rebuilt.Expr = coerced
		rebuilt.CheckResult = result
	}

	if leftResult == core.Maybe || proofResult == core.Maybe || outResult == core.Maybe || rebuilt.CheckResult != core.Yes {
		return &rebuilt, core.Maybe
	}

	intro, ok := rebuilt.Expr.(*core.Intro)
	if !ok || !intro.IsComplex {
		return &rebuilt, core.Maybe
	}

	switch {
	case intro.ComplexTag == core.ComplexAssumption && e.Simple.Tag == core.SimpleProof:
		return substituteAndContinue(ctx, intro.Assumption.ID, rebuilt.Simple.Proof, intro.Assumption.Body)

	case intro.ComplexTag == core.ComplexChoice && e.Simple.Tag == core.SimpleDirection:
		if e.Simple.Direction == core.Left {
			return EvalExpr(ctx, intro.Choice.Left)
		}
		return EvalExpr(ctx, intro.Choice.Right)

	case intro.ComplexTag == core.ComplexChoice && e.Simple.Tag == core.SimpleProof && intro.Polarity == core.Positive:
		return evalOverloadedChoiceElim(ctx, intro, &rebuilt)

	case intro.ComplexTag == core.ComplexRecursion && e.Simple.Tag == core.SimpleUnfold:
		return evalRecursionElim(ctx, intro)
	}

	return &rebuilt, core.Maybe
}

// evalOverloadedChoiceElim resolves application of a positive choice
// value (one of two candidate function shapes, as produced by implicit
// overload resolution) by checking which arm's own type the argument
// actually fits, trying the left arm first — the first disjunct of a
// pair wins when both would apply.
func evalOverloadedChoiceElim(ctx *core.Ctx, choice *core.Intro, elim *core.Elim) (core.Expr, core.Ternary) {
	argType := core.TypeOf(ctx, elim.Simple.Proof)

	watermark := ctx.ConstraintWatermark()
	leftType := core.TypeOf(ctx, choice.Choice.Left)
	leftFits, _ := subtype.IsSubtype(ctx, argType, leftType, elim.Simple.Proof)
	ctx.FreeConstraintsFrom(watermark)

	arm := choice.Choice.Right
	if leftFits == core.Yes {
		arm = choice.Choice.Left
	}

	nested := &core.Elim{Expr: arm, Simple: elim.Simple, Implicit: elim.Implicit}
	return EvalExpr(ctx, nested)
}

// evalRecursionElim unfolds an equirecursive fixpoint value one layer:
// the bound id is substituted with the whole Intro so self-reference
// inside body keeps working after the unfold.
func evalRecursionElim(ctx *core.Ctx, rec *core.Intro) (core.Expr, core.Ternary) {
	unfolded, _ := core.Substitute(ctx, rec.Recursion.Body, rec.Recursion.ID, rec)
	return EvalExpr(ctx, unfolded)
}

func substituteAndContinue(ctx *core.Ctx, id uint64, arg, body core.Expr) (core.Expr, core.Ternary) {
	substituted, _ := core.Substitute(ctx, body, id, arg)
	checked, ok := check.CheckExpr(ctx, substituted)
	if !ok {
		return checked, core.No
	}
	return EvalExpr(ctx, checked)
}
