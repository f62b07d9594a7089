// Package check implements Duality's check pass (C5): it walks a Core
// expression, recursively checking every subexpression, and at each
// Elim site synthesizes the type of what's being eliminated and
// subtype-checks it against the destructor-specific supertype that
// SynthesizeElimSupertype builds around the Elim's expected
// continuation type (Simple.Out), caching the verdict on
// Elim.CheckResult and rewriting
// Elim.Expr with whatever coercion the subtype judgement produced.
package check

import (
	"github.com/duality-lang/duality/internal/constraint"
	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/subtype"
)

// CheckExpr checks expr and returns the (possibly rewritten) expression
// together with whether checking succeeded. A false result means some
// Elim in expr's tree failed its subtype check (CheckResult == No);
// the expression returned in that case is still well-formed, just
// rejected.
func CheckExpr(ctx *core.Ctx, expr core.Expr) (core.Expr, bool) {
	switch e := expr.(type) {
	case *core.Intro:
		return checkIntro(ctx, e)

	case *core.Elim:
		return checkElim(ctx, e)

	case *core.Map:
		return checkMap(ctx, e)

	case *core.Variable, *core.InferenceVar, *core.Any, *core.Void:
		return expr, true

	case *core.InferenceCtx:
		return checkInferenceCtx(ctx, e)

	case *core.Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		if rewritten, ok := ops.Check(ctx, e.Payload); ok {
			return rewritten, true
		}
		return expr, true
	}
	panic("check: impossible expr type")
}

func checkIntro(ctx *core.Ctx, e *core.Intro) (core.Expr, bool) {
	if e.IsComplex {
		switch e.ComplexTag {
		case core.ComplexAssumption:
			newType, typeOK := CheckExpr(ctx, e.Assumption.Type)
			pop := ctx.PushFreeVariable(e.Assumption.ID, newType)
			newBody, bodyOK := CheckExpr(ctx, e.Assumption.Body)
			pop()
			cp := *e
			cp.Assumption = core.Assumption{ID: e.Assumption.ID, Type: newType, Body: newBody}
			return &cp, typeOK && bodyOK

		case core.ComplexChoice:
			newLeft, leftOK := CheckExpr(ctx, e.Choice.Left)
			newRight, rightOK := CheckExpr(ctx, e.Choice.Right)
			cp := *e
			cp.Choice = core.Choice{Left: newLeft, Right: newRight}
			return &cp, leftOK && rightOK

		case core.ComplexRecursion:
			pop := ctx.PushFreeVariable(e.Recursion.ID, &core.Variable{ID: e.Recursion.ID})
			newBody, ok := CheckExpr(ctx, e.Recursion.Body)
			pop()
			cp := *e
			cp.Recursion = core.Recursion{ID: e.Recursion.ID, Body: newBody}
			return &cp, ok
		}
		panic("check: impossible complex tag")
	}

	newSimple, ok := checkSimple(ctx, e.Simple)
	cp := *e
	cp.Simple = newSimple
	return &cp, ok
}

func checkSimple(ctx *core.Ctx, s core.Simple) (core.Simple, bool) {
	newOut, outOK := CheckExpr(ctx, s.Out)
	cp := s
	cp.Out = newOut
	if s.Tag != core.SimpleProof {
		return cp, outOK
	}
	newProof, proofOK := CheckExpr(ctx, s.Proof)
	cp.Proof = newProof
	return cp, outOK && proofOK
}

// checkElim is the heart of the pass: synthesize the type of the
// checked subexpression and subtype-check it against the expected
// continuation type. A cached CheckResult of Yes (from a previous pass
// over the same node, e.g. after a partial elaboration re-check) is
// trusted without re-deriving it, mirroring the original's
// successful-elims memo table; a cached Maybe or No is re-derived.
func checkElim(ctx *core.Ctx, e *core.Elim) (core.Expr, bool) {
	checkedInner, innerOK := CheckExpr(ctx, e.Expr)
	newSimple, simpleOK := checkSimple(ctx, e.Simple)

	if !innerOK || !simpleOK {
		cp := *e
		cp.Expr = checkedInner
		cp.Simple = newSimple
		return &cp, false
	}

	if e.CheckResult == core.Yes {
		cp := *e
		cp.Expr = checkedInner
		cp.Simple = newSimple
		return &cp, true
	}

	watermark := ctx.ConstraintWatermark()
	innerType := core.TypeOf(ctx, checkedInner)
	subT, supT := SynthesizeElimSupertype(ctx, e, innerType, newSimple)
	result, coerced := subtype.IsSubtype(ctx, subT, supT, checkedInner)

	if result == core.No {
		ctx.FreeConstraintsFrom(watermark)
		cp := *e
		cp.Expr = checkedInner
		cp.Simple = newSimple
		cp.CheckResult = core.No
		return &cp, false
	}

	cp := *e
	cp.Expr = coerced
	cp.Simple = newSimple
	cp.CheckResult = result
	return &cp, true
}

// SynthesizeElimSupertype builds the destructor-specific supertype a
// checked Elim's eliminated-expression type must actually satisfy,
// rather than comparing that type directly against the bare
// continuation (Simple.Out): a proof-eliminator expects a type-map-
// function from type-of-proof to Out; a direction expects a solution-
// pair projection (the chosen arm narrowed to Out); Unfold/Unwrap
// expect a solution-recursion (one level of unfolding reaches Out).
//
// Exported for the evaluator (C6), which re-synthesizes and re-enters
// is_subtype against freshly-reduced operands whenever it meets an
// Elim whose cached CheckResult is still Maybe.
func SynthesizeElimSupertype(ctx *core.Ctx, e *core.Elim, innerType core.Expr, simple core.Simple) (sub, sup core.Expr) {
	switch simple.Tag {
	case core.SimpleProof:
		proofType := core.TypeOf(ctx, simple.Proof)
		sup := core.NewAssumption(core.Negative, e.Implicit, ctx.FreshID(), proofType, simple.Out)
		return innerType, sup

	case core.SimpleDirection:
		if choice, ok := innerType.(*core.Intro); ok && choice.IsComplex && choice.ComplexTag == core.ComplexChoice {
			if simple.Direction == core.Left {
				return choice.Choice.Left, simple.Out
			}
			return choice.Choice.Right, simple.Out
		}
		return innerType, simple.Out

	default: // SimpleUnfold, SimpleUnwrap
		sup := core.NewRecursion(core.Positive, e.Implicit, ctx.FreshID(), simple.Out)
		return innerType, sup
	}
}

func checkMap(ctx *core.Ctx, m *core.Map) (core.Expr, bool) {
	switch m.Tag {
	case core.MapAssumption:
		newType, typeOK := CheckExpr(ctx, m.AssumptionType)
		pop := ctx.PushFreeVariable(m.AssumptionBody.ID, newType)
		newBodyType, bodyTypeOK := CheckExpr(ctx, m.AssumptionBody.Type)
		newBody, bodyOK := CheckExpr(ctx, m.AssumptionBody.Body)
		pop()

		cp := *m
		cp.AssumptionType = newType
		cp.AssumptionBody = core.Assumption{ID: m.AssumptionBody.ID, Type: newBodyType, Body: newBody}
		return &cp, typeOK && bodyTypeOK && bodyOK

	case core.MapChoice:
		beforeLeft := ctx.ConstraintWatermark()
		newLeft, leftOK := checkAssumptionSite(ctx, m.ChoiceLeft)
		beforeRight := ctx.ConstraintWatermark()
		newRight, rightOK := checkAssumptionSite(ctx, m.ChoiceRight)
		// Both arms may have constrained the same enclosing inference
		// variable (a `map either` commonly appears under a shared
		// implicit binder); fold the right arm's region back into the
		// left's rather than leaving two competing bounds in the log.
		constraint.Join(ctx, beforeLeft, beforeRight, core.Positive)
		cp := *m
		cp.ChoiceLeft = newLeft
		cp.ChoiceRight = newRight
		return &cp, leftOK && rightOK

	case core.MapRecursion:
		pop := ctx.PushFreeVariable(m.RecursionID, &core.Variable{ID: m.RecursionID})
		newBody, ok := checkAssumptionSite(ctx, m.RecursionBody)
		pop()
		cp := *m
		cp.RecursionBody = newBody
		return &cp, ok
	}
	panic("check: impossible map tag")
}

func checkAssumptionSite(ctx *core.Ctx, a core.Assumption) (core.Assumption, bool) {
	newType, typeOK := CheckExpr(ctx, a.Type)
	pop := ctx.PushFreeVariable(a.ID, newType)
	newBody, bodyOK := CheckExpr(ctx, a.Body)
	pop()
	return core.Assumption{ID: a.ID, Type: newType, Body: newBody}, typeOK && bodyOK
}

// checkInferenceCtx checks the body under the newly introduced
// inference variable, then tries to resolve it from whatever
// constraints accumulated: a successful, non-self-referential
// resolution substitutes it away entirely; otherwise the variable
// defaults to Any (positive) or Void (negative), the two ends of the
// lattice that always satisfy every constraint polarity can impose.
func checkInferenceCtx(ctx *core.Ctx, e *core.InferenceCtx) (core.Expr, bool) {
	watermark := ctx.ConstraintWatermark()
	newBody, ok := CheckExpr(ctx, e.Body)
	if !ok {
		ctx.FreeConstraintsFrom(watermark)
		cp := *e
		cp.Body = newBody
		return &cp, false
	}

	resolved, found := constraint.Get(ctx, e.ID, e.Polarity, watermark)
	ctx.FreeConstraintsFrom(watermark)

	if found && !core.ContainsThisVariable(ctx, e.ID, resolved) {
		result, _ := core.Substitute(ctx, newBody, e.ID, resolved)
		return result, true
	}

	var fallback core.Expr = &core.Any{}
	if e.Polarity == core.Negative {
		fallback = &core.Void{}
	}
	result, _ := core.Substitute(ctx, newBody, e.ID, fallback)
	return result, true
}
