// Package subtype implements Duality's ternary subtype relation (C3):
// a single recursive judgement that simultaneously decides Yes/No/Maybe
// and rewrites the subtype-side expression with whatever coercion the
// decision implies (wrapping a producer in the eliminator that makes it
// conform, or deferring to a constraint against an inference variable).
package subtype

import "github.com/duality-lang/duality/internal/core"

// IsSubtype decides whether sub is a subtype of sup, given subExpr — the
// term actually occupying the subtype position, which the result
// coerces when a non-trivial case (function codomain, dependent map,
// choice arm) demands it. The returned Expr is always a valid
// replacement for subExpr, whether or not a coercion was actually
// inserted.
//
// Maybe results append constraint entries to ctx.Constraints; callers
// that abandon a branch after seeing Maybe must roll back via
// ctx.FreeConstraintsFrom(watermark) using a watermark taken before the
// call.
func IsSubtype(ctx *core.Ctx, sub, sup, subExpr core.Expr) (core.Ternary, core.Expr) {
	if subIV, ok := sub.(*core.InferenceVar); ok {
		if supIV, ok := sup.(*core.InferenceVar); ok && subIV.ID == supIV.ID {
			return core.Yes, subExpr
		}
		ctx.AddConstraint(core.Constraint{ID: subIV.ID, Upper: sup})
		return core.Maybe, subExpr
	}

	if supIV, ok := sup.(*core.InferenceVar); ok {
		ctx.AddConstraint(core.Constraint{ID: supIV.ID, Lower: sub})
		return core.Maybe, subExpr
	}

	if _, ok := sub.(*core.Void); ok {
		return core.Yes, subExpr
	}
	if _, ok := sup.(*core.Void); ok {
		return core.Maybe, subExpr
	}
	if _, ok := sup.(*core.Any); ok {
		return core.Yes, subExpr
	}
	if _, ok := sub.(*core.Any); ok {
		return core.Maybe, subExpr
	}

	if subRec, ok := asRecursion(sub); ok && isRecursion(sup) {
		return recursionIsSubtype(ctx, subRec, sup, subExpr)
	}

	if subA, ok := asAssumption(sub); ok {
		supA, supIsAssumption := asAssumption(sup)
		switch {
		case subA.Implicit && (!supIsAssumption || !supA.Implicit):
			return implicitSubSideIsSubtype(ctx, subA, sup, subExpr)
		case !subA.Implicit && supIsAssumption && supA.Implicit:
			// Implicit problem on the sup-side: left "not yet
			// implemented" upstream. Preserved as a stub returning No.
			return core.No, subExpr
		case supIsAssumption &&
			((subA.Polarity == core.Positive && supA.Polarity == core.Positive) ||
				(subA.Polarity == core.Negative && supA.Polarity == core.Negative) ||
				(subA.Polarity == core.Positive && supA.Polarity == core.Negative)):
			return assumptionIsSubtype(ctx, subA, supA, subExpr)
		}
	}

	if subChoice, ok := asPositiveChoice(sub); ok {
		return positiveChoiceIsSubtype(ctx, subChoice, sup, subExpr)
	}
	if supChoice, ok := asPositiveChoice(sup); ok {
		return isSubtypeOfPositiveChoice(ctx, sub, supChoice, subExpr)
	}
	if subChoice, ok := asNegativeChoice(sub); ok {
		return negativeChoiceIsSubtype(ctx, subChoice, sup, subExpr)
	}
	if supChoice, ok := asNegativeChoice(sup); ok {
		return isSubtypeOfNegativeChoice(ctx, sub, supChoice, subExpr)
	}

	// Elims and free Variables on the supertype side can't be decomposed
	// further: fall back to structural-up-to-reduction equality.
	switch sup.(type) {
	case *core.Elim, *core.Variable:
		return core.AreEqual(ctx, sub, sup), subExpr
	}

	if subMap, ok := sub.(*core.Map); ok {
		if supMap, ok := sup.(*core.Map); ok {
			return mapIsSubtype(ctx, subMap, supMap, subExpr)
		}
		return core.No, subExpr
	}

	return core.AreEqual(ctx, sub, sup), subExpr
}

func isRecursion(e core.Expr) bool {
	i, ok := e.(*core.Intro)
	return ok && i.IsComplex && i.ComplexTag == core.ComplexRecursion
}

func asRecursion(e core.Expr) (*core.Intro, bool) {
	i, ok := e.(*core.Intro)
	if !ok || !i.IsComplex || i.ComplexTag != core.ComplexRecursion {
		return nil, false
	}
	return i, true
}

// recursionIsSubtype compares two equirecursive fixpoints coinductively:
// the pair is recorded as "in flight" before unfolding either body, and
// a second visit to the same (up to alpha) pair short-circuits to Yes
// rather than looping forever.
func recursionIsSubtype(ctx *core.Ctx, sub *core.Intro, sup core.Expr, subExpr core.Expr) (core.Ternary, core.Expr) {
	if entry, found := ctx.FindPastSubtypeCheck(sub, sup); found {
		if entry.HaveSubstituteVarID {
			return core.Yes, &core.Variable{ID: entry.SubstituteVarID}
		}
		return core.No, subExpr
	}

	if !ctx.ConsumeRecursionUnfold() {
		return core.Maybe, subExpr
	}

	substituteVarID := ctx.FreshID()
	pop := ctx.PushPastSubtypeCheck(core.PastSubtypeCheck{
		Subtype:             sub,
		Supertype:           sup,
		SubstituteVarID:     substituteVarID,
		HaveSubstituteVarID: true,
	})
	defer pop()

	supRec := sup.(*core.Intro)
	unfoldedSub, _ := core.Substitute(ctx, sub.Recursion.Body, sub.Recursion.ID, sub)
	unfoldedSup, _ := core.Substitute(ctx, supRec.Recursion.Body, supRec.Recursion.ID, supRec)

	return IsSubtype(ctx, unfoldedSub, unfoldedSup, subExpr)
}

type choiceSides struct {
	left, right core.Expr
}

func asPositiveChoice(e core.Expr) (choiceSides, bool) {
	i, ok := e.(*core.Intro)
	if !ok || !i.IsComplex || i.ComplexTag != core.ComplexChoice || i.Polarity != core.Positive {
		return choiceSides{}, false
	}
	return choiceSides{left: i.Choice.Left, right: i.Choice.Right}, true
}

func asNegativeChoice(e core.Expr) (choiceSides, bool) {
	i, ok := e.(*core.Intro)
	if !ok || !i.IsComplex || i.ComplexTag != core.ComplexChoice || i.Polarity != core.Negative {
		return choiceSides{}, false
	}
	return choiceSides{left: i.Choice.Left, right: i.Choice.Right}, true
}

// positiveChoiceIsSubtype implements (e1 | e2) <: sup: sub is a subtype
// of sup if either arm is (a sum only needs one injection to fit).
// Coercions on both arms are collected into a fresh positive choice so
// the result still carries both paths.
func positiveChoiceIsSubtype(ctx *core.Ctx, sub choiceSides, sup, subExpr core.Expr) (core.Ternary, core.Expr) {
	if supChoice, ok := asPositiveChoice(sup); ok {
		return choiceIsSubtypeOfChoice(ctx, sub, supChoice, core.Positive, subExpr)
	}

	firstRes, e1 := IsSubtype(ctx, sub.left, sup, subExpr)
	secondRes, e2 := IsSubtype(ctx, sub.right, sup, subExpr)

	if firstRes == core.No && secondRes == core.No {
		return core.No, subExpr
	}
	if secondRes == core.No {
		return firstRes, e1
	}
	if firstRes == core.No {
		return secondRes, e2
	}

	return firstRes, core.NewChoice(core.Positive, false, e1, e2)
}

// negativeChoiceIsSubtype implements (e1 & e2) <: sup: a product must
// satisfy sup from both arms (either alone only gives Maybe, since
// satisfying one projection doesn't guarantee the other does).
func negativeChoiceIsSubtype(ctx *core.Ctx, sub choiceSides, sup, subExpr core.Expr) (core.Ternary, core.Expr) {
	if supChoice, ok := asNegativeChoice(sup); ok {
		return choiceIsSubtypeOfChoice(ctx, sub, supChoice, core.Negative, subExpr)
	}

	firstRes, e1 := IsSubtype(ctx, sub.left, sup, subExpr)
	secondRes, e2 := IsSubtype(ctx, sub.right, sup, subExpr)

	if firstRes == core.No && secondRes == core.No {
		return core.No, subExpr
	}
	if secondRes == core.No {
		return core.Maybe, e1
	}
	if firstRes == core.No {
		return core.Maybe, e2
	}

	coerced := core.NewChoice(core.Positive, false, e1, e2)
	if firstRes == core.Yes && secondRes == core.Yes {
		return core.Yes, coerced
	}
	return core.Maybe, coerced
}

func isSubtypeOfPositiveChoice(ctx *core.Ctx, sub core.Expr, sup choiceSides, subExpr core.Expr) (core.Ternary, core.Expr) {
	firstRes, e1 := IsSubtype(ctx, sub, sup.left, subExpr)
	if firstRes == core.No {
		return core.No, subExpr
	}
	secondRes, e2 := IsSubtype(ctx, sub, sup.right, subExpr)
	if secondRes == core.No {
		return core.No, subExpr
	}

	coerced := core.NewChoice(core.Positive, false, e1, e2)
	if firstRes == core.Maybe || secondRes == core.Maybe {
		return core.Maybe, coerced
	}
	return core.Yes, coerced
}

func isSubtypeOfNegativeChoice(ctx *core.Ctx, sub core.Expr, sup choiceSides, subExpr core.Expr) (core.Ternary, core.Expr) {
	firstRes, e1 := IsSubtype(ctx, sub, sup.left, subExpr)
	secondRes, e2 := IsSubtype(ctx, sub, sup.right, subExpr)

	if firstRes == core.No && secondRes == core.No {
		return core.No, subExpr
	}
	if secondRes == core.No {
		return firstRes, e1
	}
	if firstRes == core.No {
		return secondRes, e2
	}

	coerced := core.NewChoice(core.Positive, false, e1, e2)
	if firstRes == core.Maybe && secondRes == core.Maybe {
		return core.Maybe, coerced
	}
	return core.Yes, coerced
}

// choiceIsSubtypeOfChoice implements (e1 . e2) <: (e3 . e4) for like
// polarities by pairing arms positionally.
func choiceIsSubtypeOfChoice(ctx *core.Ctx, sub, sup choiceSides, pol core.Polarity, subExpr core.Expr) (core.Ternary, core.Expr) {
	leftRes, e1 := IsSubtype(ctx, sub.left, sup.left, subExpr)
	if leftRes == core.No {
		return core.No, subExpr
	}
	rightRes, e2 := IsSubtype(ctx, sub.right, sup.right, subExpr)
	if rightRes == core.No {
		return core.No, subExpr
	}

	coerced := core.NewChoice(pol, false, e1, e2)
	if leftRes == core.Maybe || rightRes == core.Maybe {
		return core.Maybe, coerced
	}
	return core.Yes, coerced
}

func asAssumption(e core.Expr) (*core.Intro, bool) {
	i, ok := e.(*core.Intro)
	if !ok || !i.IsComplex || i.ComplexTag != core.ComplexAssumption {
		return nil, false
	}
	return i, true
}

// implicitSubSideIsSubtype resolves an implicit problem on the sub-side:
// sub is an implicit binder but sup isn't shaped to consume it directly,
// so a fresh inference variable stands in for the bound, sub is applied
// to it, and the comparison re-enters against the substituted body.
func implicitSubSideIsSubtype(ctx *core.Ctx, sub *core.Intro, sup, subExpr core.Expr) (core.Ternary, core.Expr) {
	infID := ctx.FreshID()
	infVar := &core.InferenceVar{ID: infID}
	appliedType, _ := core.Substitute(ctx, sub.Assumption.Body, sub.Assumption.ID, infVar)

	applied := &core.Elim{
		Expr:     subExpr,
		Simple:   core.Simple{Tag: core.SimpleProof, Proof: infVar, Out: appliedType},
		Implicit: true,
	}

	return IsSubtype(ctx, appliedType, sup, applied)
}

// assumptionIsSubtype implements function-shaped subtyping between two
// concrete (non-generic) Assumption Intros: contravariant domain,
// covariant codomain, producing the eta-coercion `x ↦ g (x (f v))`.
// mapIsSubtype handles the generic (Map) case the same way except that
// it compares the domains for equality rather than contravariantly.
func assumptionIsSubtype(ctx *core.Ctx, sub, sup *core.Intro, subExpr core.Expr) (core.Ternary, core.Expr) {
	if sub.Implicit != sup.Implicit {
		return core.No, subExpr
	}

	subDomain, subBody, subID := sub.Assumption.Type, sub.Assumption.Body, sub.Assumption.ID
	supDomain, supBody := sup.Assumption.Type, sup.Assumption.Body

	domainWatermark := ctx.ConstraintWatermark()
	domainRes, coercedArg := IsSubtype(ctx, supDomain, subDomain, &core.Variable{ID: subID})
	if domainRes == core.No {
		ctx.FreeConstraintsFrom(domainWatermark)
		return core.No, subExpr
	}

	appliedToSub := &core.Elim{
		Expr:     subExpr,
		Simple:   core.Simple{Tag: core.SimpleProof, Proof: coercedArg, Out: subBody},
		Implicit: sub.Implicit,
	}

	codomainRes, coerced := IsSubtype(ctx, subBody, supBody, appliedToSub)
	if codomainRes == core.No {
		return core.No, subExpr
	}

	result := core.NewAssumption(core.Positive, sub.Implicit, subID, supDomain, coerced)

	if domainRes == core.Maybe || codomainRes == core.Maybe {
		return core.Maybe, result
	}
	return core.Yes, result
}

// mapIsSubtype implements function-shaped subtyping:
//
//	(x : d1 -> c1) <: (d2 -> c2)   iff d1 = d2 and c1 <: c2
//
// producing the eta-coercion `x => (sub x) : c2` whether or not the
// codomain subtype check rewrote the application.
func mapIsSubtype(ctx *core.Ctx, sub, sup *core.Map, subExpr core.Expr) (core.Ternary, core.Expr) {
	if sub.Tag != sup.Tag || sub.Implicit != sup.Implicit {
		return core.No, subExpr
	}

	domainEqual := core.AreEqual(ctx, mapDomain(sub), mapDomain(sup))
	if domainEqual == core.No {
		return core.No, subExpr
	}

	appliedToSub := &core.Elim{
		Expr:     subExpr,
		Simple:   core.Simple{Tag: core.SimpleProof, Proof: &core.Variable{ID: mapBinderID(sub)}, Out: mapCodomain(sup)},
		Implicit: sup.Implicit,
	}

	codomainRes, coerced := IsSubtype(ctx, mapCodomain(sub), mapCodomain(sup), appliedToSub)

	if codomainRes == core.No {
		return core.No, subExpr
	}

	result := core.NewAssumption(core.Positive, sub.Implicit, mapBinderID(sub), mapDomain(sub), coerced)

	if domainEqual == core.Maybe || codomainRes == core.Maybe {
		return core.Maybe, result
	}
	return core.Yes, result
}

func mapDomain(m *core.Map) core.Expr {
	switch m.Tag {
	case core.MapAssumption:
		return m.AssumptionType
	case core.MapChoice:
		return m.ChoiceLeft.Type
	default:
		return &core.Variable{ID: m.RecursionID}
	}
}

func mapCodomain(m *core.Map) core.Expr {
	switch m.Tag {
	case core.MapAssumption:
		return m.AssumptionBody.Body
	case core.MapChoice:
		return m.ChoiceLeft.Body
	default:
		return m.RecursionBody.Body
	}
}

func mapBinderID(m *core.Map) uint64 {
	switch m.Tag {
	case core.MapAssumption:
		return m.AssumptionBody.ID
	case core.MapChoice:
		return m.ChoiceLeft.ID
	default:
		return m.RecursionBody.ID
	}
}
