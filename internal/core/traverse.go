package core

// ContainsThisVariable reports whether id occurs free in expr (a binder
// that rebinds id hides its body from the search) — used by the pretty printer (to decide whether a
// binder id needs printing at all) and by substitution's capture
// avoidance (to decide whether a binder must be renamed).
func ContainsThisVariable(ctx *Ctx, id uint64, expr Expr) bool {
	switch e := expr.(type) {
	case *Intro:
		if e.IsComplex {
			switch e.ComplexTag {
			case ComplexAssumption:
				return assumptionContainsThisVariable(ctx, id, e.Assumption)
			case ComplexChoice:
				return ContainsThisVariable(ctx, id, e.Choice.Left) || ContainsThisVariable(ctx, id, e.Choice.Right)
			case ComplexRecursion:
				if e.Recursion.ID == id {
					return false
				}
				return ContainsThisVariable(ctx, id, e.Recursion.Body)
			}
			panic("core: impossible complex tag")
		}
		if e.Simple.Tag == SimpleProof && ContainsThisVariable(ctx, id, e.Simple.Proof) {
			return true
		}
		return ContainsThisVariable(ctx, id, e.Simple.Out)
	case *Elim:
		if ContainsThisVariable(ctx, id, e.Expr) {
			return true
		}
		if e.Simple.Tag == SimpleProof && ContainsThisVariable(ctx, id, e.Simple.Proof) {
			return true
		}
		return ContainsThisVariable(ctx, id, e.Simple.Out)
	case *Map:
		switch e.Tag {
		case MapAssumption:
			if ContainsThisVariable(ctx, id, e.AssumptionType) {
				return true
			}
			if e.AssumptionID == id {
				return false
			}
			return assumptionContainsThisVariable(ctx, id, e.AssumptionBody)
		case MapChoice:
			return assumptionContainsThisVariable(ctx, id, e.ChoiceLeft) || assumptionContainsThisVariable(ctx, id, e.ChoiceRight)
		case MapRecursion:
			if e.RecursionID == id {
				return false
			}
			return assumptionContainsThisVariable(ctx, id, e.RecursionBody)
		}
		panic("core: impossible map tag")
	case *Variable:
		return e.ID == id
	case *InferenceVar:
		return e.ID == id
	case *Any, *Void:
		return false
	case *InferenceCtx:
		if e.ID == id {
			return false
		}
		return ContainsThisVariable(ctx, id, e.Body)
	case *Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		return ops.ContainsThisVariable(ctx, e.Payload, id)
	}
	panic("core: impossible expr type")
}

func assumptionContainsThisVariable(ctx *Ctx, id uint64, a Assumption) bool {
	if ContainsThisVariable(ctx, id, a.Type) {
		return true
	}
	if a.ID == id {
		return false
	}
	return ContainsThisVariable(ctx, id, a.Body)
}

// VariableAppearsInPolarity reports, via the positive/negative out
// parameters, whether id occurs in that polarity within expr, given the
// polarity the traversal is currently under. Intro's domain (the type
// of a positive assumption) flips the traversal polarity, mirroring
// subtyping's own contravariance rule.
func VariableAppearsInPolarity(ctx *Ctx, expr Expr, id uint64, currentPolarity Polarity, positive, negative *bool) {
	switch e := expr.(type) {
	case *Intro:
		if e.IsComplex {
			switch e.ComplexTag {
			case ComplexAssumption:
				domainPolarity := currentPolarity
				if e.Polarity == Positive {
					domainPolarity = currentPolarity.Flip()
				}
				VariableAppearsInPolarity(ctx, e.Assumption.Type, id, domainPolarity, positive, negative)
				if *positive && *negative {
					return
				}
				VariableAppearsInPolarity(ctx, e.Assumption.Body, id, currentPolarity, positive, negative)
				return
			case ComplexChoice:
				VariableAppearsInPolarity(ctx, e.Choice.Left, id, currentPolarity, positive, negative)
				if *positive && *negative {
					return
				}
				VariableAppearsInPolarity(ctx, e.Choice.Right, id, currentPolarity, positive, negative)
				return
			case ComplexRecursion:
				VariableAppearsInPolarity(ctx, e.Recursion.Body, id, currentPolarity, positive, negative)
				return
			}
			panic("core: impossible complex tag")
		}
		VariableAppearsInPolarity(ctx, e.Simple.Out, id, currentPolarity, positive, negative)
		return
	case *Elim, *Map:
		// Elim/Map sites are opaque to this traversal in the source
		// algorithm: polarity tracking only concerns itself with types.
		return
	case *Variable:
		if e.ID == id {
			if currentPolarity == Positive {
				*positive = true
			} else {
				*negative = true
			}
		}
		return
	case *InferenceVar:
		if e.ID == id {
			if currentPolarity == Positive {
				*positive = true
			} else {
				*negative = true
			}
		}
		return
	case *Any, *Void:
		return
	case *InferenceCtx:
		panic("core: VariableAppearsInPolarity reached an InferenceCtx")
	case *Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		ops.VariableAppearsInPolarity(ctx, e.Payload, id, currentPolarity, positive, negative)
		return
	}
	panic("core: impossible expr type")
}
