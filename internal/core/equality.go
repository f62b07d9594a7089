package core

// AreEqual decides structural equality up to alpha-renaming of binder
// ids. It is purely syntactic except at Assumption/Recursion binders,
// where it pushes the two sides' ids onto ctx.EqualVariables for the
// scope of the recursive comparison, and at Variable sites, which
// consult that stack in both orderings.
func AreEqual(ctx *Ctx, e1, e2 Expr) Ternary {
	i1, ok1 := e1.(*Intro)
	i2, ok2 := e2.(*Intro)
	if ok1 && ok2 {
		if i1.IsComplex != i2.IsComplex || i1.Implicit != i2.Implicit || i1.Polarity != i2.Polarity {
			return No
		}
		if i1.IsComplex {
			if i1.ComplexTag != i2.ComplexTag {
				return No
			}
			switch i1.ComplexTag {
			case ComplexAssumption:
				return assumptionsAreEqual(ctx, i1.Assumption, i2.Assumption)
			case ComplexChoice:
				return choicesAreEqual(ctx, i1.Choice, i2.Choice)
			case ComplexRecursion:
				return recursionsAreEqual(ctx, i1.Recursion, i2.Recursion)
			}
			panic("core: impossible complex tag")
		}
		return simplesAreEqual(ctx, i1.Simple, i2.Simple)
	}

	el1, isElim1 := e1.(*Elim)
	el2, isElim2 := e2.(*Elim)
	if isElim1 && isElim2 {
		return elimsAreEqual(ctx, el1, el2)
	}

	v1, isVar1 := e1.(*Variable)
	v2, isVar2 := e2.(*Variable)
	if isVar1 && isVar2 {
		return ctx.VariablesEqual(v1.ID, v2.ID)
	}

	iv1, isIV1 := e1.(*InferenceVar)
	iv2, isIV2 := e2.(*InferenceVar)
	if isIV1 && isIV2 {
		return ctx.VariablesEqual(iv1.ID, iv2.ID)
	}

	_, isAny1 := e1.(*Any)
	_, isAny2 := e2.(*Any)
	if isAny1 && isAny2 {
		return Yes
	}

	_, isVoid1 := e1.(*Void)
	_, isVoid2 := e2.(*Void)
	if isVoid1 && isVoid2 {
		return Yes
	}

	c1, isCustom1 := e1.(*Custom)
	c2, isCustom2 := e2.(*Custom)
	if isCustom1 && isCustom2 && c1.RegistryID == c2.RegistryID {
		ops := ctx.Customs.Lookup(c1.RegistryID)
		return ops.IsEqual(ctx, c1.Payload, c2.Payload)
	}

	// An Elim/Variable/InferenceVar on either side, paired with a
	// different concrete form on the other, is not decidable without
	// more reduction: Maybe rather than a hard No.
	if isElim1 || isElim2 || isVar1 || isVar2 || isIV1 || isIV2 {
		return Maybe
	}

	return No
}

func assumptionsAreEqual(ctx *Ctx, a1, a2 Assumption) Ternary {
	typeResult := AreEqual(ctx, a1.Type, a2.Type)
	if typeResult == No {
		return No
	}

	pop := ctx.PushEqualVariables(a1.ID, a2.ID)
	bodyResult := AreEqual(ctx, a1.Body, a2.Body)
	pop()

	return And(typeResult, bodyResult)
}

func choicesAreEqual(ctx *Ctx, c1, c2 Choice) Ternary {
	left := AreEqual(ctx, c1.Left, c2.Left)
	if left == No {
		return No
	}
	return And(left, AreEqual(ctx, c1.Right, c2.Right))
}

func recursionsAreEqual(ctx *Ctx, r1, r2 Recursion) Ternary {
	pop := ctx.PushEqualVariables(r1.ID, r2.ID)
	result := AreEqual(ctx, r1.Body, r2.Body)
	pop()
	return result
}

func simplesAreEqual(ctx *Ctx, s1, s2 Simple) Ternary {
	if s1.Tag != s2.Tag {
		return No
	}

	result := Yes
	switch s1.Tag {
	case SimpleProof:
		result = AreEqual(ctx, s1.Proof, s2.Proof)
	case SimpleDirection:
		if s1.Direction != s2.Direction {
			return No
		}
	case SimpleUnfold, SimpleUnwrap:
		// no payload to compare
	}
	if result == No {
		return No
	}

	return And(result, AreEqual(ctx, s1.Out, s2.Out))
}

func elimsAreEqual(ctx *Ctx, e1, e2 *Elim) Ternary {
	if e1.Implicit != e2.Implicit {
		return No
	}
	// Applications (eliminations) can only be compared up to evaluation:
	// if either side is not yet in value form, we can't tell.
	if !isValueForm(e1.Expr) || !isValueForm(e2.Expr) {
		return Maybe
	}
	exprEq := AreEqual(ctx, e1.Expr, e2.Expr)
	if exprEq != Yes {
		return Maybe
	}
	simpleEq := simplesAreEqual(ctx, e1.Simple, e2.Simple)
	if simpleEq != Yes {
		return Maybe
	}
	return Yes
}

// isValueForm is a conservative syntactic check: Intro/Any/Void/Custom
// are already values; everything else might still reduce.
func isValueForm(e Expr) bool {
	switch e.(type) {
	case *Intro, *Any, *Void, *Custom:
		return true
	default:
		return false
	}
}
