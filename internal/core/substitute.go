package core

// Substitute replaces free occurrences of id with sub inside expr. It
// returns (expr, false) when nothing changed — callers must retain the
// original input in that case rather than assume a copy was made; this
// is the core's optimisation to avoid rebuilding unchanged subtrees.
//
// Capture is respected: descending into a binder whose id shadows id
// stops the substitution there; descending into a binder whose id
// appears free in sub renames the binder to a fresh id first (recorded
// on ctx.EqualVariables for the scope of the recursive call).
func Substitute(ctx *Ctx, expr Expr, id uint64, sub Expr) (Expr, bool) {
	switch e := expr.(type) {
	case *Intro:
		if e.IsComplex {
			switch e.ComplexTag {
			case ComplexAssumption:
				newAssumption, changed := substituteAssumption(ctx, e.Assumption, id, sub)
				if !changed {
					return expr, false
				}
				cp := *e
				cp.Assumption = newAssumption
				return &cp, true
			case ComplexChoice:
				newLeft, leftChanged := Substitute(ctx, e.Choice.Left, id, sub)
				newRight, rightChanged := Substitute(ctx, e.Choice.Right, id, sub)
				if !leftChanged && !rightChanged {
					return expr, false
				}
				cp := *e
				cp.Choice = Choice{Left: newLeft, Right: newRight}
				return &cp, true
			case ComplexRecursion:
				newRecursion, changed := substituteRecursion(ctx, e.Recursion, id, sub)
				if !changed {
					return expr, false
				}
				cp := *e
				cp.Recursion = newRecursion
				return &cp, true
			}
			panic("core: impossible complex tag")
		}
		newSimple, changed := substituteSimple(ctx, e.Simple, id, sub)
		if !changed {
			return expr, false
		}
		cp := *e
		cp.Simple = newSimple
		return &cp, true

	case *Elim:
		newExpr, exprChanged := Substitute(ctx, e.Expr, id, sub)
		newSimple, simpleChanged := substituteSimple(ctx, e.Simple, id, sub)
		if !exprChanged && !simpleChanged {
			return expr, false
		}
		cp := *e
		cp.Expr = newExpr
		cp.Simple = newSimple
		return &cp, true

	case *Map:
		return substituteMap(ctx, e, id, sub)

	case *Variable:
		if e.ID == id {
			return sub, true
		}
		if other, found := ctx.LookupEqualVariable(e.ID); found {
			return &Variable{ID: other}, true
		}
		return expr, false

	case *InferenceVar:
		if e.ID == id {
			return sub, true
		}
		if other, found := ctx.LookupEqualVariable(e.ID); found {
			return &InferenceVar{ID: other}, true
		}
		return expr, false

	case *Any, *Void:
		return expr, false

	case *InferenceCtx:
		if e.ID == id {
			return expr, false
		}
		newBody, changed := Substitute(ctx, e.Body, id, sub)
		if !changed {
			return expr, false
		}
		cp := *e
		cp.Body = newBody
		return &cp, true

	case *Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		newExpr, changed := ops.Substitute(ctx, e.Payload, id, sub)
		if !changed {
			return expr, false
		}
		return newExpr, true
	}
	panic("core: impossible expr type")
}

func substituteAssumption(ctx *Ctx, a Assumption, id uint64, sub Expr) (Assumption, bool) {
	newType, typeChanged := Substitute(ctx, a.Type, id, sub)

	if id == a.ID {
		if !typeChanged {
			return a, false
		}
		return Assumption{ID: a.ID, Type: newType, Body: a.Body}, true
	}

	if ContainsThisVariable(ctx, a.ID, sub) {
		newID := ctx.FreshID()
		pop := ctx.PushEqualVariables(a.ID, newID)
		newBody, bodyChanged := Substitute(ctx, a.Body, id, sub)
		pop()

		if !typeChanged && !bodyChanged {
			return a, false
		}
		if !bodyChanged {
			newBody = a.Body
		}
		return Assumption{ID: newID, Type: newType, Body: newBody}, true
	}

	newBody, bodyChanged := Substitute(ctx, a.Body, id, sub)
	if !typeChanged && !bodyChanged {
		return a, false
	}
	return Assumption{ID: a.ID, Type: newType, Body: newBody}, true
}

func substituteRecursion(ctx *Ctx, r Recursion, id uint64, sub Expr) (Recursion, bool) {
	if id == r.ID {
		return r, false
	}

	if ContainsThisVariable(ctx, r.ID, sub) {
		newID := ctx.FreshID()
		pop := ctx.PushEqualVariables(r.ID, newID)
		newBody, changed := Substitute(ctx, r.Body, id, sub)
		pop()
		if !changed {
			return r, false
		}
		return Recursion{ID: newID, Body: newBody}, true
	}

	newBody, changed := Substitute(ctx, r.Body, id, sub)
	if !changed {
		return r, false
	}
	return Recursion{ID: r.ID, Body: newBody}, true
}

func substituteSimple(ctx *Ctx, s Simple, id uint64, sub Expr) (Simple, bool) {
	newOut, outChanged := Substitute(ctx, s.Out, id, sub)

	if s.Tag == SimpleProof {
		newProof, proofChanged := Substitute(ctx, s.Proof, id, sub)
		if !outChanged && !proofChanged {
			return s, false
		}
		cp := s
		cp.Out = newOut
		cp.Proof = newProof
		return cp, true
	}

	if !outChanged {
		return s, false
	}
	cp := s
	cp.Out = newOut
	return cp, true
}

func substituteMap(ctx *Ctx, m *Map, id uint64, sub Expr) (Expr, bool) {
	switch m.Tag {
	case MapAssumption:
		newType, typeChanged := Substitute(ctx, m.AssumptionType, id, sub)

		if m.AssumptionID == id {
			if !typeChanged {
				return m, false
			}
			cp := *m
			cp.AssumptionType = newType
			return &cp, true
		}

		newBody, bodyChanged := substituteAssumption(ctx, m.AssumptionBody, id, sub)
		if !typeChanged && !bodyChanged {
			return m, false
		}
		cp := *m
		cp.AssumptionType = newType
		cp.AssumptionBody = newBody
		return &cp, true

	case MapChoice:
		newLeft, leftChanged := substituteAssumption(ctx, m.ChoiceLeft, id, sub)
		newRight, rightChanged := substituteAssumption(ctx, m.ChoiceRight, id, sub)
		if !leftChanged && !rightChanged {
			return m, false
		}
		cp := *m
		cp.ChoiceLeft = newLeft
		cp.ChoiceRight = newRight
		return &cp, true

	case MapRecursion:
		if m.RecursionID == id {
			return m, false
		}
		newBody, changed := substituteAssumption(ctx, m.RecursionBody, id, sub)
		if !changed {
			return m, false
		}
		cp := *m
		cp.RecursionBody = newBody
		return &cp, true
	}
	panic("core: impossible map tag")
}
