package core

// TypeOf computes the type of expr. Because Duality's term-formers
// simultaneously describe a problem shape and its solution shape, the
// type of an Intro is structurally the same Intro with its own
// subexpressions replaced by their types and its polarity forced
// positive (a type lives on the producer side); the type of an Elim is
// simply its cached Out (the continuation type the check pass already
// computed); the type of an application (Elim in value position) is
// its solution's Out.
func TypeOf(ctx *Ctx, expr Expr) Expr {
	switch e := expr.(type) {
	case *Intro:
		cp := *e
		cp.Polarity = Positive
		if e.IsComplex {
			switch e.ComplexTag {
			case ComplexAssumption:
				pop := ctx.PushFreeVariable(e.Assumption.ID, e.Assumption.Type)
				bodyType := TypeOf(ctx, e.Assumption.Body)
				pop()
				cp.Assumption = Assumption{ID: e.Assumption.ID, Type: e.Assumption.Type, Body: bodyType}
			case ComplexChoice:
				cp.Choice = Choice{Left: TypeOf(ctx, e.Choice.Left), Right: TypeOf(ctx, e.Choice.Right)}
			case ComplexRecursion:
				pop := ctx.PushFreeVariable(e.Recursion.ID, &Variable{ID: e.Recursion.ID})
				bodyType := TypeOf(ctx, e.Recursion.Body)
				pop()
				cp.Recursion = Recursion{ID: e.Recursion.ID, Body: bodyType}
			}
			return &cp
		}
		cp.Simple.Out = TypeOf(ctx, e.Simple.Out)
		return &cp

	case *Elim:
		return e.Simple.Out

	case *Variable:
		for i := len(ctx.FreeVariables) - 1; i >= 0; i-- {
			if ctx.FreeVariables[i].ID == e.ID {
				return ctx.FreeVariables[i].Type
			}
		}
		panic("core: TypeOf: unbound variable")

	case *Any, *Void:
		return &Void{}

	case *InferenceVar:
		return &Any{}

	case *InferenceCtx:
		panic("core: TypeOf reached an InferenceCtx")

	case *Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		return ops.TypeOf(ctx, e.Payload)

	case *Map:
		// A Map's type is itself: it already lives at the type level
		// (it types generic consumers, it is not itself a value with a
		// further type).
		return e
	}
	panic("core: impossible expr type")
}
