package core

// CustomOps is the vtable every registered Custom registry id carries.
// It names the ten operations the rest of the kernel needs to delegate
// to when a traversal encounters a Custom node; every other part of
// the algorithm is agnostic to what customs actually do. The original
// vtable also carried retain/release hooks — Go's GC makes both
// unnecessary here.
//
// Implementations receive the Ctx so they can allocate fresh ids,
// consult the equal-variables stack, etc.
type CustomOps interface {
	// TypeOf returns the type of a custom payload.
	TypeOf(ctx *Ctx, payload interface{}) Expr

	// IsEqual compares two payloads of the same registry id.
	IsEqual(ctx *Ctx, p1, p2 interface{}) Ternary

	// Check lets a custom payload participate in the check pass; it
	// returns a replacement expression and whether one was produced.
	Check(ctx *Ctx, payload interface{}) (Expr, bool)

	// RemoveMentionsInType strips references to id from a custom
	// payload's type, honoring current polarity; returns the rewritten
	// expression and whether anything changed.
	RemoveMentionsInType(ctx *Ctx, payload interface{}, id uint64, currentPolarity Polarity) (Expr, bool)

	// Eval reduces a custom payload one step; isValue reports whether
	// the result is already in weak-head normal form.
	Eval(ctx *Ctx, payload interface{}) (result Expr, isValue bool)

	// Substitute replaces id with sub inside a custom payload; returns
	// the rewritten expression and whether anything changed.
	Substitute(ctx *Ctx, payload interface{}, id uint64, sub Expr) (Expr, bool)

	// IsSubtype checks a custom payload as the subtype side against
	// another payload of the same registry id, in the same spirit as
	// the main subtype engine: it may rewrite subtypeExpr.
	IsSubtype(ctx *Ctx, payload, otherPayload interface{}, subtypeExpr Expr) (Ternary, Expr, bool)

	// ContainsThisVariable reports whether id occurs anywhere in payload.
	ContainsThisVariable(ctx *Ctx, payload interface{}, id uint64) bool

	// VariableAppearsInPolarity accumulates into positive/negative
	// whether id appears in that polarity inside payload.
	VariableAppearsInPolarity(ctx *Ctx, payload interface{}, id uint64, currentPolarity Polarity, positive, negative *bool)

	// ToString renders payload in Duality's concrete syntax.
	ToString(ctx *Ctx, payload interface{}) string
}

// CustomRegistry maps a registry id to the CustomOps implementing it.
// Expressions carry only the id; the registry resolves it to a vtable,
// mirroring dy_core_custom_shared's indexed-array-of-vtables design.
type CustomRegistry struct {
	ops []CustomOps
}

// Register adds ops to the registry and returns the id new Custom
// expressions should carry.
func (r *CustomRegistry) Register(ops CustomOps) uint64 {
	id := uint64(len(r.ops))
	r.ops = append(r.ops, ops)
	return id
}

// Lookup returns the CustomOps registered for id.
func (r *CustomRegistry) Lookup(id uint64) CustomOps {
	if id >= uint64(len(r.ops)) {
		panic("core: unregistered custom id")
	}
	return r.ops[id]
}
