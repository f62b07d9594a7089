package core

// FreeVar is an in-scope variable binding: its id and type.
type FreeVar struct {
	ID   uint64
	Type Expr
}

// EqualVariables is a pair of binder ids established as alpha-equivalent
// for the duration of a structural-equality or substitution recursion.
type EqualVariables struct {
	ID1, ID2 uint64
}

// PastSubtypeCheck memoises a recursive-type subtype call to guarantee
// termination: subtype/supertype bodies already in flight, plus the
// coinductive substitute variable recorded on the first visit, if any.
type PastSubtypeCheck struct {
	Subtype, Supertype Expr
	SubstituteVarID    uint64
	HaveSubstituteVarID bool
}

// Constraint is a per-inference-variable bound: a lower and/or upper
// bound expression. Multiple entries may share an id; Join collapses
// them lazily (see internal/constraint).
type Constraint struct {
	ID    uint64
	Lower Expr
	Upper Expr
}

// Ctx is the mutable workspace threaded through every kernel operation.
// It is uniquely owned by the current check/eval call — there is no
// cross-stack sharing, and a Ctx is never read concurrently.
type Ctx struct {
	runningID uint64

	FreeVariables    []FreeVar
	EqualVariables   []EqualVariables
	PastSubtypeChecks []PastSubtypeCheck
	Constraints      []Constraint

	Customs *CustomRegistry

	// RecursionUnfoldBudget caps how many un-memoised recursive-type
	// unfoldings IsSubtype will perform before giving up with Maybe
	// instead of continuing to unfold. Zero means unlimited. This is a
	// diagnostic guard against a pathological, genuinely non-terminating
	// comparison, not part of the termination argument for the normal
	// (memoised-hit) case, which needs no such cap.
	RecursionUnfoldBudget int
	recursionUnfoldCount  int
}

// NewCtx builds an empty Ctx with a fresh custom registry.
func NewCtx() *Ctx {
	return &Ctx{Customs: &CustomRegistry{}}
}

// ConsumeRecursionUnfold counts one recursive-type unfolding against
// RecursionUnfoldBudget, returning false once the budget (if any) is
// exhausted.
func (c *Ctx) ConsumeRecursionUnfold() bool {
	c.recursionUnfoldCount++
	if c.RecursionUnfoldBudget <= 0 {
		return true
	}
	return c.recursionUnfoldCount <= c.RecursionUnfoldBudget
}

// FreshID returns a new id strictly greater than every id previously
// issued by this Ctx, maintaining the fresh-id discipline invariant.
func (c *Ctx) FreshID() uint64 {
	id := c.runningID
	c.runningID++
	return id
}

// ObserveID advances the running counter past id, so that any later
// FreshID call still yields ids strictly greater than ids introduced
// from outside (e.g. by the elaborator before the checker ever runs).
func (c *Ctx) ObserveID(id uint64) {
	if id >= c.runningID {
		c.runningID = id + 1
	}
}

// PushFreeVariable records a variable in scope and returns a function
// that pops it back off — a scoped-acquisition idiom in place of
// hand-written push/pop pairs.
func (c *Ctx) PushFreeVariable(id uint64, typ Expr) (pop func()) {
	c.FreeVariables = append(c.FreeVariables, FreeVar{ID: id, Type: typ})
	return func() {
		c.FreeVariables = c.FreeVariables[:len(c.FreeVariables)-1]
	}
}

// PushEqualVariables records id1/id2 as alpha-equivalent for the scope
// of a recursive equality/substitution call.
func (c *Ctx) PushEqualVariables(id1, id2 uint64) (pop func()) {
	c.EqualVariables = append(c.EqualVariables, EqualVariables{ID1: id1, ID2: id2})
	return func() {
		c.EqualVariables = c.EqualVariables[:len(c.EqualVariables)-1]
	}
}

// LookupEqualVariable scans the equal-variables stack in both orderings
// for id and reports the paired id, if any.
func (c *Ctx) LookupEqualVariable(id uint64) (other uint64, found bool) {
	for _, v := range c.EqualVariables {
		if v.ID1 == id {
			return v.ID2, true
		}
		if v.ID2 == id {
			return v.ID1, true
		}
	}
	return 0, false
}

// VariablesEqual decides alpha-equivalence of two binder ids: literally
// equal, or paired on the equal-variables stack in either ordering.
func (c *Ctx) VariablesEqual(id1, id2 uint64) Ternary {
	if id1 == id2 {
		return Yes
	}
	for _, v := range c.EqualVariables {
		if (v.ID1 == id1 && v.ID2 == id2) || (v.ID1 == id2 && v.ID2 == id1) {
			return Yes
		}
	}
	return Maybe
}

// PushPastSubtypeCheck records a subtype/supertype pair as "in flight"
// before unfolding a recursive type, guarding against infinite descent.
func (c *Ctx) PushPastSubtypeCheck(entry PastSubtypeCheck) (pop func()) {
	c.PastSubtypeChecks = append(c.PastSubtypeChecks, entry)
	return func() {
		c.PastSubtypeChecks = c.PastSubtypeChecks[:len(c.PastSubtypeChecks)-1]
	}
}

// FindPastSubtypeCheck searches the past-subtype-check stack for an
// entry whose subtype/supertype are alpha-equal to the given pair.
func (c *Ctx) FindPastSubtypeCheck(subtype, supertype Expr) (PastSubtypeCheck, bool) {
	for i := len(c.PastSubtypeChecks) - 1; i >= 0; i-- {
		entry := c.PastSubtypeChecks[i]
		if AreEqual(c, entry.Subtype, subtype) == Yes && AreEqual(c, entry.Supertype, supertype) == Yes {
			return entry, true
		}
	}
	return PastSubtypeCheck{}, false
}

// ConstraintWatermark returns the current length of the constraint log,
// to be passed to FreeConstraintsFrom on a failing branch.
func (c *Ctx) ConstraintWatermark() int {
	return len(c.Constraints)
}

// FreeConstraintsFrom truncates the constraint log back to watermark,
// discarding everything appended since — the rollback half of the
// constraint-monotonicity discipline a failed speculative branch relies on.
func (c *Ctx) FreeConstraintsFrom(watermark int) {
	c.Constraints = c.Constraints[:watermark]
}

// AddConstraint appends a new constraint entry to the log.
func (c *Ctx) AddConstraint(entry Constraint) {
	c.Constraints = append(c.Constraints, entry)
}
