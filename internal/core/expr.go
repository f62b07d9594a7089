// Package core implements Duality's Core IR: the elaborated, fully
// explicit intermediate language the rest of the kernel operates on.
//
// Every term-former comes in a positive (producer) and negative
// (consumer) variant. Expr values are immutable once built; operations
// that "change" an expression (substitution, checking, evaluation)
// return a new tree rather than mutating the input.
package core

import "fmt"

// Polarity distinguishes the producer (positive) and consumer (negative)
// facet of a symmetric connective.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// Flip returns the opposite polarity.
func (p Polarity) Flip() Polarity {
	if p == Positive {
		return Negative
	}
	return Positive
}

func (p Polarity) String() string {
	if p == Positive {
		return "+"
	}
	return "-"
}

// Ternary is the result of every semantic relation in the kernel:
// Yes (proven), No (provably false) or Maybe (undetermined, deferred).
type Ternary int

const (
	Yes Ternary = iota
	No
	Maybe
)

func (t Ternary) String() string {
	switch t {
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return "Maybe"
	}
}

// And implements ternary short-circuiting conjunction:
// Yes ∧ x = x, No ∧ _ = No, Maybe ∧ Yes = Maybe.
//
// All internal conjunctions go through this helper rather than being
// inlined by hand.
func And(a, b Ternary) Ternary {
	if a == No {
		return No
	}
	if a == Yes {
		return b
	}
	// a == Maybe
	if b == No {
		return No
	}
	return Maybe
}

// AndLazy short-circuits without evaluating b when a is already No.
func AndLazy(a Ternary, b func() Ternary) Ternary {
	if a == No {
		return No
	}
	return And(a, b())
}

// Direction is the Left/Right tag used by simple destructors of
// Choice-shaped problems.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "L"
	}
	return "R"
}

// SimpleTag distinguishes the four kinds of simple (atomic) eliminators/
// introductions: a proof term, a direction tag, Unfold, and Unwrap.
type SimpleTag int

const (
	SimpleProof SimpleTag = iota
	SimpleDirection
	SimpleUnfold
	SimpleUnwrap
)

// Expr is the common interface implemented by every Core expression
// variant. It is a closed sum of exactly nine tags (ExprTag).
type Expr interface {
	// Tag returns the concrete variant discriminator.
	Tag() ExprTag

	exprNode()
}

// ExprTag enumerates the nine Core expression variants.
type ExprTag int

const (
	TagIntro ExprTag = iota
	TagElim
	TagMap
	TagVariable
	TagInferenceVar
	TagAny
	TagVoid
	TagInferenceCtx
	TagCustom
)

func (t ExprTag) String() string {
	switch t {
	case TagIntro:
		return "Intro"
	case TagElim:
		return "Elim"
	case TagMap:
		return "Map"
	case TagVariable:
		return "Variable"
	case TagInferenceVar:
		return "InferenceVar"
	case TagAny:
		return "Any"
	case TagVoid:
		return "Void"
	case TagInferenceCtx:
		return "InferenceCtx"
	case TagCustom:
		return "Custom"
	}
	return fmt.Sprintf("ExprTag(%d)", int(t))
}

// --- Intro -------------------------------------------------------------

// ComplexTag distinguishes the three "complex" Intro shapes.
type ComplexTag int

const (
	ComplexAssumption ComplexTag = iota
	ComplexChoice
	ComplexRecursion
)

// Assumption is a dependent binder: `(id, type, body)`.
type Assumption struct {
	ID   uint64
	Type Expr
	Body Expr
}

// Choice is an ordered pair, interpreted as a sum or a product depending
// on the enclosing Intro's polarity.
type Choice struct {
	Left  Expr
	Right Expr
}

// Recursion is an equirecursive fixpoint `(id, body)`; Body references
// ID but never the enclosing node itself, so the tree stays acyclic.
type Recursion struct {
	ID   uint64
	Body Expr
}

// Simple is one of {proof, direction, Unfold, Unwrap} paired with an Out
// expression — the expected/observed continuation type.
type Simple struct {
	Tag       SimpleTag
	Proof     Expr      // valid iff Tag == SimpleProof
	Direction Direction // valid iff Tag == SimpleDirection
	Out       Expr
}

// Intro introduces a problem. Polarity distinguishes producer (positive)
// from consumer (negative); Implicit marks an implicit argument/binder.
type Intro struct {
	Polarity  Polarity
	Implicit  bool
	IsComplex bool

	// Valid iff IsComplex.
	ComplexTag ComplexTag
	Assumption Assumption
	Choice     Choice
	Recursion  Recursion

	// Valid iff !IsComplex.
	Simple Simple
}

func (*Intro) exprNode()     {}
func (*Intro) Tag() ExprTag  { return TagIntro }

// NewAssumption builds a positive or negative dependent-binder Intro.
func NewAssumption(pol Polarity, implicit bool, id uint64, typ, body Expr) Expr {
	return &Intro{
		Polarity:   pol,
		Implicit:   implicit,
		IsComplex:  true,
		ComplexTag: ComplexAssumption,
		Assumption: Assumption{ID: id, Type: typ, Body: body},
	}
}

// NewChoice builds a positive (sum/list) or negative (product/either)
// ordered-pair Intro.
func NewChoice(pol Polarity, implicit bool, left, right Expr) Expr {
	return &Intro{
		Polarity:   pol,
		Implicit:   implicit,
		IsComplex:  true,
		ComplexTag: ComplexChoice,
		Choice:     Choice{Left: left, Right: right},
	}
}

// NewRecursion builds a positive (inf) or negative (fin) equirecursive
// fixpoint Intro.
func NewRecursion(pol Polarity, implicit bool, id uint64, body Expr) Expr {
	return &Intro{
		Polarity:   pol,
		Implicit:   implicit,
		IsComplex:  true,
		ComplexTag: ComplexRecursion,
		Recursion:  Recursion{ID: id, Body: body},
	}
}

// NewSimpleIntro builds a simple (proof/direction/Unfold/Unwrap) Intro
// paired with its Out continuation type.
func NewSimpleIntro(pol Polarity, implicit bool, simple Simple) Expr {
	return &Intro{
		Polarity:  pol,
		Implicit:  implicit,
		IsComplex: false,
		Simple:    simple,
	}
}

// --- Elim ----------------------------------------------------------------

// Elim eliminates Expr against Simple. CheckResult is cached by the
// check pass (C5); EvalImmediately marks a site for immediate
// reduction. internal/eval does not read it; Pretty shows it as $$$.
type Elim struct {
	Expr           Expr
	Simple         Simple
	Implicit       bool
	CheckResult    Ternary
	EvalImmediately bool
}

func (*Elim) exprNode()    {}
func (*Elim) Tag() ExprTag { return TagElim }

// --- Map -------------------------------------------------------------

// MapTag distinguishes which Core shape a Map quantifies over.
type MapTag int

const (
	MapAssumption MapTag = iota
	MapChoice
	MapRecursion
)

// MapDependence records whether a Map's codomain was found to depend on
// its bound variable; computed lazily, hence the "not checked" state.
type MapDependence int

const (
	DependenceNotChecked MapDependence = iota
	DependenceDependent
	DependenceIndependent
)

// Map is a universally-quantified rewrite over assumption/choice/
// recursion domains, used to type generic consumers.
type Map struct {
	Tag      MapTag
	Implicit bool

	// Valid iff Tag == MapAssumption.
	AssumptionID         uint64
	AssumptionType       Expr
	AssumptionBody       Assumption
	AssumptionDependence MapDependence

	// Valid iff Tag == MapChoice.
	ChoiceLeft           Assumption
	ChoiceRight          Assumption
	ChoiceLeftDependence MapDependence
	ChoiceRightDependence MapDependence

	// Valid iff Tag == MapRecursion.
	RecursionID         uint64
	RecursionBody       Assumption
	RecursionDependence MapDependence
}

func (*Map) exprNode()    {}
func (*Map) Tag() ExprTag { return TagMap }

// --- Variable / InferenceVar / Any / Void -------------------------------

// Variable is a free/bound name identified by a monotonically assigned id.
type Variable struct {
	ID uint64
}

func (*Variable) exprNode()    {}
func (*Variable) Tag() ExprTag { return TagVariable }

// InferenceVar is a metavariable awaiting solution via constraint
// resolution; kept distinct from Variable to drive constraint generation.
type InferenceVar struct {
	ID uint64
}

func (*InferenceVar) exprNode()    {}
func (*InferenceVar) Tag() ExprTag { return TagInferenceVar }

// Any is the top type/value.
type Any struct{}

func (*Any) exprNode()    {}
func (*Any) Tag() ExprTag { return TagAny }

// Void is the bottom type/value.
type Void struct{}

func (*Void) exprNode()    {}
func (*Void) Tag() ExprTag { return TagVoid }

// --- InferenceCtx --------------------------------------------------------

// InferenceCtx introduces an inference variable with a polarity: the
// side on which it must eventually be resolved.
type InferenceCtx struct {
	ID       uint64
	Polarity Polarity
	Body     Expr
}

func (*InferenceCtx) exprNode()    {}
func (*InferenceCtx) Tag() ExprTag { return TagInferenceCtx }

// --- Custom ----------------------------------------------------------

// Custom is the user-extension slot: a registry id and an opaque
// payload dispatched through the CustomOps vtable registered for that id.
type Custom struct {
	RegistryID uint64
	Payload    interface{}
}

func (*Custom) exprNode()    {}
func (*Custom) Tag() ExprTag { return TagCustom }
