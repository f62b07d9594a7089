// Package elaborate lowers surface internal/ast nodes into Core
// (internal/core): every binder gets a fresh id,
// untyped binders are wrapped in an InferenceCtx awaiting a solved type
// (a binder with a type annotation keeps that type and gets no
// InferenceCtx, whether or not it is implicit), juxtaposition becomes an Elim with a deferred check
// result, lists/eithers become right-associated Choice pairs, and
// do-blocks unfold into nested function application.
package elaborate

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/duality-lang/duality/internal/ast"
	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/customs"
)

// scope maps a surface name to the Core binder id currently shadowing
// it. Lowering never mutates a scope in place — each binder lowers its
// body against a derived copy, so sibling branches never see each
// other's names.
type scope map[string]uint64

func (s scope) with(name string, id uint64) scope {
	next := make(scope, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = id
	return next
}

// Elaborator holds the registry ids of the built-in customs (strings,
// unbound-variable markers) lowering needs to reach for. One
// Elaborator is good for the lifetime of a single Ctx.
type Elaborator struct {
	ctx        *core.Ctx
	stringsID  uint64
	unboundID  uint64
}

// New registers Elaborate's built-in customs against ctx and returns an
// Elaborator ready to lower AST nodes into it.
func New(ctx *core.Ctx) *Elaborator {
	return &Elaborator{
		ctx:       ctx,
		stringsID: customs.RegisterStrings(ctx),
		unboundID: customs.RegisterUnboundVariable(ctx),
	}
}

// Elaborate lowers a top-level node with an empty scope.
func (e *Elaborator) Elaborate(node ast.Node) core.Expr {
	return e.lower(node, scope{})
}

func (e *Elaborator) lower(node ast.Node, sc scope) core.Expr {
	switch n := node.(type) {
	case *ast.Variable:
		if id, ok := sc[n.Name]; ok {
			return &core.Variable{ID: id}
		}
		return customs.NewUnboundVariable(e.unboundID, n.Name, n.Position().Start.String())

	case *ast.Any:
		return &core.Any{}

	case *ast.Void:
		return &core.Void{}

	case *ast.String:
		return customs.NewLiteral(e.stringsID, norm.NFC.String(n.Value))

	case *ast.StringType:
		return customs.NewType(e.stringsID)

	case *ast.Function:
		return e.lowerFunction(n, sc)

	case *ast.Recursion:
		return e.lowerRecursion(n, sc)

	case *ast.List:
		return e.lowerList(n.Elements, sc)

	case *ast.Either:
		left := e.lower(n.Left, sc)
		right := e.lower(n.Right, sc)
		return core.NewChoice(core.Negative, false, left, right)

	case *ast.Juxtaposition:
		return e.lowerJuxtaposition(n, sc)

	case *ast.Simple:
		return e.lowerSimple(n, sc)

	case *ast.Map:
		return e.lowerMap(n, sc)

	case *ast.DoBlock:
		return e.lowerDoBlock(n.Statements, sc)
	}
	panic(fmt.Sprintf("elaborate: unhandled ast node %T", node))
}

func polarityOf(positive bool) core.Polarity {
	if positive {
		return core.Positive
	}
	return core.Negative
}

func (e *Elaborator) lowerFunction(n *ast.Function, sc scope) core.Expr {
	id := e.ctx.FreshID()
	bodyScope := sc.with(n.Name, id)
	body := e.lower(n.Body, bodyScope)

	if n.Type != nil {
		typ := e.lower(n.Type, sc)
		return core.NewAssumption(polarityOf(n.Positive), n.Implicit, id, typ, body)
	}

	// No annotation: the binder's type is an inference variable,
	// resolved negative (it's consumed, not produced, by the binder).
	infID := e.ctx.FreshID()
	assumption := core.NewAssumption(polarityOf(n.Positive), n.Implicit, id, &core.InferenceVar{ID: infID}, body)
	return &core.InferenceCtx{ID: infID, Polarity: core.Negative, Body: assumption}
}

func (e *Elaborator) lowerRecursion(n *ast.Recursion, sc scope) core.Expr {
	id := e.ctx.FreshID()
	bodyScope := sc.with(n.Name, id)
	body := e.lower(n.Body, bodyScope)
	return core.NewRecursion(polarityOf(n.Positive), n.Implicit, id, body)
}

// lowerList right-associates N elements into nested positive Choice
// pairs: [a, b, c] => Choice(a, Choice(b, c)). An empty list has
// nothing to choose between, so it lowers to Void.
func (e *Elaborator) lowerList(elements []ast.Node, sc scope) core.Expr {
	if len(elements) == 0 {
		return &core.Void{}
	}
	if len(elements) == 1 {
		return e.lower(elements[0], sc)
	}
	head := e.lower(elements[0], sc)
	tail := e.lowerList(elements[1:], sc)
	return core.NewChoice(core.Positive, false, head, tail)
}

func (e *Elaborator) lowerJuxtaposition(n *ast.Juxtaposition, sc scope) core.Expr {
	fn := e.lower(n.Func, sc)
	arg := e.lower(n.Arg, sc)

	if n.Out != nil {
		out := e.lower(n.Out, sc)
		return &core.Elim{
			Expr:        fn,
			Simple:      core.Simple{Tag: core.SimpleProof, Proof: arg, Out: out},
			CheckResult: core.Maybe,
		}
	}

	infID := e.ctx.FreshID()
	elim := &core.Elim{
		Expr:        fn,
		Simple:      core.Simple{Tag: core.SimpleProof, Proof: arg, Out: &core.InferenceVar{ID: infID}},
		CheckResult: core.Maybe,
	}
	return &core.InferenceCtx{ID: infID, Polarity: core.Positive, Body: elim}
}

func (e *Elaborator) lowerSimple(n *ast.Simple, sc scope) core.Expr {
	target := e.lower(n.Target, sc)

	simple := core.Simple{}
	switch n.Kind {
	case ast.SimpleProofKind:
		simple.Tag = core.SimpleProof
		simple.Proof = e.lower(n.Proof, sc)
	case ast.SimpleLeftKind:
		simple.Tag = core.SimpleDirection
		simple.Direction = core.Left
	case ast.SimpleRightKind:
		simple.Tag = core.SimpleDirection
		simple.Direction = core.Right
	case ast.SimpleUnfoldKind:
		simple.Tag = core.SimpleUnfold
	case ast.SimpleUnwrapKind:
		simple.Tag = core.SimpleUnwrap
	}

	if n.Out != nil {
		simple.Out = e.lower(n.Out, sc)
		return &core.Elim{Expr: target, Simple: simple, CheckResult: core.Maybe}
	}

	infID := e.ctx.FreshID()
	simple.Out = &core.InferenceVar{ID: infID}
	elim := &core.Elim{Expr: target, Simple: simple, CheckResult: core.Maybe}
	return &core.InferenceCtx{ID: infID, Polarity: core.Positive, Body: elim}
}

func (e *Elaborator) lowerMap(n *ast.Map, sc scope) core.Expr {
	switch n.Kind {
	case ast.MapSomeKind:
		id := e.ctx.FreshID()
		domain := e.lower(n.ArgType, sc)
		codomain := e.lower(n.Result, sc.with(n.ArgName, id))
		return &core.Map{
			Tag:            core.MapAssumption,
			Implicit:       n.Implicit,
			AssumptionID:   id,
			AssumptionType: domain,
			AssumptionBody: core.Assumption{ID: id, Type: domain, Body: codomain},
		}

	case ast.MapEitherKind:
		leftID := e.ctx.FreshID()
		rightID := e.ctx.FreshID()
		leftType := e.lower(n.LeftType, sc)
		rightType := e.lower(n.RightType, sc)
		leftBody := e.lower(n.LeftResult, sc.with(n.LeftName, leftID))
		rightBody := e.lower(n.RightResult, sc.with(n.RightName, rightID))
		return &core.Map{
			Tag:         core.MapChoice,
			Implicit:    n.Implicit,
			ChoiceLeft:  core.Assumption{ID: leftID, Type: leftType, Body: leftBody},
			ChoiceRight: core.Assumption{ID: rightID, Type: rightType, Body: rightBody},
		}

	default: // ast.MapFinKind
		recID := e.ctx.FreshID()
		inner := e.lower(n.RecResult, sc.with(n.RecName, recID))
		if innerMap, ok := inner.(*core.Map); ok && innerMap.Tag == core.MapAssumption {
			return &core.Map{
				Tag:           core.MapRecursion,
				Implicit:      n.Implicit,
				RecursionID:   recID,
				RecursionBody: innerMap.AssumptionBody,
			}
		}
		// RecResult didn't lower to a `some` quantifier — degenerate to
		// a binder over the recursive variable itself.
		return &core.Map{
			Tag:           core.MapRecursion,
			Implicit:      n.Implicit,
			RecursionID:   recID,
			RecursionBody: core.Assumption{ID: recID, Type: &core.Variable{ID: recID}, Body: inner},
		}
	}
}

// lowerDoBlock unfolds `def name = expr; rest` into
// `(fun name : ? => rest) expr` — the continuation becomes the body of
// a function immediately applied to expr, inverting the surface
// top-to-bottom reading into nested callback-passing application. A
// bare (non-binding) statement binds an unused name. The final
// statement in the block is returned as-is.
func (e *Elaborator) lowerDoBlock(stmts []ast.DoStatement, sc scope) core.Expr {
	if len(stmts) == 0 {
		return &core.Void{}
	}
	if len(stmts) == 1 {
		return e.lower(stmts[0].Expr, sc)
	}

	head := stmts[0]
	arg := e.lower(head.Expr, sc)

	name := head.BindName
	if name == "" {
		name = "_"
	}
	id := e.ctx.FreshID()
	continuation := e.lowerDoBlock(stmts[1:], sc.with(name, id))

	domainInfID := e.ctx.FreshID()
	fn := core.NewAssumption(core.Positive, false, id, &core.InferenceVar{ID: domainInfID}, continuation)
	wrappedFn := &core.InferenceCtx{ID: domainInfID, Polarity: core.Negative, Body: fn}

	outInfID := e.ctx.FreshID()
	elim := &core.Elim{
		Expr:        wrappedFn,
		Simple:      core.Simple{Tag: core.SimpleProof, Proof: arg, Out: &core.InferenceVar{ID: outInfID}},
		CheckResult: core.Maybe,
	}
	return &core.InferenceCtx{ID: outInfID, Polarity: core.Positive, Body: elim}
}
