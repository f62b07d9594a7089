package elaborate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duality-lang/duality/internal/ast"
	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/customs"
)

func TestUnboundVariableBecomesMarkerCustom(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	result := e.Elaborate(&ast.Variable{Name: "nope"})

	custom, ok := result.(*core.Custom)
	require.True(t, ok, "expected unbound variable to lower to a Custom marker")
	_, isUnbound := custom.Payload.(customs.UnboundVariable)
	assert.True(t, isUnbound)
}

func TestBoundVariableResolvesToBinderID(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	fn := &ast.Function{
		Positive: true,
		Name:     "x",
		Type:     &ast.Void{},
		Body:     &ast.Variable{Name: "x"},
	}

	result := e.Elaborate(fn)

	intro, ok := result.(*core.Intro)
	require.True(t, ok)
	require.Equal(t, core.ComplexAssumption, intro.ComplexTag)

	v, ok := intro.Assumption.Body.(*core.Variable)
	require.True(t, ok, "body should resolve to a bound Variable, not an unbound marker")
	assert.Equal(t, intro.Assumption.ID, v.ID)
}

func TestUntypedFunctionIsWrappedInNegativeInferenceCtx(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	fn := &ast.Function{
		Positive: true,
		Name:     "x",
		Body:     &ast.Variable{Name: "x"},
	}

	result := e.Elaborate(fn)

	ictx, ok := result.(*core.InferenceCtx)
	require.True(t, ok, "untyped binder should be wrapped in an InferenceCtx")
	assert.Equal(t, core.Negative, ictx.Polarity)
}

func TestJuxtapositionLowersToElimWithDeferredCheck(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	j := &ast.Juxtaposition{
		Func: &ast.Variable{Name: "f"},
		Arg:  &ast.StringType{},
	}

	// f is unbound here, but that's fine — elaboration never fails.
	result := e.Elaborate(j)

	ictx, ok := result.(*core.InferenceCtx)
	require.True(t, ok, "juxtaposition with no Out annotation infers one")
	elim, ok := ictx.Body.(*core.Elim)
	require.True(t, ok)
	assert.Equal(t, core.Maybe, elim.CheckResult)
	assert.Equal(t, core.SimpleProof, elim.Simple.Tag)
}

func TestListLowersToRightAssociatedPositiveChoice(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	list := &ast.List{Elements: []ast.Node{&ast.Any{}, &ast.Void{}, &ast.Any{}}}
	result := e.Elaborate(list)

	outer, ok := result.(*core.Intro)
	require.True(t, ok)
	require.Equal(t, core.ComplexChoice, outer.ComplexTag)
	require.Equal(t, core.Positive, outer.Polarity)

	inner, ok := outer.Choice.Right.(*core.Intro)
	require.True(t, ok, "list of 3 should right-associate into a nested Choice")
	assert.Equal(t, core.ComplexChoice, inner.ComplexTag)
}

func TestEmptyListLowersToVoid(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	result := e.Elaborate(&ast.List{})
	_, isVoid := result.(*core.Void)
	assert.True(t, isVoid)
}

func TestEitherLowersToNegativeChoice(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	result := e.Elaborate(&ast.Either{Left: &ast.Any{}, Right: &ast.Void{}})

	intro, ok := result.(*core.Intro)
	require.True(t, ok)
	assert.Equal(t, core.ComplexChoice, intro.ComplexTag)
	assert.Equal(t, core.Negative, intro.Polarity)
}

// do { def f = fun x : String => x; f 'hi' }: the second statement
// applies the first's binding. Elaboration can't run the program, but the shape it
// produces should be an inference-wrapped Elim of a wrapped Assumption.
func TestDoBlockUnfoldsIntoCallbackPassingApplication(t *testing.T) {
	ctx := core.NewCtx()
	e := New(ctx)

	identity := &ast.Function{
		Positive: true,
		Name:     "x",
		Type:     &ast.StringType{},
		Body:     &ast.Variable{Name: "x"},
	}
	block := &ast.DoBlock{
		Statements: []ast.DoStatement{
			{BindName: "f", Expr: identity},
			{Expr: &ast.Juxtaposition{Func: &ast.Variable{Name: "f"}, Arg: &ast.String{Value: "hi"}}},
		},
	}

	result := e.Elaborate(block)

	outer, ok := result.(*core.InferenceCtx)
	require.True(t, ok)
	elim, ok := outer.Body.(*core.Elim)
	require.True(t, ok)
	assert.Equal(t, core.Maybe, elim.CheckResult)

	fnCtx, ok := elim.Expr.(*core.InferenceCtx)
	require.True(t, ok, "the callback function's domain is inferred")
	assert.Equal(t, core.Negative, fnCtx.Polarity)
}
