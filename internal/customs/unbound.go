package customs

import (
	"fmt"

	"github.com/duality-lang/duality/internal/core"
)

// UnboundVariable is the payload elaboration attaches when a surface
// Variable node names nothing in scope. It is not a checking failure —
// elaboration always succeeds; this node simply
// carries the name and source position through checking unchanged, for
// the post-check walker (internal/errors.Walk) to find and report.
type UnboundVariable struct {
	Name string
	Pos  string // formatted source position; kept as a string to avoid an internal/ast import here
}

type unboundOps struct {
	id uint64
}

// RegisterUnboundVariable registers the unbound-variable marker ops
// with ctx and returns its registry id.
func RegisterUnboundVariable(ctx *core.Ctx) uint64 {
	ops := &unboundOps{}
	id := ctx.Customs.Register(ops)
	ops.id = id
	return id
}

// NewUnboundVariable builds an unbound-variable marker Custom node for
// registry id (as returned by RegisterUnboundVariable).
func NewUnboundVariable(id uint64, name, pos string) core.Expr {
	return &core.Custom{RegistryID: id, Payload: UnboundVariable{Name: name, Pos: pos}}
}

// Every marker's type is Any: an unbound reference could have been used
// anywhere, and typing it Any keeps the failure from cascading into
// unrelated subtype errors downstream of the real mistake.
func (o *unboundOps) TypeOf(ctx *core.Ctx, payload interface{}) core.Expr {
	return &core.Any{}
}

func (o *unboundOps) IsEqual(ctx *core.Ctx, p1, p2 interface{}) core.Ternary {
	u1 := p1.(UnboundVariable)
	u2 := p2.(UnboundVariable)
	if u1.Name == u2.Name && u1.Pos == u2.Pos {
		return core.Yes
	}
	return core.No
}

// Check leaves the marker in the tree untouched — checking doesn't
// fail here, it propagates.
func (o *unboundOps) Check(ctx *core.Ctx, payload interface{}) (core.Expr, bool) {
	return nil, false
}

func (o *unboundOps) RemoveMentionsInType(ctx *core.Ctx, payload interface{}, id uint64, currentPolarity core.Polarity) (core.Expr, bool) {
	return nil, false
}

func (o *unboundOps) Eval(ctx *core.Ctx, payload interface{}) (core.Expr, bool) {
	u := payload.(UnboundVariable)
	return &core.Custom{RegistryID: o.id, Payload: u}, true
}

func (o *unboundOps) Substitute(ctx *core.Ctx, payload interface{}, id uint64, sub core.Expr) (core.Expr, bool) {
	return nil, false
}

// IsSubtype never hard-fails here: the marker stands in for "unknown",
// so it's treated as compatible with whatever it's compared against
// rather than raising a second error on top of the one already
// attached to it.
func (o *unboundOps) IsSubtype(ctx *core.Ctx, payload, otherPayload interface{}, subtypeExpr core.Expr) (core.Ternary, core.Expr, bool) {
	return core.Maybe, subtypeExpr, false
}

func (o *unboundOps) ContainsThisVariable(ctx *core.Ctx, payload interface{}, id uint64) bool {
	return false
}

func (o *unboundOps) VariableAppearsInPolarity(ctx *core.Ctx, payload interface{}, id uint64, currentPolarity core.Polarity, positive, negative *bool) {
}

func (o *unboundOps) ToString(ctx *core.Ctx, payload interface{}) string {
	u := payload.(UnboundVariable)
	return fmt.Sprintf("<unbound %s at %s>", u.Name, u.Pos)
}
