// Package customs supplies the two built-in CustomOps the elaborator
// needs that have no dedicated Core expression variant: opaque string
// literals and the unbound-variable error marker.
// Both are ordinary users of the Custom extension slot (core.Custom) —
// nothing in internal/core knows about either.
package customs

import (
	"fmt"

	"github.com/duality-lang/duality/internal/core"
)

// StringValue is the payload of a string-literal Custom node.
type StringValue struct {
	Value string
}

// StringType is the payload of the string-literal Custom node's type —
// a single opaque, reflexively-equal atomic type with no constructors
// of its own beyond literals.
type StringType struct{}

// stringOps implements CustomOps for StringValue/StringType payloads.
// id is filled in by RegisterStrings immediately after registration so
// the ops can build new Custom nodes carrying their own registry id.
type stringOps struct {
	id uint64
}

// RegisterStrings registers the string custom ops with ctx and returns
// the registry id elaboration should use for string literals/types.
func RegisterStrings(ctx *core.Ctx) uint64 {
	ops := &stringOps{}
	id := ctx.Customs.Register(ops)
	ops.id = id
	return id
}

func (o *stringOps) literal(s string) core.Expr {
	return &core.Custom{RegistryID: o.id, Payload: StringValue{Value: s}}
}

func (o *stringOps) typ() core.Expr {
	return &core.Custom{RegistryID: o.id, Payload: StringType{}}
}

func (o *stringOps) TypeOf(ctx *core.Ctx, payload interface{}) core.Expr {
	if _, isValue := payload.(StringValue); isValue {
		return o.typ()
	}
	// The type of StringType itself: treated as classified by Any,
	// since this kernel has no separate universe hierarchy.
	return &core.Any{}
}

func (o *stringOps) IsEqual(ctx *core.Ctx, p1, p2 interface{}) core.Ternary {
	v1, ok1 := p1.(StringValue)
	v2, ok2 := p2.(StringValue)
	if ok1 && ok2 {
		if v1.Value == v2.Value {
			return core.Yes
		}
		return core.No
	}
	_, t1 := p1.(StringType)
	_, t2 := p2.(StringType)
	if t1 && t2 {
		return core.Yes
	}
	return core.No
}

func (o *stringOps) Check(ctx *core.Ctx, payload interface{}) (core.Expr, bool) {
	return nil, false
}

func (o *stringOps) RemoveMentionsInType(ctx *core.Ctx, payload interface{}, id uint64, currentPolarity core.Polarity) (core.Expr, bool) {
	return nil, false
}

func (o *stringOps) Eval(ctx *core.Ctx, payload interface{}) (core.Expr, bool) {
	if v, ok := payload.(StringValue); ok {
		return o.literal(v.Value), true
	}
	return o.typ(), true
}

func (o *stringOps) Substitute(ctx *core.Ctx, payload interface{}, id uint64, sub core.Expr) (core.Expr, bool) {
	return nil, false
}

func (o *stringOps) IsSubtype(ctx *core.Ctx, payload, otherPayload interface{}, subtypeExpr core.Expr) (core.Ternary, core.Expr, bool) {
	return o.IsEqual(ctx, payload, otherPayload), subtypeExpr, false
}

func (o *stringOps) ContainsThisVariable(ctx *core.Ctx, payload interface{}, id uint64) bool {
	return false
}

func (o *stringOps) VariableAppearsInPolarity(ctx *core.Ctx, payload interface{}, id uint64, currentPolarity core.Polarity, positive, negative *bool) {
}

func (o *stringOps) ToString(ctx *core.Ctx, payload interface{}) string {
	if v, ok := payload.(StringValue); ok {
		return fmt.Sprintf("%q", v.Value)
	}
	return "String"
}

// NewLiteral builds a string-literal Custom node for registry id
// (as returned by RegisterStrings).
func NewLiteral(id uint64, value string) core.Expr {
	return &core.Custom{RegistryID: id, Payload: StringValue{Value: value}}
}

// NewType builds the string-type Custom node for registry id.
func NewType(id uint64) core.Expr {
	return &core.Custom{RegistryID: id, Payload: StringType{}}
}
