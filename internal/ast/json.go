package ast

import (
	"fmt"

	"github.com/duality-lang/duality/internal/wire"
)

// ToJSON renders n as a JSON document describing its node shape. There
// is no surface grammar in this tree, so a JSON-encoded node tree is
// the concrete form the CLI and test fixtures read and write.
func ToJSON(n Node) []byte {
	return wire.ToText(toWireValue(n))
}

// FromJSON parses the JSON document produced by ToJSON back into a
// Node tree.
func FromJSON(data []byte) (Node, error) {
	v, _, err := wire.FromText(data)
	if err != nil {
		return nil, fmt.Errorf("ast: malformed JSON: %w", err)
	}
	return fromWireValue(v)
}

func field(v wire.Value, key string) (wire.Value, bool) {
	for _, m := range v.Object {
		if m.Key == key {
			return m.Value, true
		}
	}
	return wire.Value{}, false
}

func stringField(v wire.Value, key string) string {
	f, ok := field(v, key)
	if !ok {
		return ""
	}
	return f.Str
}

func boolField(v wire.Value, key string) bool {
	f, ok := field(v, key)
	return ok && f.Kind == wire.TagTrue
}

func nodeField(v wire.Value, key string) (Node, error) {
	f, ok := field(v, key)
	if !ok || f.Kind == wire.TagNull {
		return nil, nil
	}
	return fromWireValue(f)
}

func requiredNodeField(v wire.Value, key string) (Node, error) {
	n, err := nodeField(v, key)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("ast: missing required field %q", key)
	}
	return n, nil
}

func toWireValue(n Node) wire.Value {
	switch node := n.(type) {
	case *Variable:
		return wire.Obj(wire.Field("kind", wire.Str("variable")), wire.Field("name", wire.Str(node.Name)))

	case *Function:
		return wire.Obj(
			wire.Field("kind", wire.Str("function")),
			wire.Field("positive", wire.Bool(node.Positive)),
			wire.Field("implicit", wire.Bool(node.Implicit)),
			wire.Field("name", wire.Str(node.Name)),
			wire.Field("type", optionalNode(node.Type)),
			wire.Field("body", toWireValue(node.Body)),
		)

	case *Recursion:
		return wire.Obj(
			wire.Field("kind", wire.Str("recursion")),
			wire.Field("positive", wire.Bool(node.Positive)),
			wire.Field("implicit", wire.Bool(node.Implicit)),
			wire.Field("name", wire.Str(node.Name)),
			wire.Field("body", toWireValue(node.Body)),
		)

	case *List:
		elems := make([]wire.Value, len(node.Elements))
		for i, e := range node.Elements {
			elems[i] = toWireValue(e)
		}
		return wire.Obj(wire.Field("kind", wire.Str("list")), wire.Field("elements", wire.Arr(elems...)))

	case *Either:
		return wire.Obj(
			wire.Field("kind", wire.Str("either")),
			wire.Field("left", toWireValue(node.Left)),
			wire.Field("right", toWireValue(node.Right)),
		)

	case *DoBlock:
		stmts := make([]wire.Value, len(node.Statements))
		for i, s := range node.Statements {
			stmts[i] = wire.Obj(
				wire.Field("bind", wire.Str(s.BindName)),
				wire.Field("expr", toWireValue(s.Expr)),
			)
		}
		return wire.Obj(wire.Field("kind", wire.Str("do")), wire.Field("statements", wire.Arr(stmts...)))

	case *String:
		return wire.Obj(wire.Field("kind", wire.Str("string")), wire.Field("value", wire.Str(node.Value)))

	case *StringType:
		return wire.Obj(wire.Field("kind", wire.Str("string-type")))

	case *Any:
		return wire.Obj(wire.Field("kind", wire.Str("any")))

	case *Void:
		return wire.Obj(wire.Field("kind", wire.Str("void")))

	case *Juxtaposition:
		return wire.Obj(
			wire.Field("kind", wire.Str("juxtaposition")),
			wire.Field("func", toWireValue(node.Func)),
			wire.Field("arg", toWireValue(node.Arg)),
			wire.Field("out", optionalNode(node.Out)),
		)

	case *Simple:
		return wire.Obj(
			wire.Field("kind", wire.Str("simple")),
			wire.Field("target", toWireValue(node.Target)),
			wire.Field("op", wire.Str(simpleKindName(node.Kind))),
			wire.Field("proof", optionalNode(node.Proof)),
			wire.Field("out", optionalNode(node.Out)),
		)

	case *Map:
		return mapToWireValue(node)

	default:
		panic(fmt.Sprintf("ast: ToJSON: unhandled node type %T", n))
	}
}

func optionalNode(n Node) wire.Value {
	if n == nil {
		return wire.Null()
	}
	return toWireValue(n)
}

func simpleKindName(k SimpleKind) string {
	switch k {
	case SimpleProofKind:
		return "proof"
	case SimpleLeftKind:
		return "left"
	case SimpleRightKind:
		return "right"
	case SimpleUnfoldKind:
		return "unfold"
	case SimpleUnwrapKind:
		return "unwrap"
	default:
		panic(fmt.Sprintf("ast: unhandled SimpleKind %d", k))
	}
}

func simpleKindFromName(s string) (SimpleKind, error) {
	switch s {
	case "proof":
		return SimpleProofKind, nil
	case "left":
		return SimpleLeftKind, nil
	case "right":
		return SimpleRightKind, nil
	case "unfold":
		return SimpleUnfoldKind, nil
	case "unwrap":
		return SimpleUnwrapKind, nil
	default:
		return 0, fmt.Errorf("ast: unrecognized simple op %q", s)
	}
}

func mapToWireValue(node *Map) wire.Value {
	switch node.Kind {
	case MapSomeKind:
		return wire.Obj(
			wire.Field("kind", wire.Str("map")),
			wire.Field("variant", wire.Str("some")),
			wire.Field("implicit", wire.Bool(node.Implicit)),
			wire.Field("arg_name", wire.Str(node.ArgName)),
			wire.Field("arg_type", toWireValue(node.ArgType)),
			wire.Field("result", toWireValue(node.Result)),
		)
	case MapEitherKind:
		return wire.Obj(
			wire.Field("kind", wire.Str("map")),
			wire.Field("variant", wire.Str("either")),
			wire.Field("implicit", wire.Bool(node.Implicit)),
			wire.Field("left_name", wire.Str(node.LeftName)),
			wire.Field("left_type", toWireValue(node.LeftType)),
			wire.Field("left_result", toWireValue(node.LeftResult)),
			wire.Field("right_name", wire.Str(node.RightName)),
			wire.Field("right_type", toWireValue(node.RightType)),
			wire.Field("right_result", toWireValue(node.RightResult)),
		)
	case MapFinKind:
		return wire.Obj(
			wire.Field("kind", wire.Str("map")),
			wire.Field("variant", wire.Str("fin")),
			wire.Field("implicit", wire.Bool(node.Implicit)),
			wire.Field("rec_name", wire.Str(node.RecName)),
			wire.Field("rec_result", toWireValue(node.RecResult)),
		)
	default:
		panic(fmt.Sprintf("ast: unhandled MapKind %d", node.Kind))
	}
}

func fromWireValue(v wire.Value) (Node, error) {
	if v.Kind != wire.TagObject {
		return nil, fmt.Errorf("ast: expected a JSON object for a node, got tag %d", v.Kind)
	}

	switch stringField(v, "kind") {
	case "variable":
		return &Variable{Name: stringField(v, "name")}, nil

	case "function":
		typ, err := nodeField(v, "type")
		if err != nil {
			return nil, err
		}
		body, err := requiredNodeField(v, "body")
		if err != nil {
			return nil, err
		}
		return &Function{
			Positive: boolField(v, "positive"),
			Implicit: boolField(v, "implicit"),
			Name:     stringField(v, "name"),
			Type:     typ,
			Body:     body,
		}, nil

	case "recursion":
		body, err := requiredNodeField(v, "body")
		if err != nil {
			return nil, err
		}
		return &Recursion{
			Positive: boolField(v, "positive"),
			Implicit: boolField(v, "implicit"),
			Name:     stringField(v, "name"),
			Body:     body,
		}, nil

	case "list":
		elemsField, _ := field(v, "elements")
		elems := make([]Node, len(elemsField.Array))
		for i, e := range elemsField.Array {
			n, err := fromWireValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return &List{Elements: elems}, nil

	case "either":
		left, err := requiredNodeField(v, "left")
		if err != nil {
			return nil, err
		}
		right, err := requiredNodeField(v, "right")
		if err != nil {
			return nil, err
		}
		return &Either{Left: left, Right: right}, nil

	case "do":
		stmtsField, _ := field(v, "statements")
		stmts := make([]DoStatement, len(stmtsField.Array))
		for i, s := range stmtsField.Array {
			expr, err := requiredNodeField(s, "expr")
			if err != nil {
				return nil, err
			}
			stmts[i] = DoStatement{BindName: stringField(s, "bind"), Expr: expr}
		}
		return &DoBlock{Statements: stmts}, nil

	case "string":
		return &String{Value: stringField(v, "value")}, nil

	case "string-type":
		return &StringType{}, nil

	case "any":
		return &Any{}, nil

	case "void":
		return &Void{}, nil

	case "juxtaposition":
		fn, err := requiredNodeField(v, "func")
		if err != nil {
			return nil, err
		}
		arg, err := requiredNodeField(v, "arg")
		if err != nil {
			return nil, err
		}
		out, err := nodeField(v, "out")
		if err != nil {
			return nil, err
		}
		return &Juxtaposition{Func: fn, Arg: arg, Out: out}, nil

	case "simple":
		target, err := requiredNodeField(v, "target")
		if err != nil {
			return nil, err
		}
		kind, err := simpleKindFromName(stringField(v, "op"))
		if err != nil {
			return nil, err
		}
		proof, err := nodeField(v, "proof")
		if err != nil {
			return nil, err
		}
		out, err := nodeField(v, "out")
		if err != nil {
			return nil, err
		}
		return &Simple{Target: target, Kind: kind, Proof: proof, Out: out}, nil

	case "map":
		return mapFromWireValue(v)

	default:
		return nil, fmt.Errorf("ast: unrecognized node kind %q", stringField(v, "kind"))
	}
}

func mapFromWireValue(v wire.Value) (Node, error) {
	switch stringField(v, "variant") {
	case "some":
		argType, err := requiredNodeField(v, "arg_type")
		if err != nil {
			return nil, err
		}
		result, err := requiredNodeField(v, "result")
		if err != nil {
			return nil, err
		}
		return &Map{
			Kind:     MapSomeKind,
			Implicit: boolField(v, "implicit"),
			ArgName:  stringField(v, "arg_name"),
			ArgType:  argType,
			Result:   result,
		}, nil

	case "either":
		leftType, err := requiredNodeField(v, "left_type")
		if err != nil {
			return nil, err
		}
		leftResult, err := requiredNodeField(v, "left_result")
		if err != nil {
			return nil, err
		}
		rightType, err := requiredNodeField(v, "right_type")
		if err != nil {
			return nil, err
		}
		rightResult, err := requiredNodeField(v, "right_result")
		if err != nil {
			return nil, err
		}
		return &Map{
			Kind:        MapEitherKind,
			Implicit:    boolField(v, "implicit"),
			LeftName:    stringField(v, "left_name"),
			LeftType:    leftType,
			LeftResult:  leftResult,
			RightName:   stringField(v, "right_name"),
			RightType:   rightType,
			RightResult: rightResult,
		}, nil

	case "fin":
		recResult, err := requiredNodeField(v, "rec_result")
		if err != nil {
			return nil, err
		}
		return &Map{
			Kind:      MapFinKind,
			Implicit:  boolField(v, "implicit"),
			RecName:   stringField(v, "rec_name"),
			RecResult: recResult,
		}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized map variant %q", stringField(v, "variant"))
	}
}
