package ast

import "testing"

func roundTrip(t *testing.T, n Node) Node {
	t.Helper()
	data := ToJSON(n)
	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed on %s: %v", data, err)
	}
	return got
}

func TestJSONRoundTripsAFunctionOverAVariable(t *testing.T) {
	original := &Function{
		Positive: true,
		Name:     "x",
		Type:     &StringType{},
		Body:     &Variable{Name: "x"},
	}

	got, ok := roundTrip(t, original).(*Function)
	if !ok {
		t.Fatalf("expected *Function, got %T", got)
	}
	if got.Name != "x" || !got.Positive {
		t.Fatalf("unexpected function shape: %+v", got)
	}
	if _, ok := got.Type.(*StringType); !ok {
		t.Fatalf("expected Type to round-trip as *StringType, got %T", got.Type)
	}
	if v, ok := got.Body.(*Variable); !ok || v.Name != "x" {
		t.Fatalf("expected Body to round-trip as Variable x, got %+v", got.Body)
	}
}

func TestJSONRoundTripsNilOptionalFields(t *testing.T) {
	original := &Juxtaposition{Func: &Variable{Name: "f"}, Arg: &Variable{Name: "a"}, Out: nil}

	got, ok := roundTrip(t, original).(*Juxtaposition)
	if !ok {
		t.Fatalf("expected *Juxtaposition, got %T", got)
	}
	if got.Out != nil {
		t.Fatalf("expected Out to round-trip as nil, got %+v", got.Out)
	}
}

func TestJSONRoundTripsListAndEither(t *testing.T) {
	list := &List{Elements: []Node{&Void{}, &Any{}}}
	got, ok := roundTrip(t, list).(*List)
	if !ok || len(got.Elements) != 2 {
		t.Fatalf("expected a 2-element list, got %+v", got)
	}

	either := &Either{Left: &Void{}, Right: &Any{}}
	gotEither, ok := roundTrip(t, either).(*Either)
	if !ok {
		t.Fatalf("expected *Either, got %T", gotEither)
	}
	if _, ok := gotEither.Left.(*Void); !ok {
		t.Fatalf("expected Left to round-trip as Void")
	}
}

func TestJSONRoundTripsDoBlock(t *testing.T) {
	do := &DoBlock{Statements: []DoStatement{
		{BindName: "x", Expr: &Variable{Name: "f"}},
		{Expr: &Variable{Name: "x"}},
	}}
	got, ok := roundTrip(t, do).(*DoBlock)
	if !ok || len(got.Statements) != 2 {
		t.Fatalf("expected a 2-statement do block, got %+v", got)
	}
	if got.Statements[0].BindName != "x" {
		t.Fatalf("expected first statement to bind x, got %+v", got.Statements[0])
	}
	if got.Statements[1].BindName != "" {
		t.Fatalf("expected second statement to be a bare expression")
	}
}

func TestJSONRoundTripsAllThreeMapVariants(t *testing.T) {
	some := &Map{Kind: MapSomeKind, ArgName: "x", ArgType: &Any{}, Result: &Variable{Name: "x"}}
	gotSome, ok := roundTrip(t, some).(*Map)
	if !ok || gotSome.Kind != MapSomeKind || gotSome.ArgName != "x" {
		t.Fatalf("unexpected map-some round trip: %+v", gotSome)
	}

	either := &Map{
		Kind: MapEitherKind, LeftName: "l", LeftType: &Any{}, LeftResult: &Variable{Name: "l"},
		RightName: "r", RightType: &Any{}, RightResult: &Variable{Name: "r"},
	}
	gotEither, ok := roundTrip(t, either).(*Map)
	if !ok || gotEither.Kind != MapEitherKind || gotEither.RightName != "r" {
		t.Fatalf("unexpected map-either round trip: %+v", gotEither)
	}

	fin := &Map{Kind: MapFinKind, RecName: "self", RecResult: &Void{}}
	gotFin, ok := roundTrip(t, fin).(*Map)
	if !ok || gotFin.Kind != MapFinKind || gotFin.RecName != "self" {
		t.Fatalf("unexpected map-fin round trip: %+v", gotFin)
	}
}

func TestFromJSONRejectsUnrecognizedKind(t *testing.T) {
	if _, err := FromJSON([]byte(`{"kind":"not-a-real-kind"}`)); err == nil {
		t.Fatalf("expected an error for an unrecognized node kind")
	}
}
