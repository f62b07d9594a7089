package core

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLiteral returns s in Unicode NFC form (s itself when it is
// already normalized). Pretty does not call it: printing writes
// string-literal payloads as they are stored.
func NormalizeLiteral(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Pretty renders expr in Duality's concrete syntax: fun/some for
// positive/negative assumptions, list/either for choices, inf/fin for
// recursions, @ for implicit binders, ~>/-> for negative/positive
// simple problems, and FAIL/MAYBE tags on Elim nodes whose CheckResult
// isn't Yes.
func Pretty(ctx *Ctx, e Expr) string {
	var b strings.Builder
	writeExpr(ctx, &b, e)
	return b.String()
}

func writeExpr(ctx *Ctx, b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Intro:
		writeIntro(ctx, b, e)
	case *Elim:
		writeElim(ctx, b, e)
	case *Map:
		writeMap(ctx, b, e)
	case *Variable:
		b.WriteString(strconv.FormatUint(e.ID, 10))
	case *InferenceVar:
		b.WriteByte('?')
		b.WriteString(strconv.FormatUint(e.ID, 10))
	case *Any:
		b.WriteString("Any")
	case *Void:
		b.WriteString("Void")
	case *InferenceCtx:
		b.WriteString("[INFER ")
		b.WriteString(strconv.FormatUint(e.ID, 10))
		b.WriteString(e.Polarity.String())
		b.WriteString("] ")
		writeExpr(ctx, b, e.Body)
	case *Custom:
		ops := ctx.Customs.Lookup(e.RegistryID)
		b.WriteString(ops.ToString(ctx, e.Payload))
	default:
		panic("core: impossible expr type")
	}
}

func writeIntro(ctx *Ctx, b *strings.Builder, e *Intro) {
	if e.IsComplex {
		switch e.ComplexTag {
		case ComplexAssumption:
			if e.Polarity == Positive {
				b.WriteString("fun ")
			} else {
				b.WriteString("some ")
			}
			if e.Implicit {
				b.WriteString("@ ")
			}
			if ContainsThisVariable(ctx, e.Assumption.ID, e.Assumption.Body) {
				b.WriteString(strconv.FormatUint(e.Assumption.ID, 10))
			} else {
				b.WriteByte('_')
			}
			b.WriteString(" : ")
			writeExpr(ctx, b, e.Assumption.Type)
			b.WriteString(" => ")
			writeExpr(ctx, b, e.Assumption.Body)
		case ComplexChoice:
			if e.Polarity == Positive {
				b.WriteString("list ")
			} else {
				b.WriteString("either ")
			}
			if e.Implicit {
				b.WriteString("@ ")
			}
			b.WriteString("{ ")
			writeExpr(ctx, b, e.Choice.Left)
			b.WriteString(", ")
			writeExpr(ctx, b, e.Choice.Right)
			b.WriteString(" }")
		case ComplexRecursion:
			if e.Polarity == Positive {
				b.WriteString("inf ")
			} else {
				b.WriteString("fin ")
			}
			if e.Implicit {
				b.WriteString("@ ")
			}
			if ContainsThisVariable(ctx, e.Recursion.ID, e.Recursion.Body) {
				b.WriteString(strconv.FormatUint(e.Recursion.ID, 10))
			} else {
				b.WriteByte('_')
			}
			b.WriteString(" = ")
			writeExpr(ctx, b, e.Recursion.Body)
		default:
			panic("core: impossible complex tag")
		}
		return
	}

	writeSimple(ctx, b, e.Simple)
	if e.Polarity == Positive {
		if e.Implicit {
			b.WriteString(" @-> ")
		} else {
			b.WriteString(" -> ")
		}
	} else {
		if e.Implicit {
			b.WriteString(" @~> ")
		} else {
			b.WriteString(" ~> ")
		}
	}
	writeExpr(ctx, b, e.Simple.Out)
}

func writeSimple(ctx *Ctx, b *strings.Builder, s Simple) {
	switch s.Tag {
	case SimpleProof:
		b.WriteByte('(')
		writeExpr(ctx, b, s.Proof)
		b.WriteByte(')')
	case SimpleDirection:
		b.WriteString(s.Direction.String())
	case SimpleUnfold:
		b.WriteString("Unfold")
	case SimpleUnwrap:
		b.WriteString("Unwrap")
	}
}

func writeElim(ctx *Ctx, b *strings.Builder, e *Elim) {
	b.WriteByte('(')
	writeExpr(ctx, b, e.Expr)
	b.WriteByte(')')

	if e.Implicit {
		b.WriteString(" @ ")
	} else {
		b.WriteByte(' ')
	}

	switch e.Simple.Tag {
	case SimpleProof:
		b.WriteByte('(')
		writeExpr(ctx, b, e.Simple.Proof)
		b.WriteByte(')')
	case SimpleDirection:
		b.WriteString(e.Simple.Direction.String())
	case SimpleUnfold:
		b.WriteString("Unfold")
	case SimpleUnwrap:
		b.WriteString("Unwrap")
	}

	b.WriteString(" : ")

	if e.EvalImmediately {
		b.WriteString("$$$ ")
	}

	switch e.CheckResult {
	case No:
		b.WriteString("FAIL ")
	case Maybe:
		b.WriteString("MAYBE ")
	}

	writeExpr(ctx, b, e.Simple.Out)
}

func writeMap(ctx *Ctx, b *strings.Builder, e *Map) {
	switch e.Tag {
	case MapAssumption:
		b.WriteString("map some ")
		if e.Implicit {
			b.WriteString("@ ")
		}
		b.WriteString(strconv.FormatUint(e.AssumptionID, 10))
		b.WriteString(" : ")
		writeExpr(ctx, b, e.AssumptionType)
		b.WriteString(" => ")
		b.WriteString(strconv.FormatUint(e.AssumptionBody.ID, 10))
		b.WriteString(" : ")
		writeExpr(ctx, b, e.AssumptionBody.Type)
		b.WriteString(" => ")
		writeExpr(ctx, b, e.AssumptionBody.Body)
	case MapChoice:
		b.WriteString("map either ")
		if e.Implicit {
			b.WriteString("@ ")
		}
		b.WriteString("{ ")
		b.WriteString(strconv.FormatUint(e.ChoiceLeft.ID, 10))
		b.WriteString(" : ")
		writeExpr(ctx, b, e.ChoiceLeft.Type)
		b.WriteString(" => ")
		writeExpr(ctx, b, e.ChoiceLeft.Body)
		b.WriteString(", ")
		b.WriteString(strconv.FormatUint(e.ChoiceRight.ID, 10))
		b.WriteString(" : ")
		writeExpr(ctx, b, e.ChoiceRight.Type)
		b.WriteString(" => ")
		writeExpr(ctx, b, e.ChoiceRight.Body)
		b.WriteString(" }")
	case MapRecursion:
		b.WriteString("map fin ")
		if e.Implicit {
			b.WriteString("@ ")
		}
		b.WriteString(strconv.FormatUint(e.RecursionID, 10))
		b.WriteString(" = ")
		b.WriteString(strconv.FormatUint(e.RecursionBody.ID, 10))
		b.WriteString(" : ")
		writeExpr(ctx, b, e.RecursionBody.Type)
		b.WriteString(" => ")
		writeExpr(ctx, b, e.RecursionBody.Body)
	default:
		panic("core: impossible map tag")
	}
}
