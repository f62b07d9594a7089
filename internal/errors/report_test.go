package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestReportErrorRoundTripsThroughAsReport(t *testing.T) {
	rep := &Report{Schema: reportSchema, Code: CHK001, Phase: "check", Message: "boom"}
	wrapped := WrapReport(rep)

	var wrappedAgain error = wrapped
	got, ok := AsReport(wrappedAgain)
	if !ok {
		t.Fatalf("expected AsReport to recover the Report")
	}
	if got != rep {
		t.Fatalf("expected AsReport to return the same Report instance")
	}
}

func TestAsReportFailsOnAPlainError(t *testing.T) {
	if _, ok := AsReport(errors.New("not a report")); ok {
		t.Fatalf("expected AsReport to fail on a plain error")
	}
}

func TestToJSONContainsCodeAndMessage(t *testing.T) {
	rep := &Report{Schema: reportSchema, Code: ELAB001, Phase: "elaborate", Message: "unbound variable \"x\""}
	out, err := rep.ToJSON(true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(out, ELAB001) || !strings.Contains(out, "unbound variable") {
		t.Fatalf("expected JSON to contain the code and message, got %s", out)
	}
}
