// Package errors centralizes Duality's structured diagnostics: failures
// found in a checked tree are reported as a Report rather than a bare
// error string (Walk builds them), so a driving tool (CLI, LSP) can
// render, filter or serialize them uniformly.
package errors

// Error code constants, organized by the phase whose failures they name.
// Walk emits ELAB001 and CHK001; no code in this tree emits the others.
const (
	// ============================================================
	// Elaboration errors (ELAB###) — failures in internal/elaborate.
	// ============================================================

	// ELAB001 indicates an AST node referenced a name with no binding
	// in scope.
	ELAB001 = "ELAB001"

	// ELAB002 indicates a malformed literal (an unrecognized atomic
	// token in a position only a proof term or direction tag can fill).
	ELAB002 = "ELAB002"

	// ELAB003 indicates an implicit binder couldn't be inferred from
	// context during lowering.
	ELAB003 = "ELAB003"

	// ============================================================
	// Subtype errors (SUB###) — failures in internal/subtype.
	// ============================================================

	// SUB001 indicates a subtype judgement resolved to No.
	SUB001 = "SUB001"

	// SUB002 indicates a recursive-type subtype check failed to
	// terminate within the configured unfold budget.
	SUB002 = "SUB002"

	// ============================================================
	// Check errors (CHK###) — failures in internal/check.
	// ============================================================

	// CHK001 indicates an Elim's eliminee doesn't subtype its expected
	// continuation type.
	CHK001 = "CHK001"

	// CHK002 indicates an inference variable's constraints are
	// unsatisfiable (a recorded lower bound fails to subtype a
	// recorded upper bound).
	CHK002 = "CHK002"

	// ============================================================
	// Eval errors (EVL###) — failures in internal/eval.
	// ============================================================

	// EVL001 indicates evaluation got stuck on a malformed
	// elimination that the check pass should have rejected.
	EVL001 = "EVL001"

	// ============================================================
	// Internal errors (INT###) — kernel invariant violations.
	// ============================================================

	// INT001 indicates an impossible expression tag reached a
	// traversal's default case.
	INT001 = "INT001"

	// INT002 indicates a variable lookup failed against a scope that
	// should have guaranteed it was bound.
	INT002 = "INT002"
)
