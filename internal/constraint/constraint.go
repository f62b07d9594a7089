// Package constraint resolves and merges the bounds subtype checking
// appends to a Ctx's constraint log (C4). The log itself — append,
// watermark, rollback — lives as methods on core.Ctx, since every
// caller of internal/subtype touches it directly; this package is the
// higher-level logic built on top: turning a region of that log into a
// single resolved bound (Get) or folding two regions into one (Join).
package constraint

import "github.com/duality-lang/duality/internal/core"

// Get resolves the current bound recorded for id, starting the scan at
// start (a watermark into ctx.Constraints). Positive polarity resolves
// the lower bound, negative resolves the upper bound; a variable
// occurring free inside the bound is wrapped in an implicit recursion
// over id, preserving its own occurrence inside its resolved value —
// the same occurs-check accommodation internal/subtype's recursive-type
// handling relies on.
func Get(ctx *core.Ctx, id uint64, polarity core.Polarity, start int) (core.Expr, bool) {
	for i := start; i < len(ctx.Constraints); i++ {
		c := ctx.Constraints[i]
		if c.ID != id {
			continue
		}

		if c.Lower == nil && c.Upper == nil {
			panic("constraint: entry with neither bound")
		}

		varExpr := &core.Variable{ID: id}

		if polarity == core.Positive {
			if c.Lower == nil {
				return nil, false
			}
			if substituted, changed := core.Substitute(ctx, c.Lower, id, varExpr); changed {
				return core.NewRecursion(core.Positive, true, id, substituted), true
			}
			return c.Lower, true
		}

		if c.Upper == nil {
			return nil, false
		}
		if substituted, changed := core.Substitute(ctx, c.Upper, id, varExpr); changed {
			return core.NewRecursion(core.Negative, true, id, substituted), true
		}
		return c.Upper, true
	}

	return nil, false
}

// Join merges the constraint log region [start2, end) into the region
// [start1, start2), matching entries by id. Bounds present on both
// sides are combined into an implicit choice (product on the lower
// side, wrapped at the flipped polarity; sum on the upper side, wrapped
// at polarity) unless they're already equal, in which case the
// duplicate is simply dropped. Entries in [start2, end) that found no
// match in [start1, start2) are left in place as new, independent
// constraints.
//
// Join is what two branches that each accumulated constraints for the
// same inference variable — the two arms of a Choice, say — use to
// fold back into a single consistent view before the caller decides
// whether to keep or roll back the merged result.
func Join(ctx *core.Ctx, start1, start2 int, polarity core.Polarity) {
	out := ctx.Constraints[:start2:start2]
	tail := append([]core.Constraint(nil), ctx.Constraints[start2:]...)

	for _, c := range tail {
		merged := false
		for k := start1; k < start2; k++ {
			c2 := out[k]
			if c.ID != c2.ID {
				continue
			}

			if c.Lower != nil && c2.Lower != nil {
				if core.AreEqual(ctx, c.Lower, c2.Lower) != core.Yes {
					c2.Lower = core.NewChoice(polarity.Flip(), true, c2.Lower, c.Lower)
				}
			} else if c.Lower != nil {
				c2.Lower = c.Lower
			}

			if c.Upper != nil && c2.Upper != nil {
				if core.AreEqual(ctx, c.Upper, c2.Upper) != core.Yes {
					c2.Upper = core.NewChoice(polarity, true, c2.Upper, c.Upper)
				}
			} else if c.Upper != nil {
				c2.Upper = c.Upper
			}

			out[k] = c2
			merged = true
			break
		}

		if !merged {
			out = append(out, c)
		}
	}

	ctx.Constraints = out
}
