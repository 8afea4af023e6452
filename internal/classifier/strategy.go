// Package classifier implements the type-detection engine: an ordered
// pipeline of strategies (keyword rules, exact cache lookup, fuzzy cache
// match, optionally AI) that maps an expense description to a main/sub
// category pair. Classification is advisory: the pipeline never fails, it
// degrades to the empty pair.
package classifier

import (
	"context"

	"expensebot/internal/models"
)

// TypeStrategy is one stage of the detection pipeline. Detect receives the
// already-lowercased description and reports whether it produced a match.
type TypeStrategy interface {
	Detect(ctx context.Context, descLower string) (models.TypePair, bool)

	// Name identifies the strategy in logs.
	Name() string
}
