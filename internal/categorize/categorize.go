// Package categorize assigns an expense category to a free-text description
// using a language-model service.
package categorize

import (
	"context"

	"spendtrack/internal/core"
)

// Categorizer maps an expense description to one of the fixed categories.
// Implementations return an error on service failure; callers must fall back
// to core.CategoryOther rather than surfacing the failure to the user.
type Categorizer interface {
	Categorize(ctx context.Context, description string) (core.Category, error)
}

// Static always answers with a fixed category. It serves deployments without
// a configured model API key and keeps tests hermetic.
type Static struct {
	Category core.Category
}

func (s Static) Categorize(ctx context.Context, description string) (core.Category, error) {
	if s.Category == "" {
		return core.CategoryOther, nil
	}
	return s.Category, nil
}
