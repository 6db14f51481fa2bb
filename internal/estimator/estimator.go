// Package estimator produces resale viability estimates for a listing.
package estimator

import (
	"context"

	"vintelli-api/internal/model"
)

// Estimator computes an AnalysisResult for an item and its comparable sales.
type Estimator interface {
	Estimate(ctx context.Context, item model.ItemRecord, matches []model.ReferenceEntry) (model.AnalysisResult, error)
}
