// Package reports holds read-only aggregations over the comment data.
package reports

import (
	"context"

	"github.com/moviehub-app/backend/internal/models"
)

// DefaultLimit is the report size when the caller does not choose one.
const DefaultLimit = 20

// CommentReporter is the aggregation contract the comment store provides.
type CommentReporter interface {
	TopCommenters(ctx context.Context, limit int64) ([]models.CommenterStat, error)
}

// Service answers "who comments the most".
type Service struct {
	comments CommentReporter
}

func NewService(comments CommentReporter) *Service {
	return &Service{comments: comments}
}

// TopCommenters returns up to limit commenters ordered by comment count
// descending. Non-positive limits fall back to DefaultLimit.
func (s *Service) TopCommenters(ctx context.Context, limit int64) ([]models.CommenterStat, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.comments.TopCommenters(ctx, limit)
}
