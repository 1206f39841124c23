package driven

import (
	"context"

	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

// SubmissionSink receives comment and review submissions. Implementations
// only record the attempt; nothing is sent anywhere.
type SubmissionSink interface {
	SubmitComment(ctx context.Context, c model.CommentSubmission) error
	SubmitReview(ctx context.Context, r model.ReviewSubmission) error
}
