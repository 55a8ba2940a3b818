package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-server/internal/domain"
	"portfolio-server/internal/integrations/emailrelay"
)

// RatingService forwards star-rating submissions to the email relay.
// Submissions are ephemeral: nothing is stored server-side, and the
// browser's "already rated" flag is not corroborated here.
type RatingService struct {
	dispatcher EmailDispatcher
}

func NewRatingService(dispatcher EmailDispatcher) (*RatingService, error) {
	if dispatcher == nil {
		return nil, errors.New("usecase: email dispatcher must not be nil")
	}
	return &RatingService{dispatcher: dispatcher}, nil
}

// Submit validates and dispatches one rating. The relay is called at
// most once; a failure is the caller's to report, not retried.
func (s *RatingService) Submit(ctx context.Context, in domain.RatingSubmission) error {
	if in.Stars < 1 || in.Stars > 5 {
		return newError(ErrorInvalidInput, "stars_out_of_range", nil)
	}
	email := ExtractEmail(in.Email)
	if email == "" {
		return newError(ErrorInvalidInput, "invalid_email", nil)
	}

	feedback := strings.TrimSpace(in.Feedback)
	if feedback == "" {
		feedback = "No feedback provided"
	}

	message := fmt.Sprintf(
		"⭐ New Rating Received!\n\nRating: %s%s (%d/5 stars)\nEmail: %s\nFeedback: %s\n\n---\nSent via Portfolio Rating System",
		strings.Repeat("★", in.Stars),
		strings.Repeat("☆", 5-in.Stars),
		in.Stars,
		email,
		feedback,
	)

	err := s.dispatcher.Send(ctx, emailrelay.TemplateParams{
		FromName:  fmt.Sprintf("Portfolio Rating: %d Stars", in.Stars),
		FromEmail: email,
		Message:   message,
		Subject:   fmt.Sprintf("⭐ New %d-Star Rating on Your Portfolio!", in.Stars),
	})
	if err != nil {
		return newError(ErrorUpstream, "rating_dispatch_error", err)
	}
	return nil
}
