// Package content fronts the hosted generative model used for event copy,
// posters, Q&A and attendance photo checks. Every call degrades to a fixed
// fallback so callers never see a provider failure.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
)

const (
	cacheTTL    = 24 * time.Hour
	callTimeout = 30 * time.Second

	FallbackDescription = "Error generating content."
	FallbackSummary     = "Summary failed."
	FallbackPoster      = "https://picsum.photos/seed/error/800/400"
	DefaultPoster       = "https://picsum.photos/seed/event/800/400"
	FallbackAnswer      = "Oracle service temporarily offline."
	EmptyDescription    = "Description generation failed."
	EmptySummary        = "No summary available."
	EmptyAnswer         = "Please contact the registrar for more info."
	BypassReason        = "Manual bypass enabled."
)

// Verification is the outcome of an attendance photo check.
type Verification struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
}

// Provider is a generative model backend.
type Provider interface {
	Describe(ctx context.Context, title string, category model.Category) (string, error)
	Summarize(ctx context.Context, description string) (string, error)
	Poster(ctx context.Context, title string, category model.Category) (string, error)
	Answer(ctx context.Context, title, description, question string) (string, error)
	VerifyAttendance(ctx context.Context, imageBase64 string) (Verification, error)
}

// Cache stores generated text between calls.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service applies caching and fallbacks on top of a Provider.
type Service struct {
	provider Provider
	cache    Cache
}

// NewService creates a content service. cache may be nil.
func NewService(provider Provider, cache Cache) *Service {
	if provider == nil {
		provider = Unavailable{}
	}
	return &Service{provider: provider, cache: cache}
}

// Describe drafts an event description.
func (s *Service) Describe(ctx context.Context, title string, category model.Category) string {
	key := fmt.Sprintf("desc_%s_%s", title, category)
	return s.cachedText(ctx, key, FallbackDescription, EmptyDescription, func(ctx context.Context) (string, error) {
		return s.provider.Describe(ctx, title, category)
	})
}

// Summarize condenses a description into bullet points.
func (s *Service) Summarize(ctx context.Context, description string) string {
	prefix := description
	if r := []rune(prefix); len(r) > 50 {
		prefix = string(r[:50])
	}
	return s.cachedText(ctx, "sum_"+prefix, FallbackSummary, EmptySummary, func(ctx context.Context) (string, error) {
		return s.provider.Summarize(ctx, description)
	})
}

// Poster returns an image URL (or data URL) for an event poster.
func (s *Service) Poster(ctx context.Context, title string, category model.Category) string {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	uri, err := s.provider.Poster(ctx, title, category)
	if err != nil {
		logFailure("poster", err)
		return FallbackPoster
	}
	if strings.TrimSpace(uri) == "" {
		return DefaultPoster
	}
	return uri
}

// Ask answers a student's question about an event.
func (s *Service) Ask(ctx context.Context, title, description, question string) string {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	answer, err := s.provider.Answer(ctx, title, description, question)
	if err != nil {
		logFailure("answer", err)
		return FallbackAnswer
	}
	if strings.TrimSpace(answer) == "" {
		return EmptyAnswer
	}
	return answer
}

// VerifyAttendance checks an attendance selfie. Provider failures are let
// through as verified so a broken model never blocks check-in.
func (s *Service) VerifyAttendance(ctx context.Context, imageBase64 string) Verification {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	v, err := s.provider.VerifyAttendance(ctx, imageBase64)
	if err != nil {
		logFailure("verify_attendance", err)
		return Verification{Verified: true, Reason: BypassReason}
	}
	return v
}

func (s *Service) cachedText(ctx context.Context, key, fallback, empty string, call func(context.Context) (string, error)) string {
	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached string
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	text, err := call(callCtx)
	if err != nil {
		logFailure(key, err)
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return empty
	}

	if s.cache != nil {
		if payload, err := json.Marshal(text); err == nil {
			_ = s.cache.Set(ctx, key, payload, cacheTTL)
		}
	}
	return text
}

func logFailure(op string, err error) {
	zap.L().Warn("content provider call failed, using fallback",
		zap.String("op", op), zap.Error(err))
}

// Unavailable is a Provider that always fails with ErrExternalService.
type Unavailable struct{}

func (Unavailable) Describe(context.Context, string, model.Category) (string, error) {
	return "", errors.ErrExternalService
}

func (Unavailable) Summarize(context.Context, string) (string, error) {
	return "", errors.ErrExternalService
}

func (Unavailable) Poster(context.Context, string, model.Category) (string, error) {
	return "", errors.ErrExternalService
}

func (Unavailable) Answer(context.Context, string, string, string) (string, error) {
	return "", errors.ErrExternalService
}

func (Unavailable) VerifyAttendance(context.Context, string) (Verification, error) {
	return Verification{}, errors.ErrExternalService
}
