// Package narrative produces the human-readable explanation attached to a risk score.
//
// Text generation is delegated to an external Explainer (usually a hosted language
// model). Every call is bounded by a timeout and falls back to a deterministic
// template, so callers always receive a sentence.
package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/reliability"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single Explain call including retries
const DefaultTimeout = 5 * time.Second

// ErrEmptyExplanation is returned when the collaborator answers with blank text
var ErrEmptyExplanation = errors.New("explainer returned empty text")

// Request carries the figures the explanation is about
type Request struct {
	Profile    domain.RiskProfile `json:"profile"`
	Trend      string             `json:"trend"`
	Score      int                `json:"score"`
	Volatility float64            `json:"volatility"`
}

// Explainer is the external text-generation collaborator
type Explainer interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// Source says where an explanation came from
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Outcome is the result of an explanation attempt. Err is set only when
// Source is SourceFallback and records why the collaborator was bypassed.
type Outcome struct {
	Err    error  `json:"-"`
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Service calls the Explainer with timeout, retry and fallback
type Service struct {
	explainer Explainer
	timeout   time.Duration
	retry     reliability.RetryConfig
	log       zerolog.Logger
}

// NewService creates a narrative service. A nil explainer always uses the template.
func NewService(explainer Explainer, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		explainer: explainer,
		timeout:   timeout,
		retry:     reliability.DefaultRetryConfig(),
		log:       log.With().Str("component", "narrative").Logger(),
	}
}

// WithRetry overrides the retry policy
func (s *Service) WithRetry(cfg reliability.RetryConfig) *Service {
	s.retry = cfg
	return s
}

// Explain returns generated text, or the templated fallback when the
// collaborator is missing, fails, answers blank or exceeds the timeout.
func (s *Service) Explain(ctx context.Context, req Request) Outcome {
	if s.explainer == nil {
		return Outcome{Text: Template(req), Source: SourceFallback}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var text string
	result := reliability.WithExponentialBackoff(callCtx, s.retry, s.log, func(ctx context.Context, _ int) error {
		t, err := s.callOnce(ctx, req)
		if err != nil {
			return err
		}
		text = t
		return nil
	})

	if result.Success {
		return Outcome{Text: text, Source: SourceGenerated}
	}

	s.log.Warn().
		Err(result.LastError).
		Int("attempts", result.Attempts).
		Int("score", req.Score).
		Msg("Explainer unavailable, using templated narrative")

	return Outcome{Text: Template(req), Source: SourceFallback, Err: result.LastError}
}

// callOnce runs the collaborator in its own goroutine so an implementation that
// ignores ctx still cannot block past the deadline.
func (s *Service) callOnce(ctx context.Context, req Request) (string, error) {
	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := s.explainer.Explain(ctx, req)
		ch <- reply{text: text, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		if strings.TrimSpace(r.text) == "" {
			return "", ErrEmptyExplanation
		}
		return strings.TrimSpace(r.text), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
