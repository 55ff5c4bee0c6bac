/*
Package planner turns a plan request into a plan: it renders the prompt for
the requested kind, asks the text generator for a reply and recovers a JSON
array from that reply. It holds no state between calls.
*/
package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// TextGenerator produces model output for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service wires a generator to a recovery strategy.
type Service struct {
	gen       TextGenerator
	recoverer Recoverer
}

// NewService returns a Service. A nil recoverer selects BracketSpan.
func NewService(gen TextGenerator, recoverer Recoverer) *Service {
	if recoverer == nil {
		recoverer = BracketSpan{}
	}
	return &Service{gen: gen, recoverer: recoverer}
}

// Generate runs one plan request end to end. Generator errors are returned
// unchanged and recovery is skipped; recovery failures come back as
// *FormatError.
func (s *Service) Generate(ctx context.Context, kind Kind, req PlanRequest) (Plan, error) {
	logger := zerolog.Ctx(ctx)

	prompt, err := kind.Prompt(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Msg("Plan generation failed upstream")
		return nil, err
	}

	plan, err := s.recoverer.Recover(text)
	if err != nil {
		logger.Warn().Err(err).Str("kind", string(kind)).Int("reply_chars", len(text)).Msg("Could not recover plan from model reply")
		return nil, err
	}

	logger.Info().
		Str("kind", string(kind)).
		Int("items", len(plan)).
		Dur("elapsed", time.Since(start)).
		Msg("Plan generated")

	return plan, nil
}
