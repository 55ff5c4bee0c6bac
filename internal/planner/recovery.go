package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// RawSnippetLimit caps how much of a bad reply is echoed back to callers.
const RawSnippetLimit = 800

// PlanItem is the element shape the prompts ask the model for. Recovery does
// not enforce it; it is the contract documented to clients and used by the
// structured-output schema.
type PlanItem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Plan is a recovered JSON array. Elements are kept as the model produced
// them so no field is dropped or coerced on the way back to the caller.
type Plan []json.RawMessage

// FormatError means the model reply could not be read as a JSON array.
type FormatError struct {
	// Raw is the first RawSnippetLimit characters of the original reply.
	Raw   string
	Cause error
}

func (e *FormatError) Error() string {
	return "AI output parse failed"
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

var errNotArray = errors.New("not an array")

// Recoverer turns model output into a Plan.
type Recoverer interface {
	Recover(text string) (Plan, error)
}

var bracketSpan = regexp.MustCompile(`\[[\s\S]*\]`)

// BracketSpan takes the span from the first '[' to the last ']' and parses
// it. With no span it parses the whole text. It mis-extracts when the reply
// contains several bracketed spans or brackets in surrounding prose.
type BracketSpan struct{}

func (BracketSpan) Recover(text string) (Plan, error) {
	candidate := bracketSpan.FindString(text)
	if candidate == "" {
		candidate = text
	}
	return parseArray(text, candidate)
}

// StrictJSON expects the reply to be a JSON array on its own, optionally
// wrapped in a markdown code fence. Used with structured-output mode.
type StrictJSON struct{}

func (StrictJSON) Recover(text string) (Plan, error) {
	return parseArray(text, stripCodeFence(text))
}

func parseArray(original, candidate string) (Plan, error) {
	trimmed := bytes.TrimSpace([]byte(candidate))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, newFormatError(original, errors.New("invalid JSON"))
		}
		return nil, newFormatError(original, errNotArray)
	}

	var plan Plan
	if err := json.Unmarshal(trimmed, &plan); err != nil {
		return nil, newFormatError(original, err)
	}
	return plan, nil
}

func newFormatError(original string, cause error) *FormatError {
	return &FormatError{Raw: truncate(original, RawSnippetLimit), Cause: cause}
}

// truncate keeps the first n characters (runes) of s. Characters outside the
// Basic Multilingual Plane, such as emoji, count as one here while a UTF-16
// based cut would count them as two, so snippets holding them can run longer
// than a JavaScript client slicing the same reply at n.
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func stripCodeFence(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
