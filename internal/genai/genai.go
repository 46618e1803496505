// Package genai talks to the external text-generation model.
package genai

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("genai: api key not configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("genai: empty response")

// Generator turns a prompt into text. There is no streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	codeFence      = regexp.MustCompile("(?s)```.*?```")
	headerMarker   = regexp.MustCompile(`#+[ \t]*`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F-\x9F]`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean strips markdown and control characters from model output so it can
// be shown as plain chat text.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = codeFence.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = headerMarker.ReplaceAllString(text, "")
	text = controlChars.ReplaceAllString(text, "")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
