package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/junsung-park97/matetrip-frontend-sub001/internal/ai"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/logger"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matching"
	"github.com/junsung-park97/matetrip-frontend-sub001/internal/matetrip"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Composer drafts accompany-request greetings with Gemini.
type Composer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewComposer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Composer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Composer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (c *Composer) Compose(ctx context.Context, viewer *matetrip.Profile, entry matching.Entry) (*ai.Greeting, error) {
	if viewer == nil {
		return nil, fmt.Errorf("viewer profile is required")
	}
	if entry.Post == nil {
		return nil, fmt.Errorf("post is required")
	}

	profileJSON, err := json.MarshalIndent(viewer, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	postJSON, err := json.MarshalIndent(entry.Post, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal post payload: %w", err)
	}

	prompt := buildPrompt(string(profileJSON), string(postJSON), sharedKeywords(entry))

	c.logger.Debug("gemini compose request",
		zap.String("post_id", entry.Post.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini compose response",
		zap.String("post_id", entry.Post.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, c.maxLogLen)),
	)

	greeting, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	greeting.Raw = raw
	return greeting, nil
}

func sharedKeywords(entry matching.Entry) string {
	var all []string
	all = append(all, entry.Info.Styles...)
	all = append(all, entry.Info.Tendencies...)

	joined, ok := matching.JoinOverlap(all)
	if !ok {
		return "(none)"
	}
	return joined
}

func buildPrompt(profileJSON, postJSON, keywords string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_JSON}}\n\nPost:\n{{POST_JSON}}\n\nShared keywords: {{KEYWORDS}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{POST_JSON}}", postJSON)
	prompt = strings.ReplaceAll(prompt, "{{KEYWORDS}}", keywords)
	return prompt
}

func parseResponse(raw string) (*ai.Greeting, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	message := coerceString(data["message"])
	if message == "" {
		return nil, fmt.Errorf("gemini response contains no message")
	}

	return &ai.Greeting{Message: message}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
