package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/frontend-future/clip-jolt/config"
	"github.com/frontend-future/clip-jolt/models"
	"github.com/frontend-future/clip-jolt/pkg/errs"
	"github.com/frontend-future/clip-jolt/pkg/logger"
)

// Generator produces the structured text artifacts a reel needs.
type Generator interface {
	CodingSnippet(ctx context.Context) (*models.CodingSnippet, error)
	CaptionText(ctx context.Context) (*models.CaptionText, error)
}

const codingChallengePrompt = `Generate one mini coding reel idea: a 3-5 line JavaScript snippet with at least one console.log whose output is surprising. Do not reveal the answer.
Respond with ONLY valid JSON, no markdown fences:
{"difficulty": "EASY" | "MEDIUM" | "HARD", "code": "the snippet", "caption": "What is the output? Drop your guess below."}`

const captionPrompt = `Write one short vertical video text set for a career-change audience: a curiosity hook (no emojis, under 60 characters), a long caption with numbered emotional bullets using emojis, and a comment-keyword CTA line with the keyword in quotes. Generate a unique hook each time.
Respond with ONLY valid JSON, no markdown fences:
{"hook": "...", "caption": "...", "cta": "..."}`

type openAIGenerator struct {
	cfg  *config.Config
	log  logger.Logger
	http *http.Client
}

// New - returns the generator backed by an OpenAI-compatible chat
// completions endpoint. The primary model is retried, then the fallback
// model gets one attempt with lenient JSON extraction.
func New(cfg *config.Config, log logger.Logger) Generator {
	return &openAIGenerator{
		cfg:  cfg,
		log:  log,
		http: &http.Client{},
	}
}

func (g *openAIGenerator) CodingSnippet(ctx context.Context) (*models.CodingSnippet, error) {
	var snippet models.CodingSnippet
	if err := g.generateInto(ctx, codingChallengePrompt, &snippet); err != nil {
		return nil, err
	}

	if snippet.Code == "" || snippet.Difficulty == "" {
		return nil, &errs.TextGenerationError{Attempts: []error{
			fmt.Errorf("model returned an incomplete snippet: %+v", snippet),
		}}
	}

	return &snippet, nil
}

func (g *openAIGenerator) CaptionText(ctx context.Context) (*models.CaptionText, error) {
	var text models.CaptionText
	if err := g.generateInto(ctx, captionPrompt, &text); err != nil {
		return nil, err
	}

	if text.Hook == "" {
		return nil, &errs.TextGenerationError{Attempts: []error{
			fmt.Errorf("model returned an empty hook"),
		}}
	}

	return &text, nil
}

// generateInto - runs the primary model up to the configured retry
// count, then falls back once to the secondary model with manual JSON
// extraction. Every failed attempt is kept for diagnosis.
func (g *openAIGenerator) generateInto(ctx context.Context, prompt string, out interface{}) error {
	attempts := []error{}

	for i := 0; i < g.cfg.TextGenRetries; i++ {
		raw, err := g.complete(ctx, g.cfg.TextModel, prompt)
		if err != nil {
			attempts = append(attempts, err)
			continue
		}
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), out); err != nil {
			attempts = append(attempts, fmt.Errorf("model %s returned invalid JSON: %w", g.cfg.TextModel, err))
			continue
		}
		return nil
	}

	g.log.Warn("Primary text model exhausted, trying fallback", logger.String("model", g.cfg.FallbackModel))

	raw, err := g.complete(ctx, g.cfg.FallbackModel, prompt)
	if err != nil {
		attempts = append(attempts, err)
		return &errs.TextGenerationError{Attempts: attempts}
	}

	if err := json.Unmarshal([]byte(ExtractJSON(raw)), out); err != nil {
		attempts = append(attempts, fmt.Errorf("fallback model %s returned invalid JSON: %w", g.cfg.FallbackModel, err))
		return &errs.TextGenerationError{Attempts: attempts}
	}

	return nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *openAIGenerator) complete(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.9,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.OpenAIBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.OpenAIAPIKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion with model %s failed with status %d: %s", model, resp.StatusCode, string(raw))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion with model %s returned no choices", model)
	}

	return completion.Choices[0].Message.Content, nil
}

// ExtractJSON - strips markdown fences and surrounding prose, keeping
// the outermost JSON object. Models occasionally wrap their answer even
// when told not to.
func ExtractJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		return cleaned[start : end+1]
	}

	return cleaned
}
