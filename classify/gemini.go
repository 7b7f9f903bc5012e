package classify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/bassamadnan/mailsort/email"
)

// Gemini exposes an OpenAI-compatible surface, so the stock client works
// against it with a swapped base URL.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// How much of the body goes into the prompt.
const promptBodyWindow = 600

const promptTemplate = `Classify this email into ONE category. Reply with ONLY the category name.

CATEGORIES:
• Important: Personal/work messages, meetings, deadlines, action items, requests from real people
• Promotional: Sales, discounts, deals, "buy now", limited offers, shopping
• Social: Facebook, Twitter, Instagram, LinkedIn, dating apps, likes, comments, friend requests
• Marketing: Newsletters, blogs, webinars, company updates, educational content
• Spam: Phishing, scams, lottery wins, suspicious, unsolicited, too-good-to-be-true
• General: Receipts, confirmations, password resets, tracking, automated notifications

EMAIL:
From: %s
Subject: %s
Body: %s

Reply with ONE WORD only (Important/Promotional/Social/Marketing/Spam/General):`

func buildPrompt(msg email.Message) string {
	body := msg.Body
	if len(body) > promptBodyWindow {
		body = body[:promptBodyWindow]
	}
	return fmt.Sprintf(promptTemplate, msg.From, msg.Subject, body)
}

// generator issues a single generation request against one model.
type generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type geminiClient struct {
	client openai.Client
}

func newGeminiClient(apiKey string) *geminiClient {
	return &geminiClient{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(geminiBaseURL),
		),
	}
}

func (g *geminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       model,
		Temperature: openai.Float(0.3),
		TopP:        openai.Float(0.8),
		MaxTokens:   openai.Int(50),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// isRateLimited reports whether err looks like a rate-limit rejection.
func isRateLimited(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "too many requests")
}
