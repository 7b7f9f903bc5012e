package classify

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bassamadnan/mailsort/email"
)

// Default pacing for the external endpoint. Both pauses exist to stay under
// per-key rate limits, which is also why the loops around them are strictly
// sequential.
const (
	defaultItemDelay        = 500 * time.Millisecond
	defaultRateLimitBackoff = 1 * time.Second
)

// DefaultModels are the candidate models tried in order for each message.
var DefaultModels = []string{"gemini-2.0-flash", "gemini-1.5-pro"}

// Classifier assigns one of the six categories to each message, model-first
// with the keyword rules as fallback.
type Classifier struct {
	gen              generator
	models           []string
	itemDelay        time.Duration
	rateLimitBackoff time.Duration
	sleep            func(time.Duration)
	logger           *log.Logger

	// Progress, when set, is invoked after each message of a batch is
	// classified, before the inter-item delay.
	Progress func(done, total int, msg email.Message)
}

// New returns a Classifier backed by the Gemini endpoint. An empty apiKey is
// allowed: every message then takes the rule-based path.
func New(apiKey string, models []string, logger *log.Logger) *Classifier {
	c := &Classifier{
		models:           models,
		itemDelay:        defaultItemDelay,
		rateLimitBackoff: defaultRateLimitBackoff,
		sleep:            time.Sleep,
		logger:           logger,
	}
	if len(c.models) == 0 {
		c.models = DefaultModels
	}
	if apiKey != "" {
		c.gen = newGeminiClient(apiKey)
	}
	return c
}

// SetPacing overrides the inter-item delay and the rate-limit backoff.
func (c *Classifier) SetPacing(itemDelay, backoff time.Duration) {
	c.itemDelay = itemDelay
	c.rateLimitBackoff = backoff
}

// ClassifyAll classifies msgs one at a time, preserving input order. The
// returned slice always has the same length as the input; a single message's
// failure files it as General and never aborts the batch. Batches sharing one
// API key should not run concurrently: nothing breaks, but the rate-limit
// backoff is not coordinated across instances.
func (c *Classifier) ClassifyAll(ctx context.Context, msgs []email.Message) []email.Message {
	out := make([]email.Message, len(msgs))
	for i, msg := range msgs {
		msg.Category = c.ClassifyOne(ctx, msg)
		out[i] = msg
		if c.Progress != nil {
			c.Progress(i+1, len(msgs), msg)
		}
		if i < len(msgs)-1 {
			c.sleep(c.itemDelay)
		}
	}
	return out
}

// ClassifyOne classifies a single message. Anything unexpected files the
// message as General instead of propagating.
func (c *Classifier) ClassifyOne(ctx context.Context, msg email.Message) (category email.Category) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("classification panicked, filing as General", "id", msg.ID, "panic", r)
			category = email.CategoryGeneral
		}
	}()

	raw := c.generate(ctx, msg)
	if parsed, ok := ParseCategory(raw); ok {
		c.logger.Info("classified", "id", msg.ID, "category", parsed, "fellBack", false)
		return parsed
	}
	parsed := ApplyRules(msg.Subject, msg.From, msg.Body)
	c.logger.Info("classified", "id", msg.ID, "category", parsed, "fellBack", true)
	return parsed
}

// generate runs the candidate model loop: the first non-empty response wins,
// a rate-limited candidate buys a pause before moving on, and exhaustion
// returns empty text rather than an error. "All models failed" and "model
// said nothing" are deliberately indistinguishable here; both land in the
// rule-based path.
func (c *Classifier) generate(ctx context.Context, msg email.Message) string {
	if c.gen == nil {
		return ""
	}
	prompt := buildPrompt(msg)
	for _, model := range c.models {
		text, err := c.gen.Generate(ctx, model, prompt)
		if err == nil && text != "" {
			c.logger.Debug("model responded", "model", model, "text", text)
			return text
		}
		if err != nil && isRateLimited(err) {
			c.logger.Warn("rate limited, backing off", "model", model, "backoff", c.rateLimitBackoff)
			c.sleep(c.rateLimitBackoff)
			continue
		}
		if err != nil {
			c.logger.Warn("model attempt failed", "model", model, "error", err)
		}
	}
	return ""
}
