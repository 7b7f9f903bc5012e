package classify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassamadnan/mailsort/email"
)

// fakeGenerator replays scripted responses in call order and records the
// models it was asked for.
type fakeGenerator struct {
	responses []fakeResponse
	calls     []string
	panicOn   string // subject substring in the prompt that triggers a panic
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	if f.panicOn != "" && strings.Contains(prompt, f.panicOn) {
		panic("generator blew up")
	}
	f.calls = append(f.calls, model)
	if len(f.responses) == 0 {
		return "", errors.New("unscripted call")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.text, r.err
}

// sleepRecorder stands in for time.Sleep and counts pauses.
type sleepRecorder struct {
	pauses []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.pauses = append(s.pauses, d)
}

func newTestClassifier(gen generator) (*Classifier, *sleepRecorder) {
	rec := &sleepRecorder{}
	return &Classifier{
		gen:              gen,
		models:           []string{"model-fast", "model-fallback"},
		itemDelay:        defaultItemDelay,
		rateLimitBackoff: defaultRateLimitBackoff,
		sleep:            rec.sleep,
		logger:           log.New(io.Discard),
	}, rec
}

func TestClassifyOneFirstModelWins(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{{text: "Important"}}}
	c, rec := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{ID: "1", Subject: "hi"})

	assert.Equal(t, email.CategoryImportant, got)
	assert.Equal(t, []string{"model-fast"}, gen.calls)
	assert.Empty(t, rec.pauses)
}

func TestClassifyOneRateLimitThenFallbackModel(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: errors.New("429 Too Many Requests")},
		{text: "Spam"},
	}}
	c, rec := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{ID: "1"})

	assert.Equal(t, email.CategorySpam, got)
	assert.Equal(t, []string{"model-fast", "model-fallback"}, gen.calls)
	// Exactly one backoff pause, taken between the two candidates.
	require.Len(t, rec.pauses, 1)
	assert.Equal(t, defaultRateLimitBackoff, rec.pauses[0])
}

func TestClassifyOneNonRateLimitErrorAdvancesWithoutPause(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: errors.New("connection refused")},
		{text: "Social"},
	}}
	c, rec := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{ID: "1"})

	assert.Equal(t, email.CategorySocial, got)
	assert.Empty(t, rec.pauses)
}

func TestClassifyOneAllModelsFailFallsBackToRules(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	c, _ := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{
		ID:      "1",
		Subject: "Weekend flash sale",
		From:    "deals@shop.com",
	})

	assert.Equal(t, email.CategoryPromotional, got)
	assert.Equal(t, []string{"model-fast", "model-fallback"}, gen.calls)
}

func TestClassifyOneEmptyResponseFallsBackToRules(t *testing.T) {
	// An empty model answer is treated the same as total failure.
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: ""},
		{text: ""},
	}}
	c, _ := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{
		ID:      "1",
		Subject: "Team meeting tomorrow",
		From:    "manager@company.com",
	})

	assert.Equal(t, email.CategoryImportant, got)
}

func TestClassifyOneUnparseableResponseFallsBackToRules(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{{text: "beep boop"}}}
	c, _ := newTestClassifier(gen)

	got := c.ClassifyOne(context.Background(), email.Message{
		ID:      "1",
		Subject: "Maria liked your photo",
		From:    "someone@example.com",
	})

	assert.Equal(t, email.CategorySocial, got)
}

func TestClassifyOneNoCredentialUsesRules(t *testing.T) {
	c, rec := newTestClassifier(nil)

	got := c.ClassifyOne(context.Background(), email.Message{
		ID:      "1",
		Subject: "Weekly Newsletter",
		From:    "noreply@vendor.com",
	})

	assert.Equal(t, email.CategoryMarketing, got)
	assert.Empty(t, rec.pauses)
}

func TestClassifyAllPreservesLengthAndOrder(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: "Important"},
		{text: "Spam"},
		{text: "General"},
	}}
	c, rec := newTestClassifier(gen)

	in := []email.Message{
		{ID: "a", Subject: "one"},
		{ID: "b", Subject: "two"},
		{ID: "c", Subject: "three"},
	}
	out := c.ClassifyAll(context.Background(), in)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
	assert.Equal(t, email.CategoryImportant, out[0].Category)
	assert.Equal(t, email.CategorySpam, out[1].Category)
	assert.Equal(t, email.CategoryGeneral, out[2].Category)
	// One inter-item delay between each pair of messages, none after the last.
	assert.Equal(t, []time.Duration{defaultItemDelay, defaultItemDelay}, rec.pauses)
}

func TestClassifyAllSurvivesPanicOnSingleItem(t *testing.T) {
	gen := &fakeGenerator{
		panicOn: "poison",
		responses: []fakeResponse{
			{text: "Important"},
			{text: "Spam"},
			{text: "Social"},
			{text: "Marketing"},
		},
	}
	c, _ := newTestClassifier(gen)

	in := []email.Message{
		{ID: "0", Subject: "zero"},
		{ID: "1", Subject: "one"},
		{ID: "2", Subject: "poison pill"},
		{ID: "3", Subject: "three"},
		{ID: "4", Subject: "four"},
	}
	out := c.ClassifyAll(context.Background(), in)

	require.Len(t, out, 5)
	assert.Equal(t, email.CategoryImportant, out[0].Category)
	assert.Equal(t, email.CategorySpam, out[1].Category)
	assert.Equal(t, email.CategoryGeneral, out[2].Category)
	assert.Equal(t, email.CategorySocial, out[3].Category)
	assert.Equal(t, email.CategoryMarketing, out[4].Category)
}

func TestClassifyAllProgressHook(t *testing.T) {
	gen := &fakeGenerator{responses: []fakeResponse{
		{text: "Spam"},
		{text: "General"},
	}}
	c, _ := newTestClassifier(gen)

	var seen []int
	c.Progress = func(done, total int, msg email.Message) {
		assert.Equal(t, 2, total)
		assert.NotEmpty(t, msg.Category)
		seen = append(seen, done)
	}

	c.ClassifyAll(context.Background(), []email.Message{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, []int{1, 2}, seen)
}

func TestClassifyAllIdempotentWithoutCredential(t *testing.T) {
	c, _ := newTestClassifier(nil)

	in := []email.Message{
		{ID: "a", Subject: "Weekend flash sale", From: "deals@shop.com"},
		{ID: "b", Subject: "Your receipt", From: "orders@service.io"},
	}
	first := c.ClassifyAll(context.Background(), in)
	second := c.ClassifyAll(context.Background(), first)

	require.Len(t, second, 2)
	for i := range first {
		assert.Equal(t, first[i].Category, second[i].Category)
	}
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("429 Too Many Requests")))
	assert.True(t, isRateLimited(errors.New("upstream said: too many requests")))
	assert.False(t, isRateLimited(errors.New("connection refused")))
}
