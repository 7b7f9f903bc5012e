package tui

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bassamadnan/mailsort/classify"
	"github.com/bassamadnan/mailsort/email"
)

// Fetcher retrieves a batch of normalized inbox messages.
type Fetcher interface {
	FetchInbox(ctx context.Context, max int64) ([]email.Message, error)
}

// runBatchCmd fetches the inbox, kicks off sequential classification in the
// background, and hands the UI the unclassified batch plus the event channel
// the classifier reports progress on.
func runBatchCmd(ctx context.Context, fetcher Fetcher, classifier *classify.Classifier, max int64) tea.Cmd {
	return func() tea.Msg {
		msgs, err := fetcher.FetchInbox(ctx, max)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].InternalDate > msgs[j].InternalDate
		})

		events := make(chan tea.Msg, len(msgs)+1)
		classifier.Progress = func(done, total int, m email.Message) {
			events <- MessageClassifiedMsg{Done: done, Total: total, Message: m}
		}
		go func() {
			classified := classifier.ClassifyAll(ctx, msgs)
			events <- BatchDoneMsg{Messages: classified}
		}()

		return InboxFetchedMsg{Messages: msgs, Events: events}
	}
}

// waitForBatchEventCmd relays the next classification event to the UI. It is
// re-queued by Update until BatchDoneMsg arrives.
func waitForBatchEventCmd(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// statusTickCmd creates a ticker for updating the status bar periodically.
func statusTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StatusTickMsg{Time: t}
	})
}
