package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bassamadnan/mailsort/email"
)

// truncate shortens a string to a max length, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatMessageDate formats the received time for display in the list,
// derived from Gmail's internal timestamp rather than the Date header.
func formatMessageDate(internalDate int64) string {
	if internalDate == 0 {
		return "???"
	}
	t := time.UnixMilli(internalDate).Local()
	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04") // Time only for today
	}
	return t.Format("Jan02") // Date for other days
}

// senderName extracts the display-name half of a "Name <addr>" sender.
func senderName(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		from = strings.TrimSpace(from[:idx])
	}
	if from == "" {
		return "(Unknown Sender)"
	}
	return from
}

// formatEmailListItem formats a single message for the list view as a boxed
// block: category tag and date on top, subject, then sender.
// itemContentTextWidth is the width for the text inside the box lines.
func formatEmailListItem(msg email.Message, isSelected bool, itemContentTextWidth int) string {
	var boxCharStyle, subjectStyle, secondaryTextStyle lipgloss.Style
	var itemBlockStyle lipgloss.Style

	if isSelected {
		boxCharStyle = SelectedBoxCharStyle
		subjectStyle = SelectedSubjectStyle
		secondaryTextStyle = SelectedSecondaryTextStyle
		itemBlockStyle = SelectedEmailListItemStyle
	} else {
		boxCharStyle = NormalBoxCharStyle
		subjectStyle = NormalSubjectStyle
		secondaryTextStyle = NormalSecondaryTextStyle
		itemBlockStyle = EmailListItemStyle
	}

	// Top line content: category tag left, date right.
	dateStr := formatMessageDate(msg.InternalDate)
	categoryText := string(msg.Category)
	if categoryText == "" {
		categoryText = "…"
	}
	maxCategoryLen := itemContentTextWidth - len(dateStr) - 1
	if maxCategoryLen < 1 {
		categoryText = ""
	} else {
		categoryText = truncate(categoryText, maxCategoryLen)
	}
	gap := itemContentTextWidth - lipgloss.Width(categoryText) - len(dateStr)
	if gap < 1 {
		gap = 1
	}
	categoryLine := categoryTagPadded(msg.Category, categoryText) + strings.Repeat(" ", gap) + dateStr

	// Subject line: truncate then pad to fill the box width.
	subject := msg.Subject
	if subject == "" {
		subject = "(No Subject)"
	}
	paddedSubjectText := fmt.Sprintf("%-*s", itemContentTextWidth, truncate(subject, itemContentTextWidth))

	// Sender line.
	fromShort := truncate(senderName(msg.From), itemContentTextWidth)
	paddedFromText := fmt.Sprintf("%-*s", itemContentTextWidth, fromShort)

	horizontalBar := strings.Repeat(BoxHorizontal, itemContentTextWidth+2)

	line1 := fmt.Sprintf("%s%s%s",
		boxCharStyle.Render(BoxTopLeft),
		boxCharStyle.Render(horizontalBar),
		boxCharStyle.Render(BoxTopRight),
	)
	line2 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		categoryLine,
		boxCharStyle.Render(BoxVertical),
	)
	line3 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		subjectStyle.Render(paddedSubjectText),
		boxCharStyle.Render(BoxVertical),
	)
	line4 := fmt.Sprintf("%s %s %s",
		boxCharStyle.Render(BoxVertical),
		secondaryTextStyle.Render(paddedFromText),
		boxCharStyle.Render(BoxVertical),
	)
	line5 := fmt.Sprintf("%s%s%s",
		boxCharStyle.Render(BoxBottomLeft),
		boxCharStyle.Render(horizontalBar),
		boxCharStyle.Render(BoxBottomRight),
	)

	return itemBlockStyle.Render(strings.Join([]string{line1, line2, line3, line4, line5}, "\n"))
}

// categoryTagPadded styles the already-truncated category text.
func categoryTagPadded(c email.Category, text string) string {
	if c == "" {
		return PendingCategoryStyle.Render(text)
	}
	style, ok := categoryStyles[c]
	if !ok {
		style = categoryStyles[email.CategoryGeneral]
	}
	return style.Render(text)
}
