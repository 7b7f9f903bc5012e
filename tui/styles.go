package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bassamadnan/mailsort/email"
)

var (
	// General
	AppStyle = lipgloss.NewStyle().Padding(0, 0)

	// Email List
	EmailListItemStyle = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1) // Base padding for the item block

	// For selected items, we change foregrounds and border colors instead of
	// a full block background to preserve the box structure.
	SelectedEmailListItemStyle = EmailListItemStyle.Copy()

	// Styles for parts of the list item (normal state)
	NormalBoxCharStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "238"}) // Dim gray
	NormalSubjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})    // Black/White
	NormalSecondaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"}) // Darker Gray

	// Styles for parts of the list item (selected state)
	SelectedBoxCharStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	SelectedSubjectStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)
	SelectedSecondaryTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("189"))

	EmailListStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(lipgloss.Color("240")).PaddingRight(1)
	EmailListTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1).MarginLeft(1).Foreground(lipgloss.Color("63"))

	// Preview & Focused View
	ContentBoxStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	TitleStyle      = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	HeaderKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	HeaderValStyle  = lipgloss.NewStyle()
	BodyStyle       = lipgloss.NewStyle().MarginTop(1)

	// Status Bar
	StatusBarSuccessStyle = lipgloss.NewStyle().Background(lipgloss.Color("28")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	StatusBarNormalStyle  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	StatusBarErrorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	// Category filter bar
	PendingCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	FilterActiveStyle    = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	FilterInactiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
)

// categoryStyles colors the tag shown next to each classified message.
var categoryStyles = map[email.Category]lipgloss.Style{
	email.CategoryImportant:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	email.CategoryPromotional: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	email.CategorySocial:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	email.CategoryMarketing:   lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	email.CategorySpam:        lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	email.CategoryGeneral:     lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
}

// categoryTag renders the colored label for a message; unclassified messages
// get a dim placeholder.
func categoryTag(c email.Category) string {
	if c == "" {
		return PendingCategoryStyle.Render("…")
	}
	style, ok := categoryStyles[c]
	if !ok {
		style = categoryStyles[email.CategoryGeneral]
	}
	return style.Render(string(c))
}

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
)
