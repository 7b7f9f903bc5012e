package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bassamadnan/mailsort/classify"
	"github.com/bassamadnan/mailsort/email"
)

type viewState int

const (
	viewLoading viewState = iota
	viewDashboard
	viewFocusedEmail
)

const (
	emailListItemHeight = 5
	minListPaneWidth    = 30
	minPreviewPaneWidth = 40
)

// filterTabs is the cycle order of the category filter; the empty entry
// means "show everything".
var filterTabs = append([]email.Category{""}, email.Categories...)

type Model struct {
	ctx        context.Context
	fetcher    Fetcher
	classifier *classify.Classifier
	maxResults int64

	messages []email.Message
	filter   email.Category
	events   chan tea.Msg // classification progress for the running batch

	selectedIdx      int
	viewportTopLine  int
	previewScrollPos int

	currentView viewState

	classifying     bool
	classifiedCount int
	totalCount      int

	width, height int
	statusBarText string
	statusIsError bool
	statusIsTemp  bool

	err error
}

func NewInitialModel(ctx context.Context, fetcher Fetcher, classifier *classify.Classifier, maxResults int64) Model {
	return Model{
		ctx:           ctx,
		fetcher:       fetcher,
		classifier:    classifier,
		maxResults:    maxResults,
		currentView:   viewLoading,
		statusBarText: "Fetching inbox...",
		messages:      []email.Message{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		runBatchCmd(m.ctx, m.fetcher, m.classifier, m.maxResults),
		statusTickCmd(1*time.Second),
	)
}

// visible returns the messages matching the active category filter.
func (m Model) visible() []email.Message {
	if m.filter == "" {
		return m.messages
	}
	out := make([]email.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		if msg.Category == m.filter {
			out = append(out, msg)
		}
	}
	return out
}

func (m Model) getVisibleEmailListHeight() int {
	statusBarHeight := 1
	headerHeight := lipgloss.Height(EmailListTitleStyle.Render(" ")) + 1 // title + filter bar
	availableHeight := m.height - statusBarHeight - headerHeight
	if availableHeight < 0 {
		availableHeight = 0
	}
	return availableHeight
}

func (m Model) getNumItemsThatFitInList() int {
	numFit := m.getVisibleEmailListHeight() / emailListItemHeight
	if numFit < 0 {
		numFit = 0
	}
	return numFit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()

	case tea.KeyMsg:
		switch m.currentView {
		case viewDashboard:
			switch msg.String() {
			case "ctrl+c", "q":
				m.updateStatusBar("Quitting...")
				return m, tea.Quit
			case "up", "k":
				if m.selectedIdx > 0 {
					m.selectedIdx--
					m.ensureSelectedVisible()
					m.previewScrollPos = 0
				}
			case "down", "j":
				if m.selectedIdx < len(m.visible())-1 {
					m.selectedIdx++
					m.ensureSelectedVisible()
					m.previewScrollPos = 0
				}
			case "tab":
				m.cycleFilter(1)
			case "shift+tab":
				m.cycleFilter(-1)
			case "enter":
				if len(m.visible()) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(m.visible()) {
					m.currentView = viewFocusedEmail
					m.setStandardStatus()
				}
			case "r":
				if !m.classifying {
					m.classifiedCount = 0
					m.totalCount = 0
					m.updateStatusBar("Refreshing inbox...")
					cmds = append(cmds, runBatchCmd(m.ctx, m.fetcher, m.classifier, m.maxResults))
				}
			case "K": // Preview scroll up
				if m.previewScrollPos > 0 {
					m.previewScrollPos--
				}
			case "J": // Preview scroll down
				visible := m.visible()
				if len(visible) > 0 && m.selectedIdx >= 0 && m.selectedIdx < len(visible) {
					bodyLines := strings.Split(strings.ReplaceAll(visible[m.selectedIdx].Body, "\r\n", "\n"), "\n")
					if m.previewScrollPos < len(bodyLines)-1 {
						m.previewScrollPos++
					}
				}
			}
		case viewFocusedEmail:
			switch msg.String() {
			case "ctrl+c", "q":
				m.updateStatusBar("Quitting...")
				return m, tea.Quit
			case "esc":
				m.currentView = viewDashboard
				m.setStandardStatus()
			}
		case viewLoading:
			switch msg.String() {
			case "ctrl+c", "q":
				m.updateStatusBar("Quitting...")
				return m, tea.Quit
			}
		}

	case InboxFetchedMsg:
		m.messages = msg.Messages
		m.selectedIdx = 0
		m.viewportTopLine = 0
		m.previewScrollPos = 0
		m.totalCount = len(msg.Messages)
		m.classifiedCount = 0
		m.classifying = m.totalCount > 0
		m.currentView = viewDashboard
		m.setStandardStatus()
		m.events = msg.Events
		if m.events != nil && m.classifying {
			cmds = append(cmds, waitForBatchEventCmd(m.events))
		}

	case MessageClassifiedMsg:
		for i := range m.messages {
			if m.messages[i].ID == msg.Message.ID {
				m.messages[i] = msg.Message
				break
			}
		}
		m.classifiedCount = msg.Done
		m.totalCount = msg.Total
		m.setStandardStatus()
		// Keep draining until BatchDoneMsg arrives.
		if m.events != nil {
			cmds = append(cmds, waitForBatchEventCmd(m.events))
		}

	case BatchDoneMsg:
		m.messages = msg.Messages
		m.classifying = false
		m.events = nil
		m.classifiedCount = len(msg.Messages)
		m.showTemporaryStatus(fmt.Sprintf("Classified %d emails", len(msg.Messages)), 4*time.Second, &cmds)

	case ErrorMsg:
		m.err = msg.Err
		m.classifying = false
		m.updateStatusError(fmt.Sprintf("Error: %v", msg.Err))

	case StatusTickMsg:
		if !m.statusIsTemp && m.currentView != viewLoading {
			m.setStandardStatus()
		}
		cmds = append(cmds, statusTickCmd(1*time.Second))

	case clearTempStatusMsg:
		if m.statusIsTemp {
			m.statusIsTemp = false
			m.setStandardStatus()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) cycleFilter(dir int) {
	idx := 0
	for i, f := range filterTabs {
		if f == m.filter {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(filterTabs)) % len(filterTabs)
	m.filter = filterTabs[idx]
	m.selectedIdx = 0
	m.viewportTopLine = 0
	m.previewScrollPos = 0
	m.setStandardStatus()
}

func (m *Model) showTemporaryStatus(text string, duration time.Duration, cmds *[]tea.Cmd) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = true
	*cmds = append(*cmds, tea.Tick(duration, func(t time.Time) tea.Msg {
		return clearTempStatusMsg{}
	}))
}

func (m *Model) updateStatusBar(text string) {
	m.statusBarText = text
	m.statusIsError = false
	m.statusIsTemp = false
}

func (m *Model) updateStatusError(text string) {
	m.statusBarText = text
	m.statusIsError = true
	m.statusIsTemp = false
}

func (m *Model) setStandardStatus() {
	if m.statusIsTemp {
		return
	}

	progress := fmt.Sprintf("%d emails", len(m.messages))
	if m.classifying {
		progress = fmt.Sprintf("Classifying %d/%d", m.classifiedCount, m.totalCount)
	}

	filterLabel := "All"
	if m.filter != "" {
		filterLabel = string(m.filter)
	}

	statusMsg := fmt.Sprintf(" %s | %s | %s ", progress, filterLabel, time.Now().Format("15:04:05"))

	keyHints := "[Q/Ctrl+C]:Quit"
	switch m.currentView {
	case viewDashboard:
		keyHints += " | [↑↓/jk]:Nav | [Tab]:Filter | [Enter]:Full | [R]:Refresh | [KJ]:Scroll Preview"
	case viewFocusedEmail:
		keyHints += " | [Esc]:Back"
	}
	m.updateStatusBar(statusMsg + "| " + keyHints)
}

func (m *Model) ensureSelectedVisible() {
	visibleCount := len(m.visible())
	if visibleCount == 0 {
		m.viewportTopLine = 0
		m.selectedIdx = 0
		return
	}
	if m.selectedIdx >= visibleCount {
		m.selectedIdx = visibleCount - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}

	itemsThatFit := m.getNumItemsThatFitInList()
	if itemsThatFit <= 0 {
		m.viewportTopLine = m.selectedIdx
		return
	}

	if m.selectedIdx < m.viewportTopLine {
		m.viewportTopLine = m.selectedIdx
	} else if m.selectedIdx >= m.viewportTopLine+itemsThatFit {
		m.viewportTopLine = m.selectedIdx - itemsThatFit + 1
	}

	if m.viewportTopLine < 0 {
		m.viewportTopLine = 0
	}
	maxPossibleViewportTop := visibleCount - itemsThatFit
	if maxPossibleViewportTop < 0 {
		maxPossibleViewportTop = 0
	}
	if m.viewportTopLine > maxPossibleViewportTop {
		m.viewportTopLine = maxPossibleViewportTop
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing terminal size..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n   Application Error: %v\n\n   Press Ctrl+C to quit.", m.err)
	}

	var mainUIView string
	statusBarHeight := 1
	contentHeight := m.height - statusBarHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	switch m.currentView {
	case viewLoading:
		loadingText := "Fetching inbox..."
		if m.statusBarText != "" {
			loadingText = m.statusBarText
		}
		mainUIView = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, loadingText)
	case viewDashboard:
		listPaneTargetWidth := int(float64(m.width) * 0.35)
		actualListPaneWidth := listPaneTargetWidth
		if actualListPaneWidth < minListPaneWidth {
			actualListPaneWidth = minListPaneWidth
		}
		if actualListPaneWidth > m.width-minPreviewPaneWidth && m.width > minPreviewPaneWidth {
			actualListPaneWidth = m.width - minPreviewPaneWidth
		}
		if actualListPaneWidth < 0 {
			actualListPaneWidth = 0
		}
		if actualListPaneWidth > m.width {
			actualListPaneWidth = m.width
		}

		actualPreviewPaneWidth := m.width - actualListPaneWidth
		if actualPreviewPaneWidth < 0 {
			actualPreviewPaneWidth = 0
		}

		if m.width < minListPaneWidth+minPreviewPaneWidth {
			if m.width < minListPaneWidth {
				actualListPaneWidth = m.width
				actualPreviewPaneWidth = 0
			} else {
				actualListPaneWidth = minListPaneWidth
				actualPreviewPaneWidth = m.width - actualListPaneWidth
			}
		}

		emailListRendered := m.renderEmailList(actualListPaneWidth, contentHeight)
		previewPaneRendered := m.renderPreviewPane(actualPreviewPaneWidth, contentHeight)

		mainUIView = lipgloss.JoinHorizontal(lipgloss.Top, emailListRendered, previewPaneRendered)

	case viewFocusedEmail:
		mainUIView = m.renderFocusedEmailView(m.width, contentHeight)
	}

	statusBarRendered := m.renderStatusBar()
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, mainUIView, statusBarRendered))
}

// renderFilterBar shows the category tabs with the active one highlighted.
func (m Model) renderFilterBar(paneWidth int) string {
	var tabs []string
	for _, f := range filterTabs {
		label := "All"
		if f != "" {
			label = string(f)
		}
		if f == m.filter {
			tabs = append(tabs, FilterActiveStyle.Render(label))
		} else {
			tabs = append(tabs, FilterInactiveStyle.Render(label))
		}
	}
	bar := strings.Join(tabs, "")
	return lipgloss.NewStyle().MaxWidth(paneWidth).Render(bar)
}

func (m Model) renderEmailList(paneWidth, paneHeight int) string {
	title := EmailListTitleStyle.Render("Inbox")
	filterBar := m.renderFilterBar(paneWidth)
	headerHeight := lipgloss.Height(title) + lipgloss.Height(filterBar)
	listItemsContainerHeight := paneHeight - headerHeight
	if listItemsContainerHeight < 0 {
		listItemsContainerHeight = 0
	}

	visible := m.visible()

	var listItemsContent strings.Builder
	itemTextContentWidth := paneWidth - EmailListItemStyle.GetPaddingLeft() - EmailListItemStyle.GetPaddingRight() - 2 - 2
	if itemTextContentWidth < 10 {
		itemTextContentWidth = 10
	}

	numItemsToDisplay := listItemsContainerHeight / emailListItemHeight
	if numItemsToDisplay < 0 {
		numItemsToDisplay = 0
	}

	startIdx := m.viewportTopLine
	endIdx := startIdx + numItemsToDisplay
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx > len(visible) {
		startIdx = len(visible)
	}
	if endIdx > len(visible) {
		endIdx = len(visible)
	}
	if endIdx < startIdx {
		endIdx = startIdx
	}

	visibleItemStrings := []string{}
	if paneWidth > 0 && paneHeight > 0 {
		for i := startIdx; i < endIdx; i++ {
			isSelected := (i == m.selectedIdx)
			visibleItemStrings = append(visibleItemStrings, formatEmailListItem(visible[i], isSelected, itemTextContentWidth))
		}
	}
	listItemsContent.WriteString(strings.Join(visibleItemStrings, "\n"))

	fullListRender := lipgloss.JoinVertical(lipgloss.Left, title, filterBar, listItemsContent.String())
	return EmailListStyle.Width(paneWidth).Height(paneHeight).Render(fullListRender)
}

func (m Model) renderPreviewPane(paneWidth, paneHeight int) string {
	var finalContentToRender string
	var titleText string

	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Placeholder") // for height calculation

	visible := m.visible()
	if len(visible) == 0 || m.selectedIdx < 0 || m.selectedIdx >= len(visible) {
		titleText = "Home"
		welcomeMsg := "\n[mailsort]\n\nNo email selected or list is empty."
		maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
		if maxContentHeight < 0 {
			maxContentHeight = 0
		}
		finalContentToRender = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Padding(1).Render(welcomeMsg)
	} else {
		msg := visible[m.selectedIdx]
		titleText = fmt.Sprintf("Preview: %s", truncate(msg.Subject, paneWidth-(TitleStyle.GetHorizontalPadding()+12)))

		var headerBuilder strings.Builder
		headerBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(truncate(msg.From, paneWidth-10))))
		dateStr := msg.Date
		if dateStr == "" {
			dateStr = "N/A"
		}
		headerBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(truncate(dateStr, paneWidth-10))))
		headerBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(truncate(msg.Subject, paneWidth-12))))
		headerBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Category:"), categoryTag(msg.Category)))
		headerBuilder.WriteString("\n" + strings.Repeat("─", paneWidth/2))

		renderedHeaders := headerBuilder.String()
		renderedHeaderHeight := lipgloss.Height(renderedHeaders)

		bodyDisplayHeight := paneHeight - lipgloss.Height(styledTitle) - renderedHeaderHeight - ContentBoxStyle.GetVerticalPadding()
		if bodyDisplayHeight < 0 {
			bodyDisplayHeight = 0
		}

		bodyLines := strings.Split(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n")
		startLine := m.previewScrollPos
		if startLine < 0 {
			startLine = 0
		}
		if len(bodyLines) > bodyDisplayHeight && startLine > len(bodyLines)-bodyDisplayHeight && bodyDisplayHeight > 0 {
			startLine = len(bodyLines) - bodyDisplayHeight
		} else if startLine >= len(bodyLines) && len(bodyLines) > 0 {
			startLine = len(bodyLines) - 1
		}
		if len(bodyLines) == 0 {
			startLine = 0
		}

		endLine := startLine + bodyDisplayHeight
		if endLine > len(bodyLines) {
			endLine = len(bodyLines)
		}

		visibleBody := ""
		if startLine < endLine && startLine < len(bodyLines) {
			visibleBody = strings.Join(bodyLines[startLine:endLine], "\n")
		}

		finalContentToRender = lipgloss.JoinVertical(lipgloss.Left,
			renderedHeaders,
			BodyStyle.Render(visibleBody),
		)
		finalContentToRender = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()).
			Render(finalContentToRender)
	}

	styledTitle = TitleStyle.Render(titleText)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, finalContentToRender),
	)
}

func (m Model) renderFocusedEmailView(paneWidth, paneHeight int) string {
	var finalContentToRender string
	var titleText string

	if paneWidth <= 0 || paneHeight <= 0 {
		return ""
	}

	styledTitle := TitleStyle.Render("Placeholder")

	visible := m.visible()
	if len(visible) == 0 || m.selectedIdx < 0 || m.selectedIdx >= len(visible) {
		titleText = "Error"
		maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
		if maxContentHeight < 0 {
			maxContentHeight = 0
		}
		finalContentToRender = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Padding(1).Render("No email selected.")
	} else {
		msg := visible[m.selectedIdx]
		titleText = fmt.Sprintf("Full View: %s", truncate(msg.Subject, paneWidth-(TitleStyle.GetHorizontalPadding()+15)))

		var contentBuilder strings.Builder
		contentBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("From:"), HeaderValStyle.Render(msg.From)))
		dateStr := msg.Date
		if dateStr == "" {
			dateStr = "N/A"
		}
		contentBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Date:"), HeaderValStyle.Render(dateStr)))
		contentBuilder.WriteString(fmt.Sprintf("%s %s\n", HeaderKeyStyle.Render("Subject:"), HeaderValStyle.Render(msg.Subject)))
		contentBuilder.WriteString(fmt.Sprintf("%s %s\n\n", HeaderKeyStyle.Render("Category:"), categoryTag(msg.Category)))
		contentBuilder.WriteString(strings.Repeat("─", paneWidth/2) + "\n\n")

		fullBody := strings.ReplaceAll(msg.Body, "\r\n", "\n")
		contentBuilder.WriteString(BodyStyle.Render(fullBody))

		maxContentHeight := paneHeight - lipgloss.Height(styledTitle) - ContentBoxStyle.GetVerticalPadding()
		if maxContentHeight < 0 {
			maxContentHeight = 0
		}
		finalContentToRender = lipgloss.NewStyle().
			Width(paneWidth - ContentBoxStyle.GetHorizontalPadding()).
			MaxHeight(maxContentHeight).
			Render(contentBuilder.String())
	}

	styledTitle = TitleStyle.Render(titleText)
	return ContentBoxStyle.Width(paneWidth).Height(paneHeight).Render(
		lipgloss.JoinVertical(lipgloss.Top, styledTitle, finalContentToRender),
	)
}

func (m Model) renderStatusBar() string {
	styleToUse := StatusBarNormalStyle
	if m.statusIsError {
		styleToUse = StatusBarErrorStyle
	} else if m.statusIsTemp {
		styleToUse = StatusBarSuccessStyle
	}
	return styleToUse.Width(m.width).Render(truncate(m.statusBarText, m.width))
}
