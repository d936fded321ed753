package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

const (
	countColumnWidth    = 6
	operatorColumnWidth = 26
)

// pointDelegate renders one file/operator row of the points list.
type pointDelegate struct {
	offset int
}

func (d pointDelegate) Height() int  { return 1 }
func (d pointDelegate) Spacing() int { return 0 }
func (d pointDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d pointDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(pointItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	var countStyle, operatorStyle, pathStyle lipgloss.Style

	var displayPath string

	width := m.Width() - countColumnWidth - operatorColumnWidth - 4

	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		countStyle = selected.Width(countColumnWidth).Align(lipgloss.Right)
		operatorStyle = selected.Width(operatorColumnWidth)
		pathStyle = selected

		displayPath = animateScroll(row.file, width, d.offset)
	} else {
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(countColumnWidth).
			Align(lipgloss.Right)
		operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Width(operatorColumnWidth)
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		displayPath = truncateToWidth(row.file, width)
	}

	line := fmt.Sprintf("%s  %s  %s",
		countStyle.Render(fmt.Sprintf("%d", row.count)),
		operatorStyle.Render(row.operator),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	// Create the repeating pattern: text + gap
	// We work with runes to handle multi-byte characters correctly
	runes := []rune(text + gap)
	n := len(runes)

	if n == 0 {
		return ""
	}

	start := effectiveStep % n

	// Construct the window
	res := make([]rune, 0, width)
	for i := range width {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// pointsModel lists discovered mutation points without generating anything.
type pointsModel struct {
	width        int
	height       int
	rowList      list.Model
	delegate     pointDelegate
	total        int
	totalFiles   int
	err          error
	rendered     bool
	animOffset   int
	lastSelected int
}

func newPointsModel() pointsModel {
	delegate := pointDelegate{}
	rowList := list.New([]list.Item{}, delegate, 80, 20)
	rowList.SetShowPagination(false)
	rowList.SetShowFilter(true)
	rowList.SetShowHelp(false)
	rowList.SetShowTitle(false)
	rowList.SetShowStatusBar(false)
	rowList.FilterInput.Placeholder = "Filter by path…"

	return pointsModel{
		rowList:      rowList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (pm pointsModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (pm pointsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.width = msg.Width
		pm.height = msg.Height
		pm.rowList.SetWidth(pm.width)

	case tickMsg:
		// Keep the marquee moving once rows are on screen
		if pm.rendered && pm.rowList.FilterState() != list.Filtering {
			pm.animOffset++
			pm.delegate.offset = pm.animOffset
			pm.rowList.SetDelegate(pm.delegate)
		}

		return pm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return pm, tea.Quit
		}

		// The filter input owns q while it is active.
		if msg.String() == "q" && pm.rowList.FilterState() != list.Filtering {
			return pm, tea.Quit
		}

		// Pass all other key events to the list
		var newList list.Model

		newList, cmd = pm.rowList.Update(msg)
		pm.rowList = newList

		// Detect selection change to reset animation
		if pm.rowList.Index() != pm.lastSelected {
			pm.lastSelected = pm.rowList.Index()
			pm.animOffset = 0
			pm.delegate.offset = 0
			pm.rowList.SetDelegate(pm.delegate)
		}

		return pm, cmd

	case pointsMsg:
		pm = pm.handlePointsMsg(msg)
	}

	return pm, cmd
}

func (pm pointsModel) handlePointsMsg(msg pointsMsg) pointsModel {
	pm.err = msg.err
	pm.rendered = true

	files := make(map[string]struct{})
	items := make([]list.Item, 0, len(msg.rows))

	// Rows arrive ordered by file, operators in catalog order.
	for _, row := range msg.rows {
		items = append(items, pointItem{
			file:     string(row.File),
			operator: string(row.Operator),
			count:    row.Count,
		})
		files[string(row.File)] = struct{}{}
		pm.total += row.Count
	}

	pm.totalFiles = len(files)
	pm.rowList.SetItems(items)

	if len(items) > 0 && pm.lastSelected == -1 {
		pm.lastSelected = 0
	}

	return pm
}

func (pm pointsModel) View() string {
	if !pm.rendered {
		return "Scanning sources…\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	// 1. Title
	title := titleStyle.Render("🧬 mutsol Mutation Points")

	if pm.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Padding(0, 0, 1, 2)

		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			errorStyle.Render(fmt.Sprintf("estimation error: %v", pm.err)),
		)
	}

	// 2. Summary
	summary := summaryStyle.Render(fmt.Sprintf(
		"Total Points: %s   Files: %s",
		accentStyle.Render(fmt.Sprintf("%d", pm.total)),
		accentStyle.Render(fmt.Sprintf("%d", pm.totalFiles)),
	))

	// 3. Table with border
	table := pm.renderTable()

	// 4. Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(pm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (pm pointsModel) renderTable() string {
	// Title, summary, footer, border, and header padding eat 9 rows.
	listHeight := pm.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	// Margin, border, and padding eat 6 columns.
	listWidth := pm.width - 6

	pm.rowList.SetHeight(listHeight)
	pm.rowList.SetWidth(listWidth)

	// Column Headers inside the table area
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%6s  %-26s  %s", "Points", "Operator", "File"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			pm.rowList.View(),
		),
	)
}
