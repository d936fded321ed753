package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// mutantDelegate renders one written mutant in the results list.
type mutantDelegate struct {
	offset int
}

func (d mutantDelegate) Height() int  { return 1 }
func (d mutantDelegate) Spacing() int { return 0 }
func (d mutantDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d mutantDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mutant, ok := item.(mutantItem)
	if !ok {
		return
	}

	record := mutant.record
	isSelected := index == m.Index()
	detailWidth := m.Width() - countColumnWidth - operatorColumnWidth - 4

	detail := fmt.Sprintf("%s:%d:%d  %s -> %s",
		record.File, record.Line, record.Column,
		flattenSnippet(record.Original), flattenSnippet(record.Replacement))

	var idStyle, operatorStyle, detailStyle lipgloss.Style

	var displayDetail string

	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		idStyle = selected.Width(countColumnWidth).Align(lipgloss.Right)
		operatorStyle = selected.Width(operatorColumnWidth)
		detailStyle = selected

		displayDetail = animateScroll(detail, detailWidth, d.offset)
	} else {
		idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(countColumnWidth).
			Align(lipgloss.Right)
		operatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Width(operatorColumnWidth)
		detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		displayDetail = truncateToWidth(detail, detailWidth)
	}

	line := fmt.Sprintf("%s  %s  %s",
		idStyle.Render(fmt.Sprintf("%03d", record.ID)),
		operatorStyle.Render(string(record.Operator)),
		detailStyle.Render(displayDetail),
	)
	_, _ = fmt.Fprint(w, line)
}

// runModel drives the generation and report views. During generation it
// shows a progress bar; once the run finishes, or when browsing a
// persisted report, it shows the scrollable mutant list.
type runModel struct {
	width           int
	height          int
	mode            StartMode
	showDiff        bool
	progressBar     progress.Model
	solcVersion     string
	operators       []string
	totalFiles      int
	doneFiles       int
	currentFile     string
	currentPoints   int
	progressPercent float64
	totals          m.FileSummary
	rendered        bool
	finished        bool
	results         []mutantItem
	resultsList     list.Model
	delegate        mutantDelegate
	animOffset      int
	lastSelected    int
	openPatch       bool
	selectedPatch   string
	selectedLabel   string
}

func newRunModel(mode StartMode, showDiff bool) runModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	delegate := mutantDelegate{}
	resultsList := list.New([]list.Item{}, delegate, 80, 20)
	resultsList.SetShowPagination(false)
	resultsList.SetShowFilter(true)
	resultsList.SetShowHelp(false)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.FilterInput.Placeholder = "Filter mutants…"

	return runModel{
		mode:         mode,
		showDiff:     showDiff,
		progressBar:  prog,
		resultsList:  resultsList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (rm runModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm = rm.handleWindowSize(msg)

	case tea.KeyMsg:
		rm, cmd = rm.handleKeyMsg(msg)

	case tea.MouseMsg:
		rm, cmd = rm.handleMouseMsg(msg)

	case tickMsg:
		return rm.handleTickMsg(msg)

	case runStartMsg:
		rm.solcVersion = msg.solcVersion
		rm.operators = msg.operators
		rm.totalFiles = msg.files
		rm.doneFiles = 0
		rm.progressPercent = 0
		rm.rendered = true

	case fileStartMsg:
		rm.currentFile = msg.file
		rm.currentPoints = msg.points
		rm.rendered = true

	case mutantMsg:
		rm = rm.handleMutantMsg(msg)

	case fileDoneMsg:
		rm = rm.handleFileDoneMsg(msg)

	case summaryMsg:
		rm.totals = msg.report.Totals()
		rm.finished = true

	case reportMsg:
		rm = rm.handleReportMsg(msg)
	}

	return rm, cmd
}

func (rm runModel) handleMutantMsg(msg mutantMsg) runModel {
	rm.results = append(rm.results, mutantItem{record: msg.record, patch: msg.patch})

	items := make([]list.Item, 0, len(rm.results))
	for _, r := range rm.results {
		items = append(items, r)
	}

	rm.resultsList.SetItems(items)

	return rm
}

func (rm runModel) handleFileDoneMsg(msg fileDoneMsg) runModel {
	rm.doneFiles++

	s := msg.summary
	rm.totals.Points += s.Points
	rm.totals.Candidates += s.Candidates
	rm.totals.Valid += s.Valid
	rm.totals.Invalid += s.Invalid
	rm.totals.Duplicates += s.Duplicates
	rm.totals.Malformed += s.Malformed
	rm.totals.Written += s.Written

	if rm.totalFiles > 0 {
		rm.progressPercent = float64(rm.doneFiles) / float64(rm.totalFiles)
	}

	return rm
}

func (rm runModel) handleReportMsg(msg reportMsg) runModel {
	rm.solcVersion = msg.report.SolcVersion
	rm.operators = make([]string, len(msg.report.Operators))

	for i, op := range msg.report.Operators {
		rm.operators[i] = string(op)
	}

	rm.totals = msg.report.Totals()
	rm.results = rm.results[:0]

	for i, record := range msg.report.Mutants {
		patch := ""
		if i < len(msg.patches) {
			patch = msg.patches[i]
		}

		rm.results = append(rm.results, mutantItem{record: record, patch: patch})
	}

	items := make([]list.Item, 0, len(rm.results))
	for _, r := range rm.results {
		items = append(items, r)
	}

	rm.resultsList.SetItems(items)
	rm.rendered = true
	rm.finished = true

	if len(rm.results) > 0 && rm.lastSelected == -1 {
		rm.lastSelected = 0
	}

	if rm.showDiff {
		rm.toggleSelectedPatch()
	}

	return rm
}

func (rm runModel) View() string {
	if !rm.rendered {
		return "Preparing run…\n"
	}

	if rm.finished {
		return rm.viewResults()
	}

	return rm.viewProgress()
}

func (rm runModel) viewProgress() string {
	accentColor := lipgloss.Color("6") // Cyan

	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	// 1. Title
	title := titleStyle.Render("🧬 mutsol Mutation Generation")

	// 2. Summary with compiler metadata
	summary := summaryStyle.Render(fmt.Sprintf(
		"Files: %s / %s  •  Mutants: %s  •  Compiler: %s",
		accentStyle.Render(fmt.Sprintf("%d", rm.doneFiles)),
		accentStyle.Render(fmt.Sprintf("%d", rm.totalFiles)),
		accentStyle.Render(fmt.Sprintf("%d", len(rm.results))),
		accentStyle.Render(rm.solcVersion),
	))

	// 3. Progress Bar
	progressStyle := lipgloss.NewStyle().
		Padding(0, 2)

	progressView := progressStyle.Render(rm.progressBar.ViewAs(rm.progressPercent))

	// 4. Current file box
	fileBox := rm.renderFileBox(accentColor)

	// 5. Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		fileBox,
		footer,
	)
}

func (rm runModel) renderFileBox(accentColor lipgloss.Color) string {
	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(rm.width - 4)

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	// Border and padding eat 8 columns.
	availableWidth := rm.width - 8

	current := "idle"
	if rm.currentFile != "" {
		current = truncateToWidth(rm.currentFile, availableWidth)
	}

	lines := []string{
		fileStyle.Render(current),
		fmt.Sprintf("%d point(s) discovered", rm.currentPoints),
	}

	return contentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (rm runModel) viewResults() string {
	accentColor := lipgloss.Color("6") // Cyan

	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	// 1. Title
	title := titleStyle.Render("🧬 mutsol Mutants")

	// 2. Summary
	summary := summaryStyle.Render(fmt.Sprintf(
		"Written: %s  •  Valid: %s  •  Invalid: %s  •  Duplicates: %s",
		accentStyle.Render(fmt.Sprintf("%d", rm.totals.Written)),
		accentStyle.Render(fmt.Sprintf("%d", rm.totals.Valid)),
		accentStyle.Render(fmt.Sprintf("%d", rm.totals.Invalid)),
		accentStyle.Render(fmt.Sprintf("%d", rm.totals.Duplicates)),
	))

	// 3. Results table with list
	resultsBox := rm.renderResultsBox(accentColor)

	// 4. Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • enter/space/click patch • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		resultsBox,
		footer,
	)
}

func (rm runModel) renderResultsBox(accentColor lipgloss.Color) string {
	listWidth := rm.width - 4
	patchBoxHeight := rm.patchBoxHeight()

	listHeight := rm.height - 9 - patchBoxHeight
	if listHeight < 5 {
		listHeight = 5
	}

	rm.resultsList.SetHeight(listHeight)
	rm.resultsList.SetWidth(listWidth)

	// Column Headers
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%6s  %-26s  %s", "ID", "Operator", "Location"))

	resultsStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1)

	resultsBox := resultsStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			rm.resultsList.View(),
		),
	)

	patchBox, _ := rm.renderPatchBox(accentColor, listWidth)
	if patchBox == "" {
		return resultsBox
	}

	return lipgloss.JoinVertical(lipgloss.Left, resultsBox, patchBox)
}

func (rm runModel) handleKeyMsg(msg tea.KeyMsg) (runModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return rm, tea.Quit
	}

	// The filter input owns q, enter, and space while it is active.
	filtering := rm.finished && rm.resultsList.FilterState() == list.Filtering

	if msg.String() == "q" && !filtering {
		return rm, tea.Quit
	}

	if !rm.finished {
		return rm, nil
	}

	if !filtering && (msg.String() == "enter" || msg.String() == " ") {
		rm.toggleSelectedPatch()
		return rm, nil
	}

	var newList list.Model

	newList, cmd = rm.resultsList.Update(msg)
	rm.resultsList = newList

	// Detect selection change to reset animation
	if rm.resultsList.Index() != rm.lastSelected {
		rm.lastSelected = rm.resultsList.Index()
		rm.animOffset = 0
		rm.delegate.offset = 0
		rm.resultsList.SetDelegate(rm.delegate)
		rm.openPatch = false
		rm.selectedPatch = ""
		rm.selectedLabel = ""
	}

	return rm, cmd
}

func (rm runModel) handleMouseMsg(msg tea.MouseMsg) (runModel, tea.Cmd) {
	var cmd tea.Cmd

	if !rm.finished {
		return rm, nil
	}

	var newList list.Model

	newList, cmd = rm.resultsList.Update(msg)
	rm.resultsList = newList

	if rm.resultsList.Index() != rm.lastSelected {
		rm.lastSelected = rm.resultsList.Index()
		rm.animOffset = 0
		rm.delegate.offset = 0
		rm.resultsList.SetDelegate(rm.delegate)
		rm.openPatch = false
		rm.selectedPatch = ""
		rm.selectedLabel = ""
	}

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease && rm.resultsList.FilterState() != list.Filtering {
		rm.toggleSelectedPatch()
	}

	return rm, cmd
}

func (rm *runModel) toggleSelectedPatch() {
	item := rm.resultsList.SelectedItem()

	mutant, ok := item.(mutantItem)
	if !ok {
		return
	}

	patch := strings.TrimSpace(mutant.patch)
	if patch == "" {
		rm.openPatch = false
		rm.selectedPatch = ""

		return
	}

	if rm.openPatch && rm.selectedPatch == patch {
		rm.openPatch = false
		rm.selectedPatch = ""
		rm.selectedLabel = ""

		return
	}

	rm.openPatch = true
	rm.selectedPatch = patch
	rm.selectedLabel = fmt.Sprintf("%03d %s", mutant.record.ID, mutant.record.Path)
}

func (rm runModel) patchMaxLines() int {
	maxLines := rm.height / 3
	if maxLines < 6 {
		maxLines = 6
	}

	if maxLines > 20 {
		maxLines = 20
	}

	return maxLines
}

func (rm runModel) patchBoxHeight() int {
	if !rm.openPatch {
		return 0
	}

	patch := strings.TrimSpace(rm.selectedPatch)
	if patch == "" {
		return 0
	}

	lines := strings.Split(patch, "\n")

	maxLines := rm.patchMaxLines()
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	return len(lines) + 3
}

func (rm runModel) renderPatchBox(accentColor lipgloss.Color, width int) (string, int) {
	if !rm.openPatch {
		return "", 0
	}

	patch := strings.TrimSpace(rm.selectedPatch)
	if patch == "" {
		return "", 0
	}

	lines := strings.Split(patch, "\n")
	maxLines := rm.patchMaxLines()
	truncated := false

	if len(lines) > maxLines {
		lines = lines[:maxLines-1]
		truncated = true
	}

	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	bodyLines := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		bodyLines = append(bodyLines, renderPatchLine(line, contentWidth))
	}

	if truncated {
		bodyLines = append(bodyLines, truncateToWidth("…", contentWidth))
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true)

	headerText := "Patch"
	if rm.selectedLabel != "" {
		headerText = fmt.Sprintf("Patch • %s", rm.selectedLabel)
	}

	header := headerStyle.Render(truncateToWidth(headerText, contentWidth))

	body := lipgloss.JoinVertical(lipgloss.Left, bodyLines...)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Width(width)

	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))

	return box, lipgloss.Height(box)
}

func renderPatchLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.HasPrefix(line, "+++"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case strings.HasPrefix(line, "---"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	case strings.HasPrefix(line, "@@"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	case strings.HasPrefix(line, "+"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case strings.HasPrefix(line, "-"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case trimmed == "":
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}

	return style.Render(truncateToWidth(line, width))
}

func (rm runModel) handleWindowSize(msg tea.WindowSizeMsg) runModel {
	rm.width = msg.Width
	rm.height = msg.Height

	rm.progressBar.Width = rm.width - 8
	if rm.progressBar.Width < 20 {
		rm.progressBar.Width = 20
	}

	return rm
}

func (rm runModel) handleTickMsg(_ tickMsg) (runModel, tea.Cmd) {
	// Keep the marquee moving once the mutant list is on screen
	if rm.finished && rm.resultsList.FilterState() != list.Filtering {
		rm.animOffset++
		rm.delegate.offset = rm.animOffset
		rm.resultsList.SetDelegate(rm.delegate)
	}

	return rm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
