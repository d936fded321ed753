package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// snippetWidth caps how much of a mutated expression is shown inline.
const snippetWidth = 40

var (
	addedColor      = color.New(color.FgGreen)
	addedEmphasis   = color.New(color.FgGreen, color.Bold)
	removedColor    = color.New(color.FgRed)
	removedEmphasis = color.New(color.FgRed, color.Bold)
	hunkColor       = color.New(color.FgCyan)
	headerColor     = color.New(color.Bold)
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd      *cobra.Command
	showDiff bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	s.showDiff = cfg.showDiff

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayRunStart announces the run and the compiler backing it.
func (s *SimpleUI) DisplayRunStart(ctx context.Context, solcVersion string, files []m.Path, operators []m.OperatorKind) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Mutating %d file(s) with %d operator(s): %s\n", len(files), len(operators), joinOperators(operators))

	if solcVersion != "" {
		s.printf("Compiler: %s\n", solcVersion)
	}
}

// DisplayFileStart announces one source file and its discovered points.
func (s *SimpleUI) DisplayFileStart(ctx context.Context, file m.Path, points int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s: %d mutation point(s)\n", file, points)
}

// DisplayMutant prints one written mutant, with its patch when diffs are on.
func (s *SimpleUI) DisplayMutant(ctx context.Context, record m.MutantRecord, patch string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("  [%03d] %s %s:%d:%d %s -> %s\n",
		record.ID, record.Operator, record.File, record.Line, record.Column,
		removedColor.Sprintf("%q", flattenSnippet(record.Original)),
		addedColor.Sprintf("%q", flattenSnippet(record.Replacement)))

	if s.showDiff && patch != "" {
		s.printPatch(patch)
	}
}

// DisplayFileDone prints one source file's pipeline outcome.
func (s *SimpleUI) DisplayFileDone(ctx context.Context, summary m.FileSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	if summary.ParseFailed {
		s.printf("\n%s: parse failed, skipped\n", summary.File)
		return
	}

	s.printf("  %d candidate(s): %d valid, %d invalid, %d duplicate(s), %d written\n",
		summary.Candidates, summary.Valid, summary.Invalid, summary.Duplicates, summary.Written)

	if summary.Malformed > 0 {
		s.printf("  %d malformed node(s) skipped\n", summary.Malformed)
	}
}

// DisplayEstimation prints the per-operator point counts or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, counts []OperatorCount, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	tableStr := renderPointsTable(counts)
	s.printf("\n%s", tableStr)

	return nil
}

// DisplayReport prints a persisted run report, with patches when diffs are on.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.RunReport, patches []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Run started %s, seed %d\n", report.Started.Format(time.RFC3339), report.Seed)

	if report.SolcVersion != "" {
		s.printf("Compiler: %s\n", report.SolcVersion)
	}

	s.printf("Operators: %s\n", joinOperators(report.Operators))
	s.printf("\n%s", renderMutantsTable(report.Mutants))

	if !s.showDiff {
		return nil
	}

	for i, record := range report.Mutants {
		if i >= len(patches) || patches[i] == "" {
			continue
		}

		s.printf("\n[%03d] %s\n", record.ID, record.Path)
		s.printPatch(patches[i])
	}

	return nil
}

// DisplaySummary prints the per-file summary table for a finished run.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(report.Summaries, report.Totals()))

	parseFailed := 0

	for _, summary := range report.Summaries {
		if summary.ParseFailed {
			parseFailed++
		}
	}

	if parseFailed > 0 {
		s.printf("%d file(s) failed to parse and were skipped\n", parseFailed)
	}

	return nil
}

func renderPointsTable(counts []OperatorCount) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Operator", "Points"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	files := make(map[m.Path]struct{})
	total := 0

	for _, row := range counts {
		table.Append([]string{string(row.File), string(row.Operator), fmt.Sprintf("%d", row.Count)})

		files[row.File] = struct{}{}
		total += row.Count
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		"",
		fmt.Sprintf("%d", total),
	})

	table.Render()

	return tableBuffer.String()
}

func renderMutantsTable(records []m.MutantRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"ID", "Operator", "Location", "Original", "Replacement"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, record := range records {
		table.Append([]string{
			fmt.Sprintf("%d", record.ID),
			string(record.Operator),
			fmt.Sprintf("%s:%d:%d", record.File, record.Line, record.Column),
			flattenSnippet(record.Original),
			flattenSnippet(record.Replacement),
		})
	}

	table.SetFooter([]string{"", "", "", "Total", fmt.Sprintf("%d", len(records))})

	table.Render()

	return tableBuffer.String()
}

func renderSummaryTable(summaries []m.FileSummary, totals m.FileSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Points", "Candidates", "Valid", "Invalid", "Duplicates", "Written"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, summary := range summaries {
		if summary.ParseFailed {
			table.Append([]string{string(summary.File), "-", "-", "-", "-", "-", "-"})
			continue
		}

		table.Append([]string{
			string(summary.File),
			fmt.Sprintf("%d", summary.Points),
			fmt.Sprintf("%d", summary.Candidates),
			fmt.Sprintf("%d", summary.Valid),
			fmt.Sprintf("%d", summary.Invalid),
			fmt.Sprintf("%d", summary.Duplicates),
			fmt.Sprintf("%d", summary.Written),
		})
	}

	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", totals.Points),
		fmt.Sprintf("%d", totals.Candidates),
		fmt.Sprintf("%d", totals.Valid),
		fmt.Sprintf("%d", totals.Invalid),
		fmt.Sprintf("%d", totals.Duplicates),
		fmt.Sprintf("%d", totals.Written),
	})

	table.Render()

	return tableBuffer.String()
}

// printPatch prints a unified diff with colored hunks. Adjacent -/+
// pairs get the changed characters emphasized.
func (s *SimpleUI) printPatch(patch string) {
	lines := strings.Split(strings.TrimRight(patch, "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			s.printf("%s\n", headerColor.Sprint(line))

		case strings.HasPrefix(line, "@@"):
			s.printf("%s\n", hunkColor.Sprint(line))

		case strings.HasPrefix(line, "-"):
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+") {
				removed, added := highlightLinePair(line[1:], lines[i+1][1:])
				s.printf("%s\n%s\n", removed, added)
				i++

				continue
			}

			s.printf("%s\n", removedColor.Sprint(line))

		case strings.HasPrefix(line, "+"):
			s.printf("%s\n", addedColor.Sprint(line))

		default:
			s.printf("%s\n", line)
		}
	}
}

// highlightLinePair renders a removed/added line pair with the
// differing characters in bold.
func highlightLinePair(removed, added string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(removed, added, false))

	var removedLine, addedLine strings.Builder

	removedLine.WriteString(removedColor.Sprint("-"))
	addedLine.WriteString(addedColor.Sprint("+"))

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			removedLine.WriteString(removedEmphasis.Sprint(diff.Text))
		case diffmatchpatch.DiffInsert:
			addedLine.WriteString(addedEmphasis.Sprint(diff.Text))
		case diffmatchpatch.DiffEqual:
			removedLine.WriteString(removedColor.Sprint(diff.Text))
			addedLine.WriteString(addedColor.Sprint(diff.Text))
		}
	}

	return removedLine.String(), addedLine.String()
}

// flattenSnippet collapses a source snippet to one bounded line.
func flattenSnippet(text string) string {
	flat := strings.Join(strings.Fields(text), " ")

	runes := []rune(flat)
	if len(runes) <= snippetWidth {
		return flat
	}

	return string(runes[:snippetWidth-3]) + "..."
}

func joinOperators(operators []m.OperatorKind) string {
	names := make([]string, 0, len(operators))
	for _, op := range operators {
		names = append(names, string(op))
	}

	return strings.Join(names, ", ")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
