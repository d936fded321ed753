package controller

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display. The
// engine reports progress through the Display methods, which forward
// messages into the running program.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start builds the model for the requested mode and launches the program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	// Get initial terminal size so the first frame draws at the right
	// width, before the program delivers a WindowSizeMsg.
	width, height := t.initialSize()

	var model tea.Model

	switch cfg.mode {
	case ModeList:
		pm := newPointsModel()
		pm.width = width
		pm.height = height
		model = pm
	case ModeMutate, ModeView:
		run := newRunModel(cfg.mode, cfg.showDiff)
		run.width = width
		run.height = height
		model = run
	default:
		run := newRunModel(ModeMutate, cfg.showDiff)
		run.width = width
		run.height = height
		model = run
	}

	return t.startWithModel(model)
}

func (t *TUI) initialSize() (int, int) {
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			return width, height
		}
	}

	return 0, 0
}

func (t *TUI) startWithModel(model tea.Model) error {
	if t.started {
		return nil
	}

	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithMouseCellMotion())
	t.done = make(chan struct{})
	t.started = true

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			slog.Error("Failed to run TUI program", "error", err)
		}
	}()

	return nil
}

// Close shuts the program down and waits for it to exit.
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()

	if t.done != nil {
		select {
		case <-t.done:
		case <-ctx.Done():
		}
	}
}

// Wait blocks until the user closes the UI.
func (t *TUI) Wait(ctx context.Context) {
	if t.done == nil {
		return
	}

	select {
	case <-t.done:
	case <-ctx.Done():
	}
}

// DisplayRunStart announces the run and the compiler backing it.
func (t *TUI) DisplayRunStart(ctx context.Context, solcVersion string, files []m.Path, operators []m.OperatorKind) {
	if err := ctx.Err(); err != nil {
		return
	}

	names := make([]string, len(operators))
	for i, op := range operators {
		names[i] = string(op)
	}

	t.send(runStartMsg{solcVersion: solcVersion, files: len(files), operators: names})
}

// DisplayFileStart announces one source file and its discovered points.
func (t *TUI) DisplayFileStart(ctx context.Context, file m.Path, points int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(fileStartMsg{file: string(file), points: points})
}

// DisplayMutant forwards one written mutant to the running program.
func (t *TUI) DisplayMutant(ctx context.Context, record m.MutantRecord, patch string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(mutantMsg{record: record, patch: patch})
}

// DisplayFileDone forwards one source file's pipeline outcome.
func (t *TUI) DisplayFileDone(ctx context.Context, summary m.FileSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(fileDoneMsg{summary: summary})
}

// DisplayEstimation forwards the per-operator point counts or error.
func (t *TUI) DisplayEstimation(ctx context.Context, counts []OperatorCount, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		t.send(pointsMsg{err: err})
		return err
	}

	t.send(pointsMsg{rows: counts})

	return nil
}

// DisplayReport forwards a persisted run report and its patches.
func (t *TUI) DisplayReport(ctx context.Context, report m.RunReport, patches []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(reportMsg{report: report, patches: patches})

	return nil
}

// DisplaySummary marks the run finished and hands over the final totals.
func (t *TUI) DisplaySummary(ctx context.Context, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(summaryMsg{report: report})

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	if t.program == nil {
		return
	}

	t.program.Send(msg)
}
