// Package controller provides output front ends for mutation generation runs.
package controller

import (
	"context"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// OperatorCount is one row of the list output: how many mutation
// points one operator found in one file.
type OperatorCount struct {
	File     m.Path
	Operator m.OperatorKind
	Count    int
}

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeMutate StartMode = iota
	ModeList
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode     StartMode
	showDiff bool
}

// WithMutateMode sets the UI to generation mode.
func WithMutateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMutate
	}
}

// WithListMode sets the UI to point-listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithViewMode sets the UI to report-viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithDiff makes the UI print each mutant's diff as it is written.
func WithDiff() StartOption {
	return func(c *StartConfig) {
		c.showDiff = true
	}
}

// UI is the interface the engine reports progress through.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayRunStart(ctx context.Context, solcVersion string, files []m.Path, operators []m.OperatorKind)
	DisplayFileStart(ctx context.Context, file m.Path, points int)
	DisplayMutant(ctx context.Context, record m.MutantRecord, patch string)
	DisplayFileDone(ctx context.Context, summary m.FileSummary)
	DisplayEstimation(ctx context.Context, counts []OperatorCount, err error) error
	DisplayReport(ctx context.Context, report m.RunReport, patches []string) error
	DisplaySummary(ctx context.Context, report m.RunReport) error
}
