package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"mutsol.dev/pkg/mutsol/internal/adapter"
	"mutsol.dev/pkg/mutsol/internal/controller"
	"mutsol.dev/pkg/mutsol/internal/domain/operators"
	m "mutsol.dev/pkg/mutsol/internal/model"
	"mutsol.dev/pkg/mutsol/pkg"
)

// reportFileName is the run report's location inside the output dir.
const reportFileName = "report.yaml"

// MutateArgs carries one generation run.
type MutateArgs struct {
	Paths   []m.Path
	Exclude []string
	Config  m.RunConfig
}

// ListArgs carries one discovery-only run.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
	Config  m.RunConfig
}

// ViewArgs points at a finished run to browse.
type ViewArgs struct {
	OutDir   m.Path
	ShowDiff bool
}

// MergeArgs points at an output dir holding per-entry plan runs.
type MergeArgs struct {
	OutDir m.Path
}

// Engine drives the generation pipeline: discover sources, locate
// points, apply rewrites, weed out rejects and duplicates, sample, and
// persist what survives.
type Engine interface {
	Mutate(ctx context.Context, args MutateArgs) (m.RunReport, error)
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type engine struct {
	adapter.SourceFSAdapter
	adapter.SolcAdapter
	adapter.MutantWriter
	adapter.ReportStore
	controller.UI

	applier   Applier
	validator Validator
}

// NewEngine creates an Engine instance with the provided dependencies.
func NewEngine(
	fsAdapter adapter.SourceFSAdapter,
	solcAdapter adapter.SolcAdapter,
	writer adapter.MutantWriter,
	reports adapter.ReportStore,
	ui controller.UI,
) Engine {
	return &engine{
		SourceFSAdapter: fsAdapter,
		SolcAdapter:     solcAdapter,
		MutantWriter:    writer,
		ReportStore:     reports,
		UI:              ui,
		applier:         NewApplier(),
		validator:       NewValidator(fsAdapter, solcAdapter),
	}
}

func (e *engine) Mutate(ctx context.Context, args MutateArgs) (m.RunReport, error) {
	cfg := args.Config
	report := m.RunReport{Started: time.Now().UTC(), Seed: cfg.Seed}

	ops, err := operators.Select(cfg.Operators)
	if err != nil {
		return report, err
	}

	report.Operators = operatorKinds(ops)

	startOpts := []controller.StartOption{controller.WithMutateMode()}
	if cfg.ShowDiff {
		startOpts = append(startOpts, controller.WithDiff())
	}

	if err := e.Start(ctx, startOpts...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return report, err
	}

	defer e.Close(ctx)

	files, err := e.Discover(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return report, fmt.Errorf("discover sources: %w", err)
	}

	if len(files) == 0 {
		slog.Warn("No Solidity sources found", "paths", args.Paths)
	}

	// Probing the version up front surfaces a missing compiler before
	// any output is written.
	version, err := e.SolcAdapter.Version(ctx)
	if err != nil {
		return report, fmt.Errorf("probe compiler: %w", err)
	}

	report.SolcVersion = version

	if err := e.MkdirAll(ctx, cfg.OutDir, 0o750); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}

	e.DisplayRunStart(ctx, version, files, report.Operators)

	loc := NewLocator(ops, TargetFilter{Contract: cfg.Contract, Functions: cfg.Functions})
	mutantIndex := 0

	for _, file := range files {
		summary, records, err := e.mutateFile(ctx, cfg, loc, file, &mutantIndex)
		if err != nil {
			return report, err
		}

		report.Summaries = append(report.Summaries, summary)
		report.Mutants = append(report.Mutants, records...)

		e.DisplayFileDone(ctx, summary)
	}

	reportPath := e.JoinPath(ctx, string(cfg.OutDir), reportFileName)
	if err := e.SaveReport(ctx, reportPath, report); err != nil {
		return report, fmt.Errorf("save report: %w", err)
	}

	if err := e.DisplaySummary(ctx, report); err != nil {
		slog.Error("Failed to display summary", "error", err)
	}

	e.Wait(ctx)

	return report, nil
}

// mutateFile runs the per-file pipeline. A file the compiler cannot
// parse is recorded and skipped; infrastructure failures abort the run.
func (e *engine) mutateFile(ctx context.Context, cfg m.RunConfig, loc Locator, file m.Path, mutantIndex *int) (m.FileSummary, []m.MutantRecord, error) {
	summary := m.FileSummary{File: file}

	text, err := e.ReadFile(ctx, file)
	if err != nil {
		return summary, nil, fmt.Errorf("read %s: %w", file, err)
	}

	root, err := e.SolcAdapter.Parse(ctx, file)
	if err != nil {
		var parseErr *m.ParseError
		if errors.As(err, &parseErr) {
			slog.Warn("Compiler could not parse source, skipping file",
				"file", file, "stderr", firstLine(parseErr.Stderr))

			summary.ParseFailed = true

			return summary, nil, nil
		}

		return summary, nil, err
	}

	unit := m.SourceUnit{ID: file, Text: text, AST: root}

	points, malformed, err := loc.Locate(ctx, unit)
	if err != nil {
		return summary, nil, err
	}

	summary.Points = len(points)
	summary.Malformed = malformed

	e.DisplayFileStart(ctx, file, len(points))

	spill, err := pkg.NewFileSpill[m.Mutant]("mutsol-candidates-*.gob")
	if err != nil {
		return summary, nil, err
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("Failed to close candidate spill", "file", file, "error", err)
		}
	}()

	// Seeding the set with the original guarantees no candidate can
	// reproduce the input file.
	seen := map[string]bool{m.ContentHash(text): true}

	for _, point := range points {
		applied, err := e.applier.Apply(unit, point)
		if err != nil {
			summary.Malformed++
			slog.Debug("Skipping unappliable point", "file", file, "error", err)

			continue
		}

		summary.Candidates++

		hash := m.ContentHash(applied)
		if seen[hash] {
			summary.Duplicates++
			continue
		}

		seen[hash] = true

		candidate := m.Mutant{Unit: file, Point: point, Text: applied, Hash: hash}
		if err := spill.Append(candidate); err != nil {
			return summary, nil, err
		}
	}

	validities, err := e.validator.ValidateAll(ctx, spill, cfg.Parallel)
	if err != nil {
		return summary, nil, err
	}

	var valid []uint64

	for i, validity := range validities {
		if validity == m.Valid {
			summary.Valid++
			valid = append(valid, uint64(i))
		} else {
			summary.Invalid++
		}
	}

	records := make([]m.MutantRecord, 0, len(valid))

	// The cap is sampled per file with a fresh generator from the same
	// seed, so one file's subset does not depend on the files before it.
	for _, pos := range Sample(len(valid), cfg.Mutants, cfg.Seed) {
		candidate, err := spill.Get(valid[pos])
		if err != nil {
			return summary, records, err
		}

		candidate.Validity = m.Valid
		*mutantIndex++

		srcPath, patchPath, err := e.WriteMutant(ctx, cfg.OutDir, *mutantIndex, unit, candidate)
		if err != nil {
			return summary, records, err
		}

		summary.Written++

		record, patch := e.buildRecord(ctx, cfg, unit, candidate, *mutantIndex, srcPath, patchPath)
		records = append(records, record)

		e.DisplayMutant(ctx, record, patch)
	}

	return summary, records, nil
}

func (e *engine) buildRecord(ctx context.Context, cfg m.RunConfig, unit m.SourceUnit, candidate m.Mutant, id int, srcPath, patchPath m.Path) (m.MutantRecord, string) {
	offset := len(unit.Text)

	for _, span := range candidate.Point.Spans() {
		if span.Start < offset {
			offset = span.Start
		}
	}

	line, col := m.LineCol(unit.Text, offset)

	relSrc, err := e.RelPath(ctx, cfg.OutDir, srcPath)
	if err != nil {
		relSrc = srcPath
	}

	relPatch, err := e.RelPath(ctx, cfg.OutDir, patchPath)
	if err != nil {
		relPatch = patchPath
	}

	record := m.MutantRecord{
		ID:          id,
		File:        unit.ID,
		Operator:    candidate.Point.Operator,
		Variant:     candidate.Point.Variant,
		Line:        line,
		Column:      col,
		Original:    candidate.Point.Original,
		Replacement: candidate.Point.Replacement,
		Path:        relSrc,
		Patch:       relPatch,
	}

	patch := ""

	if cfg.ShowDiff {
		if data, err := e.ReadFile(ctx, patchPath); err == nil {
			patch = string(data)
		}
	}

	return record, patch
}

func (e *engine) List(ctx context.Context, args ListArgs) error {
	cfg := args.Config

	ops, err := operators.Select(cfg.Operators)
	if err != nil {
		return err
	}

	if err := e.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	defer e.Close(ctx)

	files, err := e.Discover(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	loc := NewLocator(ops, TargetFilter{Contract: cfg.Contract, Functions: cfg.Functions})

	var counts []controller.OperatorCount

	for _, file := range files {
		text, err := e.ReadFile(ctx, file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		root, err := e.SolcAdapter.Parse(ctx, file)
		if err != nil {
			var parseErr *m.ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("Compiler could not parse source, skipping file",
					"file", file, "stderr", firstLine(parseErr.Stderr))

				continue
			}

			return err
		}

		points, _, err := loc.Locate(ctx, m.SourceUnit{ID: file, Text: text, AST: root})
		if err != nil {
			return err
		}

		counts = append(counts, countByOperator(file, ops, points)...)
	}

	if err := e.DisplayEstimation(ctx, counts, nil); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	e.Wait(ctx)

	return nil
}

// countByOperator folds points into per-operator rows, in catalog order.
func countByOperator(file m.Path, ops []operators.Operator, points []m.MutationPoint) []controller.OperatorCount {
	byKind := make(map[m.OperatorKind]int)
	for _, point := range points {
		byKind[point.Operator]++
	}

	counts := make([]controller.OperatorCount, 0, len(ops))

	for _, op := range ops {
		if n := byKind[op.Kind()]; n > 0 {
			counts = append(counts, controller.OperatorCount{File: file, Operator: op.Kind(), Count: n})
		}
	}

	return counts
}

func (e *engine) View(ctx context.Context, args ViewArgs) error {
	report, err := e.LoadReport(ctx, e.JoinPath(ctx, string(args.OutDir), reportFileName))
	if err != nil {
		return err
	}

	patches := make([]string, len(report.Mutants))

	for i, record := range report.Mutants {
		data, err := e.ReadFile(ctx, e.JoinPath(ctx, string(args.OutDir), string(record.Patch)))
		if err != nil {
			slog.Warn("Missing patch file", "mutant", record.ID, "path", record.Patch)
			continue
		}

		patches[i] = string(data)
	}

	opts := []controller.StartOption{controller.WithViewMode()}
	if args.ShowDiff {
		opts = append(opts, controller.WithDiff())
	}

	if err := e.Start(ctx, opts...); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	defer e.Close(ctx)

	if err := e.DisplayReport(ctx, report, patches); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	e.Wait(ctx)

	return nil
}

// planDirGlob matches the per-entry output dirs a multi-entry plan run
// produces under the output dir.
const planDirGlob = "plan_*"

// Merge folds per-entry plan runs back into one flat output tree. Each
// plan_* dir's mutants are renumbered into <out>/mutants and the plan
// reports are combined into a single report.yaml; the plan dirs are
// removed afterwards.
func (e *engine) Merge(ctx context.Context, args MergeArgs) error {
	dirs, err := e.Glob(ctx, string(e.JoinPath(ctx, string(args.OutDir), planDirGlob)))
	if err != nil {
		return fmt.Errorf("scan plan dirs: %w", err)
	}

	if len(dirs) == 0 {
		return fmt.Errorf("no plan_* directories under %s", args.OutDir)
	}

	if err := e.MkdirAll(ctx, e.JoinPath(ctx, string(args.OutDir), "mutants"), 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var merged m.RunReport

	seenKinds := make(map[m.OperatorKind]bool)
	index := 0

	for _, dir := range dirs {
		report, err := e.LoadReport(ctx, e.JoinPath(ctx, string(dir), reportFileName))
		if err != nil {
			return fmt.Errorf("load report from %s: %w", dir, err)
		}

		// The merged header keeps the earliest entry's run metadata.
		if merged.Started.IsZero() || report.Started.Before(merged.Started) {
			merged.Started = report.Started
			merged.Seed = report.Seed
			merged.SolcVersion = report.SolcVersion
		}

		for _, kind := range report.Operators {
			if !seenKinds[kind] {
				seenKinds[kind] = true

				merged.Operators = append(merged.Operators, kind)
			}
		}

		for _, record := range report.Mutants {
			index++

			moved, err := e.moveMutantDir(ctx, dir, args.OutDir, record, index)
			if err != nil {
				return err
			}

			merged.Mutants = append(merged.Mutants, moved)
		}

		merged.Summaries = append(merged.Summaries, report.Summaries...)

		if err := e.RemoveAll(ctx, dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}

		slog.Info("Merged plan dir", "dir", dir, "mutants", len(report.Mutants))
	}

	reportPath := e.JoinPath(ctx, string(args.OutDir), reportFileName)
	if err := e.SaveReport(ctx, reportPath, merged); err != nil {
		return fmt.Errorf("save merged report: %w", err)
	}

	return nil
}

// moveMutantDir relocates one mutant directory out of its plan dir and
// renumbers the record to its position in the merged report.
func (e *engine) moveMutantDir(ctx context.Context, planDir, outDir m.Path, record m.MutantRecord, id int) (m.MutantRecord, error) {
	oldDir := filepath.Dir(string(record.Path))
	newDir := filepath.Join("mutants", m.MutantDirName(id, record.Operator))

	from := e.JoinPath(ctx, string(planDir), oldDir)
	to := e.JoinPath(ctx, string(outDir), newDir)

	if err := e.Rename(ctx, from, to); err != nil {
		return record, fmt.Errorf("move mutant %d from %s: %w", record.ID, planDir, err)
	}

	record.ID = id
	record.Path = m.Path(filepath.Join(newDir, filepath.Base(string(record.Path))))

	if record.Patch != "" {
		record.Patch = m.Path(filepath.Join(newDir, filepath.Base(string(record.Patch))))
	}

	return record, nil
}

func operatorKinds(ops []operators.Operator) []m.OperatorKind {
	kinds := make([]m.OperatorKind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind()
	}

	return kinds
}
