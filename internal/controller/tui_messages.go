package controller

import (
	"fmt"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// Message types.
type runStartMsg struct {
	solcVersion string
	files       int
	operators   []string
}

type fileStartMsg struct {
	file   string
	points int
}

type mutantMsg struct {
	record m.MutantRecord
	patch  string
}

type fileDoneMsg struct {
	summary m.FileSummary
}

type pointsMsg struct {
	rows []OperatorCount
	err  error
}

type reportMsg struct {
	report  m.RunReport
	patches []string
}

type summaryMsg struct {
	report m.RunReport
}

// List item types.
type pointItem struct {
	file     string
	operator string
	count    int
}

func (p pointItem) FilterValue() string {
	return p.file + " " + p.operator
}

type mutantItem struct {
	record m.MutantRecord
	patch  string
}

func (i mutantItem) FilterValue() string {
	return fmt.Sprintf("%d %s %s %s", i.record.ID, i.record.Operator, i.record.File, i.record.Original)
}
