package model

import (
	"fmt"
	"time"
)

// MutantDirName names the directory one mutant is written into, under
// the output dir's mutants/ tree.
func MutantDirName(id int, kind OperatorKind) string {
	return fmt.Sprintf("%03d_%s", id, kind)
}

// MutantRecord is one accepted mutant as persisted in the run report.
type MutantRecord struct {
	ID          int          `yaml:"id"`
	File        Path         `yaml:"file"`
	Operator    OperatorKind `yaml:"operator"`
	Variant     int          `yaml:"variant"`
	Line        int          `yaml:"line"`
	Column      int          `yaml:"column"`
	Original    string       `yaml:"original"`
	Replacement string       `yaml:"replacement"`
	Path        Path         `yaml:"path"`
	Patch       Path         `yaml:"patch,omitempty"`
}

// FileSummary counts one input file's pipeline outcomes. Invalid and
// duplicate candidates are outcomes here, never run failures.
type FileSummary struct {
	File        Path `yaml:"file"`
	Points      int  `yaml:"points"`
	Candidates  int  `yaml:"candidates"`
	Valid       int  `yaml:"valid"`
	Invalid     int  `yaml:"invalid"`
	Duplicates  int  `yaml:"duplicates"`
	Malformed   int  `yaml:"malformed,omitempty"`
	Written     int  `yaml:"written"`
	ParseFailed bool `yaml:"parse_failed,omitempty"`
}

// RunReport is the persisted result of one mutate run, written next to
// the mutants and read back by the view command.
type RunReport struct {
	Started     time.Time      `yaml:"started"`
	SolcVersion string         `yaml:"solc_version,omitempty"`
	Seed        uint64         `yaml:"seed"`
	Operators   []OperatorKind `yaml:"operators"`
	Mutants     []MutantRecord `yaml:"mutants"`
	Summaries   []FileSummary  `yaml:"summaries"`
}

// Totals folds the per-file summaries into one row.
func (r RunReport) Totals() FileSummary {
	var t FileSummary
	t.File = "total"

	for _, s := range r.Summaries {
		t.Points += s.Points
		t.Candidates += s.Candidates
		t.Valid += s.Valid
		t.Invalid += s.Invalid
		t.Duplicates += s.Duplicates
		t.Malformed += s.Malformed
		t.Written += s.Written
	}

	return t
}
