package model

import "time"

// RunConfig carries one run's effective settings. It is assembled by
// the command layer from flags, config, and an optional plan entry,
// and is read-only to the engine.
type RunConfig struct {
	Operators      []OperatorKind
	Contract       string
	Functions      []string
	Mutants        int // per-file cap, 0 keeps everything
	Seed           uint64
	Solc           string
	OutDir         Path
	BasePath       string
	Remappings     []string
	Parallel       int
	CompileTimeout time.Duration
	ShowDiff       bool
}
