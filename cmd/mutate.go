package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

var planFlag string

// mutateCmd represents the mutate command.
var mutateCmd = newMutateCmd()

func newMutateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutate [paths...]",
		Short: "Generate mutants for Solidity sources",
		Long:  mutateLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			if planFlag != "" {
				if len(args) > 0 {
					return errors.New("--plan and positional paths are mutually exclusive")
				}

				return runPlan(context.Background(), planFlag)
			}

			cfg, err := effectiveRunConfig()
			if err != nil {
				return err
			}

			paths := parsePaths(args)
			if len(paths) == 0 {
				paths = []m.Path{"."}
			}

			_, err = engineFactory(cfg).Mutate(context.Background(), domain.MutateArgs{
				Paths:   paths,
				Exclude: viper.GetStringSlice(excludeKey),
				Config:  cfg,
			})

			return err
		},
	}

	configureMutateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(mutateCmd)
}

func configureMutateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&planFlag, planFlagName, "", "plan file with per-file generation entries (YAML or JSON)")

	cmd.Flags().IntP(mutantsFlagName, "n", defaultMutants, "cap on mutants kept per file (0 keeps everything)")
	bindFlagToConfig(cmd.Flags().Lookup(mutantsFlagName), mutantsKey)

	cmd.Flags().String(solcFlagName, defaultSolc, "Solidity compiler binary used to parse and validate")
	bindFlagToConfig(cmd.Flags().Lookup(solcFlagName), solcKey)

	cmd.Flags().Uint64(seedFlagName, 0, "seed for mutant sampling")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedKey)

	cmd.Flags().StringSlice(operatorFlagName, nil, "mutation operator to apply, e.g. binary-operator-swap (repeatable; default: full catalog)")
	bindFlagToConfig(cmd.Flags().Lookup(operatorFlagName), operatorsKey)

	cmd.Flags().String(contractFlagName, "", "only mutate inside this contract")
	bindFlagToConfig(cmd.Flags().Lookup(contractFlagName), contractKey)

	cmd.Flags().StringSlice(functionFlagName, nil, "only mutate inside these functions (repeatable)")
	bindFlagToConfig(cmd.Flags().Lookup(functionFlagName), functionsKey)

	cmd.Flags().String(basePathFlagName, "", "base path the compiler resolves imports against")
	bindFlagToConfig(cmd.Flags().Lookup(basePathFlagName), basePathKey)

	cmd.Flags().StringArray(remapFlagName, nil, "compiler import remapping, e.g. @oz=node_modules/@openzeppelin (repeatable)")
	bindFlagToConfig(cmd.Flags().Lookup(remapFlagName), remappingsKey)

	cmd.Flags().IntP(parallelFlagName, "p", runtime.NumCPU(), "number of parallel compiler checks")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelKey)

	cmd.Flags().Duration(timeoutFlagName, defaultTimeout, "per-candidate compile timeout")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), timeoutKey)
}

// planEntry is one file's generation request in a plan file. Absent
// fields inherit the surrounding flag/config values. The field
// spellings match the CLI flags except num-mutants and mutations,
// which are kept for compatibility with older plan files.
type planEntry struct {
	Filename  string   `yaml:"filename" json:"filename"`
	Mutants   *int     `yaml:"num-mutants" json:"num-mutants"`
	Seed      *uint64  `yaml:"seed" json:"seed"`
	Solc      string   `yaml:"solc" json:"solc"`
	Contract  string   `yaml:"contract" json:"contract"`
	Functions []string `yaml:"functions" json:"functions"`
	Operators []string `yaml:"mutations" json:"mutations"`
	Out       string   `yaml:"out" json:"out"`
}

// loadPlan reads a plan file holding either a list of entries or a
// single entry object. YAML is a superset of JSON, so both formats
// decode the same way.
func loadPlan(path string) ([]planEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var entries []planEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		var single planEntry
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parse plan %s: %w", path, err)
		}

		entries = []planEntry{single}
	}

	for i, entry := range entries {
		if strings.TrimSpace(entry.Filename) == "" {
			return nil, fmt.Errorf("plan entry %d: missing filename", i)
		}
	}

	return entries, nil
}

// applyPlanEntry overlays one entry's overrides on the base config.
// The base is passed by value so overrides never leak into later
// entries.
func applyPlanEntry(base m.RunConfig, entry planEntry) m.RunConfig {
	cfg := base

	if entry.Mutants != nil {
		cfg.Mutants = *entry.Mutants
	}

	if entry.Seed != nil {
		cfg.Seed = *entry.Seed
	}

	if entry.Solc != "" {
		cfg.Solc = entry.Solc
	}

	if entry.Contract != "" {
		cfg.Contract = entry.Contract
	}

	if len(entry.Functions) > 0 {
		cfg.Functions = entry.Functions
	}

	if len(entry.Operators) > 0 {
		kinds := make([]m.OperatorKind, 0, len(entry.Operators))
		for _, name := range entry.Operators {
			kinds = append(kinds, m.OperatorKind(name))
		}

		cfg.Operators = kinds
	}

	if entry.Out != "" {
		cfg.OutDir = m.Path(entry.Out)
	}

	return cfg
}

// runPlan executes every plan entry as its own generation run. Entries
// without an explicit out dir land in numbered plan_N subdirectories
// so they never clobber each other; `mutsol merge` folds those back
// into one tree.
func runPlan(ctx context.Context, path string) error {
	entries, err := loadPlan(path)
	if err != nil {
		return err
	}

	base, err := effectiveRunConfig()
	if err != nil {
		return err
	}

	for i, entry := range entries {
		cfg := applyPlanEntry(base, entry)

		if len(entries) > 1 && entry.Out == "" {
			cfg.OutDir = m.Path(filepath.Join(string(base.OutDir), fmt.Sprintf("plan_%d", i)))
		}

		_, err := engineFactory(cfg).Mutate(ctx, domain.MutateArgs{
			Paths:   []m.Path{m.Path(entry.Filename)},
			Exclude: viper.GetStringSlice(excludeKey),
			Config:  cfg,
		})
		if err != nil {
			return fmt.Errorf("plan entry %d (%s): %w", i, entry.Filename, err)
		}
	}

	return nil
}
