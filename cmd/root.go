// Package cmd provides the root command and CLI setup for mutsol.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mutsol.dev/pkg/mutsol/internal/adapter"
	"mutsol.dev/pkg/mutsol/internal/controller"
	"mutsol.dev/pkg/mutsol/internal/domain"
	"mutsol.dev/pkg/mutsol/internal/domain/operators"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var mutantWriter adapter.MutantWriter
var reportStore adapter.ReportStore
var ui controller.UI

// engineFactory builds the engine for one run. Tests swap it out to
// intercept the commands' calls.
var engineFactory = newEngine

var configFlag string
var verboseFlag bool
var logFileFlag string
var excludePatterns []string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	mutantWriter = adapter.NewLocalMutantWriter()
	reportStore = adapter.NewLocalReportStore()
}

const solidityFilesHelp = `Accepts Solidity files and directories:
  - contracts/Token.sol     mutate a single file
  - contracts/              mutate every .sol file underneath
  - src/ lib/Vault.sol      mix directories and files`

const rootLongDescription = `Mutsol generates mutants of Solidity sources: small, still-compiling
variations used to judge how thorough a test suite or a formal
specification really is. Every mutant lands in its own directory next
to a unified diff against the original, and the whole run is summarized
in a report.

` + solidityFilesHelp

const mutateLongDescription = `Generate mutants for the given Solidity sources (default: current
directory). Each candidate is checked against the configured compiler;
only accepted, non-duplicate mutants are written.

` + solidityFilesHelp

const listLongDescription = `List discovered mutation points per file and operator without
generating any mutants.

` + solidityFilesHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutsol",
		Short: "Solidity mutant generator",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initializeRun()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

// configureRootFlags registers the flags every subcommand shares. Flag
// defaults are the literal constants rather than viper lookups because
// rootCmd is built before the config file is read; viper still wins at
// read time via bindFlagToConfig.
func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(outFlagName, "o", defaultOutDir, "output directory for mutants and the run report")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outFlagName), outKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching glob pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeKey)

	cmd.PersistentFlags().Bool(diffFlagName, false, "show a unified diff for every mutant")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(diffFlagName), diffKey)

	cmd.PersistentFlags().StringVar(&configFlag, configFlagName, "", "config file (default "+configFileName+" in the current directory)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// initializeRun finishes setup that has to wait for parsed flags: an
// explicitly named config file and the logger.
func initializeRun() error {
	if configFlag != "" {
		viper.SetConfigFile(configFlag)

		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFlag, err)
		}
	}

	configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))

	if configReadErr != nil {
		slog.Warn("Failed to read config file", "error", configReadErr)
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// newEngine assembles the engine for one run; the compiler adapter is
// rebuilt each time because its binary and flags come from the config.
func newEngine(cfg m.RunConfig) domain.Engine {
	solc := adapter.NewLocalSolcAdapter(cfg.Solc, cfg.BasePath, cfg.Remappings, cfg.CompileTimeout)

	return domain.NewEngine(fsAdapter, solc, mutantWriter, reportStore, ui)
}

// effectiveRunConfig collects the run configuration from flags, env,
// and config file, in that precedence.
func effectiveRunConfig() (m.RunConfig, error) {
	kinds, err := operators.Parse(viper.GetStringSlice(operatorsKey))
	if err != nil {
		return m.RunConfig{}, err
	}

	return m.RunConfig{
		Operators:      kinds,
		Contract:       viper.GetString(contractKey),
		Functions:      viper.GetStringSlice(functionsKey),
		Mutants:        viper.GetInt(mutantsKey),
		Seed:           viper.GetUint64(seedKey),
		Solc:           viper.GetString(solcKey),
		OutDir:         m.Path(viper.GetString(outKey)),
		BasePath:       viper.GetString(basePathKey),
		Remappings:     viper.GetStringSlice(remappingsKey),
		Parallel:       viper.GetInt(parallelKey),
		CompileTimeout: viper.GetDuration(timeoutKey),
		ShowDiff:       viper.GetBool(diffKey),
	}, nil
}
