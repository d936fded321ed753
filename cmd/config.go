package cmd

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = ".mutsol"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	configFlagName   = "config"
	outFlagName      = "out"
	excludeFlagName  = "exclude"
	diffFlagName     = "diff"
	verboseFlagName  = "verbose"
	logFileFlagName  = "log-file"
	planFlagName     = "plan"
	mutantsFlagName  = "mutants"
	solcFlagName     = "solc"
	seedFlagName     = "seed"
	operatorFlagName = "operator"
	contractFlagName = "contract"
	functionFlagName = "function"
	basePathFlagName = "base-path"
	remapFlagName    = "remap"
	parallelFlagName = "parallel"
	timeoutFlagName  = "timeout"

	outKey        = "mutate.out"
	mutantsKey    = "mutate.mutants"
	solcKey       = "mutate.solc"
	seedKey       = "mutate.seed"
	operatorsKey  = "mutate.operators"
	contractKey   = "mutate.contract"
	functionsKey  = "mutate.functions"
	basePathKey   = "mutate.base_path"
	remappingsKey = "mutate.remappings"
	parallelKey   = "mutate.parallel"
	timeoutKey    = "mutate.timeout"
	diffKey       = "mutate.diff"
	excludeKey    = "paths.exclude"

	defaultOutDir  = "out"
	defaultSolc    = "solc"
	defaultMutants = 0
	defaultTimeout = time.Minute

	envPrefix = "MUTSOL"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutsol.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// configReadErr holds a failed ambient config read until the logger is
// up; an absent config file is not an error.
var configReadErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outKey, defaultOutDir)
	viper.SetDefault(mutantsKey, defaultMutants)
	viper.SetDefault(solcKey, defaultSolc)
	viper.SetDefault(seedKey, 0)
	viper.SetDefault(operatorsKey, []string{})
	viper.SetDefault(contractKey, "")
	viper.SetDefault(functionsKey, []string{})
	viper.SetDefault(basePathKey, "")
	viper.SetDefault(remappingsKey, []string{})
	viper.SetDefault(parallelKey, runtime.NumCPU())
	viper.SetDefault(timeoutKey, defaultTimeout)
	viper.SetDefault(diffKey, false)
	viper.SetDefault(excludeKey, []string{})

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, false)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configReadErr = err
		}
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug. All
// output goes to a rotated log file so the terminal stays free for the
// run display.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
