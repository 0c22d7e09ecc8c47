package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moolen/rfpagents/internal/config"
	"github.com/moolen/rfpagents/internal/logging"
)

const Version = "0.1.0"

var (
	logLevelFlags []string // Supports multiple --log-level flags
	configPath    string
	envFiles      []string
)

var rootCmd = &cobra.Command{
	Use:   "rfpagents",
	Short: "rfpagents - retrieval-augmented agents for drafting and reviewing RFPs",
	Long: `rfpagents serves a fixed catalog of Gemini agents that answer questions
about, draft and validate Requests for Proposals, grounded in a document
corpus.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Supports per-package log levels: --log-level debug --log-level retrieval=debug
	rootCmd.PersistentFlags().StringSliceVar(&logLevelFlags, "log-level",
		[]string{"info"},
		"Log level for packages. Use 'default=level' for default, or 'package.name=level' for per-package.\n"+
			"Examples: --log-level debug (all), --log-level retrieval=debug --log-level corpus=warn")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (environment variables override it)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil,
		"Env files to load before reading the environment (default: ./.env when present)")

	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(ingestCmd)
}

// setup initializes logging and loads the configuration. A missing corpus is
// reported as config.ErrMissingCorpus before any agent is built. The config
// file's log_level applies unless --log-level was given.
func setup(cmd *cobra.Command) (*config.Config, error) {
	if err := setupLog(logLevelFlags); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		if err := setupLog([]string{cfg.LogLevel}); err != nil {
			return nil, fmt.Errorf("failed to setup logging: %w", err)
		}
	}
	return cfg, nil
}

// setupLog initializes the logging system with parsed log level flags.
// Priority: CLI flags > Environment variables > default
func setupLog(flags []string) error {
	defaultLevel, packageLevels, err := parseLogLevelFlags(flags, os.Environ())
	if err != nil {
		return err
	}
	return logging.Initialize(defaultLevel, packageLevels)
}

// parseLogLevelFlags parses CLI flags and environment variables.
//
// CLI format: ["debug"], ["default=info", "retrieval=debug"], or ["info"]
// Env vars: LOG_LEVEL_AGENT_RUNNER=debug (package name uppercased, dots to underscores)
func parseLogLevelFlags(flags, environ []string) (string, map[string]string, error) {
	result := make(map[string]string)

	for _, envPair := range environ {
		if !strings.HasPrefix(envPair, "LOG_LEVEL_") {
			continue
		}
		parts := strings.SplitN(envPair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		result[convertEnvKeyToPackageName(parts[0])] = parts[1]
	}

	for _, flag := range flags {
		if !strings.Contains(flag, "=") {
			result["default"] = flag
			continue
		}
		parts := strings.SplitN(flag, "=", 2)
		result[parts[0]] = parts[1]
	}

	defaultLevel := "info"
	if level, exists := result["default"]; exists {
		defaultLevel = level
		delete(result, "default")
	}

	if _, err := logging.ParseLevel(defaultLevel); err != nil {
		return "", nil, err
	}
	for pkg, level := range result {
		if _, err := logging.ParseLevel(level); err != nil {
			return "", nil, fmt.Errorf("invalid log level for package %q: %v", pkg, err)
		}
	}

	return defaultLevel, result, nil
}

// convertEnvKeyToPackageName converts LOG_LEVEL_AGENT_RUNNER -> agent.runner
func convertEnvKeyToPackageName(envKey string) string {
	name := strings.TrimPrefix(envKey, "LOG_LEVEL_")
	return strings.ToLower(strings.ReplaceAll(name, "_", "."))
}
