package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/cssusage/internal/cssusage"
)

const defaultConfigPath = ".cssusage.yaml"

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, explicitly set flags only;
	// defaults come from the get*WithFallback helpers)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", nil), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CSSUSAGE_* prefix)
	if err := k.Load(env.Provider("CSSUSAGE_", ".", func(s string) string {
		// CSSUSAGE_DIR -> dir
		// CSSUSAGE_REPORT_STRICT -> report.strict
		// CSSUSAGE_SCAN_WORKERS -> scan.workers
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "CSSUSAGE_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildAnalyzeConfig constructs the library's Config struct from koanf state.
func buildAnalyzeConfig(logger *slog.Logger) cssusage.Config {
	return cssusage.Config{
		CSSInputs:        getStringsWithFallback("css", "css", []string{"styles.css"}),
		SourceDir:        getStringWithFallback("dir", "dir", "."),
		Extensions:       getStringsWithFallback("extensions", "scan.extensions", cssusage.DefaultExtensions),
		Exclude:          getStringsWithFallback("exclude", "scan.exclude", cssusage.DefaultExclude),
		RespectGitignore: getBoolWithFallback("gitignore", "scan.gitignore", true),
		Workers:          getIntWithFallback("workers", "scan.workers", 0),
		SkipComments:     getBoolWithFallback("skip-comments", "scan.skip-comments", true),
		Heuristics: cssusage.Heuristics{
			MaxConcatLiterals: getIntWithFallback("concat-depth", "heuristics.concat-depth", 8),
			ContinuationLines: getIntWithFallback("continuation-lines", "heuristics.continuation-lines", 2),
		},
		SuggestDistance: getIntWithFallback("suggest-distance", "report.suggest-distance", 2),
		Logger:          logger,
	}
}

// buildOutputOptions constructs terminal report options from koanf state.
func buildOutputOptions() cssusage.OutputOptions {
	return cssusage.OutputOptions{
		PrintIssuedLines: getBoolWithFallback("print-lines", "report.print-lines", true),
		PrintLinterName:  getBoolWithFallback("print-linter-name", "report.print-linter-name", true),
		UseColors:        cssusage.ShouldUseColors(getBoolWithFallback("color", "color", false)),
		MaxIssues:        getIntWithFallback("max-issues", "report.max-issues", 0),
	}
}

// newLogger builds the stderr logger: --verbose enables debug, --quiet errors only.
func newLogger(verbose, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
// A comma-separated string (from an environment variable) is split.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	for _, key := range []string{flagKey, configKey} {
		if !k.Exists(key) {
			continue
		}
		if values := k.Strings(key); len(values) > 0 {
			return splitList(values)
		}
		if v := k.String(key); v != "" {
			return splitList([]string{v})
		}
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}

// splitList flattens comma-separated entries and drops empty ones
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
