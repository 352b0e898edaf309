package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cssusage [css-file] [source-dir]",
	Short: "Report where CSS selectors are used in HTML, PHP and JavaScript sources",
	Long: `Extract the class, id and element selectors declared in CSS stylesheets and
find the first line that references each one in a source tree.
Static strings, template echo tags and literal concatenations are understood;
runtime values are not.`,
	Args: cobra.MaximumNArgs(2),
	// Default behavior: run analyze when no subcommand is given.
	// We must call loadConfig here because PreRunE of analyzeCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runAnalyze(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Write the CSV report only, no terminal output")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Config file path")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
