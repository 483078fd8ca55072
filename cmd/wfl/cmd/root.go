package cmd

import (
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var (
	flagDebug      bool
	flagTime       bool
	flagConfigPath string
)

var rootCmd = &cobra.Command{
	Use:     "wfl",
	Short:   "WFL: a natural-language scripting language",
	Long:    "wfl runs, analyzes, and lints WebFirst Language (WFL) programs.",
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "print a detailed debug report on exit")
	rootCmd.PersistentFlags().BoolVar(&flagTime, "time", false, "print pipeline stage timings")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", ".wflcfg", "path to a .wflcfg style config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(builtinsCmd)
}

// debugDump renders v with kr/pretty; the parse subcommand uses it to
// print the AST.
func debugDump(label string, v interface{}) string {
	return label + ":\n" + pretty.Sprint(v)
}
