package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wflang/wfl/internal/config"
	"github.com/wflang/wfl/pkg/diagnostics"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect and repair .wflcfg style configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "validate the .wflcfg file",
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(flagConfigPath)
		if err != nil {
			return err
		}
		_, errs := config.Parse(data)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, flagConfigPath+": "+e.Error())
		}
		if len(errs) > 0 {
			return &exitError{code: 1}
		}
		return nil
	},
}

var configFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "rewrite the .wflcfg file to canonical form, dropping unknown keys",
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(flagConfigPath)
		if err != nil {
			return err
		}
		cfg, _ := config.Parse(data)
		fixed := cfg.Write()
		if flagDiff {
			out, err := diagnostics.UnifiedDiff(flagConfigPath, string(data), fixed)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		return os.WriteFile(flagConfigPath, []byte(fixed), 0o644)
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configFixCmd)
	configFixCmd.Flags().BoolVar(&flagDiff, "diff", false, "print a unified diff instead of writing")
}
