package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wflang/wfl/internal/config"
	"github.com/wflang/wfl/internal/lint"
	"github.com/wflang/wfl/pkg/diagnostics"
)

var (
	flagDiff     bool
	flagInPlace  bool
	flagCheck    bool
)

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "check a WFL source file's style",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		cfg, cfgErrs := config.Load(flagConfigPath)
		for _, e := range cfgErrs {
			fmt.Fprintln(os.Stderr, "config:", e)
		}
		diags := lint.Check(args[0], string(data), cfg)
		for _, d := range diags {
			fmt.Fprint(os.Stderr, d.Format(true))
		}
		if flagDiff {
			fixed := lint.Fix(string(data), cfg)
			out, err := diagnostics.UnifiedDiff(args[0], string(data), fixed)
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
		if len(diags) > 0 {
			return &exitError{code: 1}
		}
		return nil
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix <file>",
	Short: "apply automatic style fixes to a WFL source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		cfg, _ := config.Load(flagConfigPath)
		fixed := lint.Fix(string(data), cfg)

		if flagCheck {
			if fixed != string(data) {
				return &exitError{code: 1}
			}
			return nil
		}
		if flagDiff {
			out, err := diagnostics.UnifiedDiff(args[0], string(data), fixed)
			if err != nil {
				return err
			}
			fmt.Print(out)
			if !flagInPlace {
				return nil
			}
		}
		if flagInPlace {
			return os.WriteFile(args[0], []byte(fixed), 0o644)
		}
		fmt.Print(fixed)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{lintCmd, fixCmd} {
		c.Flags().BoolVar(&flagDiff, "diff", false, "print a unified diff instead of / alongside writing")
	}
	fixCmd.Flags().BoolVar(&flagInPlace, "in-place", false, "write fixes back to the file")
	fixCmd.Flags().BoolVar(&flagCheck, "check", false, "exit non-zero if fixes would change the file, without writing")
}
