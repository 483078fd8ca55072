package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wflang/wfl/internal/config"
	"github.com/wflang/wfl/pkg/wfl"
)

var (
	flagEval      string
	flagTypeCheck bool
	flagAnalyze   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "run a WFL program",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScript,
}

func init() {
	runCmd.Flags().StringVarP(&flagEval, "eval", "e", "", "evaluate a WFL snippet instead of a file")
	runCmd.Flags().BoolVar(&flagTypeCheck, "type-check", false, "run the structural type checker and report warnings")
	runCmd.Flags().BoolVar(&flagAnalyze, "analyze", true, "run scope analysis and report warnings")
}

func runScript(c *cobra.Command, args []string) error {
	source, filename, err := readSource(flagEval, args)
	if err != nil {
		return err
	}

	cfg, cfgErrs := config.Load(flagConfigPath)
	for _, e := range cfgErrs {
		fmt.Fprintln(os.Stderr, "config:", e)
	}
	logger := config.NewLogger(cfg)
	logger.Debugf("loaded config from %s", flagConfigPath)

	ctx := context.Background()
	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	logger.Infof("running %s", filename)
	exitCode, diags := wfl.RunProgram(ctx, source, filename, wfl.Options{
		TypeCheck: flagTypeCheck,
		Analyze:   flagAnalyze,
		Out:       func(s string) { fmt.Fprint(os.Stdout, s) },
	})
	elapsed := time.Since(start)

	for _, d := range diags {
		fmt.Fprint(os.Stderr, d.Format(true))
	}
	logger.Infof("finished %s in %s with exit code %d", filename, elapsed, exitCode)

	if flagTime {
		fmt.Fprintf(os.Stderr, "wfl: completed in %s\n", elapsed)
	}
	if flagDebug || cfg.DebugReportEnabled {
		report := config.DebugReport{
			File:      filename,
			ElapsedMS: elapsed.Milliseconds(),
			ExitCode:  exitCode,
		}
		for _, d := range diags {
			report.Diagnostics = append(report.Diagnostics, d.Message)
		}
		out, err := report.MarshalYAML()
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, "debug report:\n"+string(out))
	}

	if exitCode != 0 {
		return &exitError{code: exitCode}
	}
	return nil
}

func readSource(eval string, args []string) (source, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 0 {
		return "", "", fmt.Errorf("wfl run requires a file argument or --eval")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }
