package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/vshell/internal/appconfig"
	"pkt.systems/vshell/internal/clipboard"
	"pkt.systems/vshell/internal/executor"
	"pkt.systems/vshell/internal/logx"
	"pkt.systems/vshell/terminal"
)

var errChecksFailed = errors.New("one or more checks failed")

type checkResult struct {
	name   string
	detail string
	err    error
	// warning results are reported but do not fail the run.
	warning bool
}

func newDoctorCmd() *cobra.Command {
	var flags shellFlags
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, delegate shell, clipboard and log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			results := runChecks(flags)
			failed := printChecks(cmd.OutOrStdout(), results)
			for _, r := range results {
				if r.err != nil {
					logger.Debug("doctor check failed", "check", r.name, "err", r.err)
				}
			}
			if failed {
				return errChecksFailed
			}
			logger.Info("doctor ok")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func runChecks(flags shellFlags) []checkResult {
	cfg, err := flags.loadConfig()
	if err != nil {
		return []checkResult{{name: "config", err: err}}
	}
	path := flags.configPath
	if path == "" {
		path, _ = appconfig.DefaultConfigPath()
	}
	results := []checkResult{{name: "config", detail: path}}

	exec := executor.New(executor.Config{Delegate: cfg.Shell.Delegate, DelegateArgs: cfg.Shell.DelegateArgs}, nil)
	if cfg.Shell.Delegate == "" {
		results = append(results, checkResult{name: "delegate", detail: "none (commands run directly)"})
	} else if argv, _, err := exec.Command(executor.Request{Line: "true"}); err != nil {
		results = append(results, checkResult{name: "delegate", err: err})
	} else {
		results = append(results, checkResult{name: "delegate", detail: strings.Join(argv[:len(argv)-1], " ")})
	}

	if clipboard.Available() {
		results = append(results, checkResult{name: "clipboard", detail: "system"})
	} else {
		results = append(results, checkResult{name: "clipboard", detail: "in-memory only", warning: true})
	}

	if w, err := logx.NewFileWriter(logx.FileConfig{Path: cfg.Logging.File, MaxSizeMB: cfg.Logging.MaxSizeMB, MaxBackups: cfg.Logging.MaxBackups}); err != nil {
		results = append(results, checkResult{name: "log file", err: err})
	} else {
		_ = w.Close()
		detail := cfg.Logging.File
		if detail == "" {
			detail = "disabled"
		}
		results = append(results, checkResult{name: "log file", detail: detail})
	}

	if terminal.IsTerminal(int(os.Stdin.Fd())) {
		results = append(results, checkResult{name: "terminal", detail: "stdin is a terminal"})
	} else {
		results = append(results, checkResult{name: "terminal", detail: "stdin is not a terminal", warning: true})
	}
	return results
}

// printChecks writes one row per result and reports whether any failed.
func printChecks(w io.Writer, results []checkResult) bool {
	failed := false
	for _, r := range results {
		status, detail := "ok", r.detail
		switch {
		case r.err != nil:
			status, detail = "FAIL", r.err.Error()
			failed = true
		case r.warning:
			status = "warn"
		}
		_, _ = fmt.Fprintf(w, "%-4s  %-9s  %s\n", status, r.name, detail)
	}
	return failed
}
