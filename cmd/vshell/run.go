package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/vshell/internal/appconfig"
	"pkt.systems/vshell/internal/executor"
	"pkt.systems/vshell/internal/logx"
	"pkt.systems/vshell/internal/version"
	"pkt.systems/vshell/shell"
	"pkt.systems/vshell/terminal"
)

type shellFlags struct {
	configPath string
	delegate   string
	logFile    string
	logLevel   string
	theme      string
}

func (f *shellFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "config file path (default ~/.vshell/config.yaml)")
	cmd.Flags().StringVar(&f.delegate, "delegate", "", "shell that receives every command line, e.g. bash")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "log file path; empty keeps the configured file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "color theme")
}

// loadConfig reads the config file and applies flag overrides.
func (f shellFlags) loadConfig() (appconfig.Config, error) {
	cfg, err := appconfig.Load(f.configPath)
	if err != nil {
		return appconfig.Config{}, err
	}
	if f.delegate != "" {
		cfg.Shell.Delegate = f.delegate
	}
	if f.logFile != "" {
		cfg.Logging.File = f.logFile
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if err := appconfig.Validate(&cfg); err != nil {
		return appconfig.Config{}, err
	}
	return cfg, nil
}

// runShell owns the terminal for the whole session. Logs go to the
// configured file so they never mix with the drawn screen.
func runShell(ctx context.Context, flags shellFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	level, err := logx.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logFile, err := logx.NewFileWriter(logx.FileConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := logx.New(logFile, level)
	ctx = pslog.ContextWithLogger(ctx, logger)
	logger.Info("vshell start", "version", version.Current(), "theme", cfg.Theme, "delegate", cfg.Shell.Delegate)

	term, err := terminal.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer func() { _ = term.Close() }()

	exec := executor.New(executor.Config{
		Delegate:     cfg.Shell.Delegate,
		DelegateArgs: cfg.Shell.DelegateArgs,
		Env:          []string{"VSHELL=1"},
	}, nil)
	session, err := shell.New(shell.Options{
		Config:   cfg,
		Screen:   term,
		Executor: exec,
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := session.Run(runCtx, term.Keys(runCtx), terminal.NotifyResize(runCtx))
	cancel()
	closeErr := term.Close()
	if runErr != nil {
		logger.Error("vshell stopped", "err", runErr)
		return fmt.Errorf("vshell: %w", runErr)
	}
	if closeErr != nil {
		logger.Warn("vshell terminal restore failed", "err", closeErr)
		return closeErr
	}
	logger.Info("vshell exit")
	return nil
}
