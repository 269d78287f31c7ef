package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/featuremap/internal/dashboard"
	"github.com/papapumpkin/featuremap/internal/tui"
)

// debugLogFile receives log output while the TUI owns the terminal.
const debugLogFile = "featuremap-debug.log"

// tuiCmd launches the interactive dashboard.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive release dashboard",
	Long: `Launch the treemap dashboard. Release data is loaded once behind a
spinner; arrows move the cursor, enter drills down, esc goes back, m
switches between categories and quarters and tab cycles the treemap, year
and month views.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("featuremap tui requires a TTY (terminal)")
	}
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	// The alt screen owns stderr; logs go to a file in verbose mode and
	// nowhere otherwise.
	var logOut io.Writer = io.Discard
	if s.cfg.Verbose {
		f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	s.logger = newLogger(logOut, log.DebugLevel)

	// Options are resolved up front so configuration errors surface before
	// the alt screen opens.
	opts, err := s.dashboardOptions()
	if err != nil {
		return err
	}
	load := func(ctx context.Context) (*dashboard.Dashboard, error) {
		records, err := s.loadRecords(ctx)
		if err != nil {
			return nil, err
		}
		return dashboard.New(records, opts), nil
	}
	return tui.Run(cmd.Context(), load)
}

func isStderrTTY() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
