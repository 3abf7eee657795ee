package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/trackboard/trackboard/internal/client"
	"github.com/trackboard/trackboard/internal/config"
)

// app is the state shared by every command once the root has run.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	server  string
	verbose bool

	cfg    *config.ClientConfig
	api    *client.Client
	logger *slog.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "trackboard",
		Short: "Browse tracks and submit race records",
		Long: `trackboard talks to a trackboard API server.

Examples:
  trackboard tracks --speed-gp --sort topSavedRecord
  trackboard records "Boo Valley"
  trackboard add "Boo Valley"
  trackboard pr "Boo Valley" 01:02.345
  trackboard board`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.server, "server", "", "API server URL (default $TRACKBOARD_SERVER)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		a.tracksCmd(),
		a.recordsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.prCmd(),
		a.boardCmd(),
		a.resourcesCmd(),
		a.loginCmd(),
		a.whoamiCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	a.cfg = cfg

	api, err := client.New(cfg.Server, client.WithToken(cfg.Token))
	if err != nil {
		return err
	}
	a.api = api
	a.logger.Debug("using server", "url", cfg.Server, "authenticated", api.HasToken())
	return nil
}

// requireToken fails commands that write when no token is configured.
func (a *app) requireToken() error {
	if !a.api.HasToken() {
		return errors.New("not signed in: run 'trackboard login --token <token>' or set TRACKBOARD_TOKEN")
	}
	return nil
}

// isTerminal reports whether w is attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// requireTerminal guards the interactive commands.
func (a *app) requireTerminal() error {
	if !isTerminal(a.stdin) || !isTerminal(a.stdout) {
		return errors.New("this command is interactive and needs a terminal")
	}
	return nil
}
