// Command hubctl runs the hub engine from a terminal: the leaderboard, the
// BMI calculator, the challenge calendar and an in-memory stand-in for the
// remote endpoint.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/prochallenge/internal/config"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	url       string
	timeout   time.Duration
	location  string
	logLevel  string
	logFormat string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	// Flag defaults come from the same .env, HUB_CONFIG file and HUB_ layers
	// as the server. A broken source is reported once a command runs.
	defaults, loadErr := config.LoadUnvalidated(context.Background())
	if loadErr != nil {
		defaults = config.New(context.Background())
	}
	g := &globalFlags{}

	root := &cobra.Command{
		Use:          "hubctl",
		Short:        "ProChallenge Hub from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return loadErr
			}
			if err := logger.InitWithFormat(g.logFormat, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return logger.SetLevelString(g.logLevel)
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&g.url, "url", defaults.RemoteURL, "remote endpoint URL")
	pf.DurationVar(&g.timeout, "timeout", defaults.RemoteTimeout, "remote call timeout")
	pf.StringVar(&g.location, "location", defaults.Location, "IANA zone for calendar days (default local)")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&g.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newLeaderboardCmd(g, defaults.YearQualifiedLabels),
		newBMICmd(defaults.MealPlans),
		newStatusCmd(g),
		newMockCmd(),
	)
	return root
}

// timeLocation resolves --location the same way the server resolves its config.
func (g *globalFlags) timeLocation() (*time.Location, error) {
	cfg := config.Config{Location: g.location}
	return cfg.TimeLocation()
}
