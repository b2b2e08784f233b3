package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prochallenge/internal/sheetmock"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/spf13/cobra"
)

const mockShutdownTimeout = 5 * time.Second

func newMockCmd() *cobra.Command {
	var (
		addr  string
		gen   sheetmock.GeneratorConfig
		start string
		seed  string
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory stand-in for the remote endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.Named("sheetmock")

			gen.Seed = seedFrom(seed)
			gen.Start = time.Now().AddDate(0, 0, -7*gen.Weeks)
			if start != "" {
				t, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return fmt.Errorf("parse --start: %w", err)
				}
				gen.Start = t
			}

			var rows []sheetmock.Row
			if gen.Participants > 0 {
				var err error
				if rows, err = sheetmock.Generate(ctx, gen); err != nil {
					return err
				}
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			srv := &http.Server{
				Handler:           sheetmock.New(sheetmock.WithRows(rows), sheetmock.WithLogger(log)),
				ReadHeaderTimeout: 5 * time.Second,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sheet stand-in on http://%s with %d rows (seed %d)\n", ln.Addr(), len(rows), gen.Seed)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Serve(ln) }()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mockShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "127.0.0.1:8081", "listen address")
	f.IntVar(&gen.Participants, "participants", 8, "participants to seed, 0 for an empty sheet")
	f.IntVar(&gen.Weeks, "weeks", 6, "weekly weigh-ins per participant")
	f.Float64Var(&gen.SkipRate, "skip-rate", 0.1, "probability of a missed weigh-in")
	f.StringVar(&start, "start", "", "first weigh-in week, YYYY-MM-DD (default weeks ago)")
	f.StringVar(&seed, "seed", "", "random seed; a number or any text (default random)")
	return cmd
}

// seedFrom turns --seed into a generator seed. Text is hashed through a
// name-based UUID so a word gives a stable sheet; empty picks a random one.
func seedFrom(s string) uint64 {
	var id uuid.UUID
	if s == "" {
		id = uuid.New()
	} else {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(s))
	}
	var n uint64
	for _, b := range id[:8] {
		n = n<<8 | uint64(b)
	}
	return n
}
