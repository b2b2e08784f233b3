package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/prochallenge/internal/adapters/remote"
	"github.com/okian/prochallenge/internal/adapters/render"
	"github.com/okian/prochallenge/internal/domain/leaderboard"
	"github.com/okian/prochallenge/internal/domain/types"
	"github.com/okian/prochallenge/pkg/logger"
	"github.com/spf13/cobra"
)

// Leaderboard views.
const (
	viewStandings = "standings"
	viewWeights   = "weights"
	viewDeltas    = "deltas"
)

var errNoURL = errors.New("remote endpoint URL is required (--url, HUB_REMOTE_URL or remote_url in HUB_CONFIG)")

func newLeaderboardCmd(g *globalFlags, yearLabels bool) *cobra.Command {
	var (
		view      string
		top       int
		me        string
		withYears bool
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Fetch every weigh-in and print the ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if g.url == "" {
				return errNoURL
			}
			loc, err := g.timeLocation()
			if err != nil {
				return err
			}

			client := remote.NewClient(g.url, remote.WithTimeout(g.timeout), remote.WithLogger(logger.Named("remote")))
			rows, err := client.GetAllWeights(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch weights: %w", err)
			}
			board := types.NewBoard(leaderboard.Build(rows,
				leaderboard.WithLocation(loc),
				leaderboard.WithYearQualifiedLabels(withYears),
			), 1, time.Now())

			out := cmd.OutOrStdout()
			if board.Dropped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d rows dropped: unparseable dates\n", board.Dropped)
			}
			switch view {
			case viewStandings:
				standings := board.Standings
				if top > 0 && top < len(standings) {
					standings = standings[:top]
				}
				return render.Standings(out, standings, me)
			case viewWeights:
				return render.WeightMatrix(out, board)
			case viewDeltas:
				return render.DeltaMatrix(out, board)
			default:
				return fmt.Errorf("unknown view %q: want %s, %s or %s", view, viewStandings, viewWeights, viewDeltas)
			}
		},
	}
	f := cmd.Flags()
	f.StringVar(&view, "view", viewStandings, "standings, weights or deltas")
	f.IntVar(&top, "top", 0, "show only the leading n standings")
	f.StringVar(&me, "me", "", "participant to highlight")
	f.BoolVar(&withYears, "year-labels", yearLabels, "qualify timeline labels with the year")
	return cmd
}
