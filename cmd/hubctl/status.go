package main

import (
	"fmt"
	"time"

	"github.com/okian/prochallenge/internal/domain/challenge"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the challenge countdown and weigh-in day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := g.timeLocation()
			if err != nil {
				return err
			}
			now := time.Now().In(loc)
			if at != "" {
				if now, err = time.ParseInLocation(time.DateTime, at, loc); err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
			}

			c := challenge.NewCalendar(challenge.WithLocation(loc))
			p := c.Prizes()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Days left: %s\n", c.DaysLeftText(now))
			fmt.Fprintf(out, "Countdown: %s\n", c.Countdown(now))
			fmt.Fprintln(out, c.WeighInMessage(now))
			fmt.Fprintf(out, "Prize pool: %s (entry %s)\n", challenge.FormatRupees(p.Pool), challenge.FormatRupees(p.EntryFee))
			for i, amount := range p.Places {
				fmt.Fprintf(out, "  %d. %s\n", i+1, challenge.FormatRupees(amount))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `evaluate at this time, "2006-01-02 15:04:05"`)
	return cmd
}
