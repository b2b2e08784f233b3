package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/prochallenge/internal/domain/bmi"
	model "github.com/okian/prochallenge/internal/domain/model"
	"github.com/okian/prochallenge/internal/domain/types"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Standings writes the ranking as a table. The row of highlight, if any,
// is marked with an asterisk.
func Standings(w io.Writer, standings []types.Standing, highlight string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tPARTICIPANT\tTOTAL\t")
	for _, s := range standings {
		name := s.Participant
		if s.Medal != "" {
			name = s.Medal + " " + name
		}
		if highlight != "" && s.Participant == highlight {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", s.RankDisplay, name, s.PctDisplay)
	}
	return tw.Flush()
}

// WeightMatrix writes the raw weights per timeline point and the total column.
func WeightMatrix(w io.Writer, b types.Board) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "#\tPARTICIPANT\t%s\tTOTAL\t\n", strings.Join(b.Timeline, "\t"))
	for _, row := range b.Weights {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Display()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", row.Position, withMedal(row.Medal, row.Participant),
			strings.Join(cells, "\t"), row.TotalDisplay())
	}
	return tw.Flush()
}

// DeltaMatrix writes each value with its change from the previous point.
func DeltaMatrix(w io.Writer, b types.Board) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "#\tPARTICIPANT\t%s\t\n", strings.Join(b.Timeline, "\t"))
	for _, row := range b.Deltas {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.Display()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", row.Position, withMedal(row.Medal, row.Participant), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// BMI writes a BMI result with its guidance.
func BMI(w io.Writer, res bmi.Result) error {
	tw := newTable(w)
	g := res.Guidance
	fmt.Fprintf(tw, "BMI\t%s\t\n", res.Display())
	fmt.Fprintf(tw, "Category\t%s\t\n", res.Category)
	fmt.Fprintf(tw, "Ideal range\t%.1f – %.1f kg\t\n", res.IdealMinKg, res.IdealMaxKg)
	fmt.Fprintf(tw, "Calories\t%s\t\n", g.CalorieTarget)
	fmt.Fprintf(tw, "Macros\t%s\t\n", g.Macros)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", g.Description)
	for _, t := range g.Tips {
		fmt.Fprintf(w, "  ✓ %s\n", t)
	}
	if len(g.MealPlan) > 0 {
		fmt.Fprintln(w, "\nMeal plan:")
		for _, m := range g.MealPlan {
			fmt.Fprintf(w, "  • %s\n", m)
		}
	}
	return nil
}

func withMedal(m model.Medal, name string) string {
	if e := m.Emoji(); e != "" {
		return e + " " + name
	}
	return name
}
