// Package render turns results into printable documents, HTML fragments and
// terminal tables.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/okian/prochallenge/internal/domain/bmi"
	model "github.com/okian/prochallenge/internal/domain/model"
)

// Disclaimer closes every BMI report.
const Disclaimer = "This is general guidance only. Please consult a qualified healthcare professional or registered dietitian for personalised medical advice."

const reportDateLayout = "2 January 2006"

//go:embed templates/bmi_report.html
var templatesFS embed.FS

var reportTmpl = template.Must(template.ParseFS(templatesFS, "templates/bmi_report.html"))

type reportView struct {
	Date          string
	Color         template.CSS
	BMI           string
	Category      string
	Description   string
	Height        string
	Weight        string
	Age           int
	Gender        string
	IdealMin      string
	IdealMax      string
	CalorieTarget string
	Macros        string
	Tips          []string
	MealPlan      []string
	Disclaimer    string
	AutoPrint     bool
}

// ReportOption configures BMIReport.
type ReportOption func(*reportView)

// WithAutoPrint opens the print dialog when the report loads.
func WithAutoPrint(enabled bool) ReportOption {
	return func(v *reportView) {
		v.AutoPrint = enabled
	}
}

// BMIReport writes the printable HTML report of res dated at.
func BMIReport(w io.Writer, res bmi.Result, at time.Time, opts ...ReportOption) error {
	g := res.Guidance
	v := reportView{
		Date:          at.Format(reportDateLayout),
		Color:         template.CSS(g.PrintColor),
		BMI:           res.Display(),
		Category:      string(res.Category),
		Description:   g.Description,
		Height:        model.FormatNumber(res.HeightCm),
		Weight:        model.FormatNumber(res.WeightKg),
		Age:           res.Age,
		Gender:        res.Gender.Title(),
		IdealMin:      fmt.Sprintf("%.1f", res.IdealMinKg),
		IdealMax:      fmt.Sprintf("%.1f", res.IdealMaxKg),
		CalorieTarget: g.CalorieTarget,
		Macros:        g.Macros,
		Tips:          g.Tips,
		MealPlan:      g.MealPlan,
		Disclaimer:    Disclaimer,
		AutoPrint:     true,
	}
	for _, opt := range opts {
		opt(&v)
	}
	if err := reportTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("render bmi report: %w", err)
	}
	return nil
}
