package main

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/prochallenge/internal/adapters/render"
	"github.com/okian/prochallenge/internal/domain/bmi"
	"github.com/spf13/cobra"
)

const reportFileMode = 0o644

func newBMICmd(mealPlanDefault bool) *cobra.Command {
	var (
		in        bmi.Input
		gender    string
		mealPlans bool
		report    string
	)
	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Classify a BMI and print the guidance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Gender = bmi.ParseGender(gender)
			res, err := bmi.NewClassifier(bmi.WithMealPlans(mealPlans)).Classify(in)
			if err != nil {
				return err
			}
			if err := render.BMI(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if report == "" {
				return nil
			}

			f, err := os.OpenFile(report, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, reportFileMode)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			if err := render.BMIReport(f, res, time.Now(), render.WithAutoPrint(false)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport written to %s\n", report)
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&in.HeightCm, "height", 0, "height in cm")
	f.Float64Var(&in.WeightKg, "weight", 0, "weight in kg")
	f.IntVar(&in.Age, "age", 0, "age in years")
	f.StringVar(&gender, "gender", "", "male or female")
	f.BoolVar(&mealPlans, "meal-plans", mealPlanDefault, "include a sample meal plan")
	f.StringVar(&report, "report", "", "also write the printable HTML report to this file")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}
