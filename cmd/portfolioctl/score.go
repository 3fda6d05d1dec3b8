package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
	"github.com/pzaman/portfolio-backend-go/internal/service"
)

func newScoreCmd(opts *rootOpts) *cobra.Command {
	var (
		params    models.RiskQueryParams
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a risk profile against the stored accidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := opts.open()
			if err != nil {
				return err
			}
			defer db.Close()

			scoring := cfg.Scoring
			scoring.Cache = false
			repo := repository.NewAccidentRepository(db, scoring.ReferenceYear())
			svc, err := service.NewRiskService(repo, scoring, nil)
			if err != nil {
				return err
			}

			a, err := svc.Score(cmd.Context(), params.Query())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFmt == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ATTRIBUTE\tSELECTION\tSCORE\tWEIGHT\tBASIS")
			for _, f := range a.Factors {
				fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%.2f\t%s\n", f.Label, f.Selection, f.Display.Percent, f.Weight, f.Basis)
			}
			fmt.Fprintf(tw, "TOTAL\t\t%.1f%%\t\t%s\n", a.TotalDisplay.Percent, a.TotalDisplay.Tier)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&params.Hour, "hour", "Any", "Hour of day, e.g. 17:00")
	cmd.Flags().StringVar(&params.Gender, "gender", "Any", "Male or Female")
	cmd.Flags().StringVar(&params.Department, "department", "Any", "Department code, e.g. 75")
	cmd.Flags().StringVar(&params.UrbanRural, "urban-rural", "Any", "Urban or Rural")
	cmd.Flags().StringVar(&params.Weather, "weather", "Any", "Weather label, e.g. \"Light Rain\"")
	cmd.Flags().StringVar(&params.AgeGroup, "age-group", "Any", "Age group, e.g. 25-34")
	cmd.Flags().StringVar(&params.TripPurpose, "trip-purpose", "Any", "Trip purpose label, e.g. Leisure")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}
