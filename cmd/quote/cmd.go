// cmd/quote/cmd.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"home-quote-workers/internal/common/logger"
	"home-quote-workers/internal/common/metrics"
	"home-quote-workers/internal/pricing"
	builddashboarddata "home-quote-workers/internal/workers/quote/build-dashboard-data"
	calculatepremiumquote "home-quote-workers/internal/workers/quote/calculate-premium-quote"

	"github.com/spf13/cobra"
)

type quoteFlags struct {
	state        string
	propertyType string
	sqft         float64
	noSqft       bool
	roofAge      float64
	strict       bool
	asJSON       bool
}

func newRootCmd() *cobra.Command {
	defaults := pricing.DefaultInputs()
	f := &quoteFlags{}

	root := &cobra.Command{
		Use:          "quote",
		Short:        "Estimate an annual home insurance premium",
		Long:         `The quote command prices a home from its state, property type, square footage and roof age.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, f)
		},
	}

	root.Flags().StringVar(&f.state, "state", defaults.State, "US state or territory")
	root.Flags().StringVar(&f.propertyType, "property-type", defaults.PropertyType, "property type")
	root.Flags().Float64Var(&f.sqft, "sqft", defaults.SquareFootage.Default, "square footage")
	root.Flags().BoolVar(&f.noSqft, "no-sqft", false, "price without a square footage")
	root.Flags().Float64Var(&f.roofAge, "roof-age", defaults.RoofAge.Default, "roof age in years")
	root.Flags().BoolVar(&f.strict, "strict", false, "reject values outside the nominal input ranges")
	root.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print JSON")

	root.AddCommand(newStatesCmd(f), newTopRiskCmd(f), newTrendCmd(f))
	return root
}

func runQuote(cmd *cobra.Command, f *quoteFlags) error {
	req := map[string]interface{}{
		"state":        f.state,
		"propertyType": f.propertyType,
		"roofAge":      f.roofAge,
	}
	if !f.noSqft {
		req["squareFootage"] = f.sqft
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return err
	}

	h := calculatepremiumquote.NewHandler(
		&calculatepremiumquote.Config{Timeout: 5 * time.Second, StrictRanges: f.strict},
		nil, nil, logger.NewNoOpLogger(),
	)
	out, err := h.Process(metrics.WithSource(cmd.Context(), metrics.SourceCLI), raw)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.asJSON {
		return printJSON(w, out)
	}
	fmt.Fprintf(w, "Estimated annual premium: %s\n", out.FormattedPremium)
	fmt.Fprintf(w, "Risk: %s\n", out.RiskLabel)
	return nil
}

func newStatesCmd(f *quoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List states with their hazard factor",
		RunE: func(cmd *cobra.Command, args []string) error {
			states := pricing.TopRiskStates(len(pricing.States()))
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), states)
			}
			return printFactors(cmd.OutOrStdout(), states)
		},
	}
}

func newTopRiskCmd(f *quoteFlags) *cobra.Command {
	var n int
	c := &cobra.Command{
		Use:   "top-risk",
		Short: "Show the highest hazard states",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := builddashboarddata.NewHandler(builddashboarddata.LoadConfig(), nil, logger.NewNoOpLogger())
			out, err := h.Execute(cmd.Context(), &builddashboarddata.Input{TopN: &n})
			if err != nil {
				return err
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), out.TopRiskStates)
			}
			return printFactors(cmd.OutOrStdout(), out.TopRiskStates)
		},
	}
	c.Flags().IntVar(&n, "n", pricing.DefaultTopRiskStates, "number of states")
	return c
}

func newTrendCmd(f *quoteFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Show the sample monthly premium trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			trend := pricing.SampleTrend()
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), trend)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range trend {
				fmt.Fprintf(tw, "%s\t%s\n", p.Month, pricing.FormatPremium(p.Premium))
			}
			return tw.Flush()
		},
	}
}

func printFactors(w io.Writer, points []pricing.RiskFactorPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%.2f\n", p.State, p.Factor)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
