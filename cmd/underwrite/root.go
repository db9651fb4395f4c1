package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"dealdesk/server/config"
	"dealdesk/server/internal/analyst"
	"dealdesk/server/internal/models"
	"dealdesk/server/internal/underwriting"

	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	listing         models.PropertyListing
	mode            string
	assumptionsFile string
	jsonOutput      bool
	plain           bool
	workbook        bool
	narrative       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "underwrite",
		Short: "Underwrite a commercial property listing",
		Long: `Compute the financial model for a listing and print the investment memo.

Example:
  underwrite --address "1052 E Thomas St" --price '$6,950,000' --cap-rate 5.07% \
    --details "29-unit apartment"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// loi shares the listing flags but never reads the cap rate
			if !cmd.Flags().Changed("cap-rate") {
				return errors.New(`required flag(s) "cap-rate" not set`)
			}
			return runUnderwrite(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.listing.Address, "address", "", "property street address")
	flags.StringVar(&opts.listing.Location, "location", "", "city, state and zip")
	flags.StringVar(&opts.listing.AskingPrice, "price", "", "asking price, e.g. $6,950,000")
	flags.StringVar(&opts.listing.AdvertisedCapRate, "cap-rate", "", "advertised cap rate, e.g. 5.07%")
	flags.StringVar(&opts.listing.Details, "details", "", "listing details, e.g. 29-unit apartment")
	flags.StringVar(&opts.assumptionsFile, "assumptions", "", "YAML file overlaying the default market assumptions")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of the rendered memo")
	flags.BoolVar(&opts.plain, "plain", false, "print raw markdown without terminal styling")
	_ = root.MarkPersistentFlagRequired("price")

	root.Flags().StringVar(&opts.mode, "mode", "", "calculation mode: reference or strict")
	root.Flags().BoolVar(&opts.workbook, "workbook", false, "include the underwriting workbook in JSON output")
	root.Flags().BoolVar(&opts.narrative, "narrative", false, "ask Gemini for the memo when GEMINI_API_KEY is set")

	root.AddCommand(newLOICmd(opts))
	return root
}

func runUnderwrite(cmd *cobra.Command, opts *options) error {
	assumptions, err := config.LoadAssumptions(opts.assumptionsFile)
	if err != nil {
		return err
	}
	if opts.mode != "" {
		assumptions.Mode = underwriting.Mode(opts.mode)
	}

	model, err := underwriting.ComputeModel(opts.listing, assumptions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		result := map[string]interface{}{"model": model}
		if opts.workbook {
			wb, err := underwriting.BuildWorkbook(opts.listing, model, assumptions)
			if err != nil {
				return err
			}
			result["workbook"] = wb
		}
		return writeJSON(out, result)
	}

	an, err := newAnalyst(cmd.Context(), opts.narrative)
	if err != nil {
		return err
	}
	analysis, err := an.Analyze(cmd.Context(), opts.listing, model)
	if err != nil {
		return err
	}
	return writeMarkdown(out, analysis.Markdown, opts.plain)
}

func newLOICmd(opts *options) *cobra.Command {
	var terms models.LOITerms
	var financing bool

	cmd := &cobra.Command{
		Use:          "loi",
		Short:        "Draft a letter of intent for the listing",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("financing") {
				terms.FinancingContingency = &financing
			}
			loi, err := analyst.DraftLOI(opts.listing, terms, time.Now())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), loi)
			}
			return writeMarkdown(cmd.OutOrStdout(), loi.Markdown, opts.plain)
		},
	}

	cmd.Flags().IntVar(&terms.OfferPrice, "offer", 0, "offer price in dollars (default 95% of asking)")
	cmd.Flags().IntVar(&terms.EarnestMoney, "earnest", 0, "earnest money in dollars (default 1% of offer)")
	cmd.Flags().IntVar(&terms.ClosingDays, "closing-days", 0, "days until closing (default 45)")
	cmd.Flags().IntVar(&terms.InspectionDays, "inspection-days", 0, "inspection period in days (default 14)")
	cmd.Flags().BoolVar(&financing, "financing", true, "include a financing contingency")
	cmd.Flags().StringVar(&terms.BuyerName, "buyer", "", "buyer entity name")
	cmd.Flags().StringVar(&terms.BuyerContact, "contact", "", "buyer contact")
	cmd.Flags().StringArrayVar(&terms.AdditionalTerms, "term", nil, "additional term, repeatable")
	return cmd
}

func newAnalyst(ctx context.Context, narrative bool) (*analyst.Analyst, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	if !narrative {
		return analyst.New(nil, 0, logger), nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.LLM.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, using rule-based memo")
		return analyst.New(nil, 0, logger), nil
	}
	gen, err := analyst.NewGeminiGenerator(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	return analyst.New(gen, cfg.LLM.Timeout, logger), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := fmt.Fprintln(w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render memo: %w", err)
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
