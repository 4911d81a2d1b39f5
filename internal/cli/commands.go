package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"CredibilityScanner/internal/domain"
)

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train both classifiers and persist the deployed model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			outcome, err := application.Train(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s := outcome.Corpus
			fmt.Fprintf(out, "rows loaded: %d (missing %d, duplicates %d, too short %d)\n", s.Rows, s.Missing, s.Duplicates, s.TooShort)
			fmt.Fprintf(out, "train: %d  test: %d\n", outcome.TrainSize, outcome.TestSize)
			printReport(out, outcome.Report)
			fmt.Fprintf(out, "model id: %s\n", outcome.Model.ID)
			return nil
		},
	}
}

func newPredictCmd() *cobra.Command {
	var (
		isURL  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "predict [text | url]",
		Short: "Classify article text or the article behind a URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			input := strings.Join(args, " ")
			result, err := application.Predict(cmd.Context(), input, isURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			fmt.Fprintf(out, "%s (%.2f%% confidence)\n", result.Label, result.ConfidencePercent)
			if len(result.TopTerms) > 0 {
				fmt.Fprintf(out, "top terms: %s\n", strings.Join(result.TopTerms, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&isURL, "url", false, "Treat the argument as a URL to fetch")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newMetricsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show evaluation metrics of the last training run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Metrics(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Score new items from the configured feeds once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			items, err := application.Scan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, it := range items {
				fmt.Fprintf(out, "%-16s %6.2f%%  %s\n  %s\n", it.Result.Label, it.Result.ConfidencePercent, it.Item.Title, it.Item.Link)
			}
			fmt.Fprintf(out, "%d items scored\n", len(items))
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var scan bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return application.Serve(ctx, scan)
		},
	}
	cmd.Flags().BoolVar(&scan, "scan", false, "Also scan feeds on the configured interval")
	return cmd
}

func printReport(w io.Writer, report domain.MetricsReport) {
	fmt.Fprintf(w, "%-22s %9s %9s %9s %9s\n", "model", "accuracy", "precision", "recall", "f1")
	for _, name := range report.ModelNames() {
		m := report.Models[name]
		marker := ""
		if name == report.BestModel {
			marker = "  (deployed)"
		}
		fmt.Fprintf(w, "%-22s %9.4f %9.4f %9.4f %9.4f%s\n", name, m.Accuracy, m.Precision, m.Recall, m.F1, marker)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
