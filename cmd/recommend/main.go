package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"smart-product-be/internal/bootstrap"
	"smart-product-be/internal/config"
	"smart-product-be/internal/dto"
	"smart-product-be/internal/pkg/logger"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	rawOut   bool
	jsonOut  bool
	wordWrap int
)

var rootCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Smart product recommendations from the terminal",
	Long: `recommend runs the same five-stage pipeline as the HTTP API
(intent → buying guide → grounded product search → report → store links)
for a single request and prints the report.`,
	SilenceUsage: true,
}

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Get a recommendation for a free-text shopping request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		sysLogger := logger.NewConsoleLogger(verbose)
		defer sysLogger.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		container := bootstrap.NewContainer(ctx, cfg, sysLogger)
		res, err := container.RecommendationService.GetRecommendation(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

func printResult(w io.Writer, res *dto.RecommendationResponse) error {
	switch {
	case jsonOut:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case rawOut:
		_, err := fmt.Fprintln(w, res.Recommendation)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(res.Recommendation)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	askCmd.Flags().BoolVar(&rawOut, "raw", false, "print the markdown report without rendering")
	askCmd.Flags().BoolVar(&jsonOut, "json", false, "print the full response as JSON")
	askCmd.Flags().IntVar(&wordWrap, "wrap", 100, "word wrap width of the rendered report")
	rootCmd.AddCommand(askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
