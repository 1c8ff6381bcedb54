// Command buildindex runs the offline batch: it reads the reference lead
// population, fits the feature and embedding pipeline, builds both indices
// and publishes the artifact bundle the scoring server loads at startup.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/leadrank/internal/adapters/artifacts"
	"github.com/okian/leadrank/internal/build"
	"github.com/okian/leadrank/internal/config"
	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/pkg/logger"
)

var flags struct {
	data       string
	artifacts  string
	components int
	topK       int
	hashingDim int
	embedURL   string
}

var rootCmd = &cobra.Command{
	Use:          "buildindex",
	Short:        "Build the lead-scoring artifact bundle from a reference dataset",
	SilenceUsage: true, // don't print usage on operational errors
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// Config file and env provide defaults; flags win when set.
		cfg, err := config.Load(ctx)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if !cmd.Flags().Changed("artifacts") {
			flags.artifacts = cfg.ArtifactsDir
		}
		if !cmd.Flags().Changed("components") {
			flags.components = cfg.PCAComponents
		}
		if !cmd.Flags().Changed("topk") {
			flags.topK = cfg.TopK
		}
		if !cmd.Flags().Changed("hashing-dim") {
			flags.hashingDim = cfg.HashingDim
		}
		if !cmd.Flags().Changed("embed-url") {
			flags.embedURL = cfg.EmbedServerURL
		}
		if flags.data == "" {
			flags.data = cfg.DataPath
		}
		if flags.data == "" {
			return fmt.Errorf("no dataset: pass --data or set data_path")
		}

		builder := build.NewBuilder(artifacts.NewStore(flags.artifacts),
			build.WithLogger(logger.Get().Named("buildindex")),
			build.WithSchema(cfg.Schema),
			build.WithComponents(flags.components),
			build.WithTopK(flags.topK),
			build.WithTextConfig(embed.TextConfig{
				BaseURL:        flags.embedURL,
				PrimaryModel:   cfg.PrimaryModel,
				SecondaryModel: cfg.SecondaryModel,
				HashingDim:     flags.hashingDim,
				Timeout:        time.Duration(cfg.EmbedTimeoutMS) * time.Millisecond,
			}),
		)
		if _, err := builder.Run(ctx, flags.data); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flags.data, "data", "", "dataset path (.csv, .db, .sqlite)")
	rootCmd.Flags().StringVar(&flags.artifacts, "artifacts", "./artifacts", "artifact output directory")
	rootCmd.Flags().IntVar(&flags.components, "components", 16, "requested tabular projection components")
	rootCmd.Flags().IntVar(&flags.topK, "topk", 20, "neighbor count recorded in bundle metadata")
	rootCmd.Flags().IntVar(&flags.hashingDim, "hashing-dim", 384, "hashed fallback dimensionality")
	rootCmd.Flags().StringVar(&flags.embedURL, "embed-url", "", "embedding server base URL (empty selects hashed fallback)")
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
