package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sockbowl/internal/config"
	"sockbowl/internal/llm"
	"sockbowl/internal/logging"
	"sockbowl/internal/packetgen"
	"sockbowl/internal/store"
	"sockbowl/internal/usage"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Generation flags
	topic             string
	additionalContext string
	tossupCount       int
	withBonuses       bool
	outputPath        string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sockbowl",
	Short: "sockbowl - quiz bowl packet generator",
	Long: `sockbowl generates complete quiz bowl packets from a topic string.

The pipeline gathers a fact base from an LLM provider, iteratively selects
non-obvious answers, crafts pyramidal tossup questions, repairs mutual
cross-references between questions, and orders the packet so that no answer
is given away before its question is heard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a full packet of tossups (and optionally bonuses)",
	Long: `Generates a complete packet for the given topic.

Example:
  sockbowl generate --topic "Impressionism" --context "women painters" --count 10 --bonuses`,
	RunE: runGenerate,
}

var tossupCmd = &cobra.Command{
	Use:   "tossup",
	Short: "Generate a single tossup question",
	Long: `Generates one pyramidal tossup for the given topic.

Example:
  sockbowl tossup --topic "Norse mythology"`,
	RunE: runTossup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sockbowl.yaml", "Config file path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Overall generation timeout")

	generateCmd.Flags().StringVar(&topic, "topic", "", "Packet topic (required)")
	generateCmd.Flags().StringVar(&additionalContext, "context", "", "Additional context to constrain answers")
	generateCmd.Flags().IntVar(&tossupCount, "count", 0, "Tossup count (default from config)")
	generateCmd.Flags().BoolVar(&withBonuses, "bonuses", false, "Also generate one bonus per tossup")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the packet JSON to a file instead of stdout")
	_ = generateCmd.MarkFlagRequired("topic")

	tossupCmd.Flags().StringVar(&topic, "topic", "", "Tossup topic (required)")
	tossupCmd.Flags().StringVar(&additionalContext, "context", "", "Additional context to constrain the answer")
	_ = tossupCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tossupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	gen, meter, closeStore, err := buildGenerator(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	defer meter.Log(logger)

	count := tossupCount
	if count == 0 {
		count = cfg.Generation.QuestionCount
	}
	bonuses := withBonuses || (!cmd.Flags().Changed("bonuses") && cfg.Generation.GenerateBonuses)

	packet, err := gen.GeneratePacket(ctx, packetgen.Request{
		Topic:             topic,
		AdditionalContext: additionalContext,
		TossupCount:       count,
		GenerateBonuses:   bonuses,
	})
	if err != nil {
		return err
	}

	return emitJSON(packet)
}

func runTossup(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	gen, meter, closeStore, err := buildGenerator(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	defer meter.Log(logger)

	tossup, err := gen.GenerateTossup(ctx, topic, additionalContext, nil)
	if err != nil {
		return err
	}

	return emitJSON(tossup)
}

// signalContext derives the run context from the timeout flag and cancels it
// on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("interrupted, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// buildGenerator wires the provider client and store from config. The
// returned func closes the store; it is a no-op when none is configured.
func buildGenerator(ctx context.Context) (*packetgen.Generator, *usage.Meter, func(), error) {
	client, err := llm.NewClient(ctx, llm.Options{
		Provider: llm.Provider(cfg.LLM.Provider),
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	meter := usage.NewMeter(client)

	var opts []packetgen.Option
	closeStore := func() {}

	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, packetgen.WithStore(s))
		closeStore = func() { _ = s.Close(context.Background()) }
	case "neo4j":
		s, err := store.NewNeo4jStore(ctx, store.Neo4jConfig{
			URI:      cfg.Store.Neo4j.URI,
			User:     cfg.Store.Neo4j.User,
			Password: cfg.Store.Neo4j.Password,
			Database: cfg.Store.Neo4j.Database,
		}, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, packetgen.WithStore(s))
		closeStore = func() { _ = s.Close(context.Background()) }
	}

	gen := packetgen.New(meter, packetgen.Config{
		CandidateMultiplier: cfg.Generation.CandidateMultiplier,
	}, logger, opts...)
	return gen, meter, closeStore, nil
}

func emitJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("packet written", zap.String("path", outputPath))
		return nil
	}
	_, err = os.Stdout.Write(data)
	return err
}
