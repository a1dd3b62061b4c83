package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/wrapped/service/config"
	"github.com/brojonat/wrapped/service/solana"
	"github.com/brojonat/wrapped/service/tokens"
	"github.com/brojonat/wrapped/service/wrapped"
)

// localCommand runs the summary pipeline in-process against the provider.
func localCommand() *cli.Command {
	return &cli.Command{
		Name:      "local",
		Usage:     "Build a wallet summary in-process without a server",
		ArgsUsage: "<address>",
		Description: `Fetch and summarize a wallet directly against the transaction provider.

Reads the same environment as the server (HELIUS_API_KEY, YEAR_START, ...),
including a .env file in the working directory.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size requested from the transaction provider (0 uses PAGE_SIZE)",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON result",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log pipeline progress to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet address is required")
			}
			address := c.Args().Get(0)

			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := slog.LevelError
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			svc := newLocalService(cfg, logger)
			result, err := svc.Build(context.Background(), address, c.Int("limit"))
			if err != nil {
				return fmt.Errorf("failed to build summary: %w", err)
			}

			if filter := c.String("jq"); filter != "" {
				code, err := compileJQ(filter)
				if err != nil {
					return err
				}
				return runJQ(os.Stdout, code, result)
			}
			if c.Bool("json") {
				return printJSON(os.Stdout, result)
			}
			printSummary(os.Stdout, address, result.Summary)
			return nil
		},
	}
}

// newLocalService wires the pipeline the way the server does, minus
// metrics and event publishing.
func newLocalService(cfg *config.Config, logger *slog.Logger) *wrapped.Service {
	var fetcher wrapped.Fetcher
	if cfg.HeliusAPIKey != "" {
		rpcClient := solana.NewRPCClient(cfg.HeliusRPCURL, cfg.HeliusAPIKey)
		fetcher = solana.NewClient(rpcClient, "helius", cfg.PageDelay, nil, logger)
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	enricher := tokens.NewEnricher(nil, logger,
		tokens.NewTokenListSource(cfg.TokenListURL, httpClient),
		tokens.NewHeliusMetadataSource(cfg.HeliusMetadataURL, cfg.HeliusAPIKey, httpClient),
	)

	return wrapped.NewService(fetcher, enricher, wrapped.Options{
		Since:    cfg.YearStart,
		PageSize: cfg.PageSize,
		MaxPages: cfg.MaxPages,
	}, nil, logger)
}
