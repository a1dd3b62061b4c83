package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/wrapped/client"
	"github.com/brojonat/wrapped/service/wrapped"
)

// summaryCommand requests a wallet summary from the HTTP API.
func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Fetch the year-in-review summary for a wallet",
		ArgsUsage: "<address>",
		Description: `Request the summary for a wallet from a running server.

Use --jq to project the JSON response, for example:
  wrapped summary <address> --jq '.summary.protocols[:3]'`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size requested from the transaction provider (1-100, 0 uses the server default)",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON response",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 2 * time.Minute,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet address is required")
			}
			address := c.Args().Get(0)

			var code *gojq.Code
			if filter := c.String("jq"); filter != "" {
				var err error
				if code, err = compileJQ(filter); err != nil {
					return err
				}
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}))
			cl := client.NewClient(c.String("server-url"), nil, logger)

			ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
			defer cancel()

			resp, err := cl.GetTransactions(ctx, address, c.Int("limit"))
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}

			switch {
			case code != nil:
				return runJQ(os.Stdout, code, resp)
			case c.Bool("json"):
				return printJSON(os.Stdout, resp)
			default:
				printSummary(os.Stdout, address, &resp.Summary)
				return nil
			}
		},
	}
}

// compileJQ parses and compiles a jq filter.
func compileJQ(filter string) (*gojq.Code, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}
	return code, nil
}

// runJQ runs code over v and writes each result as indented JSON.
// v is round-tripped through JSON so gojq sees plain maps and slices.
func runJQ(w io.Writer, code *gojq.Code, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	iter := code.Run(input)
	for {
		out, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := out.(error); isErr {
			return fmt.Errorf("jq filter failed: %w", err)
		}
		if err := printJSON(w, out); err != nil {
			return err
		}
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printSummary writes a human-readable summary.
func printSummary(w io.Writer, address string, s *wrapped.Summary) {
	fmt.Fprintf(w, "Wallet: %s\n", address)
	fmt.Fprintf(w, "  Scoring:      %s (level %d, %s)\n", s.ScoringName, s.ActivityLevel, s.ActivityLabel)
	fmt.Fprintf(w, "  Transactions: %d of %d fetched (%d pages)\n", s.TotalTransactions, s.OriginalCount, s.PagesFetched)
	fmt.Fprintf(w, "  Removed:      %d unsigned, %d failed\n", s.RemovedUnsigned, s.RemovedFailed)
	fmt.Fprintf(w, "  Active days:  %d\n", s.ActiveDays)
	fmt.Fprintf(w, "  Top protocol: %s (%d)\n", s.TopProtocol, s.TopProtocolCount)

	if len(s.Protocols) > 0 {
		fmt.Fprintf(w, "\nProtocols:\n")
		for _, p := range s.Protocols {
			fmt.Fprintf(w, "  %-24s %d\n", p.Name, p.Count)
		}
	}

	fc := s.FirstCoinTraded
	if fc == nil {
		fmt.Fprintf(w, "\nFirst coin: none\n")
		return
	}
	fmt.Fprintf(w, "\nFirst coin:\n")
	fmt.Fprintf(w, "  Mint:      %s\n", fc.TokenMint)
	if label := tokenLabel(fc); label != "" {
		fmt.Fprintf(w, "  Token:     %s\n", label)
	}
	fmt.Fprintf(w, "  Type:      %s\n", fc.Type)
	if fc.DEX != nil {
		fmt.Fprintf(w, "  DEX:       %s\n", *fc.DEX)
	}
	if fc.Date != nil {
		fmt.Fprintf(w, "  Date:      %s\n", *fc.Date)
	}
	if fc.Signature != nil {
		fmt.Fprintf(w, "  Signature: %s\n", *fc.Signature)
	}
}

func tokenLabel(fc *wrapped.FirstCoinTraded) string {
	var parts []string
	if fc.TokenName != nil {
		parts = append(parts, *fc.TokenName)
	}
	if fc.TokenSymbol != nil {
		parts = append(parts, "("+*fc.TokenSymbol+")")
	}
	return strings.Join(parts, " ")
}
