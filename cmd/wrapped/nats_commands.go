package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	natspkg "github.com/brojonat/wrapped/service/nats"
)

// subscribeCommand streams summary events as the server computes them.
func subscribeCommand() *cli.Command {
	return &cli.Command{
		Name:      "subscribe",
		Usage:     "Subscribe to summary events",
		ArgsUsage: "[address]",
		Description: `Stream summary events published to NATS JetStream.

Events are published to the subject: wrapped.summaries.{address}
Without an address, events for every wallet are streamed.

Example:
  wrapped nats subscribe DYw8jCTfwHNRJhhmFcbXvVDTqWMEVFBX6ZKUmG5CNSKK --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "durable",
				Usage: "Durable consumer name (survives restarts)",
			},
		},
		Action: func(c *cli.Context) error {
			address := c.Args().Get(0)
			jsonOutput := c.Bool("json")

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}))

			sub, err := natspkg.NewSubscriber(c.String("nats-url"), logger)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !jsonOutput {
				fmt.Printf("📡 Subscribing to: %s\n", natspkg.Subject(address))
				fmt.Printf("   Press Ctrl+C to stop\n\n")
			}

			return sub.Subscribe(ctx, address, c.String("durable"), func(event *natspkg.SummaryEvent) {
				printEvent(os.Stdout, event, jsonOutput)
			})
		},
	}
}

func printEvent(w io.Writer, event *natspkg.SummaryEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(event)
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "✅ Summary for %s\n", event.Address)
	fmt.Fprintf(w, "   Scoring: %s (level %d)\n", event.ScoringName, event.ActivityLevel)
	fmt.Fprintf(w, "   Transactions: %d of %d (%d pages)\n", event.TotalTransactions, event.OriginalCount, event.PagesFetched)
	fmt.Fprintf(w, "   Top protocol: %s (%d)\n", event.TopProtocol, event.TopProtocolCount)
	if event.FirstTokenMint != nil {
		symbol := "?"
		if event.FirstTokenSymbol != nil {
			symbol = *event.FirstTokenSymbol
		}
		fmt.Fprintf(w, "   First coin: %s %s (%s)\n", symbol, *event.FirstTokenMint, event.FirstKind)
	}
	fmt.Fprintf(w, "   Published: %s\n\n", event.PublishedAt.Format(time.RFC3339))
}
