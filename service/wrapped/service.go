// Package wrapped turns a wallet's transaction history for the year into a
// summary: which protocols it used, how active it was, and the first token
// it traded.
package wrapped

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brojonat/wrapped/service/metrics"
	"github.com/brojonat/wrapped/service/solana"
	"github.com/brojonat/wrapped/service/tokens"
)

// Fetcher pages through a wallet's transaction history.
type Fetcher interface {
	FetchAll(ctx context.Context, params solana.FetchParams) (*solana.FetchResult, error)
}

// Enricher resolves token metadata. It never fails.
type Enricher interface {
	Enrich(ctx context.Context, mint string) tokens.Metadata
}

// Publisher announces computed summaries.
type Publisher interface {
	PublishSummary(ctx context.Context, address string, summary *Summary) error
}

// Options bound the history fetched for each request.
type Options struct {
	Since    time.Time
	PageSize int
	MaxPages int
}

// Result is the response of one pipeline run.
type Result struct {
	Data    []*solana.Transaction `json:"data"`
	Summary *Summary              `json:"summary"`
}

// Service runs the pipeline for one address at a time. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	fetcher   Fetcher
	enricher  Enricher
	publisher Publisher
	opts      Options
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates a Service. A nil fetcher means no upstream credential
// is configured, and every Build fails with solana.ErrMissingAPIKey.
// If metrics is nil, no metrics will be recorded.
func NewService(fetcher Fetcher, enricher Enricher, opts Options, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		enricher: enricher,
		opts:     opts,
		metrics:  m,
		logger:   logger,
	}
}

// SetPublisher enables summary announcements after each successful build.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

// Build fetches, filters, and summarizes the history of address. pageSize
// overrides the configured page size when positive.
func (s *Service) Build(ctx context.Context, address string, pageSize int) (*Result, error) {
	if s.fetcher == nil {
		return nil, solana.ErrMissingAPIKey
	}
	start := time.Now()

	if pageSize <= 0 {
		pageSize = s.opts.PageSize
	}
	fetched, err := s.fetcher.FetchAll(ctx, solana.FetchParams{
		Address:  address,
		Since:    s.opts.Since,
		PageSize: pageSize,
		MaxPages: s.opts.MaxPages,
	})
	if err != nil {
		s.recordBuild("error", start)
		return nil, err
	}

	filtered := Filter(fetched.Transactions, address)
	if s.metrics != nil {
		s.metrics.RecordTransactionsFiltered("unsigned", len(fetched.Transactions)-len(filtered.Signed))
		s.metrics.RecordTransactionsFiltered("failed", len(filtered.Signed)-len(filtered.Successful))
	}

	var (
		protocols []ProtocolCount
		first     *Interaction
		g         errgroup.Group
	)
	g.Go(func() error {
		protocols = AttributeProtocols(filtered.Successful)
		return nil
	})
	g.Go(func() error {
		first = ResolveFirstInteraction(filtered.Successful)
		return nil
	})
	_ = g.Wait()

	var md tokens.Metadata
	if first != nil && first.TokenMint != "" && s.enricher != nil {
		md = s.enricher.Enrich(ctx, first.TokenMint)
	}

	summary := BuildSummary(SummaryInput{
		OriginalCount: len(fetched.Transactions),
		Filtered:      filtered,
		PagesFetched:  fetched.PagesFetched,
		Protocols:     protocols,
		First:         first,
		Metadata:      md,
	})
	s.recordBuild("success", start)

	s.logger.InfoContext(ctx, "summary built",
		"address", address,
		"original", summary.OriginalCount,
		"total", summary.TotalTransactions,
		"pages", summary.PagesFetched,
		"top_protocol", summary.TopProtocol,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishSummary(ctx, address, summary); err != nil {
			s.logger.WarnContext(ctx, "failed to publish summary event",
				"address", address,
				"error", err,
			)
		}
	}

	return &Result{Data: filtered.Successful, Summary: summary}, nil
}

func (s *Service) recordBuild(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSummaryBuilt(outcome, time.Since(start).Seconds())
	}
}
