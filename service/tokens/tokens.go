// Package tokens resolves display metadata for token mints from external
// sources. Lookups degrade to empty metadata; callers never see an error.
package tokens

import (
	"context"
	"log/slog"
	"time"

	"github.com/brojonat/wrapped/service/metrics"
)

// Metadata is the display metadata of a token. Either field may be nil.
type Metadata struct {
	Name   *string
	Symbol *string
}

// Found reports whether a name or a symbol was resolved.
func (m Metadata) Found() bool {
	return m.Name != nil || m.Symbol != nil
}

// Source is one metadata provider.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	Lookup(ctx context.Context, mint string) (Metadata, error)
}

// Enricher consults its sources in order and returns the first metadata found.
type Enricher struct {
	sources []Source
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEnricher creates an enricher over sources, tried in the given order.
// If metrics is nil, no metrics will be recorded.
func NewEnricher(m *metrics.Metrics, logger *slog.Logger, sources ...Source) *Enricher {
	return &Enricher{
		sources: sources,
		metrics: m,
		logger:  logger,
	}
}

// Enrich looks up mint. A source that fails or has no entry falls through to
// the next one, and empty metadata is returned if all of them do.
func (e *Enricher) Enrich(ctx context.Context, mint string) Metadata {
	for _, src := range e.sources {
		start := time.Now()
		md, err := src.Lookup(ctx, mint)

		result := "miss"
		switch {
		case err != nil:
			result = "error"
		case md.Found():
			result = "hit"
		}
		if e.metrics != nil {
			e.metrics.RecordMetadataLookup(src.Name(), result, time.Since(start).Seconds())
		}

		if err != nil {
			e.logger.WarnContext(ctx, "token metadata lookup failed",
				"source", src.Name(),
				"mint", mint,
				"error", err,
			)
			continue
		}
		if md.Found() {
			e.logger.DebugContext(ctx, "token metadata found",
				"source", src.Name(),
				"mint", mint,
			)
			return md
		}
	}
	return Metadata{}
}

// nonEmpty returns a pointer to s, or nil for the empty string.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
