package nats

import (
	"fmt"
	"time"

	"github.com/brojonat/wrapped/service/wrapped"
)

// SubjectPrefix is prepended to the wallet address to form the event subject.
const SubjectPrefix = "wrapped.summaries."

// Subject returns the subject summary events for address are published to.
// An empty address yields the wildcard covering every wallet.
func Subject(address string) string {
	if address == "" {
		return StreamSubjects
	}
	return fmt.Sprintf("%s%s", SubjectPrefix, address)
}

// SummaryEvent is a compact announcement of a computed summary.
// It is published to the subject "wrapped.summaries.{address}" in JetStream.
type SummaryEvent struct {
	Address string `json:"address"`

	// Counts
	TotalTransactions int `json:"total_transactions"`
	OriginalCount     int `json:"original_count"`
	RemovedUnsigned   int `json:"removed_unsigned"`
	RemovedFailed     int `json:"removed_failed"`
	PagesFetched      int `json:"pages_fetched"`
	ActiveDays        int `json:"active_days"`

	// Scoring
	TopProtocol      string `json:"top_protocol"`
	TopProtocolCount int    `json:"top_protocol_count"`
	ActivityLevel    int    `json:"activity_level"`
	ScoringName      string `json:"scoring_name"`

	// First interaction, when one was resolved
	FirstTokenMint   *string `json:"first_token_mint,omitempty"`
	FirstTokenSymbol *string `json:"first_token_symbol,omitempty"`
	FirstKind        string  `json:"first_kind,omitempty"`

	PublishedAt time.Time `json:"published_at"`
}

// FromSummary converts a summary to a SummaryEvent for publishing.
func FromSummary(address string, s *wrapped.Summary) *SummaryEvent {
	event := &SummaryEvent{
		Address:           address,
		TotalTransactions: s.TotalTransactions,
		OriginalCount:     s.OriginalCount,
		RemovedUnsigned:   s.RemovedUnsigned,
		RemovedFailed:     s.RemovedFailed,
		PagesFetched:      s.PagesFetched,
		ActiveDays:        s.ActiveDays,
		TopProtocol:       s.TopProtocol,
		TopProtocolCount:  s.TopProtocolCount,
		ActivityLevel:     s.ActivityLevel,
		ScoringName:       s.ScoringName,
		PublishedAt:       time.Now().UTC(),
	}

	if fc := s.FirstCoinTraded; fc != nil {
		mint := fc.TokenMint
		event.FirstTokenMint = &mint
		event.FirstTokenSymbol = fc.TokenSymbol
		event.FirstKind = string(fc.Type)
	}

	return event
}
