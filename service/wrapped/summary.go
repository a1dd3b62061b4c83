package wrapped

import (
	"time"

	"github.com/brojonat/wrapped/service/tokens"
)

// isoMillis matches the millisecond UTC timestamps shown to users.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Summary is the year-in-review aggregate for one wallet.
type Summary struct {
	TotalTransactions int              `json:"totalTransactions"`
	OriginalCount     int              `json:"originalCount"`
	RemovedSpam       int              `json:"removedSpam"`
	RemovedUnsigned   int              `json:"removedUnsigned"`
	RemovedFailed     int              `json:"removedFailed"`
	PagesFetched      int              `json:"pagesFetched"`
	Protocols         []ProtocolCount  `json:"protocols"`
	TopProtocol       string           `json:"topProtocol"`
	TopProtocolCount  int              `json:"topProtocolCount"`
	ActiveDays        int              `json:"activeDays"`
	ActivityLevel     int              `json:"activityLevel"`
	ActivityLabel     string           `json:"activityLabel"`
	ScoringName       string           `json:"scoringName"`
	FirstCoinTraded   *FirstCoinTraded `json:"firstCoinTraded"`
}

// FirstCoinTraded is the resolved first interaction with its token metadata.
type FirstCoinTraded struct {
	TokenMint   string  `json:"tokenMint"`
	TokenName   *string `json:"tokenName"`
	TokenSymbol *string `json:"tokenSymbol"`
	DEX         *string `json:"dex"`
	Date        *string `json:"date"`
	Signature   *string `json:"signature"`
	Type        Kind    `json:"type"`
}

// SummaryInput carries the outputs of the pipeline stages.
type SummaryInput struct {
	OriginalCount int
	Filtered      FilterResult
	PagesFetched  int
	Protocols     []ProtocolCount
	First         *Interaction
	Metadata      tokens.Metadata
}

// BuildSummary assembles a Summary. FirstCoinTraded is set only when the
// first interaction carries a token mint.
func BuildSummary(in SummaryInput) *Summary {
	successful := in.Filtered.Successful
	protocols := in.Protocols
	if protocols == nil {
		protocols = []ProtocolCount{}
	}

	top, topCount := TopProtocol(protocols)
	level := ActivityLevel(len(successful))

	s := &Summary{
		TotalTransactions: len(successful),
		OriginalCount:     in.OriginalCount,
		RemovedUnsigned:   in.OriginalCount - len(in.Filtered.Signed),
		RemovedFailed:     len(in.Filtered.Signed) - len(successful),
		PagesFetched:      in.PagesFetched,
		Protocols:         protocols,
		TopProtocol:       top,
		TopProtocolCount:  topCount,
		ActiveDays:        ActiveDays(successful),
		ActivityLevel:     level,
		ActivityLabel:     ActivityLabel(level),
		ScoringName:       ScoringName(top),
	}

	if in.First != nil && in.First.TokenMint != "" {
		s.FirstCoinTraded = &FirstCoinTraded{
			TokenMint:   in.First.TokenMint,
			TokenName:   in.Metadata.Name,
			TokenSymbol: in.Metadata.Symbol,
			DEX:         optional(in.First.DEX),
			Signature:   optional(in.First.Signature),
			Type:        in.First.Kind,
		}
		if in.First.BlockTime != 0 {
			date := time.Unix(in.First.BlockTime, 0).UTC().Format(isoMillis)
			s.FirstCoinTraded.Date = &date
		}
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
