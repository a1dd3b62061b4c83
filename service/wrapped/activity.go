package wrapped

import (
	"time"

	"github.com/brojonat/wrapped/service/solana"
)

// NoTopProtocol is reported as the top protocol when nothing was attributed.
const NoTopProtocol = "Multiple Interactions"

// ActivityLevel maps a transaction count onto a 1..10 tier. The thresholds
// sit exactly on 10, 30, 60 and 100 and use integer division within each
// segment.
func ActivityLevel(n int) int {
	switch {
	case n >= 100:
		return min(10, 9+(n-100)/50)
	case n >= 60:
		return 7 + (n-60)/20
	case n >= 30:
		return 4 + (n-30)/10
	case n >= 10:
		return 2 + (n-10)/10
	default:
		return 1
	}
}

// ActivityLabel names an activity tier.
func ActivityLabel(level int) string {
	switch {
	case level <= 1:
		return "Newbie"
	case level <= 3:
		return "Beginner"
	case level <= 6:
		return "Active"
	case level <= 8:
		return "Power User"
	default:
		return "Solana Maximalist"
	}
}

// ScoringName is the badge awarded for a wallet's top protocol.
func ScoringName(protocol string) string {
	switch protocol {
	case "Jupiter":
		return "Aggregator Pro"
	case "Raydium":
		return "Yield Farmer Pro"
	case "Orca", "Phoenix", "Meteora":
		return "Liquidity Provider Pro"
	case "Magic Eden":
		return "NFT Collector Pro"
	case "Pump.fun":
		return "Degen Pro"
	case "KLend", "Kamino":
		return "Lender Pro"
	default:
		return "On-Chain Explorer"
	}
}

// TopProtocol returns the first ranked protocol, or NoTopProtocol with a
// zero count when the ranking is empty.
func TopProtocol(ranked []ProtocolCount) (string, int) {
	if len(ranked) == 0 {
		return NoTopProtocol, 0
	}
	return ranked[0].Name, ranked[0].Count
}

// ActiveDays counts the distinct UTC calendar days with at least one
// transaction. Records without a block time are ignored.
func ActiveDays(txns []*solana.Transaction) int {
	days := make(map[string]struct{})
	for _, txn := range txns {
		if bt := txn.BlockTime(); bt != 0 {
			days[time.Unix(bt, 0).UTC().Format(time.DateOnly)] = struct{}{}
		}
	}
	return len(days)
}
