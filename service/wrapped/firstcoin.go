package wrapped

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/brojonat/wrapped/service/jqpath"
	"github.com/brojonat/wrapped/service/solana"
)

// Kind classifies how a token interaction was detected.
type Kind string

const (
	KindSwap          Kind = "swap"
	KindTransfer      Kind = "transfer"
	KindMint          Kind = "mint"
	KindBalanceChange Kind = "balance_change"
	KindTokenPresence Kind = "token_presence"
	KindUnknown       Kind = "unknown"
)

// Interaction is a token interaction extracted from one transaction.
type Interaction struct {
	// TokenMint is empty when a DEX instruction was matched but none of the
	// known parameter fields carried a mint.
	TokenMint string
	DEX       string
	Kind      Kind
	BlockTime int64
	Signature string
}

// qualifies reports whether the interaction identified anything at all.
func (i Interaction) qualifies() bool {
	return i.TokenMint != "" || i.DEX != ""
}

// balanceEpsilon is the smallest UI amount change treated as real activity.
var balanceEpsilon = decimal.New(1, -6)

var (
	jupiterSwapTypes = map[string]bool{"swap": true, "route": true, "routeV2": true}
	raydiumSwapTypes = map[string]bool{"swap": true, "swapBaseIn": true, "swapBaseOut": true}

	jupiterMintPaths = jqpath.MustCompile(
		".info.sourceMint",
		".info.destinationMint",
		".info.inAmount.mint",
		".info.outAmount.mint",
		".info.inputMint",
		".info.outputMint",
		".info.routePlan.route.inputMint",
		".info.routePlan.route.outputMint",
	)
	raydiumMintPaths = jqpath.MustCompile(
		".info.sourceMint",
		".info.destinationMint",
		".info.mintA",
		".info.mintB",
		".info.tokenAMint",
		".info.tokenBMint",
	)
	transferMintPaths = jqpath.MustCompile(".info.mint", ".info.authority")
	mintToMintPaths   = jqpath.MustCompile(".info.mint")
)

// extractor is one tier of the detection cascade.
type extractor func(txn *solana.Transaction) (Interaction, bool)

// extractors are tried in order; the first match classifies the transaction.
var extractors = []extractor{
	extractSwap,
	extractTokenInstruction,
	extractBalanceChange,
	extractTokenPresence,
}

// Extract classifies a single transaction. Kind is KindUnknown when no tier matched.
func Extract(txn *solana.Transaction) Interaction {
	for _, ex := range extractors {
		if in, ok := ex(txn); ok {
			in.BlockTime = txn.BlockTime()
			in.Signature = txn.Signature()
			return in
		}
	}
	return Interaction{
		Kind:      KindUnknown,
		BlockTime: txn.BlockTime(),
		Signature: txn.Signature(),
	}
}

// ResolveFirstInteraction walks txns oldest first. The first swap found wins
// outright; without any swap, the first qualifying interaction of any kind
// is returned. A swap without a readable mint yields to an earlier
// interaction that has one. Returns nil when nothing qualifies.
func ResolveFirstInteraction(txns []*solana.Transaction) *Interaction {
	sorted := make([]*solana.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlockTime() < sorted[j].BlockTime()
	})

	var firstSwap, firstAny *Interaction
	for _, txn := range sorted {
		in := Extract(txn)
		if !in.qualifies() {
			continue
		}
		if firstAny == nil {
			firstAny = &in
		}
		if in.Kind == KindSwap {
			firstSwap = &in
			break
		}
	}

	if firstSwap != nil && firstSwap.TokenMint != "" {
		return firstSwap
	}
	return firstAny
}

func parsedType(parsed any) string {
	m, ok := parsed.(map[string]any)
	if !ok {
		return ""
	}
	t, _ := m["type"].(string)
	return t
}

func extractSwap(txn *solana.Transaction) (Interaction, bool) {
	keys := txn.AccountKeys()
	for _, inst := range txn.Instructions() {
		id, ok := solana.ResolveProgramID(inst, keys)
		if !ok {
			continue
		}
		p, known := solana.LookupProgram(id)
		if !known || !p.DEX {
			continue
		}

		in := Interaction{DEX: p.Name, Kind: KindSwap}
		typ := parsedType(inst.Parsed)
		if jupiterSwapTypes[typ] {
			if mint, ok := jupiterMintPaths.FirstString(inst.Parsed); ok {
				in.TokenMint = mint
				return in, true
			}
		}
		if raydiumSwapTypes[typ] {
			if mint, ok := raydiumMintPaths.FirstString(inst.Parsed); ok {
				in.TokenMint = mint
				return in, true
			}
		}
		return in, true
	}
	return Interaction{}, false
}

func extractTokenInstruction(txn *solana.Transaction) (Interaction, bool) {
	keys := txn.AccountKeys()
	for _, inst := range txn.Instructions() {
		id, ok := solana.ResolveProgramID(inst, keys)
		if !ok || !solana.IsTokenProgram(id) {
			continue
		}
		switch parsedType(inst.Parsed) {
		case "transfer", "transferChecked":
			if mint, ok := transferMintPaths.FirstString(inst.Parsed); ok {
				return Interaction{TokenMint: mint, Kind: KindTransfer}, true
			}
		case "mintTo":
			if mint, ok := mintToMintPaths.FirstString(inst.Parsed); ok {
				return Interaction{TokenMint: mint, Kind: KindMint}, true
			}
		}
	}
	return Interaction{}, false
}

func extractBalanceChange(txn *solana.Transaction) (Interaction, bool) {
	meta := txn.Meta()
	if meta == nil {
		return Interaction{}, false
	}
	for _, post := range meta.PostTokenBalances {
		if post.Mint == "" {
			continue
		}
		postAmount, ok := uiAmount(&post)
		if !ok {
			continue
		}
		preAmount := decimal.Zero
		for i := range meta.PreTokenBalances {
			pre := &meta.PreTokenBalances[i]
			if pre.AccountIndex == post.AccountIndex && pre.Mint == post.Mint {
				preAmount, ok = uiAmount(pre)
				break
			}
		}
		if !ok {
			continue
		}
		if postAmount.Sub(preAmount).Abs().GreaterThan(balanceEpsilon) {
			return Interaction{TokenMint: post.Mint, Kind: KindBalanceChange}, true
		}
	}
	return Interaction{}, false
}

func extractTokenPresence(txn *solana.Transaction) (Interaction, bool) {
	meta := txn.Meta()
	if meta == nil {
		return Interaction{}, false
	}
	for _, balances := range [][]solana.TokenBalance{meta.PreTokenBalances, meta.PostTokenBalances} {
		for _, b := range balances {
			if b.Mint != "" {
				return Interaction{TokenMint: b.Mint, Kind: KindTokenPresence}, true
			}
		}
	}
	return Interaction{}, false
}

// uiAmount parses a balance's UI amount; a missing amount is zero and an
// unparseable one reports ok=false so the balance is not treated as changed.
func uiAmount(b *solana.TokenBalance) (decimal.Decimal, bool) {
	if b.UITokenAmount == nil || b.UITokenAmount.UIAmountString == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(b.UITokenAmount.UIAmountString)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
