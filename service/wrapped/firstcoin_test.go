package wrapped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brojonat/wrapped/service/solana"
)

func TestExtract_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		opts     []txOpt
		wantKind Kind
		wantMint string
		wantDEX  string
	}{
		{
			name:     "jupiter route",
			opts:     []txOpt{invoke(solana.JupiterProgramID, jupiterRoute(bonkMint, usdcMint))},
			wantKind: KindSwap, wantMint: bonkMint, wantDEX: "Jupiter",
		},
		{
			name: "jupiter nested route plan",
			opts: []txOpt{invoke(solana.JupiterProgramID, map[string]any{
				"type": "routeV2",
				"info": map[string]any{"routePlan": map[string]any{"route": map[string]any{"outputMint": jupMint}}},
			})},
			wantKind: KindSwap, wantMint: jupMint, wantDEX: "Jupiter",
		},
		{
			name: "jupiter amount object",
			opts: []txOpt{invoke(solana.JupiterProgramID, map[string]any{
				"type": "swap",
				"info": map[string]any{"inAmount": map[string]any{"mint": wsolMint}},
			})},
			wantKind: KindSwap, wantMint: wsolMint, wantDEX: "Jupiter",
		},
		{
			name: "raydium swapBaseIn",
			opts: []txOpt{invoke(solana.RaydiumAMMProgramID, map[string]any{
				"type": "swapBaseIn",
				"info": map[string]any{"mintA": bonkMint, "mintB": wsolMint},
			})},
			wantKind: KindSwap, wantMint: bonkMint, wantDEX: "Raydium",
		},
		{
			name: "raydium shape on orca",
			opts: []txOpt{invoke(solana.OrcaProgramID, map[string]any{
				"type": "swap",
				"info": map[string]any{"tokenBMint": usdcMint},
			})},
			wantKind: KindSwap, wantMint: usdcMint, wantDEX: "Orca",
		},
		{
			name:     "dex without readable mint",
			opts:     []txOpt{invoke(solana.PhoenixProgramID, nil)},
			wantKind: KindSwap, wantDEX: "Phoenix",
		},
		{
			name: "unrecognised parsed type",
			opts: []txOpt{invoke(solana.JupiterProgramID, map[string]any{
				"type": "sharedAccountsRoute",
				"info": map[string]any{"inputMint": bonkMint},
			})},
			wantKind: KindSwap, wantDEX: "Jupiter",
		},
		{
			name: "swap tier beats an earlier transfer instruction",
			opts: []txOpt{
				invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint)),
				invoke(solana.JupiterProgramID, jupiterRoute(bonkMint, usdcMint)),
			},
			wantKind: KindSwap, wantMint: bonkMint, wantDEX: "Jupiter",
		},
		{
			name:     "token transfer",
			opts:     []txOpt{invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint))},
			wantKind: KindTransfer, wantMint: usdcMint,
		},
		{
			name: "transfer falls back to authority",
			opts: []txOpt{invoke(solana.TokenProgramID.String(), map[string]any{
				"type": "transfer",
				"info": map[string]any{"authority": wallet, "amount": "10"},
			})},
			wantKind: KindTransfer, wantMint: wallet,
		},
		{
			name: "mintTo",
			opts: []txOpt{invoke(solana.TokenProgramID.String(), map[string]any{
				"type": "mintTo",
				"info": map[string]any{"mint": bonkMint},
			})},
			wantKind: KindMint, wantMint: bonkMint,
		},
		{
			name: "balance change",
			opts: []txOpt{withBalances(
				[]any{balance(1, usdcMint, "10"), balance(2, bonkMint, "5")},
				[]any{balance(1, usdcMint, "10"), balance(2, bonkMint, "4.5")},
			)},
			wantKind: KindBalanceChange, wantMint: bonkMint,
		},
		{
			name: "new token account counts from zero",
			opts: []txOpt{withBalances(
				nil,
				[]any{balance(3, jupMint, "12.5")},
			)},
			wantKind: KindBalanceChange, wantMint: jupMint,
		},
		{
			name: "change within epsilon is presence",
			opts: []txOpt{withBalances(
				[]any{balance(1, usdcMint, "1.0000001")},
				[]any{balance(1, usdcMint, "1.0000002")},
			)},
			wantKind: KindTokenPresence, wantMint: usdcMint,
		},
		{
			name: "pre snapshot mints come first",
			opts: []txOpt{withBalances(
				[]any{balance(4, "", "0"), balance(5, wsolMint, "1")},
				[]any{balance(5, wsolMint, "1"), balance(6, bonkMint, "zero")},
			)},
			wantKind: KindTokenPresence, wantMint: wsolMint,
		},
		{
			name:     "nothing recognisable",
			opts:     []txOpt{invoke("11111111111111111111111111111111", nil)},
			wantKind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]txOpt{signedBy(wallet)}, tt.opts...)
			in := Extract(newTx(t, "sig", jan1_2025, opts...))

			assert.Equal(t, tt.wantKind, in.Kind)
			assert.Equal(t, tt.wantMint, in.TokenMint)
			assert.Equal(t, tt.wantDEX, in.DEX)
			assert.Equal(t, "sig", in.Signature)
			assert.Equal(t, jan1_2025, in.BlockTime)
		})
	}
}

func TestResolveFirstInteraction_LaterSwapBeatsEarlierTransfer(t *testing.T) {
	transfer := newTx(t, "transfer", jan1_2025, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint)))
	swap := newTx(t, "swap", jan1_2025+10*oneDay, signedBy(wallet), invoke(solana.JupiterProgramID, jupiterRoute(bonkMint, usdcMint)))
	laterSwap := newTx(t, "later", jan1_2025+20*oneDay, signedBy(wallet), invoke(solana.RaydiumAMMProgramID, map[string]any{
		"type": "swapBaseOut",
		"info": map[string]any{"mintA": jupMint},
	}))

	// newest first, as the provider returns them
	got := ResolveFirstInteraction([]*solana.Transaction{laterSwap, swap, transfer})

	require.NotNil(t, got)
	assert.Equal(t, "swap", got.Signature)
	assert.Equal(t, KindSwap, got.Kind)
	assert.Equal(t, bonkMint, got.TokenMint)
	assert.Equal(t, "Jupiter", got.DEX)
}

func TestResolveFirstInteraction_EarliestWithoutSwaps(t *testing.T) {
	presence := newTx(t, "presence", jan1_2025+3*oneDay, signedBy(wallet), withBalances([]any{balance(1, wsolMint, "1")}, nil))
	change := newTx(t, "change", jan1_2025+oneDay, signedBy(wallet), withBalances(nil, []any{balance(1, usdcMint, "25")}))
	transfer := newTx(t, "transfer", jan1_2025+2*oneDay, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(bonkMint)))
	empty := newTx(t, "empty", jan1_2025, signedBy(wallet))

	got := ResolveFirstInteraction([]*solana.Transaction{presence, transfer, change, empty})

	require.NotNil(t, got)
	assert.Equal(t, "change", got.Signature)
	assert.Equal(t, KindBalanceChange, got.Kind)
	assert.Equal(t, usdcMint, got.TokenMint)
}

func TestResolveFirstInteraction_SwapWithoutMintYieldsToEarlierInteraction(t *testing.T) {
	transfer := newTx(t, "transfer", jan1_2025, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint)))
	swap := newTx(t, "swap", jan1_2025+oneDay, signedBy(wallet), invoke(solana.PhoenixProgramID, nil))

	got := ResolveFirstInteraction([]*solana.Transaction{swap, transfer})

	require.NotNil(t, got)
	assert.Equal(t, "transfer", got.Signature)
	assert.Equal(t, KindTransfer, got.Kind)
}

func TestResolveFirstInteraction_LoneSwapWithoutMint(t *testing.T) {
	swap := newTx(t, "swap", jan1_2025, signedBy(wallet), invoke(solana.PhoenixProgramID, nil))
	later := newTx(t, "later", jan1_2025+oneDay, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint)))

	got := ResolveFirstInteraction([]*solana.Transaction{later, swap})

	require.NotNil(t, got)
	assert.Equal(t, "swap", got.Signature)
	assert.Empty(t, got.TokenMint)
	assert.Equal(t, "Phoenix", got.DEX)
}

func TestResolveFirstInteraction_StableOnEqualBlockTimes(t *testing.T) {
	a := newTx(t, "a", jan1_2025, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(usdcMint)))
	b := newTx(t, "b", jan1_2025, signedBy(wallet), invoke(solana.TokenProgramID.String(), tokenTransfer(bonkMint)))

	got := ResolveFirstInteraction([]*solana.Transaction{a, b})
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Signature)
}

func TestResolveFirstInteraction_Nothing(t *testing.T) {
	assert.Nil(t, ResolveFirstInteraction(nil))
	assert.Nil(t, ResolveFirstInteraction([]*solana.Transaction{newTx(t, "x", jan1_2025, signedBy(wallet))}))
}

func TestResolveFirstInteraction_DoesNotReorderInput(t *testing.T) {
	newer := newTx(t, "newer", jan1_2025+oneDay, signedBy(wallet))
	older := newTx(t, "older", jan1_2025, signedBy(wallet))
	txns := []*solana.Transaction{newer, older}

	ResolveFirstInteraction(txns)
	assert.Equal(t, "newer", txns[0].Signature())
}
