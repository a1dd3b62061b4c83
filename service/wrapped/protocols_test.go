package wrapped

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brojonat/wrapped/service/solana"
)

func TestAttributeProtocols_CountsInstructionsAndAccountKeys(t *testing.T) {
	// Jupiter invoked directly and also listed as an account: two increments.
	jup := newTx(t, "a", jan1_2025,
		signedBy(wallet),
		withKeys(solana.JupiterProgramID),
		invoke(solana.JupiterProgramID, nil),
	)
	// Orca invoked by index only: one increment from the instruction and one
	// from the account key it points at.
	orca := newTx(t, "b", jan1_2025,
		signedBy(wallet),
		withKeys(solana.OrcaProgramID),
		invokeIndex(1),
	)

	got := AttributeProtocols([]*solana.Transaction{jup, orca})

	assert.Equal(t, []ProtocolCount{
		{Name: "Jupiter", Count: 2},
		{Name: "Orca", Count: 2},
	}, got)
}

func TestAttributeProtocols_RaydiumProgramsShareAName(t *testing.T) {
	txn := newTx(t, "r", jan1_2025,
		signedBy(wallet),
		invoke(solana.RaydiumAMMProgramID, nil),
		invoke(solana.RaydiumCLMMProgramID, nil),
	)

	assert.Equal(t, []ProtocolCount{{Name: "Raydium", Count: 2}}, AttributeProtocols([]*solana.Transaction{txn}))
}

func TestAttributeProtocols_TiesKeepDiscoveryOrder(t *testing.T) {
	txns := []*solana.Transaction{
		newTx(t, "1", jan1_2025, signedBy(wallet), invoke(solana.PumpFunProgramID, nil)),
		newTx(t, "2", jan1_2025, signedBy(wallet), invoke(solana.MeteoraProgramID, nil)),
		newTx(t, "3", jan1_2025, signedBy(wallet), invoke(solana.KaminoProgramID, nil), invoke(solana.KaminoProgramID, nil)),
		newTx(t, "4", jan1_2025, signedBy(wallet), withKeys(solana.MagicEdenProgramID)),
	}

	got := AttributeProtocols(txns)

	assert.Equal(t, []ProtocolCount{
		{Name: "Kamino", Count: 2},
		{Name: "Pump.fun", Count: 1},
		{Name: "Meteora", Count: 1},
		{Name: "Magic Eden", Count: 1},
	}, got)

	// same input, same output
	for i := 0; i < 5; i++ {
		assert.Equal(t, got, AttributeProtocols(txns))
	}
}

func TestAttributeProtocols_InstructionsBeforeAccountKeys(t *testing.T) {
	// KLend is seen in the account keys, Phoenix in the instructions; the
	// instruction scan runs first so Phoenix is discovered first.
	txn := newTx(t, "x", jan1_2025,
		signedBy(wallet),
		withKeys(solana.KLendProgramID),
		invoke(solana.PhoenixProgramID, nil),
	)

	got := AttributeProtocols([]*solana.Transaction{txn})
	assert.Equal(t, []ProtocolCount{{Name: "Phoenix", Count: 1}, {Name: "KLend", Count: 1}}, got)
}

func TestAttributeProtocols_Empty(t *testing.T) {
	got := AttributeProtocols(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	unknown := newTx(t, "u", jan1_2025, signedBy(wallet), invoke("11111111111111111111111111111111", nil), invokeIndex(42))
	assert.Empty(t, AttributeProtocols([]*solana.Transaction{unknown}))
}
