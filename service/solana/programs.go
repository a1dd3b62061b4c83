package solana

import (
	"bytes"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// TokenProgramID is the SPL Token program
var TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// Known protocol program IDs. Matching is by exact string, so the table
// holds the addresses as they appear in provider responses.
const (
	JupiterProgramID     = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	RaydiumAMMProgramID  = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	RaydiumCLMMProgramID = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"
	OrcaProgramID        = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	PhoenixProgramID     = "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLRk202ZR1jUd5"
	MagicEdenProgramID   = "M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K"
	PumpFunProgramID     = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	KLendProgramID       = "KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD"
	MeteoraProgramID     = "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo"
	KaminoProgramID      = "KLp2CqwdSjPhJ5wyYoxbfynUmXj99dTthf4p1C1BqVLF"
)

// Program is an entry of the known-program table.
type Program struct {
	ID   string
	Name string
	// DEX marks programs whose instructions are treated as swaps.
	DEX bool
}

// knownPrograms is shared by protocol attribution and swap detection so both
// always agree on which program maps to which protocol.
var knownPrograms = map[string]Program{
	JupiterProgramID:     {ID: JupiterProgramID, Name: "Jupiter", DEX: true},
	RaydiumAMMProgramID:  {ID: RaydiumAMMProgramID, Name: "Raydium", DEX: true},
	RaydiumCLMMProgramID: {ID: RaydiumCLMMProgramID, Name: "Raydium", DEX: true},
	OrcaProgramID:        {ID: OrcaProgramID, Name: "Orca", DEX: true},
	PhoenixProgramID:     {ID: PhoenixProgramID, Name: "Phoenix", DEX: true},
	MagicEdenProgramID:   {ID: MagicEdenProgramID, Name: "Magic Eden"},
	PumpFunProgramID:     {ID: PumpFunProgramID, Name: "Pump.fun"},
	KLendProgramID:       {ID: KLendProgramID, Name: "KLend"},
	MeteoraProgramID:     {ID: MeteoraProgramID, Name: "Meteora"},
	KaminoProgramID:      {ID: KaminoProgramID, Name: "Kamino"},
}

// LookupProgram returns the known program for a program ID.
func LookupProgram(id string) (Program, bool) {
	p, ok := knownPrograms[id]
	return p, ok
}

// IsTokenProgram reports whether id is the SPL Token program.
func IsTokenProgram(id string) bool {
	return id == TokenProgramID.String()
}

// ResolveProgramID determines which program an instruction invokes. The
// programId field is tried as a direct string, then as an index into the
// account keys (programIdIndex is the index form of the standard encoding),
// then as an object carrying a nested programId. ok is false when none apply.
func ResolveProgramID(inst Instruction, accountKeys []AccountKey) (id string, ok bool) {
	raw := bytes.TrimSpace(inst.ProgramID)
	if string(raw) == "null" {
		raw = nil
	}

	var direct string
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, direct != ""
	}

	index := -1
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		index = n
	} else if len(raw) == 0 && inst.ProgramIDIndex != nil {
		index = *inst.ProgramIDIndex
	}
	if index >= 0 {
		if index < len(accountKeys) && accountKeys[index] != "" {
			return accountKeys[index].String(), true
		}
		return "", false
	}

	var nested struct {
		ProgramID string `json:"programId"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.ProgramID != "" {
		return nested.ProgramID, true
	}
	return "", false
}
