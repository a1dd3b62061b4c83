package solana

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupProgram(t *testing.T) {
	p, ok := LookupProgram("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4")
	assert.True(t, ok)
	assert.Equal(t, "Jupiter", p.Name)
	assert.True(t, p.DEX)

	p, ok = LookupProgram("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	assert.True(t, ok)
	assert.Equal(t, "Raydium", p.Name)

	p, ok = LookupProgram("M2mx93ekt1fmXSVkTrUL9xVFHkmME8HTUi5Cyc5aF7K")
	assert.True(t, ok)
	assert.Equal(t, "Magic Eden", p.Name)
	assert.False(t, p.DEX)

	_, ok = LookupProgram("11111111111111111111111111111111")
	assert.False(t, ok)

	_, ok = LookupProgram("not base58 0OIl")
	assert.False(t, ok)
}

func TestIsTokenProgram(t *testing.T) {
	assert.True(t, IsTokenProgram("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
	assert.False(t, IsTokenProgram("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"))
	assert.False(t, IsTokenProgram(""))
}

func TestResolveProgramID(t *testing.T) {
	keys := []AccountKey{"wallet", "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4", ""}
	idx := func(i int) *int { return &i }

	tests := []struct {
		name   string
		inst   Instruction
		want   string
		wantOK bool
	}{
		{
			name:   "direct string",
			inst:   Instruction{ProgramID: json.RawMessage(`"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"`)},
			want:   "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc",
			wantOK: true,
		},
		{
			name:   "index into account keys",
			inst:   Instruction{ProgramID: json.RawMessage(`1`)},
			want:   "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
			wantOK: true,
		},
		{
			name:   "programIdIndex form",
			inst:   Instruction{ProgramIDIndex: idx(1)},
			want:   "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
			wantOK: true,
		},
		{
			name:   "nested object",
			inst:   Instruction{ProgramID: json.RawMessage(`{"programId":"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLRk202ZR1jUd5"}`)},
			want:   "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLRk202ZR1jUd5",
			wantOK: true,
		},
		{
			name: "index out of range",
			inst: Instruction{ProgramID: json.RawMessage(`9`)},
		},
		{
			name: "index to empty key",
			inst: Instruction{ProgramID: json.RawMessage(`2`)},
		},
		{
			name: "empty string",
			inst: Instruction{ProgramID: json.RawMessage(`""`)},
		},
		{
			name: "object without programId",
			inst: Instruction{ProgramID: json.RawMessage(`{"foo":"bar"}`)},
		},
		{
			name: "nothing set",
			inst: Instruction{},
		},
		{
			name:   "null programId falls back to programIdIndex",
			inst:   Instruction{ProgramID: json.RawMessage(`null`), ProgramIDIndex: idx(0)},
			want:   "wallet",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveProgramID(tt.inst, keys)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
