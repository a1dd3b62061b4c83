package wrapped

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brojonat/wrapped/service/solana"
)

const (
	wallet    = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	stranger  = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	bonkMint  = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	jupMint   = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	wsolMint  = "So11111111111111111111111111111111111111112"
	jan1_2025 = int64(1735689600)
	oneDay    = int64(86400)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type txFields struct {
	keys         []any
	numSigners   int
	instructions []any
	topErr       any
	metaErr      any
	pre, post    []any
}

type txOpt func(*txFields)

// signedBy makes addrs the required signers of the transaction.
func signedBy(addrs ...string) txOpt {
	return func(f *txFields) {
		keys := make([]any, 0, len(addrs)+len(f.keys))
		for _, a := range addrs {
			keys = append(keys, a)
		}
		f.keys = append(keys, f.keys...)
		f.numSigners = len(addrs)
	}
}

// withKeys appends non-signer account keys.
func withKeys(keys ...string) txOpt {
	return func(f *txFields) {
		for _, k := range keys {
			f.keys = append(f.keys, k)
		}
	}
}

// invoke adds an instruction whose programId is given directly.
func invoke(programID string, parsed any) txOpt {
	return func(f *txFields) {
		inst := map[string]any{"programId": programID}
		if parsed != nil {
			inst["parsed"] = parsed
		}
		f.instructions = append(f.instructions, inst)
	}
}

// invokeIndex adds an instruction whose programId is an account key index.
func invokeIndex(index int) txOpt {
	return func(f *txFields) {
		f.instructions = append(f.instructions, map[string]any{"programId": index})
	}
}

func withMetaErr(e any) txOpt {
	return func(f *txFields) { f.metaErr = e }
}

func withTopErr(e any) txOpt {
	return func(f *txFields) { f.topErr = e }
}

func withBalances(pre, post []any) txOpt {
	return func(f *txFields) {
		f.pre = pre
		f.post = post
	}
}

func balance(accountIndex int, mint, uiAmount string) map[string]any {
	return map[string]any{
		"accountIndex":  accountIndex,
		"mint":          mint,
		"uiTokenAmount": map[string]any{"uiAmountString": uiAmount},
	}
}

func newTx(t *testing.T, sig string, blockTime int64, opts ...txOpt) *solana.Transaction {
	t.Helper()

	f := &txFields{}
	for _, opt := range opts {
		opt(f)
	}

	record := map[string]any{
		"signature": sig,
		"blockTime": blockTime,
		"meta": map[string]any{
			"err":               f.metaErr,
			"preTokenBalances":  f.pre,
			"postTokenBalances": f.post,
		},
		"transaction": map[string]any{
			"signatures": []string{sig},
			"message": map[string]any{
				"accountKeys":  f.keys,
				"header":       map[string]any{"numRequiredSignatures": f.numSigners},
				"instructions": f.instructions,
			},
		},
	}
	if f.topErr != nil {
		record["err"] = f.topErr
	}

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var txn solana.Transaction
	require.NoError(t, json.Unmarshal(raw, &txn))
	return &txn
}

func jupiterRoute(inputMint, outputMint string) map[string]any {
	return map[string]any{
		"type": "route",
		"info": map[string]any{"inputMint": inputMint, "outputMint": outputMint},
	}
}

func tokenTransfer(mint string) map[string]any {
	return map[string]any{
		"type": "transferChecked",
		"info": map[string]any{"mint": mint, "authority": wallet},
	}
}
