package solana

import (
	"bytes"
	"encoding/json"
)

// Transaction is one record returned by getTransactionsForAddress with full
// transaction details. The provider's bytes are retained so filtered records
// can be handed back to callers exactly as they were received.
type Transaction struct {
	signature             string
	blockTime             int64
	accountKeys           []AccountKey
	numRequiredSignatures int
	instructions          []Instruction
	errs                  []json.RawMessage
	meta                  *Meta
	raw                   json.RawMessage
}

// AccountKey is an entry of message.accountKeys. Providers emit either a bare
// base58 string or an object carrying a pubkey field.
type AccountKey string

// Instruction is a top-level instruction of a transaction message.
// ProgramID holds whatever the provider put under programId: a string,
// an index into the account keys, or an object with a nested programId.
type Instruction struct {
	ProgramID      json.RawMessage `json:"programId,omitempty"`
	ProgramIDIndex *int            `json:"programIdIndex,omitempty"`
	Parsed         any             `json:"parsed,omitempty"`
}

// Meta is the execution metadata attached to a transaction.
type Meta struct {
	Err               json.RawMessage `json:"err,omitempty"`
	PreTokenBalances  []TokenBalance  `json:"preTokenBalances"`
	PostTokenBalances []TokenBalance  `json:"postTokenBalances"`
}

// TokenBalance is a pre or post execution token balance snapshot.
type TokenBalance struct {
	AccountIndex  int            `json:"accountIndex"`
	Mint          string         `json:"mint"`
	Owner         string         `json:"owner,omitempty"`
	UITokenAmount *UITokenAmount `json:"uiTokenAmount,omitempty"`
}

// UITokenAmount is the human readable token amount of a balance snapshot.
type UITokenAmount struct {
	Amount         string `json:"amount"`
	Decimals       int    `json:"decimals"`
	UIAmountString string `json:"uiAmountString"`
}

type wireMessage struct {
	AccountKeys []AccountKey `json:"accountKeys"`
	Header      struct {
		NumRequiredSignatures int `json:"numRequiredSignatures"`
	} `json:"header"`
	Instructions []Instruction `json:"instructions"`
}

type wireInner struct {
	Signatures []string    `json:"signatures"`
	BlockTime  *int64      `json:"blockTime"`
	Meta       *Meta       `json:"meta"`
	Message    wireMessage `json:"message"`
}

type wireTransaction struct {
	Signature   string          `json:"signature"`
	BlockTime   *int64          `json:"blockTime"`
	Err         json.RawMessage `json:"err"`
	Meta        *Meta           `json:"meta"`
	Transaction json.RawMessage `json:"transaction"`
}

// UnmarshalJSON decodes the fields the pipeline reads and keeps the raw record.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	// Binary encodings put an array under "transaction"; only the JSON
	// encoding exposes the message, so anything else is left undecoded.
	var inner wireInner
	if trimmed := bytes.TrimSpace(w.Transaction); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
	}

	*t = Transaction{
		signature:             w.Signature,
		accountKeys:           inner.Message.AccountKeys,
		numRequiredSignatures: inner.Message.Header.NumRequiredSignatures,
		instructions:          inner.Message.Instructions,
		meta:                  w.Meta,
		raw:                   append(json.RawMessage(nil), data...),
	}
	if t.signature == "" && len(inner.Signatures) > 0 {
		t.signature = inner.Signatures[0]
	}
	switch {
	case w.BlockTime != nil && *w.BlockTime != 0:
		t.blockTime = *w.BlockTime
	case inner.BlockTime != nil:
		t.blockTime = *inner.BlockTime
	}
	if t.meta == nil {
		t.meta = inner.Meta
	}

	t.errs = append(t.errs, w.Err)
	if w.Meta != nil {
		t.errs = append(t.errs, w.Meta.Err)
	}
	if inner.Meta != nil {
		t.errs = append(t.errs, inner.Meta.Err)
	}
	return nil
}

// MarshalJSON returns the record exactly as the provider sent it.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// Signature is the record's own signature, or the first message signature.
func (t *Transaction) Signature() string { return t.signature }

// BlockTime is the unix block time in seconds, 0 when unknown.
func (t *Transaction) BlockTime() int64 { return t.blockTime }

// AccountKeys returns the message account keys in order.
func (t *Transaction) AccountKeys() []AccountKey { return t.accountKeys }

// Instructions returns the top-level message instructions.
func (t *Transaction) Instructions() []Instruction { return t.instructions }

// Meta returns the execution metadata, preferring the top-level copy.
func (t *Transaction) Meta() *Meta { return t.meta }

// Signers returns the first numRequiredSignatures account keys.
func (t *Transaction) Signers() []AccountKey {
	n := t.numRequiredSignatures
	if n <= 0 {
		return nil
	}
	if n > len(t.accountKeys) {
		n = len(t.accountKeys)
	}
	return t.accountKeys[:n]
}

// HasError reports whether any execution error indicator is present, either
// on the record itself, its meta, or the meta nested under the transaction.
func (t *Transaction) HasError() bool {
	for _, e := range t.errs {
		if isSet(e) {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts "pubkey" or {"pubkey": "..."}.
func (k *AccountKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = AccountKey(s)
		return nil
	}
	var obj struct {
		Pubkey string `json:"pubkey"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unknown shapes resolve to an empty key rather than failing the page.
		*k = ""
		return nil
	}
	*k = AccountKey(obj.Pubkey)
	return nil
}

func (k AccountKey) String() string { return string(k) }

// isSet reports whether a raw JSON value is present and truthy.
func isSet(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", `""`, "0":
		return false
	}
	return true
}
