package wrapped

import "github.com/brojonat/wrapped/service/solana"

// FilterResult holds the records surviving each filter stage.
// Successful is always a subset of Signed.
type FilterResult struct {
	Signed     []*solana.Transaction
	Successful []*solana.Transaction
}

// Filter keeps the records signed by address, then drops those that carry
// an execution error.
func Filter(txns []*solana.Transaction, address string) FilterResult {
	res := FilterResult{
		Signed:     make([]*solana.Transaction, 0, len(txns)),
		Successful: make([]*solana.Transaction, 0, len(txns)),
	}
	for _, txn := range txns {
		if !IsSignedBy(txn, address) {
			continue
		}
		res.Signed = append(res.Signed, txn)
		if !txn.HasError() {
			res.Successful = append(res.Successful, txn)
		}
	}
	return res
}

// IsSignedBy reports whether address is one of the transaction's required signers.
func IsSignedBy(txn *solana.Transaction, address string) bool {
	for _, signer := range txn.Signers() {
		if signer.String() == address {
			return true
		}
	}
	return false
}
