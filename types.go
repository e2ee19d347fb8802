package sendeth

// DefaultTransactionID is reported when a bridge accepts a transfer but
// returns neither hash field.
const DefaultTransactionID = "Transaction submitted"

// TransferRequest is a native value transfer handed to a Bridge.
type TransferRequest struct {
	// To is the recipient address (0x-prefixed hex).
	To string `json:"to"`

	// Value is the amount in base units (wei) as a decimal integer string.
	Value string `json:"value"`
}

// TransferResult is the bridge's response to a transfer.
// Bridges disagree on the field name, so both are accepted.
type TransferResult struct {
	// Hash is the transaction hash.
	Hash string `json:"hash,omitempty"`

	// TxHash is the alternate spelling some wallet hosts use.
	TxHash string `json:"txHash,omitempty"`
}

// TransactionID returns Hash, then TxHash, then DefaultTransactionID.
func (r *TransferResult) TransactionID() string {
	if r == nil {
		return DefaultTransactionID
	}
	if r.Hash != "" {
		return r.Hash
	}
	if r.TxHash != "" {
		return r.TxHash
	}
	return DefaultTransactionID
}
