package wallet

import "errors"

// Connection failures. The session folds all of them into the Error state;
// they stay distinct so callers and logs can tell them apart.
var (
	ErrConnectionRejected = errors.New("connection rejected by wallet")
	ErrBridgeUnavailable  = errors.New("wallet bridge unavailable")
	ErrNetworkMismatch    = errors.New("wallet is on a different network")
	ErrNoAccounts         = errors.New("wallet returned no account")
	ErrNotConnected       = errors.New("wallet not connected")
)
