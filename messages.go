package main

import (
	"math/big"

	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// walletConnectedMsg carries the outcome of one connection attempt
type walletConnectedMsg struct {
	attempt uint64
	address string
	err     error
}

// walletDisconnectedMsg is sent once the bridge has released its connection
type walletDisconnectedMsg struct {
	err error
}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	url    string
	client *rpc.Client
	err    error
}

// detailsLoadedMsg contains account details after loading
type detailsLoadedMsg struct {
	d rpc.AccountDetails
}

// invoicesLoadedMsg contains the invoice list read from the contract
type invoicesLoadedMsg struct {
	account  string
	invoices []contract.Invoice
	err      error
}

// txSentMsg reports a transaction handed to the bridge
type txSentMsg struct {
	kind      string // create, pay, cancel
	account   string
	invoiceID *big.Int
	value     *big.Int
	hash      common.Hash
	err       error
}

// txConfirmedMsg reports the mined receipt of a sent transaction
type txConfirmedMsg struct {
	kind      string
	hash      common.Hash
	invoiceID *big.Int
	err       error
}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
}

// clearCopiedMsg clears the clipboard feedback
type clearCopiedMsg struct{}
