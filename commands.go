package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/rpc"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

const (
	invoiceListLimit = 50
	txTimeout        = 30 * time.Second
	receiptTimeout   = 2 * time.Minute
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{url: url, client: result.Client, err: result.Error}
	}
}

// connectWallet runs the bridge handshake for one attempt.
// The result is tagged with the attempt so a superseded one can be dropped.
func connectWallet(b wallet.Bridge, a wallet.Attempt) tea.Cmd {
	return func() tea.Msg {
		addr, err := wallet.Connect(a.Ctx, b)
		return walletConnectedMsg{attempt: a.ID, address: addr, err: err}
	}
}

// disconnectWallet releases the bridge connection
func disconnectWallet(b wallet.Bridge) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return walletDisconnectedMsg{err: b.Disconnect(ctx)}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// loadDetails fetches account balance details from the blockchain
func loadDetails(client *rpc.Client, addr common.Address) tea.Cmd {
	return func() tea.Msg {
		return detailsLoadedMsg{d: rpc.LoadAccountDetails(client, addr)}
	}
}

// loadInvoices reads the newest invoices from the contract
func loadInvoices(c *contract.Client, account string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		list, err := c.List(ctx, invoiceListLimit)
		return invoicesLoadedMsg{account: account, invoices: list, err: err}
	}
}

// createInvoice submits createInvoice for the connected account
func createInvoice(c *contract.Client, from, payer common.Address, amount *big.Int, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
		defer cancel()
		hash, err := c.Create(ctx, from, payer, amount, description)
		return txSentMsg{kind: "create", account: from.Hex(), hash: hash, err: err}
	}
}

// payInvoice submits payInvoice with the invoice amount attached
func payInvoice(c *contract.Client, from common.Address, id, amount *big.Int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
		defer cancel()
		hash, err := c.Pay(ctx, from, id, amount)
		return txSentMsg{kind: "pay", account: from.Hex(), invoiceID: id, value: amount, hash: hash, err: err}
	}
}

// cancelInvoice submits cancelInvoice
func cancelInvoice(c *contract.Client, from common.Address, id *big.Int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), txTimeout)
		defer cancel()
		hash, err := c.Cancel(ctx, from, id)
		return txSentMsg{kind: "cancel", account: from.Hex(), invoiceID: id, hash: hash, err: err}
	}
}

// waitTx waits for the receipt of a sent transaction
func waitTx(c *contract.Client, b rpc.ReceiptBackend, sent txSentMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), receiptTimeout)
		defer cancel()
		if sent.kind == "create" {
			id, err := c.WaitCreated(ctx, b, sent.hash)
			return txConfirmedMsg{kind: sent.kind, hash: sent.hash, invoiceID: id, err: err}
		}
		_, err := c.Wait(ctx, b, sent.hash)
		return txConfirmedMsg{kind: sent.kind, hash: sent.hash, invoiceID: sent.invoiceID, err: err}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return nil
		}
		return clipboardCopiedMsg{what: what}
	}
}

// clearCopied waits 2 seconds then clears clipboard feedback
func clearCopied() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// -------------------- MODEL HELPERS --------------------

// addLog adds a log entry using charmbracelet/log
func (m *model) addLog(logType, message string, keyvals ...interface{}) {
	if !m.logEnabled || !m.logReady || m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message, keyvals...)
	case "success":
		m.logger.Info("✓ "+message, keyvals...)
	case "error":
		m.logger.Error(message, keyvals...)
	case "warning":
		m.logger.Warn(message, keyvals...)
	case "debug":
		m.logger.Debug(message, keyvals...)
	default:
		m.logger.Print(message, keyvals...)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// saveConfig writes the current config and logs failures
func (m *model) saveConfig() {
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Failed to save config", "path", m.configPath, "err", err)
	}
}

// invoiceClient binds the configured contract. It is read-only unless a
// wallet is connected through a bridge that can send transactions.
func (m *model) invoiceClient() *contract.Client {
	if m.ethClient == nil || m.ethClient.Client == nil || m.cfg.ContractAddress == "" {
		return nil
	}
	var sender contract.Sender
	if s, ok := m.bridge.(wallet.Sender); ok && m.account() != "" {
		sender = s
	}
	return contract.NewClient(common.HexToAddress(m.cfg.ContractAddress), m.ethClient, sender)
}

// refreshDetails reloads the connected account's on-chain details
func (m *model) refreshDetails() tea.Cmd {
	acct := m.account()
	if acct == "" {
		return nil
	}
	m.loading = true
	m.details = rpc.AccountDetails{Address: acct}
	return loadDetails(m.ethClient, common.HexToAddress(acct))
}

// refreshInvoices reloads the invoice list when a contract is configured
func (m *model) refreshInvoices() tea.Cmd {
	c := m.invoiceClient()
	if c == nil {
		return nil
	}
	m.invoicesLoading = true
	m.invoicesErr = ""
	return loadInvoices(c, m.account())
}

// selectedInvoiceEntry returns the highlighted invoice
func (m *model) selectedInvoiceEntry() (contract.Invoice, bool) {
	if m.selectedInvoice < 0 || m.selectedInvoice >= len(m.invoices) {
		return contract.Invoice{}, false
	}
	return m.invoices[m.selectedInvoice], true
}

// loadNotes reads local metadata for the listed invoices
func (m *model) loadNotes() {
	m.notes = make(map[string]store.Metadata)
	if m.store == nil || m.cfg.ContractAddress == "" {
		return
	}
	for _, inv := range m.invoices {
		id := inv.ID.String()
		if md, ok := m.store.GetMetadata(m.cfg.ContractAddress, id); ok {
			m.notes[id] = md
		}
	}
}

// paymentURI is the EIP-681 link for paying inv
func (m *model) paymentURI(inv contract.Invoice) string {
	chainID := m.details.ChainID
	if chainID == nil {
		chainID = m.cfg.ChainIDBig()
	}
	return rpc.InvoicePaymentURI(common.HexToAddress(m.cfg.ContractAddress), chainID, inv.ID, inv.Amount)
}

func describeTx(kind string, id *big.Int) string {
	if id == nil {
		return kind
	}
	return fmt.Sprintf("%s #%s", kind, id)
}

func shortHash(h common.Hash) string {
	return helpers.ShortenAddr(h.Hex())
}
