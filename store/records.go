package store

import (
	"strings"
	"time"

	"invoice-wallet-tui/contract"
)

// maxTransactions caps the per-account history
const maxTransactions = 50

// TxRecord is one transaction sent from the UI
type TxRecord struct {
	Hash      string    `json:"hash"`
	Kind      string    `json:"kind"` // create, pay, cancel
	InvoiceID string    `json:"invoice_id,omitempty"`
	Value     string    `json:"value,omitempty"` // wei
	SentAt    time.Time `json:"sent_at"`
}

// Draft is an unfinished create-invoice form
type Draft struct {
	Payer       string `json:"payer"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Metadata is local-only information attached to an invoice
type Metadata struct {
	Note string   `json:"note,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

func TransactionsKey(account string) string { return "transactions_" + strings.ToLower(account) }
func InvoicesKey(account string) string     { return "invoices_" + strings.ToLower(account) }
func DraftKey(account string) string        { return "invoice_drafts_" + strings.ToLower(account) }

func MetadataKey(contractAddr, invoiceID string) string {
	return "invoice_metadata_" + strings.ToLower(contractAddr) + "_" + invoiceID
}

// RecordTransaction prepends rec to the account history. An unreadable
// history is left in place and its decode error returned.
func (s *Store) RecordTransaction(account string, rec TxRecord) error {
	txs, err := s.Transactions(account)
	if err != nil {
		return err
	}
	txs = append([]TxRecord{rec}, txs...)
	if len(txs) > maxTransactions {
		txs = txs[:maxTransactions]
	}
	return s.SetJSON(TransactionsKey(account), txs)
}

// Transactions returns the account history, newest first
func (s *Store) Transactions(account string) ([]TxRecord, error) {
	var txs []TxRecord
	_, err := s.GetJSON(TransactionsKey(account), &txs)
	return txs, err
}

// SaveDraft keeps the create form for account
func (s *Store) SaveDraft(account string, d Draft) error {
	return s.SetJSON(DraftKey(account), d)
}

// LoadDraft returns the saved draft, if any
func (s *Store) LoadDraft(account string) (Draft, bool) {
	var d Draft
	ok, err := s.GetJSON(DraftKey(account), &d)
	if err != nil {
		return Draft{}, false
	}
	return d, ok
}

// DeleteDraft forgets the draft once the invoice is submitted
func (s *Store) DeleteDraft(account string) error {
	return s.Delete(DraftKey(account))
}

// CacheInvoices remembers the last invoice list seen by account
func (s *Store) CacheInvoices(account string, invoices []contract.Invoice) error {
	return s.SetJSON(InvoicesKey(account), invoices)
}

// CachedInvoices returns the cached list so the page has content before the chain answers
func (s *Store) CachedInvoices(account string) []contract.Invoice {
	var invoices []contract.Invoice
	if _, err := s.GetJSON(InvoicesKey(account), &invoices); err != nil {
		return nil
	}
	return invoices
}

// SetMetadata stores local metadata for an invoice
func (s *Store) SetMetadata(contractAddr, invoiceID string, m Metadata) error {
	return s.SetJSON(MetadataKey(contractAddr, invoiceID), m)
}

// GetMetadata returns local metadata for an invoice
func (s *Store) GetMetadata(contractAddr, invoiceID string) (Metadata, bool) {
	var m Metadata
	ok, err := s.GetJSON(MetadataKey(contractAddr, invoiceID), &m)
	if err != nil {
		return Metadata{}, false
	}
	return m, ok
}
