package config

// Page identifies the active view
type Page int

const (
	PageHome Page = iota
	PageWallet
	PageInvoices
	PageSettings
)
