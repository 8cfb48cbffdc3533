// Package status maps a wallet connection state to what the user sees.
// Nothing here has side effects.
package status

import (
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/styles"
	"invoice-wallet-tui/wallet"

	"github.com/charmbracelet/lipgloss"
)

// Variant is one of the four visual representations of a wallet state
type Variant int

const (
	None Variant = iota
	Spinner
	ErrorBanner
	ConnectedBadge
)

// VariantFor returns the variant for s
func VariantFor(s wallet.State) Variant {
	switch s.Status {
	case wallet.Connecting:
		return Spinner
	case wallet.Error:
		return ErrorBanner
	case wallet.Connected:
		return ConnectedBadge
	default:
		return None
	}
}

// Render draws the full status block; spinnerView is the current spinner frame
func Render(s wallet.State, spinnerView string) string {
	switch VariantFor(s) {
	case Spinner:
		return spinnerView + " " + styles.MutedStyle.Render("Connecting to wallet…")
	case ErrorBanner:
		return styles.ErrorBannerStyle.Render("⚠ " + s.Err)
	case ConnectedBadge:
		return styles.ConnectedBadgeStyle.Render("● Connected") + "  " +
			lipgloss.NewStyle().Foreground(styles.CText).Render(s.Account)
	default:
		return ""
	}
}

// Badge is the one-line form used in the header
func Badge(s wallet.State, spinnerView string) string {
	switch VariantFor(s) {
	case Spinner:
		return spinnerView + " connecting"
	case ErrorBanner:
		return lipgloss.NewStyle().Foreground(styles.CError).Render("⚠ wallet error")
	case ConnectedBadge:
		return lipgloss.NewStyle().Foreground(styles.CAccent).Render("● " + helpers.ShortenAddr(s.Account))
	default:
		return styles.MutedStyle.Render("○ not connected")
	}
}
