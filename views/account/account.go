package account

import (
	"fmt"
	"strings"

	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/rpc"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/styles"
	"invoice-wallet-tui/views/status"
	"invoice-wallet-tui/wallet"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the wallet page
func Nav(width int, st wallet.State) string {
	var keys []string
	switch st.Status {
	case wallet.Connected:
		keys = []string{
			styles.Key("y") + " copy address",
			styles.Key("r") + " refresh",
			styles.Key("i") + " invoices",
			styles.Key("x") + " disconnect",
		}
	case wallet.Connecting:
		keys = []string{styles.Key("x") + " cancel"}
	default:
		keys = []string{styles.Key("c") + " connect"}
	}
	keys = append(keys,
		styles.Key("s")+" settings",
		styles.Key("h")+" home",
		styles.Key("l")+" logger",
		styles.Key("q")+" quit",
	)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the wallet page: connection status and, once connected, the account details
func Render(st wallet.State, details rpc.AccountDetails, txs []store.TxRecord, loading bool, copiedMsg string, spinnerView string, bridge string) string {
	h := styles.TitleStyle.Render("Wallet")
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	lines := []string{h, muted.Render("Bridge: " + bridge), ""}

	if block := status.Render(st, spinnerView); block != "" {
		lines = append(lines, block)
	}

	switch st.Status {
	case wallet.Idle:
		lines = append(lines, muted.Render("No wallet connected. Press ")+styles.Key("c")+muted.Render(" to connect."))
		return strings.Join(lines, "\n")
	case wallet.Error:
		lines = append(lines, "", muted.Render("Press ")+styles.Key("c")+muted.Render(" to try again or ")+styles.Key("s")+muted.Render(" to check the RPC settings."))
		return strings.Join(lines, "\n")
	case wallet.Connecting:
		return strings.Join(lines, "\n")
	}

	if copiedMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg))
	}
	lines = append(lines, "")

	if loading {
		lines = append(lines, spinnerView+" fetching balance…")
		return strings.Join(lines, "\n")
	}

	if details.ErrMessage != "" {
		msg := lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ " + details.ErrMessage)
		hint := muted.Render("Press ") + styles.Key("r") + muted.Render(" to refresh.")
		lines = append(lines, msg, "", hint)
		return strings.Join(lines, "\n")
	}

	label := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
	value := lipgloss.NewStyle().Foreground(styles.CText)

	chain := "unknown"
	if details.ChainID != nil {
		chain = details.ChainID.String()
	}

	lines = append(lines,
		fmt.Sprintf("%s  %s", label.Render("Balance"), value.Render(helpers.FormatETH(details.EthWei))),
		fmt.Sprintf("%s    %s", label.Render("Nonce"), value.Render(fmt.Sprintf("%d", details.Nonce))),
		fmt.Sprintf("%s    %s", label.Render("Chain"), value.Render(chain)),
		fmt.Sprintf("%s    %s", label.Render("Block"), value.Render(fmt.Sprintf("%d", details.BlockNumber))),
		"",
		muted.Render("Updated "+helpers.LoadedAt(details.LoadedAt, loading)),
	)

	if len(txs) > 0 {
		lines = append(lines, "", label.Render("Recent transactions"))
		for i, tx := range txs {
			if i == maxRecentTxs {
				break
			}
			what := tx.Kind
			if tx.InvoiceID != "" {
				what += " #" + tx.InvoiceID
			}
			lines = append(lines, fmt.Sprintf("  %s  %s  %s",
				muted.Render(tx.SentAt.Format("Jan 02 15:04")),
				value.Render(fmt.Sprintf("%-12s", what)),
				muted.Render(helpers.ShortenAddr(tx.Hash)),
			))
		}
	}

	return strings.Join(lines, "\n")
}

const maxRecentTxs = 5
