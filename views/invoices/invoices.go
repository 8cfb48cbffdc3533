package invoices

import (
	"fmt"
	"strings"

	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the invoices page
func Nav(width int, mode string) string {
	var left string
	switch mode {
	case "create", "note":
		left = strings.Join([]string{
			styles.Key("Esc") + " cancel (draft is kept)",
		}, "   ")
	case "payment":
		left = strings.Join([]string{
			styles.Key("y") + " copy URI",
			styles.Key("Esc") + " close",
		}, "   ")
	default:
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("n") + " new",
			styles.Key("p") + " pay",
			styles.Key("x") + " cancel invoice",
			styles.Key("m") + " note",
			styles.Key("Enter") + " payment QR",
			styles.Key("r") + " refresh",
			styles.Key("w") + " wallet",
			styles.Key("l") + " logger",
			styles.Key("Esc") + " back",
		}, "   ")
	}
	return styles.NavStyle.Width(width).Render(left)
}

func statusStyle(s contract.InvoiceStatus) lipgloss.Style {
	switch s {
	case contract.StatusPaid:
		return styles.InvoicePaidStyle
	case contract.StatusCancelled:
		return styles.InvoiceCancelledStyle
	default:
		return styles.InvoiceOpenStyle
	}
}

// Render renders the invoice list. notes is keyed by invoice id.
func Render(list []contract.Invoice, selectedIdx int, account, contractAddr string, notes map[string]store.Metadata, loading bool, errMsg string, spinnerView string) string {
	h := styles.TitleStyle.Render("Invoices")
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	if contractAddr == "" {
		return h + "\n\n" + muted.Render("No InvoiceContract configured. Deploy one with ") +
			styles.Key("deploy --save") + muted.Render(" or set contract_address in the config.")
	}

	sub := muted.Render("Contract " + helpers.ShortenAddr(contractAddr))
	lines := []string{h, sub, ""}

	if loading {
		lines = append(lines, spinnerView+" loading invoices…", "")
	}
	if errMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ "+errMsg), "")
	}

	if len(list) == 0 {
		if !loading {
			lines = append(lines, muted.Render("No invoices yet. Press ")+styles.Key("n")+muted.Render(" to create one."))
		}
		return strings.Join(lines, "\n")
	}

	for i, inv := range list {
		marker := "  "
		idStyle := lipgloss.NewStyle().Foreground(styles.CText)
		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			idStyle = idStyle.Foreground(styles.CAccent2).Bold(true)
		}

		role := ""
		switch {
		case strings.EqualFold(inv.Issuer.Hex(), account):
			role = "→ " + helpers.FadeString(helpers.ShortenAddr(inv.Payer.Hex()), "#F25D94", "#EDFF82")
		case strings.EqualFold(inv.Payer.Hex(), account):
			role = "← " + helpers.FadeString(helpers.ShortenAddr(inv.Issuer.Hex()), "#7D5AFC", "#FF87D7")
		default:
			role = muted.Render(helpers.ShortenAddr(inv.Issuer.Hex()) + " → " + helpers.ShortenAddr(inv.Payer.Hex()))
		}

		row := fmt.Sprintf("%s%s  %s  %s  %s",
			marker,
			idStyle.Render(fmt.Sprintf("#%s", inv.ID)),
			lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatETH(inv.Amount)),
			statusStyle(inv.Status).Render(inv.Status.String()),
			role,
		)
		lines = append(lines, row)

		detail := inv.Description
		if m, ok := notes[inv.ID.String()]; ok && m.Note != "" {
			detail += "  [" + m.Note + "]"
		}
		if detail != "" {
			lines = append(lines, "    "+muted.Render(detail))
		}
	}

	lines = append(lines, "", muted.Render(fmt.Sprintf("%d invoices", len(list))))
	return strings.Join(lines, "\n")
}

// RenderPayment shows the payment URI and QR code for one invoice
func RenderPayment(inv contract.Invoice, uri, qr, copiedMsg string) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)
	lines := []string{
		styles.TitleStyle.Render(fmt.Sprintf("Pay invoice #%s", inv.ID)),
		muted.Render(inv.Description),
		lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.FormatETH(inv.Amount)),
		"",
		qr,
		lipgloss.NewStyle().Foreground(styles.CAccent).Render("EIP-681 payment URI:"),
		uri,
		"",
		muted.Render("Scan the QR code with your wallet app to pay this invoice"),
	}
	if copiedMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CAccent).Bold(true).Render(copiedMsg))
	}
	return strings.Join(lines, "\n")
}
