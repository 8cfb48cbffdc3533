package main

import (
	"fmt"
	"strings"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/rpc"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/styles"
	"invoice-wallet-tui/views/account"
	"invoice-wallet-tui/views/home"
	"invoice-wallet-tui/views/invoices"
	logview "invoice-wallet-tui/views/log"
	"invoice-wallet-tui/views/settings"
	"invoice-wallet-tui/views/status"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// renderConfirmDialog draws a centered Yes/No dialog
func (m *model) renderConfirmDialog(question string, yesSelected bool) string {
	msg := helpers.FadeString(question, "#F25D94", "#EDFF82")
	q := lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg)

	// Apply active style to the selected button
	var okButton, cancelButton string
	if yesSelected {
		okButton = styles.ActiveButtonStyle.Render("Yes")
		cancelButton = styles.ButtonStyle.Render("No")
	} else {
		okButton = styles.ButtonStyle.MarginRight(2).Render("Yes")
		cancelButton = styles.ActiveButtonStyle.MarginRight(0).Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top, okButton, cancelButton)
	ui := lipgloss.JoinVertical(lipgloss.Center, q, buttons)

	return lipgloss.Place(
		m.w, m.h,
		lipgloss.Center, lipgloss.Center,
		styles.DialogBoxStyle.Render(ui),
	)
}

func (m *model) rpcStatus() (string, lipgloss.Color) {
	red := styles.COffline
	switch {
	case m.cfg.ActiveRPC() == "":
		return "○ No RPC", red
	case m.rpcConnecting:
		return "○ Connecting...", red
	case !m.rpcConnected:
		return "○ Connection Failed", red
	}
	for _, r := range m.cfg.RPCURLs {
		if r.Active {
			return "● " + r.Name, styles.CAccent
		}
	}
	return "● Connected", styles.CAccent
}

func (m *model) globalHeader() string {
	availableWidth := helpers.Max(0, m.w-8) // Account for panel padding

	walletDisplay := lipgloss.NewStyle().Bold(true).
		Render("Wallet: " + status.Badge(m.session.State(), m.spin.View()))

	rpcText, rpcColor := m.rpcStatus()
	if m.pendingTxs > 0 {
		rpcText = fmt.Sprintf("%s %d pending  ", m.spin.View(), m.pendingTxs) + rpcText
	}
	rpcDisplay := lipgloss.NewStyle().
		Foreground(rpcColor).
		Bold(true).
		Render(rpcText)

	titleText := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString("invoice wallet", "#7EE787", "#82CFFD"))

	walletWidth := lipgloss.Width(walletDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := walletWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = walletDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Wallet | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = walletDisplay +
			strings.Repeat(" ", helpers.Max(1, leftPadding)) +
			titleText +
			strings.Repeat(" ", helpers.Max(1, rightPadding)) +
			rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

func (m *model) formView(title string) string {
	return styles.TitleStyle.Render(title) + "\n\n" + m.form.View()
}

func (m *model) recentTransactions() []store.TxRecord {
	acct := m.account()
	if m.store == nil || acct == "" {
		return nil
	}
	txs, err := m.store.Transactions(acct)
	if err != nil {
		return nil
	}
	return txs
}

func (m *model) View() string {
	if m.showDisconnectDialog {
		return m.renderConfirmDialog("Disconnect wallet "+helpers.ShortenAddr(m.account())+"?", m.disconnectYesSelected)
	}
	if m.showRPCDeleteDialog && m.deleteRPCDialogIdx < len(m.cfg.RPCURLs) {
		return m.renderConfirmDialog("Are you sure you want to delete the RPC endpoint "+m.cfg.RPCURLs[m.deleteRPCDialogIdx].Name+"?", m.deleteRPCDialogYesSelected)
	}

	panelWidth := helpers.Max(0, m.w-2)
	headerPanel := styles.PanelStyle.Width(panelWidth).Render(m.globalHeader())

	var content, nav string

	switch m.activePage {
	case config.PageHome:
		content = home.Render(m.homeForm)
		nav = home.Nav(panelWidth)

	case config.PageWallet:
		content = account.Render(m.session.State(), m.details, m.recentTransactions(), m.loading, m.copiedMsg, m.spin.View(), m.bridgeLabel())
		nav = account.Nav(panelWidth, m.session.State())

	case config.PageInvoices:
		switch {
		case m.form != nil && m.invoiceMode == "create":
			content = m.formView("New invoice")
		case m.form != nil && m.invoiceMode == "note":
			content = m.formView("Invoice note")
		case m.invoiceMode == "payment":
			inv, _ := m.selectedInvoiceEntry()
			uri := m.paymentURI(inv)
			content = lipgloss.NewStyle().
				Width(helpers.Max(0, m.w-8)).
				Align(lipgloss.Center).
				Render(invoices.RenderPayment(inv, uri, rpc.GenerateQRCode(uri), m.copiedMsg))
		default:
			content = invoices.Render(m.invoices, m.selectedInvoice, m.account(), m.cfg.ContractAddress, m.notes, m.invoicesLoading, m.invoicesErr, m.spin.View())
		}
		nav = invoices.Nav(panelWidth, m.invoiceMode)

	case config.PageSettings:
		content = settings.Render(m.cfg, m.selectedRPCIdx)
		switch {
		case m.form != nil && m.settingsMode == "wallet":
			content = m.formView("Wallet Settings")
		case m.form != nil:
			content = m.formView("RPC Settings")
		}
		nav = settings.Nav(panelWidth, m.settingsMode)
	}

	pageContent := styles.PanelStyle.Width(panelWidth).Render(content)
	sections := []string{headerPanel, pageContent, nav}

	// Render log panel only if enabled
	if m.logEnabled {
		m.logViewport.Height = logview.PanelHeight(m.h)
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
