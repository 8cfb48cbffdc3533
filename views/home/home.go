package home

import (
	"strings"

	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/styles"

	"github.com/charmbracelet/huh"
)

// Menu values returned in TempSelection
const (
	GoWallet   = "wallet"
	GoInvoices = "invoices"
	GoSettings = "settings"
)

// TempSelection stores the home menu selection
var TempSelection string

// CreateForm creates the home menu form
func CreateForm() *huh.Form {
	TempSelection = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Wallet", GoWallet),
					huh.NewOption("Invoices", GoInvoices),
					huh.NewOption("RPC Settings", GoSettings),
				).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	banner := helpers.FadeString("invoice wallet", "#7EE787", "#82CFFD")
	if form != nil {
		return banner + "\n\n" + form.View()
	}
	return banner + "\n\nLoading menu…"
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
