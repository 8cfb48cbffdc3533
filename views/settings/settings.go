package settings

import (
	"fmt"
	"strings"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode != "list" {
		left = styles.Key("Esc") + " cancel"
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("w") + " wallet settings",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC settings view together with the wallet and contract settings
func Render(cfg config.Config, selectedIdx int) string {
	rpcURLs := cfg.RPCURLs
	h := styles.TitleStyle.Render("RPC Settings")

	lines := []string{h, ""}

	chain := "any"
	if cfg.ChainID > 0 {
		chain = fmt.Sprintf("%d", cfg.ChainID)
	}
	contractAddr := "not deployed"
	if cfg.ContractAddress != "" {
		contractAddr = helpers.ShortenAddr(cfg.ContractAddress)
	}
	bridge := cfg.Bridge
	if bridge == "key" {
		bridge += " ($" + cfg.KeyEnv + ")"
	}
	lines = append(lines,
		styles.MutedStyle.Render("Bridge:   ")+bridge,
		styles.MutedStyle.Render("Chain:    ")+chain,
		styles.MutedStyle.Render("Contract: ")+contractAddr,
		"",
	)

	if len(rpcURLs) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("No RPC URLs configured."))
		lines = append(lines, "")
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("Press ")+styles.Key("a")+lipgloss.NewStyle().Foreground(styles.CMuted).Render(" to add your first RPC URL."))
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(styles.CMuted).Render("Configured RPC Endpoints:"))
		lines = append(lines, "")

		for i, rpc := range rpcURLs {
			var marker string
			if rpc.Active {
				marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			} else {
				marker = lipgloss.NewStyle().Foreground(styles.CMuted).Render("○ ")
			}

			nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
			urlStyle := lipgloss.NewStyle().Foreground(styles.CMuted)

			if i == selectedIdx {
				nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
				urlStyle = urlStyle.Background(styles.CPanel)
				marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
			}

			line := marker + nameStyle.Render(rpc.Name)
			lines = append(lines, line)
			lines = append(lines, "  "+urlStyle.Render(rpc.URL))
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}
