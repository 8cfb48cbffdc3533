package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	CBg      = lipgloss.Color("#0B0F14")
	CPanel   = lipgloss.Color("#0F1720")
	CBorder  = lipgloss.Color("#874BFD")
	CMuted   = lipgloss.Color("#8AA0B6")
	CText    = lipgloss.Color("#D6E2F0")
	CAccent  = lipgloss.Color("#7EE787") // connected, paid
	CAccent2 = lipgloss.Color("#79C0FF") // titles, spinners
	CWarn    = lipgloss.Color("#FFA657") // open invoices, pending
	CError   = lipgloss.Color("#FF5F5F")
	COffline = lipgloss.Color("#C01C28") // rpc down

	// confirmation dialogs
	CButtonText   = lipgloss.Color("#FFF7DB")
	CButton       = lipgloss.Color("#888B7E")
	CButtonActive = lipgloss.Color("#F25D94")
)

// Layout
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	hotkeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)
)

// Wallet status variants
var (
	ConnectedBadgeStyle = lipgloss.NewStyle().
				Foreground(CBg).
				Background(CAccent).
				Bold(true).
				Padding(0, 1)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(CError).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(CError).
				Padding(0, 1)
)

// Invoice states
var (
	InvoiceOpenStyle      = lipgloss.NewStyle().Foreground(CWarn)
	InvoicePaidStyle      = lipgloss.NewStyle().Foreground(CAccent)
	InvoiceCancelledStyle = lipgloss.NewStyle().Foreground(CMuted).Strikethrough(true)
)

// Dialogs
var (
	DialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 0)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(CButtonText).
			Background(CButton).
			Padding(0, 3).
			MarginTop(1)

	ActiveButtonStyle = ButtonStyle.
				Background(CButtonActive).
				MarginRight(2).
				Underline(true)
)

// Key renders a hotkey in nav bars
func Key(s string) string {
	return hotkeyStyle.Render(s)
}
