package main

import (
	"fmt"
	"strconv"
	"strings"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/helpers"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempRPCFormName string
	tempRPCFormURL  string
	tempBridge      string
	tempChainID     string
	tempKeyEnv      string
	tempContract    string
	tempPayer       string
	tempAmount      string
	tempDescription string
	tempNote        string
	tempTags        string
)

const maxDescriptionLen = 200

func validateRequired(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("Local Anvil").
				Validate(validateRequired("name")),

			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (http://, https://, ws://)").
				Value(&tempRPCFormURL).
				Placeholder("http://127.0.0.1:8545").
				Validate(validateRequired("url")),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createEditRPCForm(idx int) {
	if idx < 0 || idx >= len(m.cfg.RPCURLs) {
		return
	}

	rpcURL := m.cfg.RPCURLs[idx]
	tempRPCFormName = rpcURL.Name
	tempRPCFormURL = rpcURL.URL

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Value(&tempRPCFormName).
				Placeholder("My Node").
				Validate(validateRequired("name")),

			huh.NewInput().
				Title("RPC URL").
				Value(&tempRPCFormURL).
				Placeholder("https://...").
				Validate(validateRequired("url")),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createWalletSettingsForm() {
	tempBridge = m.cfg.Bridge
	tempChainID = ""
	if m.cfg.ChainID > 0 {
		tempChainID = strconv.FormatInt(m.cfg.ChainID, 10)
	}
	tempKeyEnv = m.cfg.KeyEnv
	tempContract = m.cfg.ContractAddress

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Wallet bridge").
				Options(
					huh.NewOption("Node accounts (eth_requestAccounts)", wallet.BridgeNode),
					huh.NewOption("Private key from environment", wallet.BridgeKey),
				).
				Value(&tempBridge),

			huh.NewInput().
				Title("Chain ID").
				Description("Expected network; leave empty to accept any").
				Value(&tempChainID).
				Placeholder("31337").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil || n < 0 {
						return fmt.Errorf("invalid chain id")
					}
					return nil
				}),

			huh.NewInput().
				Title("Private key variable").
				Description("Environment variable read by the key bridge").
				Value(&tempKeyEnv).
				Placeholder(wallet.DefaultKeyEnv),

			huh.NewInput().
				Title("InvoiceContract address").
				Description("Printed by the deploy command").
				Value(&tempContract).
				Placeholder("0x...").
				Validate(func(s string) error {
					if strings.TrimSpace(s) != "" && !helpers.IsValidEthAddress(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid ethereum address")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createInvoiceForm() {
	tempPayer = ""
	tempAmount = ""
	tempDescription = ""
	if m.store != nil {
		if d, ok := m.store.LoadDraft(m.account()); ok {
			tempPayer, tempAmount, tempDescription = d.Payer, d.Amount, d.Description
			m.addLog("debug", "Restored invoice draft")
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Payer").
				Description("Address that will pay this invoice (Ctrl+v to paste)").
				Value(&tempPayer).
				Placeholder("0x...").
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if !helpers.IsValidEthAddress(s) {
						return fmt.Errorf("invalid ethereum address")
					}
					if strings.EqualFold(s, m.account()) {
						return fmt.Errorf("payer must differ from the issuer")
					}
					return nil
				}),

			huh.NewInput().
				Title("Amount (ETH)").
				Value(&tempAmount).
				Placeholder("0.0").
				Validate(func(s string) error {
					_, err := helpers.ParseETH(s)
					return err
				}),

			huh.NewText().
				Title("Description").
				Value(&tempDescription).
				CharLimit(maxDescriptionLen).
				Validate(validateRequired("description")),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

func (m *model) createNoteForm(invoiceID string) {
	m.noteInvoiceID = invoiceID
	md := m.notes[invoiceID]
	tempNote = md.Note
	tempTags = strings.Join(md.Tags, ", ")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Note for invoice #"+invoiceID).
				Description("Kept on this machine only").
				Value(&tempNote),

			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&tempTags).
				Placeholder("client, q3"),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.form.Init()
}

// updateForm routes a message to the open form and handles completion
func (m *model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Intercept ESC key to cancel form
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f

		switch m.form.State {
		case huh.StateCompleted:
			// Return without the form's cmd to ensure we're back in list mode
			return m, m.submitForm()
		case huh.StateAborted:
			m.closeForm()
			return m, nil
		}
	}
	return m, cmd
}

// closeForm drops the open form; an unfinished invoice is kept as a draft
func (m *model) closeForm() {
	if m.activePage == config.PageInvoices && m.invoiceMode == "create" {
		m.saveDraft()
	}
	m.form = nil
	m.settingsMode = "list"
	if m.invoiceMode == "create" || m.invoiceMode == "note" {
		m.invoiceMode = "list"
	}
}

func (m *model) saveDraft() {
	acct := m.account()
	if m.store == nil || acct == "" {
		return
	}
	d := store.Draft{
		Payer:       strings.TrimSpace(tempPayer),
		Amount:      strings.TrimSpace(tempAmount),
		Description: strings.TrimSpace(tempDescription),
	}
	if d == (store.Draft{}) {
		return
	}
	if err := m.store.SaveDraft(acct, d); err != nil {
		m.addLog("error", "Failed to save draft", "err", err)
		return
	}
	m.addLog("info", "Invoice draft saved")
}

// submitForm applies a completed form
func (m *model) submitForm() tea.Cmd {
	var cmd tea.Cmd

	switch m.activePage {
	case config.PageSettings:
		switch m.settingsMode {
		case "add":
			name, url := strings.TrimSpace(tempRPCFormName), strings.TrimSpace(tempRPCFormURL)
			first := len(m.cfg.RPCURLs) == 0
			m.cfg.RPCURLs = append(m.cfg.RPCURLs, config.RPCUrl{Name: name, URL: url, Active: first})
			m.saveConfig()
			m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", name, url))
			if first {
				cmd = m.switchRPC()
			}
		case "edit":
			if m.selectedRPCIdx >= 0 && m.selectedRPCIdx < len(m.cfg.RPCURLs) {
				entry := &m.cfg.RPCURLs[m.selectedRPCIdx]
				urlChanged := entry.URL != strings.TrimSpace(tempRPCFormURL)
				entry.Name = strings.TrimSpace(tempRPCFormName)
				entry.URL = strings.TrimSpace(tempRPCFormURL)
				m.saveConfig()
				m.addLog("success", fmt.Sprintf("Updated RPC endpoint: `%s`", entry.Name))
				if entry.Active && urlChanged {
					cmd = m.switchRPC()
				}
			}
		case "wallet":
			m.cfg.Bridge = tempBridge
			m.cfg.ChainID = 0
			if s := strings.TrimSpace(tempChainID); s != "" {
				m.cfg.ChainID, _ = strconv.ParseInt(s, 10, 64)
			}
			m.cfg.KeyEnv = strings.TrimSpace(tempKeyEnv)
			if m.cfg.KeyEnv == "" {
				m.cfg.KeyEnv = wallet.DefaultKeyEnv
			}
			contractChanged := !strings.EqualFold(m.cfg.ContractAddress, strings.TrimSpace(tempContract))
			if contractChanged && strings.TrimSpace(tempContract) != "" {
				m.cfg.ContractAddress = common.HexToAddress(strings.TrimSpace(tempContract)).Hex()
			} else if contractChanged {
				m.cfg.ContractAddress = ""
			}
			m.saveConfig()
			m.addLog("success", "Wallet settings saved", "bridge", m.cfg.Bridge, "chain", m.cfg.ChainID)
			if contractChanged {
				m.invoices = nil
				m.selectedInvoice = 0
			}
			cmd = m.resetWallet()
		}

	case config.PageInvoices:
		switch m.invoiceMode {
		case "create":
			cmd = m.submitInvoice()
		case "note":
			m.submitNote()
		}
	}

	m.form = nil
	m.settingsMode = "list"
	m.invoiceMode = "list"
	return cmd
}

func (m *model) submitInvoice() tea.Cmd {
	acct := m.account()
	c := m.invoiceClient()
	if acct == "" || c == nil {
		m.saveDraft()
		m.invoicesErr = "Wallet disconnected before the invoice was sent; draft saved"
		return nil
	}
	amount, err := helpers.ParseETH(tempAmount)
	if err != nil {
		m.invoicesErr = err.Error()
		return nil
	}
	payer := common.HexToAddress(strings.TrimSpace(tempPayer))
	if m.store != nil {
		_ = m.store.DeleteDraft(acct)
	}
	m.pendingTxs++
	m.addLog("info", "Creating invoice", "payer", helpers.ShortenAddr(payer.Hex()), "amount", helpers.FormatETH(amount))
	return createInvoice(c, common.HexToAddress(acct), payer, amount, strings.TrimSpace(tempDescription))
}

func (m *model) submitNote() {
	if m.store == nil || m.noteInvoiceID == "" {
		return
	}
	md := store.Metadata{Note: strings.TrimSpace(tempNote)}
	for _, tag := range strings.Split(tempTags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			md.Tags = append(md.Tags, tag)
		}
	}
	if err := m.store.SetMetadata(m.cfg.ContractAddress, m.noteInvoiceID, md); err != nil {
		m.addLog("error", "Failed to save note", "err", err)
		return
	}
	m.notes[m.noteInvoiceID] = md
	m.addLog("success", fmt.Sprintf("Saved note for invoice #%s", m.noteInvoiceID))
}
