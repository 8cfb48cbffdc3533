package main

import (
	"fmt"
	"strings"

	"invoice-wallet-tui/config"
	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/rpc"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/styles"
	"invoice-wallet-tui/views/home"
	"invoice-wallet-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page

	cfg        config.Config
	configPath string

	// wallet session
	session   *wallet.Session
	bridge    wallet.Bridge
	bridgeErr string

	// rpc and account details
	spin          spinner.Model
	ethClient     *rpc.Client
	rpcConnected  bool
	rpcConnecting bool
	details       rpc.AccountDetails
	loading       bool

	// local storage
	store    *store.Store
	storeErr string

	// invoices
	invoices        []contract.Invoice
	selectedInvoice int
	invoicesLoading bool
	invoicesErr     string
	invoiceMode     string // "list", "create", "note", "payment"
	notes           map[string]store.Metadata
	noteInvoiceID   string
	pendingTxs      int

	// clipboard feedback
	copiedMsg string

	// settings state
	settingsMode   string // "list", "add", "edit", "wallet"
	selectedRPCIdx int

	// the one open huh form, if any
	form     *huh.Form
	homeForm *huh.Form

	// confirmation dialogs
	showDisconnectDialog       bool
	disconnectYesSelected      bool
	showRPCDeleteDialog        bool
	deleteRPCDialogIdx         int
	deleteRPCDialogYesSelected bool

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model with configuration from disk
func newModel(configPath string) model {
	cfg := config.LoadOrCreate(configPath)

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	m := model{
		activePage:   config.PageHome,
		cfg:          cfg,
		configPath:   configPath,
		session:      wallet.NewSession(),
		spin:         sp,
		invoiceMode:  "list",
		notes:        make(map[string]store.Metadata),
		settingsMode: "list",
		homeForm:     home.CreateForm(),
		logEnabled:   cfg.Logger,
		logViewport:  vp,
		logBuffer:    &strings.Builder{},
		logSpinner:   logSpin,
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		m.storeErr = err.Error()
	} else {
		m.store = st
	}

	m.rebuildBridge()
	return m
}

// rebuildBridge creates the bridge for the current config
func (m *model) rebuildBridge() {
	b, err := wallet.NewBridge(m.cfg.Bridge, m.cfg.ActiveRPC(), m.cfg.ChainIDBig(), m.cfg.KeyEnv)
	if err != nil {
		m.bridge = nil
		m.bridgeErr = err.Error()
		return
	}
	m.bridge = b
	m.bridgeErr = ""
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if url := m.cfg.ActiveRPC(); url != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(url))
	}
	return tea.Batch(cmds...)
}

// account returns the connected address, or "" while no wallet is connected
func (m *model) account() string {
	st := m.session.State()
	if st.Status != wallet.Connected {
		return ""
	}
	return st.Account
}

// bridgeLabel describes the configured bridge for the wallet page
func (m *model) bridgeLabel() string {
	if m.bridgeErr != "" {
		return m.bridgeErr
	}
	label := fmt.Sprintf("%s via %s", m.cfg.Bridge, m.cfg.ActiveRPC())
	if m.cfg.Bridge == wallet.BridgeKey {
		label += " ($" + m.cfg.KeyEnv + ")"
	}
	return label
}
