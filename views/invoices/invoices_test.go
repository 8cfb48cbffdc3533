package invoices

import (
	"math/big"
	"strings"
	"testing"

	"invoice-wallet-tui/contract"
	"invoice-wallet-tui/store"
	"invoice-wallet-tui/styles"

	"github.com/ethereum/go-ethereum/common"
)

func TestRender(t *testing.T) {
	issuer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	payer := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	list := []contract.Invoice{
		{ID: big.NewInt(2), Issuer: issuer, Payer: payer, Amount: big.NewInt(5e17), Description: "hosting", Status: contract.StatusOpen},
		{ID: big.NewInt(1), Issuer: issuer, Payer: payer, Amount: big.NewInt(1e18), Description: "design", Status: contract.StatusPaid},
	}
	notes := map[string]store.Metadata{"2": {Note: "net 30"}}

	out := Render(list, 0, issuer.Hex(), "0x5FbDB2315678afecb367f032d93F642f64180aa3", notes, false, "", "")
	for _, want := range []string{"#2", "#1", "0.500000 ETH", "open", "paid", "hosting", "[net 30]", "2 invoices"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}

	if out := Render(nil, 0, "", "", nil, false, "", ""); !strings.Contains(out, "No InvoiceContract configured") {
		t.Errorf("Missing contract hint, got %q", out)
	}
	if out := Render(nil, 0, "", "0x5FbDB2315678afecb367f032d93F642f64180aa3", nil, false, "rpc down", ""); !strings.Contains(out, "rpc down") {
		t.Errorf("Missing error message, got %q", out)
	}
}

func TestRenderPayment(t *testing.T) {
	inv := contract.Invoice{ID: big.NewInt(3), Amount: big.NewInt(1e18), Description: "consulting"}
	out := RenderPayment(inv, "ethereum:0xabc@31337/payInvoice?uint256=3&value=1000000000000000000", "QR", "Copied!")
	for _, want := range []string{"Pay invoice #3", "consulting", "payInvoice?uint256=3", "QR", "Copied!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		status contract.InvoiceStatus
		want   interface{}
		strike bool
	}{
		{contract.StatusOpen, styles.CWarn, false},
		{contract.StatusPaid, styles.CAccent, false},
		{contract.StatusCancelled, styles.CMuted, true},
	}
	for _, tt := range tests {
		st := statusStyle(tt.status)
		if st.GetForeground() != tt.want {
			t.Errorf("%s: expected foreground %v, got %v", tt.status, tt.want, st.GetForeground())
		}
		if st.GetStrikethrough() != tt.strike {
			t.Errorf("%s: strikethrough = %v", tt.status, st.GetStrikethrough())
		}
	}
}
