package status

import (
	"strings"
	"testing"

	"invoice-wallet-tui/wallet"
)

func TestVariantFor(t *testing.T) {
	tests := []struct {
		state wallet.State
		want  Variant
	}{
		{wallet.State{Status: wallet.Idle}, None},
		{wallet.State{Status: wallet.Connecting}, Spinner},
		{wallet.State{Status: wallet.Error, Err: "user rejected"}, ErrorBanner},
		{wallet.State{Status: wallet.Connected, Account: "0xABC"}, ConnectedBadge},
	}
	for _, tt := range tests {
		if got := VariantFor(tt.state); got != tt.want {
			t.Errorf("VariantFor(%s) = %d, want %d", tt.state.Status, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	if got := Render(wallet.State{Status: wallet.Idle}, "|"); got != "" {
		t.Errorf("Idle should render nothing, got %q", got)
	}
	if got := Render(wallet.State{Status: wallet.Connecting}, "<spin>"); !strings.Contains(got, "<spin>") {
		t.Errorf("Connecting should show the spinner, got %q", got)
	}
	if got := Render(wallet.State{Status: wallet.Error, Err: "user rejected"}, ""); !strings.Contains(got, "user rejected") {
		t.Errorf("Error should show the message, got %q", got)
	}
	if got := Render(wallet.State{Status: wallet.Connected, Account: "0xABC"}, ""); !strings.Contains(got, "0xABC") {
		t.Errorf("Connected should show the account, got %q", got)
	}
}

func TestBadge(t *testing.T) {
	if got := Badge(wallet.State{}, ""); !strings.Contains(got, "not connected") {
		t.Errorf("Unexpected idle badge %q", got)
	}
	acct := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	if got := Badge(wallet.State{Status: wallet.Connected, Account: acct}, ""); !strings.Contains(got, "0xf39F…2266") {
		t.Errorf("Connected badge should show the short address, got %q", got)
	}
}
