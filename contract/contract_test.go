package contract

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	contractAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	issuer       = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	payer        = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

// fakeChain serves invoiceCount/getInvoice from an in-memory list
type fakeChain struct {
	t        *testing.T
	invoices []Invoice
	sent     []rpc.TxRequest
}

func (f *fakeChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	parsed := ParsedABI()
	method, err := parsed.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case "invoiceCount":
		return method.Outputs.Pack(big.NewInt(int64(len(f.invoices))))
	case "getInvoice":
		args, err := method.Inputs.Unpack(call.Data[4:])
		if err != nil {
			return nil, err
		}
		id := args[0].(*big.Int).Int64()
		if id < 1 || id > int64(len(f.invoices)) {
			return nil, errors.New("execution reverted: unknown invoice")
		}
		inv := f.invoices[id-1]
		return method.Outputs.Pack(inv.Issuer, inv.Payer, inv.Amount, inv.Description, uint8(inv.Status), big.NewInt(inv.CreatedAt.Unix()))
	}
	f.t.Fatalf("unexpected call to %s", method.Name)
	return nil, nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, req rpc.TxRequest) (common.Hash, error) {
	f.sent = append(f.sent, req)
	return common.BigToHash(big.NewInt(int64(len(f.sent)))), nil
}

func sampleChain(t *testing.T) *fakeChain {
	created := time.Unix(1_700_000_000, 0)
	return &fakeChain{t: t, invoices: []Invoice{
		{Issuer: issuer, Payer: payer, Amount: big.NewInt(1e18), Description: "design work", Status: StatusPaid, CreatedAt: created},
		{Issuer: issuer, Payer: payer, Amount: big.NewInt(5e17), Description: "hosting", Status: StatusOpen, CreatedAt: created.Add(time.Hour)},
	}}
}

func TestClientReads(t *testing.T) {
	chain := sampleChain(t)
	c := NewClient(contractAddr, chain, nil)
	ctx := context.Background()

	count, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count.Int64() != 2 {
		t.Errorf("Expected 2 invoices, got %s", count)
	}

	inv, err := c.Get(ctx, big.NewInt(2))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv.Description != "hosting" || inv.Status != StatusOpen || inv.Payer != payer {
		t.Errorf("Unexpected invoice %+v", inv)
	}
	if inv.Amount.Cmp(big.NewInt(5e17)) != 0 {
		t.Errorf("Unexpected amount %s", inv.Amount)
	}
	if !inv.CreatedAt.Equal(time.Unix(1_700_003_600, 0)) {
		t.Errorf("Unexpected created time %v", inv.CreatedAt)
	}

	list, err := c.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID.Int64() != 2 || list[1].ID.Int64() != 1 {
		t.Fatalf("Expected newest first, got %+v", list)
	}

	limited, err := c.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("List with limit: %v %v", limited, err)
	}
}

func TestClientWrites(t *testing.T) {
	chain := sampleChain(t)
	ctx := context.Background()

	if _, err := NewClient(contractAddr, chain, nil).Pay(ctx, payer, big.NewInt(1), big.NewInt(1)); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Expected ErrReadOnly, got %v", err)
	}

	c := NewClient(contractAddr, chain, chain)
	parsed := ParsedABI()

	if _, err := c.Create(ctx, issuer, payer, big.NewInt(1000), "consulting"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	req := chain.sent[0]
	if *req.To != contractAddr || req.From != issuer || req.Value != nil {
		t.Errorf("Unexpected create request %+v", req)
	}
	wantData, _ := parsed.Pack("createInvoice", payer, big.NewInt(1000), "consulting")
	if !bytes.Equal(req.Data, wantData) {
		t.Error("createInvoice calldata mismatch")
	}

	if _, err := c.Pay(ctx, payer, big.NewInt(2), big.NewInt(5e17)); err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if chain.sent[1].Value.Cmp(big.NewInt(5e17)) != 0 {
		t.Errorf("Pay should carry the invoice amount, got %s", chain.sent[1].Value)
	}

	if _, err := c.Cancel(ctx, issuer, big.NewInt(2)); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	wantCancel, _ := parsed.Pack("cancelInvoice", big.NewInt(2))
	if !bytes.Equal(chain.sent[2].Data, wantCancel) {
		t.Error("cancelInvoice calldata mismatch")
	}

	t.Run("validation", func(t *testing.T) {
		if _, err := c.Create(ctx, issuer, common.Address{}, big.NewInt(1), ""); !errors.Is(err, ErrInvalidPayer) {
			t.Errorf("Expected ErrInvalidPayer, got %v", err)
		}
		if _, err := c.Create(ctx, issuer, payer, big.NewInt(0), ""); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
		if _, err := NewClient(common.Address{}, chain, chain).Count(ctx); !errors.Is(err, ErrNoContract) {
			t.Errorf("Expected ErrNoContract, got %v", err)
		}
	})
}

func TestInvoiceIDFromReceipt(t *testing.T) {
	c := NewClient(contractAddr, nil, nil)
	ev := ParsedABI().Events["InvoiceCreated"]

	receipt := &types.Receipt{Logs: []*types.Log{
		{Address: common.HexToAddress("0x01"), Topics: []common.Hash{ev.ID, common.BigToHash(big.NewInt(99))}},
		{Address: contractAddr, Topics: []common.Hash{ev.ID, common.BigToHash(big.NewInt(7)), common.BytesToHash(issuer.Bytes())}},
	}}

	id, err := c.InvoiceIDFromReceipt(receipt)
	if err != nil {
		t.Fatalf("InvoiceIDFromReceipt failed: %v", err)
	}
	if id.Int64() != 7 {
		t.Errorf("Expected id 7, got %s", id)
	}

	if _, err := c.InvoiceIDFromReceipt(&types.Receipt{}); err == nil {
		t.Error("Expected error for receipt without event")
	}
}

func TestInvoiceStatusString(t *testing.T) {
	if StatusPaid.String() != "paid" || StatusCancelled.String() != "cancelled" || StatusOpen.String() != "open" {
		t.Error("Unexpected status names")
	}
	if !strings.HasPrefix(InvoiceStatus(9).String(), "status(") {
		t.Error("Unknown status should be printed numerically")
	}
}

func TestParseArtifact(t *testing.T) {
	hardhat := `{"contractName":"InvoiceContract","abi":[{"type":"constructor","inputs":[]}],"bytecode":"0x6001600c60003960016000f300"}`
	art, err := ParseArtifact([]byte(hardhat))
	if err != nil {
		t.Fatalf("ParseArtifact failed: %v", err)
	}
	if art.Name != "InvoiceContract" || len(art.Bytecode) != 13 {
		t.Errorf("Unexpected artifact %s / %d bytes", art.Name, len(art.Bytecode))
	}

	foundry := `{"abi":[],"bytecode":{"object":"0x6001600c60003960016000f300"}}`
	if art, err := ParseArtifact([]byte(foundry)); err != nil || len(art.Bytecode) != 13 {
		t.Fatalf("Foundry artifact: %v (%d bytes)", err, len(art.Bytecode))
	}

	bad := map[string]string{
		"no abi":         `{"bytecode":"0x00"}`,
		"empty bytecode": `{"abi":[],"bytecode":"0x"}`,
		"odd hex":        `{"abi":[],"bytecode":"0x123"}`,
		"not json":       `abi`,
	}
	for name, doc := range bad {
		if _, err := ParseArtifact([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
