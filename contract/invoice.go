package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"invoice-wallet-tui/rpc"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// InvoiceStatus mirrors the contract's status enum
type InvoiceStatus uint8

const (
	StatusOpen InvoiceStatus = iota
	StatusPaid
	StatusCancelled
)

func (s InvoiceStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusPaid:
		return "paid"
	case StatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Invoice is one invoice as stored on chain
type Invoice struct {
	ID          *big.Int       `json:"id"`
	Issuer      common.Address `json:"issuer"`
	Payer       common.Address `json:"payer"`
	Amount      *big.Int       `json:"amount"`
	Description string         `json:"description"`
	Status      InvoiceStatus  `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

var (
	ErrNoContract    = errors.New("no contract address configured")
	ErrReadOnly      = errors.New("no wallet connected for sending transactions")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidPayer  = errors.New("payer address is required")
	ErrTxFailed      = errors.New("transaction failed")
)

// Caller executes read-only contract calls
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Sender submits transactions on behalf of the connected account
type Sender interface {
	SendTransaction(ctx context.Context, req rpc.TxRequest) (common.Hash, error)
}

// Client talks to one deployed InvoiceContract
type Client struct {
	Address common.Address

	abi    abi.ABI
	caller Caller
	sender Sender
}

// NewClient binds address. sender may be nil for a read-only client.
func NewClient(address common.Address, caller Caller, sender Sender) *Client {
	return &Client{Address: address, abi: ParsedABI(), caller: caller, sender: sender}
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	if c.Address == (common.Address{}) {
		return nil, ErrNoContract
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	to := c.Address
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s: empty result (is %s an InvoiceContract?)", method, c.Address.Hex())
	}
	res, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return res, nil
}

func (c *Client) transact(ctx context.Context, from common.Address, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	if c.Address == (common.Address{}) {
		return common.Hash{}, ErrNoContract
	}
	if c.sender == nil {
		return common.Hash{}, ErrReadOnly
	}
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack %s: %w", method, err)
	}
	to := c.Address
	hash, err := c.sender.SendTransaction(ctx, rpc.TxRequest{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: %w", method, err)
	}
	return hash, nil
}

// Count returns the number of invoices ever created
func (c *Client) Count(ctx context.Context) (*big.Int, error) {
	res, err := c.call(ctx, "invoiceCount")
	if err != nil {
		return nil, err
	}
	n, ok := res[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invoiceCount: unexpected type %T", res[0])
	}
	return n, nil
}

// Get reads invoice id
func (c *Client) Get(ctx context.Context, id *big.Int) (Invoice, error) {
	res, err := c.call(ctx, "getInvoice", id)
	if err != nil {
		return Invoice{}, err
	}
	if len(res) != 6 {
		return Invoice{}, fmt.Errorf("getInvoice: expected 6 values, got %d", len(res))
	}

	issuer, ok1 := res[0].(common.Address)
	payer, ok2 := res[1].(common.Address)
	amount, ok3 := res[2].(*big.Int)
	desc, ok4 := res[3].(string)
	status, ok5 := res[4].(uint8)
	created, ok6 := res[5].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
		return Invoice{}, fmt.Errorf("getInvoice: unexpected result types")
	}

	return Invoice{
		ID:          new(big.Int).Set(id),
		Issuer:      issuer,
		Payer:       payer,
		Amount:      amount,
		Description: desc,
		Status:      InvoiceStatus(status),
		CreatedAt:   time.Unix(created.Int64(), 0),
	}, nil
}

// List returns up to limit invoices, newest first. Ids start at 1.
func (c *Client) List(ctx context.Context, limit int) ([]Invoice, error) {
	count, err := c.Count(ctx)
	if err != nil {
		return nil, err
	}

	var out []Invoice
	one := big.NewInt(1)
	for id := new(big.Int).Set(count); id.Sign() > 0; id.Sub(id, one) {
		if limit > 0 && len(out) >= limit {
			break
		}
		inv, err := c.Get(ctx, id)
		if err != nil {
			return out, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// Create issues an invoice from `from` to payer
func (c *Client) Create(ctx context.Context, from, payer common.Address, amount *big.Int, description string) (common.Hash, error) {
	if payer == (common.Address{}) {
		return common.Hash{}, ErrInvalidPayer
	}
	if amount == nil || amount.Sign() <= 0 {
		return common.Hash{}, ErrInvalidAmount
	}
	return c.transact(ctx, from, nil, "createInvoice", payer, amount, description)
}

// Pay settles invoice id, sending amount wei
func (c *Client) Pay(ctx context.Context, from common.Address, id, amount *big.Int) (common.Hash, error) {
	if amount == nil || amount.Sign() <= 0 {
		return common.Hash{}, ErrInvalidAmount
	}
	return c.transact(ctx, from, amount, "payInvoice", id)
}

// Cancel withdraws invoice id; only the issuer may do this
func (c *Client) Cancel(ctx context.Context, from common.Address, id *big.Int) (common.Hash, error) {
	return c.transact(ctx, from, nil, "cancelInvoice", id)
}

// InvoiceIDFromReceipt finds the id emitted by InvoiceCreated in receipt
func (c *Client) InvoiceIDFromReceipt(receipt *types.Receipt) (*big.Int, error) {
	ev, ok := c.abi.Events["InvoiceCreated"]
	if !ok {
		return nil, fmt.Errorf("abi has no InvoiceCreated event")
	}
	for _, l := range receipt.Logs {
		if l.Address != c.Address || len(l.Topics) < 2 || l.Topics[0] != ev.ID {
			continue
		}
		return new(big.Int).SetBytes(l.Topics[1].Bytes()), nil
	}
	return nil, fmt.Errorf("no InvoiceCreated event in receipt %s", receipt.TxHash.Hex())
}

// WaitCreated waits for a createInvoice transaction and returns the new invoice id
func (c *Client) WaitCreated(ctx context.Context, b rpc.ReceiptBackend, hash common.Hash) (*big.Int, error) {
	receipt, err := c.Wait(ctx, b, hash)
	if err != nil {
		return nil, err
	}
	return c.InvoiceIDFromReceipt(receipt)
}

// Wait waits for hash to be mined and fails if it reverted
func (c *Client) Wait(ctx context.Context, b rpc.ReceiptBackend, hash common.Hash) (*types.Receipt, error) {
	receipt, err := rpc.WaitReceipt(ctx, b, hash, time.Second)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s reverted", ErrTxFailed, hash.Hex())
	}
	return receipt, nil
}
