package rpc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mdp/qrterminal/v3"
)

// InvoicePaymentURI builds an EIP-681 URI that calls payInvoice(id) on contract with value wei
func InvoicePaymentURI(contract common.Address, chainID *big.Int, id *big.Int, wei *big.Int) string {
	chain := ""
	if chainID != nil && chainID.Sign() > 0 {
		chain = "@" + chainID.String()
	}
	value := "0"
	if wei != nil {
		value = wei.String()
	}
	invoiceID := "0"
	if id != nil {
		invoiceID = id.String()
	}
	return fmt.Sprintf("ethereum:%s%s/payInvoice?uint256=%s&value=%s", contract.Hex(), chain, invoiceID, value)
}

// GenerateQRCode renders content as a half-block terminal QR code
func GenerateQRCode(content string) string {
	if content == "" {
		return ""
	}
	var sb strings.Builder
	qrterminal.GenerateHalfBlock(content, qrterminal.L, &sb)
	return sb.String()
}
