package contract

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// InvoiceABI is the interface of the deployed InvoiceContract
const InvoiceABI = `[
  {"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
  {"type":"function","name":"createInvoice","stateMutability":"nonpayable",
   "inputs":[{"name":"payer","type":"address"},{"name":"amount","type":"uint256"},{"name":"description","type":"string"}],
   "outputs":[{"name":"id","type":"uint256"}]},
  {"type":"function","name":"payInvoice","stateMutability":"payable",
   "inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"cancelInvoice","stateMutability":"nonpayable",
   "inputs":[{"name":"id","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getInvoice","stateMutability":"view",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[{"name":"issuer","type":"address"},{"name":"payer","type":"address"},{"name":"amount","type":"uint256"},
              {"name":"description","type":"string"},{"name":"status","type":"uint8"},{"name":"createdAt","type":"uint256"}]},
  {"type":"function","name":"invoiceCount","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"InvoiceCreated","anonymous":false,
   "inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"issuer","type":"address","indexed":true},
             {"name":"payer","type":"address","indexed":true},{"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"InvoicePaid","anonymous":false,
   "inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"payer","type":"address","indexed":true},
             {"name":"amount","type":"uint256","indexed":false}]},
  {"type":"event","name":"InvoiceCancelled","anonymous":false,
   "inputs":[{"name":"id","type":"uint256","indexed":true}]}
]`

var parsedInvoiceABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(InvoiceABI))
})

// ParsedABI returns the parsed InvoiceABI
func ParsedABI() abi.ABI {
	parsed, err := parsedInvoiceABI()
	if err != nil {
		// the ABI is a constant; failing here is a programming error
		panic("contract: invalid InvoiceABI: " + err.Error())
	}
	return parsed
}
