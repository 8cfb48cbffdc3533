// Command deploy publishes the InvoiceContract from a compiled artifact.
//
// Usage
//
//	deploy --artifact out/InvoiceContract.json [--rpc URL] [--key-env VAR] [--save]
//
// The private key is read from the environment variable named by --key-env
// (WALLET_PRIVATE_KEY unless the config says otherwise). The deployer balance
// is checked against the estimated gas cost before anything is sent. With
// --save the resulting address is written back into the config file so the
// terminal UI picks it up on the next start.
package main
