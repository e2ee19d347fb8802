// Command sendeth serves the send-ETH card as a frame or in a terminal.
//
// The payment recipient is fixed at build time:
//
//	go build -ldflags "-X main.recipient=0x..." ./cmd/sendeth
//
// or, failing that, read from recipient.address in sendeth.yaml.
package main

import (
	"fmt"
	"os"
)

// recipient is set with -ldflags "-X main.recipient=0x...".
var recipient string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
