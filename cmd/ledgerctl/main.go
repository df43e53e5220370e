// Command ledgerctl is the operator CLI for the activity ledger: it runs
// migrations, imports history files, repairs the stored ledger and prints
// totals or exports without going through the HTTP server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
