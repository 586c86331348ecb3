// Command statekit inspects and drives persisted state from the terminal.
package main

import (
	"os"

	"github.com/go-drift/statekit/cmd/statekit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
