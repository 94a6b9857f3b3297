// Command fmsboard serves the message board and the FMS result report.
package main

import (
	"os"

	"github.com/leapstack-labs/fmsboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
