// Command tablecheck validates tabular datasets against data contracts.
package main

import (
	"os"

	"github.com/tablecraft/contract/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
