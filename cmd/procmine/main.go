// Command procmine converts, summarises and mines process event logs.
//
// Usage:
//
//	procmine convert running-example.csv running-example.xes
//	procmine footprint running-example.csv
//	procmine discover running-example.csv --dot
//
// Run procmine --help for the full command list.
package main

import (
	"os"

	"github.com/roach88/procmine/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
