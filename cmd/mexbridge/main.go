// Command mexbridge drives an embedded runtime from the command line.
package main

import (
	"os"

	"github.com/mexbridge/mexbridge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
