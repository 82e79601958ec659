// Command annopack stores, inspects and processes annotated text packs.
package main

import (
	"os"

	"github.com/mesh-intelligence/annopack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
