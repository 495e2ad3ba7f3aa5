// Command stratagem runs structured generation, framework ranking and
// visualization validation from the command line, and hosts the Temporal worker.
package main

import (
	"fmt"
	"os"

	"github.com/ahrav/go-stratagem/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stratagem:", err)
		os.Exit(1)
	}
}
