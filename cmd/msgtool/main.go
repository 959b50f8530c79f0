// msgtool inspects and maintains the minitwit database from the command line.
package main

import (
	"fmt"
	"os"

	"minitwit/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
