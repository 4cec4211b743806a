// Command nativeecma evaluates script fragments on a worker pool, from the
// command line or as an MCP tool server over stdio.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
