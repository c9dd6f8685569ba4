// Command modgraph queries a graph bundle offline: dependency and ego views,
// search, filter statistics and module details.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
