// Halo - hop-distance and rule-based style engine for graph views.
//
// Halo computes per-node and per-edge visual styles from the graph's
// distance to the focused node and a prioritized set of pattern
// rules, and hands the resolved style tables to a renderer.
package main

import (
	"fmt"
	"os"

	"github.com/halo-viz/halo-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
