// Command noisecore is a headless driver for the engine: run a built-in
// demo Program against a chosen Backend for a bounded number of blocks,
// or list the built-in processor and backend kinds. It mirrors the
// teacher's cmd/phono command split (cmd/phono/main.go, list.go),
// upgraded from flag.FlagSet to cobra per this repo's CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "noisecore",
		Short: "noisecore is a headless driver for the audio VM core",
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newListCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
