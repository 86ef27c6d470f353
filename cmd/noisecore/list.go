package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noisecore/engine/processor"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "show built-in processor and backend kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Built-in processors:")
			for _, k := range []string{processor.KindNull, processor.KindGain, processor.KindMixer} {
				fmt.Printf("  %s\n", k)
			}
			fmt.Println("Built-in backends:")
			for _, k := range []string{"null", "wavfile", "datastream"} {
				fmt.Printf("  %s\n", k)
			}
			fmt.Println("  portaudio (only with the portaudio build tag; not available to run)")
			return nil
		},
	}
}
