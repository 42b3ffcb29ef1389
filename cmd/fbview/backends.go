package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/flavioheleno/fbdev/doc"
)

func init() { rootCmd.AddCommand(backendsCmd) }

var backendsCmd = &cobra.Command{
	Use:   `backends`,
	Short: `list document backends`,
	Long:  `list the document backends built into fbview, in the order they are tried`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error { return listBackends(cmd.OutOrStdout()) })
	},
}

func listBackends(w io.Writer) error {
	for _, b := range doc.Backends() {
		if _, err := fmt.Fprintln(w, b.Name()); err != nil {
			return err
		}
	}
	return nil
}
