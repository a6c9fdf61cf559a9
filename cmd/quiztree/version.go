package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/quiztree"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quiztree",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quiztree version %s\n", strings.TrimSpace(quiztree.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
