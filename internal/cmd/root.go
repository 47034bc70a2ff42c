// Package cmd is the navhub CLI: serve runs the hub in this process; status,
// sim, and monitor are thin HTTP clients against a running serve instance's
// optional httpapi surface, in the same spirit as cli/ec.go's subcommands
// against a running world server.
package cmd

import (
	"github.com/spf13/cobra"
)

// CMD is the root command every subcommand in this package registers onto.
var CMD = &cobra.Command{
	Use:   "navhub",
	Short: "marine navigation hub",
}

var apiAddr string

func init() {
	CMD.PersistentFlags().StringVar(&apiAddr, "addr", "http://localhost:8080", "navhub httpapi address")
}
