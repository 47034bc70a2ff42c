package main

import (
	"fmt"
	"os"

	_ "github.com/tangaroa/navhub/internal/logging"

	"github.com/tangaroa/navhub/internal/cmd"
)

func main() {
	if err := cmd.CMD.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
