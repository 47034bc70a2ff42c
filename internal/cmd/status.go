package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/tangaroa/navhub/internal/config"
)

type statusBody struct {
	Sources []config.SourceConfig `json:"sources"`
	Outputs []config.OutputConfig `json:"outputs"`
}

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "list configured sources and outputs of a running navhub",
		RunE:  runStatus,
	}
	CMD.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := http.Get(apiAddr + "/status")
	if err != nil {
		return fmt.Errorf("status: fetch: %w", err)
	}
	defer resp.Body.Close()

	var body statusBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("status: decode: %w", err)
	}

	tbl := table.New("Source ID", "Variant", "Enabled")
	for _, s := range body.Sources {
		tbl.AddRow(s.ID, s.Variant, s.Enabled)
	}
	tbl.Print()

	fmt.Println()

	outTbl := table.New("Output ID", "Variant", "Enabled", "Multiplex-all")
	for _, o := range body.Outputs {
		outTbl.AddRow(o.ID, o.Variant, o.Enabled, o.MultiplexAll)
	}
	outTbl.Print()

	return nil
}
