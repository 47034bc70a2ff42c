package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tangaroa/navhub/internal/config"
)

var simOutputFormat string

func init() {
	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "inspect the simulator configuration of a running navhub",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the running simulator configuration",
		RunE:  runSimShow,
	}
	showCmd.Flags().StringVarP(&simOutputFormat, "output", "o", "table", "output format: table, yaml, json")

	simCmd.AddCommand(showCmd)
	CMD.AddCommand(simCmd)
}

// simulatorSourceConfig is the enabled SIMULATOR source configuration
// "serve --simulator" applies at startup.
func simulatorSourceConfig() config.SourceConfig {
	return config.SourceConfig{
		ID:      config.SimulatorSourceID,
		Name:    "Simulator",
		Enabled: true,
		Variant: config.SourceSimulator,
	}
}

func fetchSimulatorConfig() (config.SimulatorConfig, error) {
	resp, err := http.Get(apiAddr + "/status")
	if err != nil {
		return config.SimulatorConfig{}, fmt.Errorf("sim show: fetch status: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Simulator config.SimulatorConfig `json:"simulator"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return config.SimulatorConfig{}, fmt.Errorf("sim show: decode status: %w", err)
	}
	return body.Simulator, nil
}

func runSimShow(cmd *cobra.Command, args []string) error {
	sim, err := fetchSimulatorConfig()
	if err != nil {
		return err
	}

	switch simOutputFormat {
	case "yaml":
		out, err := yaml.Marshal(sim)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "json":
		out, err := json.MarshalIndent(sim, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		tbl := table.New("Stage", "Enabled", "Period (ms)")
		tbl.AddRow("GPS", sim.GPSEnabled, sim.GPSPeriodMS)
		tbl.AddRow("Wind", sim.WindEnabled, sim.WindPeriodMS)
		tbl.AddRow("Water", sim.WaterEnabled, sim.WaterPeriodMS)
		tbl.AddRow("AIS", sim.AISEnabled, fmt.Sprintf("per target (%d targets)", len(sim.AISTargets)))
		tbl.Print()
	}
	return nil
}
