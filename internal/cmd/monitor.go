package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func init() {
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "live terminal view of a running navhub's sources and outputs",
		RunE:  runMonitor,
	}
	CMD.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(newMonitorModel(apiAddr))
	_, err := p.Run()
	return err
}

type statusTickMsg statusBody
type statusErrMsg error

type monitorModel struct {
	addr    string
	status  statusBody
	lastErr error
}

func newMonitorModel(addr string) monitorModel {
	return monitorModel{addr: addr}
}

func (m monitorModel) Init() tea.Cmd {
	return pollStatus(m.addr)
}

func pollStatus(addr string) tea.Cmd {
	return func() tea.Msg {
		resp, err := http.Get(addr + "/status")
		if err != nil {
			return statusErrMsg(err)
		}
		defer resp.Body.Close()

		var body statusBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return statusErrMsg(err)
		}
		return statusTickMsg(body)
	}
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case statusTickMsg:
		m.status = statusBody(msg)
		m.lastErr = nil
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return pollStatus(m.addr)() })
	case statusErrMsg:
		m.lastErr = msg
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return pollStatus(m.addr)() })
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m monitorModel) View() string {
	if m.lastErr != nil {
		return errStyle.Render(fmt.Sprintf("navhub monitor: %v (retrying)\n", m.lastErr))
	}

	out := headerStyle.Render(fmt.Sprintf("navhub monitor — %s", m.addr)) + "\n\n"
	out += headerStyle.Render("Sources") + "\n"
	for _, s := range m.status.Sources {
		out += rowStyle.Render(fmt.Sprintf("  %-16s %-10s enabled=%v", s.ID, s.Variant, s.Enabled)) + "\n"
	}
	out += "\n" + headerStyle.Render("Outputs") + "\n"
	for _, o := range m.status.Outputs {
		out += rowStyle.Render(fmt.Sprintf("  %-16s %-10s enabled=%v multiplex-all=%v", o.ID, o.Variant, o.Enabled, o.MultiplexAll)) + "\n"
	}
	out += "\n(press q to quit)\n"
	return out
}
