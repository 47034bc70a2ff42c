package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/tangaroa/navhub/internal/hub"
	"github.com/tangaroa/navhub/internal/httpapi"
	"github.com/tangaroa/navhub/internal/logging"
	"github.com/tangaroa/navhub/internal/metrics"
)

var (
	servePort      int
	serveOpen      bool
	serveSimulator bool
	serveVerbose   bool
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the navigation hub",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "httpapi listen port")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the status page in a browser on startup")
	serveCmd.Flags().BoolVar(&serveSimulator, "simulator", false, "enable and activate the SIMULATOR source on startup")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "enable debug-level logging")

	CMD.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveVerbose {
		logging.SetLevel(slog.LevelDebug)
	}

	h := hub.New()
	h.SetLogFunc(func(origin, sentence string) {
		fmt.Printf("%s %s\n", color.CyanString(origin), sentence)
	})
	h.Start()
	defer h.Stop()

	if serveSimulator {
		h.ApplySource(simulatorSourceConfig())
		h.SetSimulatorActive(true)
	}

	promHandler, err := metrics.InitPrometheus()
	if err != nil {
		return fmt.Errorf("serve: init prometheus: %w", err)
	}
	if err := metrics.Init(); err != nil {
		return fmt.Errorf("serve: init metrics: %w", err)
	}

	api := httpapi.New(h, promHandler)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", servePort))
	if err != nil {
		return fmt.Errorf("serve: listen: %w", err)
	}

	addr := fmt.Sprintf("http://localhost:%d", servePort)
	green := color.New(color.FgGreen)
	bold := color.New(color.Bold)
	fmt.Println()
	green.Print("  ➜ ")
	bold.Print("navhub ")
	fmt.Println("running at:")
	green.Print("  ➜ ")
	fmt.Printf("Local:   %s\n", addr)
	fmt.Println()

	if serveOpen {
		browser.OpenURL(addr + "/status")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- api.Serve(listener)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		return api.Shutdown()
	}
}
