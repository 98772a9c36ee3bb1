package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/taic/monitoring"
	"github.com/sarchlab/taic/taic"
	"github.com/sarchlab/taic/topology"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Discover controllers and serve the state inspector over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("topology")
		if path == "" {
			path = os.Getenv("TAIC_TOPOLOGY")
		}
		if path == "" {
			path = "topology.json"
		}

		platform, err := topology.LoadFile(path)
		if err != nil {
			return err
		}

		registry := taic.NewRegistry(platform.NumCPU())
		ctrls := taic.MakeDiscoverer().
			WithPlatform(platform).
			WithRegistry(registry).
			Discover()

		port, _ := cmd.Flags().GetInt("port")
		monitor := monitoring.NewMonitor().WithPortNumber(port)
		monitor.RegisterRegistry(registry)
		for _, c := range ctrls {
			monitor.RegisterController(c)
		}

		actualPort := monitor.StartServer()

		if open, _ := cmd.Flags().GetBool("open"); open {
			url := fmt.Sprintf("http://localhost:%d/api/registry", actualPort)
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
			}
		}

		select {}
	},
}

func init() {
	serveCmd.Flags().StringP("topology", "t", "",
		"topology JSON file (defaults to $TAIC_TOPOLOGY, then topology.json)")
	serveCmd.Flags().IntP("port", "p", 0, "port to serve on (0 picks one)")
	serveCmd.Flags().BoolP("open", "o", false, "open the inspector in a browser")
	rootCmd.AddCommand(serveCmd)
}
