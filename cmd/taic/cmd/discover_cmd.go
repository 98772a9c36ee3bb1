package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/taic/taic"
	"github.com/sarchlab/taic/topology"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Walk a topology file and report the discovered controllers",
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

		for _, c := range ctrls {
			fmt.Printf("%s: base %#x size %#x, %d group queues, %d local queues\n",
				c.Name(), c.Start(), c.Size(), c.GQNum(), c.LQNum())
		}

		for cpu := 0; cpu < registry.NumCPU(); cpu++ {
			for _, mode := range []taic.Mode{
				taic.ModeSupervisor, taic.ModeUser,
			} {
				c, ok := registry.Controller(cpu, mode)
				if !ok {
					fmt.Printf("cpu %d %s: no controller\n", cpu, mode)
					continue
				}

				fmt.Printf("cpu %d %s: %s\n", cpu, mode, c.Name())
			}
		}

		return nil
	},
}

func init() {
	discoverCmd.Flags().StringP("topology", "t", "",
		"topology JSON file (defaults to $TAIC_TOPOLOGY, then topology.json)")
	rootCmd.AddCommand(discoverCmd)
}
