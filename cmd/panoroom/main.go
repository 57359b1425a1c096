// Command panoroom opens the panoramic exhibition room or inspects its
// hotspot layout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/phanxgames/panoroom"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	hotspotsPath string
	assetBase    string
	scriptPath   string
	screenshots  string
	debug        bool
	showHUD      bool
	width        int
	height       int
)

func main() {
	cmd := &cobra.Command{
		Use:   "panoroom",
		Short: "Interactive panoramic room",
		Long: `panoroom - Interactive panoramic room

Six walls of artwork with clickable hotspots. Point at a wall to highlight
a hotspot, click to fly in, press Escape to fly back.

Controls:
  Mouse drag        - Look around
  Right drag        - Pan
  Scroll            - Zoom in/out
  Click a hotspot   - Focus
  Esc               - Return to the room`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	cmd.PersistentFlags().StringVar(&hotspotsPath, "hotspots", "", "Path to a JSON hotspot table")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the room in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	runCmd.Flags().StringVar(&assetBase, "assets", "", "Asset base directory or URL (overrides config)")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "JSON test script to run, exiting when done")
	runCmd.Flags().StringVar(&screenshots, "screenshots", "screenshots", "Directory for script screenshots")
	runCmd.Flags().BoolVar(&debug, "debug", false, "Log state changes and frame stats to stderr")
	runCmd.Flags().BoolVar(&showHUD, "hud", false, "Show camera state and FPS")
	runCmd.Flags().IntVar(&width, "width", 1280, "Window width")
	runCmd.Flags().IntVar(&height, "height", 720, "Window height")

	hotspotsCmd := &cobra.Command{
		Use:   "hotspots",
		Short: "Print every hotspot's wall, stacking and placement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printHotspots(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(runCmd, hotspotsCmd)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadInputs() (panoroom.Config, panoroom.HotspotTable, error) {
	cfg := panoroom.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = panoroom.LoadConfig(configPath)
		if err != nil {
			return cfg, nil, err
		}
	}
	table := panoroom.DefaultHotspotTable()
	if hotspotsPath != "" {
		data, err := os.ReadFile(hotspotsPath)
		if err != nil {
			return cfg, nil, fmt.Errorf("read hotspots: %w", err)
		}
		table, err = panoroom.LoadHotspotTable(data)
		if err != nil {
			return cfg, nil, err
		}
	}
	return cfg, table, nil
}

func run() error {
	cfg, table, err := loadInputs()
	if err != nil {
		return err
	}
	if assetBase != "" {
		cfg.Assets.BaseURL = assetBase
	}

	scene, err := panoroom.NewScene(cfg, table)
	if err != nil {
		return err
	}
	scene.ScreenshotDir = screenshots
	scene.OnSelect(func(id string) {
		fmt.Printf("selected %s\n", id)
	})
	scene.OnRestore(func() {
		fmt.Println("restored")
	})

	var runner *panoroom.TestRunner
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err = panoroom.LoadTestScript(data)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scene.LoadAssets(ctx)

	return panoroom.Run(scene, panoroom.RunConfig{
		Title:   "panoroom",
		Width:   width,
		Height:  height,
		ShowFPS: showHUD,
		Debug:   debug,
		Script:  runner,
	})
}

func printHotspots(out io.Writer) error {
	cfg, table, err := loadInputs()
	if err != nil {
		return err
	}
	reg, err := panoroom.NewRegistry(cfg.Mapper(), table)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWALL\tRANK\tZBIAS\tCENTER\tSIZE\tREPEAT\tOFFSET")
	for _, h := range reg.All() {
		p := h.WorldPosition()
		pl := h.Placement
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t(%.2f, %.2f, %.2f)\t%.2fx%.2f\t(%.3f, %.3f)\t(%.3f, %.3f)\n",
			h.ID, h.Wall, h.Rank, h.ZBias,
			p.X, p.Y, p.Z,
			pl.Size.X, pl.Size.Y,
			pl.UV.Repeat.X, pl.UV.Repeat.Y,
			pl.UV.Offset.X, pl.UV.Offset.Y)
	}
	return tw.Flush()
}
