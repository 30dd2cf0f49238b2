package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/logger"
	"github.com/capdeco/capdeco/internal/plugin"
)

var (
	shootMode   string
	shootRegion string

	shootCmd = &cobra.Command{
		Use:   "shoot",
		Short: "Take a screenshot through the plugin pipeline",
		Long: `Capture the screen, the active window or a region, run the capture
through the plugin pipeline (borders, sounds) and save it as PNG.`,
		Example: `  # Capture the whole screen
  capdeco shoot

  # Capture the focused window
  capdeco shoot --mode window

  # Capture a region
  capdeco shoot --mode region --region 100,100,800,600`,
		RunE: runShoot,
	}
)

func init() {
	rootCmd.AddCommand(shootCmd)
	shootCmd.Flags().StringVar(&shootMode, "mode", "fullscreen", "capture mode (fullscreen, window, region)")
	shootCmd.Flags().StringVar(&shootRegion, "region", "", "region as x,y,width,height")
}

func runShoot(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, true)

	mode := plugin.Mode(shootMode)
	switch mode {
	case plugin.ModeFullScreen, plugin.ModeWindow, plugin.ModeRegion:
	default:
		return fmt.Errorf("unknown capture mode %q", shootMode)
	}

	var reg *region
	if mode == plugin.ModeRegion {
		reg = &region{}
		if _, err := fmt.Sscanf(shootRegion, "%d,%d,%d,%d", &reg.x, &reg.y, &reg.w, &reg.h); err != nil {
			return fmt.Errorf("invalid --region %q, want x,y,width,height", shootRegion)
		}
	}

	p, err := newPipeline(cfg, false)
	if err != nil {
		return err
	}
	defer p.close()

	path, err := p.shoot(mode, reg)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
