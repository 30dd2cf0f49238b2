package commands

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/decor"
	"github.com/capdeco/capdeco/internal/logger"
)

var (
	decorateOutput string

	decorateCmd = &cobra.Command{
		Use:   "decorate FILE",
		Short: "Apply the configured border and shadow to an image file",
		Long: `Read a PNG, composite the configured border style and drop shadow
around it and write the decorated PNG next to the input (or to --output).`,
		Example: `  # Decorate in place, writes shot_decorated.png
  capdeco decorate shot.png

  # Explicit destination
  capdeco decorate shot.png --output framed.png`,
		Args: cobra.ExactArgs(1),
		RunE: runDecorate,
	}
)

func init() {
	rootCmd.AddCommand(decorateCmd)
	decorateCmd.Flags().StringVarP(&decorateOutput, "output", "o", "", "destination file (default: <input>_decorated.png)")
}

func runDecorate(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, true)

	style, err := cfg.Border.ToStyle()
	if err != nil {
		return fmt.Errorf("invalid border configuration: %w", err)
	}

	in := args[0]
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", in, err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", in, err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, img.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	out, err := decor.NewEngine().Decorate(rgba, style)
	if err != nil {
		return fmt.Errorf("compositing failed: %w", err)
	}

	dst := decorateOutput
	if dst == "" {
		ext := filepath.Ext(in)
		dst = strings.TrimSuffix(in, ext) + "_decorated.png"
	}

	df, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if err := png.Encode(df, out); err != nil {
		df.Close()
		return fmt.Errorf("failed to encode %s: %w", dst, err)
	}
	if err := df.Close(); err != nil {
		return err
	}

	fmt.Println(dst)
	return nil
}
