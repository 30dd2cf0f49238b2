package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/capdeco/capdeco/internal/api"
	"github.com/capdeco/capdeco/internal/config"
	"github.com/capdeco/capdeco/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the capdeco daemon",
	Long: `Start the capdeco daemon: the hotbar toolbar, the plugin pipeline and
the HTTP API for live border style editing.`,
	Example: `  # Start on default port (8080)
  capdeco serve

  # Start on custom port
  capdeco serve --port 9090

  # Start with debug logging
  capdeco serve --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}

	// Flag overrides
	if viper.IsSet("server_port") {
		if port := viper.GetInt("server_port"); port > 0 {
			configMgr.SetPort(port)
		}
	}
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			configMgr.SetLogLevel(level)
		}
	}

	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, true)
	log := logger.WithComponent("serve")
	log.Info().
		Str("config", configMgr.GetConfigPath()).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	server := api.NewServer(configMgr)

	p, err := newPipeline(cfg, true)
	if err != nil {
		return err
	}
	p.events = server.Events()
	defer p.close()

	go func() {
		if err := server.Start(cfg.ServerPort); err != nil {
			log.Fatal().
				Err(err).
				Msg("API server failed")
		}
	}()

	log.Info().
		Int("port", cfg.ServerPort).
		Msg("capdeco is running, press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down")
	return nil
}
