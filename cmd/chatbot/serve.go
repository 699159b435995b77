package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/katakuxiko/agentchat/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ServerAddr = serveAddr
	}
	logger := newLogger(cfg)

	c, err := build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	app := fiber.New(fiber.Config{
		AppName:               "chatbot",
		BodyLimit:             32 << 20,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          2 * time.Minute,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
	})
	api.RegisterRoutes(app, api.Deps{
		Chat:       c.chat,
		Sessions:   c.sessions,
		Models:     c.llm,
		SalesDB:    c.sales,
		DefaultDoc: c.doc,
		UploadDir:  cfg.UploadDir,
		ChunkSize:  cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
		Log:        logger,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.ServerAddr).
			Str("env", cfg.Env).
			Str("model", c.llm.Model()).
			Msg("starting chatbot server")
		errc <- app.Listen(cfg.ServerAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
