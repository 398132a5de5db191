package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dbconsole/app"
	"dbconsole/config"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	utils.Log.Info("Initializing DB console...")

	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	utils.ConfigureLog(cfg.Server.LogLevel, cfg.Server.LogPretty)

	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	server, closeAll, err := app.Build(cfg)
	if err != nil {
		utils.Log.Error("Failed to initialize application: %v", err)
		os.Exit(1)
	}
	defer closeAll()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		utils.Log.Info("Shutting down...")
		if err := server.Shutdown(); err != nil {
			utils.Log.Error("Shutdown failed: %v", err)
		}
	}()

	if cfg.SSL.Enabled {
		if cfg.SSL.AutoRedirect {
			go redirectToHTTPS(cfg)
		}
		utils.Log.Info("Starting HTTPS server on port %d...", cfg.SSL.Port)
		err = server.ListenTLS(fmt.Sprintf(":%d", cfg.SSL.Port), cfg.SSL.CertFile, cfg.SSL.KeyFile)
	} else {
		utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
		err = server.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
	}
	if err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}

// redirectToHTTPS answers plain HTTP with a permanent redirect
func redirectToHTTPS(cfg *config.Config) {
	redirect := fiber.New(fiber.Config{DisableStartupMessage: true})
	redirect.Use(func(c *fiber.Ctx) error {
		host := cfg.SSL.Domain
		if host == "" {
			host = c.Hostname()
		}
		if cfg.SSL.Port != 443 {
			host = fmt.Sprintf("%s:%d", host, cfg.SSL.Port)
		}
		return c.Redirect("https://"+host+c.OriginalURL(), fiber.StatusMovedPermanently)
	})
	if err := redirect.Listen(fmt.Sprintf(":%d", cfg.SSL.HTTPPort)); err != nil {
		utils.Log.Error("HTTP redirect server failed: %v", err)
	}
}
