package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	configFile := flag.String("config", "", "path to match settings YAML (defaults built in)")
	decksFile := flag.String("decks", "", "path to decks YAML file (overrides settings)")
	flag.Parse()

	settings := config.Default()
	if *configFile != "" {
		var err error
		if settings, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *decksFile != "" {
		settings.DecksFile = *decksFile
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv, err := web.NewServer(settings, logger)
	if err != nil {
		logger.Fatal("create server", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("bandclash web UI listening", zap.String("url", fmt.Sprintf("http://localhost:%d", *port)))
	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
