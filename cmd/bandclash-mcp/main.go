package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/bandclash/internal/config"
	bandmcp "github.com/peterkuimelis/bandclash/internal/mcp"
)

func main() {
	configFile := flag.String("config", "", "path to match settings YAML (defaults built in)")
	decks := flag.String("decks", "", "path to decks YAML file (overrides settings)")
	flag.Parse()

	settings := config.Default()
	if *configFile != "" {
		var err error
		if settings, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *decks != "" {
		settings.DecksFile = *decks
	}
	bandmcp.SetSettings(settings)

	s := server.NewMCPServer("bandclash", "1.0.0")
	bandmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
