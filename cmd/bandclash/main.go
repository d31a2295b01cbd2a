package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/bandclash/internal/config"
	"github.com/peterkuimelis/bandclash/internal/game"
	"github.com/peterkuimelis/bandclash/internal/log"
	bandnet "github.com/peterkuimelis/bandclash/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "sim":
		err = runSim(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  bandclash host [--config FILE] [--port P] [--difficulty D] [--enemy-deck N]")
	fmt.Println("  bandclash join [--addr ADDR] [--deck N] [--difficulty D]")
	fmt.Println("  bandclash play [--config FILE] [--deck N] [--difficulty D]")
	fmt.Println("  bandclash sim  [--config FILE] [--ally-ai D] [--games N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Serve a match against the AI to one TCP player")
	fmt.Println("  join    Connect to a host and play from this terminal")
	fmt.Println("  play    Play against the AI in this terminal")
	fmt.Println("  sim     Let two AI tiers play each other and print the log")
}

// settingsFlags registers the flags shared by the commands that build a match.
type settingsFlags struct {
	config     *string
	decks      *string
	difficulty *string
	deck       *int
	enemyDeck  *int
	seed       *int64
}

func addSettingsFlags(fs *flag.FlagSet) *settingsFlags {
	return &settingsFlags{
		config:     fs.String("config", "", "path to match settings YAML (defaults built in)"),
		decks:      fs.String("decks", "", "path to decks file (overrides settings)"),
		difficulty: fs.String("difficulty", "", "rival AI tier: beginner, normal or hard"),
		deck:       fs.Int("deck", 0, "ally deck number (from the decks file)"),
		enemyDeck:  fs.Int("enemy-deck", 0, "rival deck number (from the decks file)"),
		seed:       fs.Int64("seed", 0, "RNG seed (0 for random)"),
	}
}

// load reads the settings file, if any, and applies flag overrides.
func (f *settingsFlags) load() (*config.Match, error) {
	settings := config.Default()
	if *f.config != "" {
		var err error
		if settings, err = config.Load(*f.config); err != nil {
			return nil, err
		}
	}
	if *f.decks != "" {
		settings.DecksFile = *f.decks
	}
	if *f.difficulty != "" {
		settings.Difficulty = *f.difficulty
	}
	if *f.deck != 0 {
		settings.AllyDeck = *f.deck
	}
	if *f.enemyDeck != 0 {
		settings.EnemyDeck = *f.enemyDeck
	}
	if *f.seed != 0 {
		settings.Seed = *f.seed
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	sf := addSettingsFlags(fs)
	port := fs.String("port", "9000", "TCP port to listen on")
	verbose := fs.Bool("v", false, "log connection diagnostics to stderr")
	fs.Parse(args)

	settings, err := sf.load()
	if err != nil {
		return err
	}
	logger := zap.NewNop()
	if *verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}
	srv := &bandnet.Server{
		Settings: settings,
		Port:     *port,
		Logger:   logger,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 0, "deck number to use (0 = host's choice)")
	difficulty := fs.String("difficulty", "", "rival AI tier (empty = host's choice)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	join := bandnet.ClientMessage{DeckNumber: *deck, Difficulty: *difficulty}
	return bandnet.Connect(ctx, *addr, join, os.Stdin, os.Stdout)
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	sf := addSettingsFlags(fs)
	fs.Parse(args)

	settings, err := sf.load()
	if err != nil {
		return err
	}
	return bandnet.PlayLocal(ctx, settings, os.Stdin, os.Stdout)
}

func runSim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	sf := addSettingsFlags(fs)
	allyAI := fs.String("ally-ai", "normal", "AI tier playing the ally band")
	games := fs.Int("games", 1, "number of matches; more than one prints only the tally")
	fs.Parse(args)

	settings, err := sf.load()
	if err != nil {
		return err
	}
	allyLevel, err := game.ParseDifficulty(*allyAI)
	if err != nil {
		return fmt.Errorf("ally-ai: %w", err)
	}
	ally, enemy, err := settings.Decks()
	if err != nil {
		return err
	}

	tally := make(map[string]int)
	for i := 0; i < *games; i++ {
		roster, err := settings.Rosters()
		if err != nil {
			return err
		}
		eval, err := game.NewEvaluator(allyLevel)
		if err != nil {
			return err
		}
		cfg := settings.MatchConfig(ally, enemy)
		cfg.AllyAI = eval
		cfg.AIMoveDelay = 0
		if settings.Seed != 0 {
			cfg.Seed = settings.Seed + int64(i)
		}
		if *games == 1 {
			cfg.Logger = log.NewTextLogger(os.Stdout)
		}

		m, err := game.NewMatch(cfg, roster, game.NopDisplay{})
		if err != nil {
			return err
		}
		if err := m.Run(ctx); err != nil {
			return err
		}
		if winner, ok := m.Winner(); ok {
			tally[winner.String()]++
		} else {
			tally["Stalemate"]++
		}
	}

	fmt.Printf("\n%s (ally) vs %s (enemy), %d game(s)\n", allyLevel, settings.Difficulty, *games)
	for _, k := range []string{game.Ally.String(), game.Enemy.String(), "Stalemate"} {
		fmt.Printf("  %-9s %d\n", k, tally[k])
	}
	return nil
}
