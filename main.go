// ChessPlay - A chess game built with Ebitengine
package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/session"
	"github.com/hailam/chessplay/internal/storage"
	"github.com/hailam/chessplay/internal/ui"
)

var (
	whiteFlag  = flag.String("white", "", "who plays White: human or bot")
	blackFlag  = flag.String("black", "", "who plays Black: human or bot")
	depth      = flag.Int("depth", 0, "starting search depth")
	maxDepth   = flag.Int("maxdepth", 0, "starting hard ply limit")
	normOffset = flag.Int("norm-offset", 0, "pruning margin below the baseline score")
	randomize  = flag.Bool("randomize", true, "break ties between equal moves randomly")
	loadPath   = flag.String("load", "", "start from the replay of a record file")
	sound      = flag.Bool("sound", true, "play move sounds")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	store, err := storage.NewStorage()
	if err != nil {
		log.Warn().Err(err).Msg("storage unavailable; saving disabled")
	} else {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(); err != nil {
			log.Warn().Err(err).Msg("load-preferences")
		}
	}
	applyFlags(prefs)
	if store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Warn().Err(err).Msg("save-preferences")
		}
	}

	opts := session.Options{
		White:  prefs.WhitePlayer,
		Black:  prefs.BlackPlayer,
		Engine: prefs.EngineConfig(),
		Store:  store,
	}
	if dir, err := storage.GetGamesDir(); err == nil {
		opts.GamesDir = dir
	}

	game := ui.NewGame(opts, prefs.SoundEnabled)
	defer game.Close()
	if *loadPath != "" {
		if err := game.Session().LoadRecord(*loadPath); err != nil {
			log.Fatal().Err(err).Str("path", *loadPath).Msg("load record")
		}
	}

	log.Info().
		Str("white", prefs.WhitePlayer.String()).
		Str("black", prefs.BlackPlayer.String()).
		Int("depth", opts.Engine.Depth).
		Msg("starting")

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("ChessPlay")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}

// applyFlags overlays explicitly set flags on the stored preferences. The
// positional shorthands "b" (White is a bot) and "h" (Black is human) are
// accepted as well.
func applyFlags(prefs *storage.Preferences) {
	for _, arg := range flag.Args() {
		switch arg {
		case "b":
			prefs.WhitePlayer = storage.Bot
		case "h":
			prefs.BlackPlayer = storage.Human
		}
	}

	flag.Visit(func(f *flag.Flag) {
		var err error
		switch f.Name {
		case "white":
			prefs.WhitePlayer, err = storage.ParsePlayerType(*whiteFlag)
		case "black":
			prefs.BlackPlayer, err = storage.ParsePlayerType(*blackFlag)
		case "depth":
			prefs.Depth = *depth
		case "maxdepth":
			prefs.MaxDepth = *maxDepth
		case "norm-offset":
			prefs.NormOffset = *normOffset
		case "randomize":
			prefs.Randomize = *randomize
		case "sound":
			prefs.SoundEnabled = *sound
		}
		if err != nil {
			log.Fatal().Err(err).Str("flag", f.Name).Msg("bad flag")
		}
	})
}
