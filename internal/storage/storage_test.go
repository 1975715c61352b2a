package storage

import (
	"errors"
	"os"
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.WhitePlayer != Human || prefs.BlackPlayer != Bot {
			t.Errorf("default players = %s/%s, want human/bot", prefs.WhitePlayer, prefs.BlackPlayer)
		}
		cfg := prefs.EngineConfig()
		if cfg.Depth != 4 || cfg.MaxDepth != 5 || cfg.NormOffset != 320 || !cfg.Randomize {
			t.Errorf("unexpected engine config %+v", cfg)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		s := openTemp(t)

		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if prefs.Depth != 4 {
			t.Errorf("empty database should yield defaults, got depth %d", prefs.Depth)
		}

		prefs.WhitePlayer = Bot
		prefs.Depth = 2
		prefs.Randomize = false
		if err := s.SavePreferences(prefs); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}

		got, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if got.WhitePlayer != Bot || got.Depth != 2 || got.Randomize {
			t.Errorf("loaded %+v", got)
		}
		if got.Player(board.White) != Bot || got.Player(board.Black) != Bot {
			t.Error("Player() does not match the stored types")
		}
		if cfg := got.EngineConfig(); cfg.Depth != 2 || cfg.Randomize {
			t.Errorf("EngineConfig ignored preferences: %+v", cfg)
		}
	})
}

func TestParsePlayerType(t *testing.T) {
	tests := []struct {
		in      string
		want    PlayerType
		wantErr bool
	}{
		{"human", Human, false},
		{"h", Human, false},
		{"BOT", Bot, false},
		{"b", Bot, false},
		{"robot", Human, true},
	}
	for _, tc := range tests {
		got, err := ParsePlayerType(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParsePlayerType(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestGames(t *testing.T) {
	s := openTemp(t)
	moves := []board.Move{board.NewMove(52, 36), board.NewMove(12, 28), board.NewMove(62, 45)}

	if err := s.SaveGame("opening", moves); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame("empty", nil); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	got, err := s.LoadGame("opening")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if len(got) != len(moves) {
		t.Fatalf("loaded %d moves, want %d", len(got), len(moves))
	}
	for i := range moves {
		if got[i] != moves[i] {
			t.Errorf("move %d = %s, want %s", i, got[i], moves[i])
		}
	}

	names, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(names) != 2 || names[0] != "empty" || names[1] != "opening" {
		t.Errorf("ListGames = %v", names)
	}

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}

	if err := s.DeleteGame("opening"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.LoadGame("opening"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("deleted game still loads: %v", err)
	}
}

func TestStats(t *testing.T) {
	s := openTemp(t)

	results := []MatchResult{
		{Outcome: WhiteWon, White: Human, Black: Bot, Plies: 40},
		{Outcome: BlackWon, White: Human, Black: Bot, Plies: 61},
		{Outcome: Unfinished, White: Bot, Black: Bot, Plies: 10},
	}
	for _, r := range results {
		if err := s.RecordMatch(r); err != nil {
			t.Fatalf("RecordMatch: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 3 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Unfinished != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.WinsByPlayer["human"] != 1 || stats.WinsByPlayer["bot"] != 1 {
		t.Errorf("wins by player = %v", stats.WinsByPlayer)
	}
	if stats.LongestGame != 61 || stats.AveragePlies() != 37 {
		t.Errorf("longest %d, average %.2f", stats.LongestGame, stats.AveragePlies())
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	gamesDir, err := GetGamesDir()
	if err != nil {
		t.Fatalf("GetGamesDir failed: %v", err)
	}
	if _, err := os.Stat(gamesDir); os.IsNotExist(err) {
		t.Errorf("Games directory was not created: %s", gamesDir)
	}
}
