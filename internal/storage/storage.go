package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/record"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned by LoadGame for an unknown name.
var ErrGameNotFound = errors.New("storage: game not found")

// PlayerType says who moves for one colour.
type PlayerType int

const (
	Human PlayerType = iota
	Bot
)

// String returns the flag spelling of the player type.
func (p PlayerType) String() string {
	if p == Bot {
		return "bot"
	}
	return "human"
}

// ParsePlayerType parses "human"/"h" or "bot"/"b".
func ParsePlayerType(s string) (PlayerType, error) {
	switch strings.ToLower(s) {
	case "human", "h":
		return Human, nil
	case "bot", "b", "cpu":
		return Bot, nil
	}
	return Human, fmt.Errorf("unknown player type %q", s)
}

// Preferences stores user settings
type Preferences struct {
	WhitePlayer  PlayerType `json:"white_player"`
	BlackPlayer  PlayerType `json:"black_player"`
	Depth        int        `json:"depth"`
	MaxDepth     int        `json:"max_depth"`
	NormOffset   int        `json:"norm_offset"`
	Randomize    bool       `json:"randomize"`
	SoundEnabled bool       `json:"sound_enabled"`
	LastPlayed   time.Time  `json:"last_played"`
}

// DefaultPreferences returns default preferences: a human plays White
// against the bot with the standard search settings.
func DefaultPreferences() *Preferences {
	cfg := engine.DefaultConfig()
	return &Preferences{
		WhitePlayer:  Human,
		BlackPlayer:  Bot,
		Depth:        cfg.Depth,
		MaxDepth:     cfg.MaxDepth,
		NormOffset:   cfg.NormOffset,
		Randomize:    cfg.Randomize,
		SoundEnabled: true,
		LastPlayed:   time.Now(),
	}
}

// Player returns the player type for c.
func (p *Preferences) Player(c board.Color) PlayerType {
	if c == board.White {
		return p.WhitePlayer
	}
	return p.BlackPlayer
}

// EngineConfig overlays the stored search settings on the defaults.
func (p *Preferences) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if p.Depth > 0 {
		cfg.Depth = p.Depth
	}
	if p.MaxDepth > 0 {
		cfg.MaxDepth = p.MaxDepth
	}
	if p.NormOffset != 0 {
		cfg.NormOffset = p.NormOffset
	}
	cfg.Randomize = p.Randomize
	return cfg
}

// Outcome is how a finished or abandoned game ended.
type Outcome int

const (
	Unfinished Outcome = iota
	WhiteWon
	BlackWon
)

// MatchResult represents the result of a completed game
type MatchResult struct {
	Outcome  Outcome
	White    PlayerType
	Black    PlayerType
	Plies    int
	Duration time.Duration
}

// Stats stores game statistics
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Unfinished    int            `json:"unfinished"`
	WinsByPlayer  map[string]int `json:"wins_by_player"`
	TotalPlies    int            `json:"total_plies"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	LongestGame   int            `json:"longest_game"`
}

// NewStats returns empty game statistics
func NewStats() *Stats {
	return &Stats{
		WinsByPlayer: make(map[string]int),
	}
}

// AveragePlies returns the mean game length in plies.
func (s *Stats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens (or creates) the database in dir.
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes key into v and reports whether the key existed.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *Stats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()
	_, err := s.getJSON(keyStats, stats)
	if stats.WinsByPlayer == nil {
		stats.WinsByPlayer = make(map[string]int)
	}
	return stats, err
}

// RecordMatch records a game and updates statistics
func (s *Storage) RecordMatch(result MatchResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += result.Plies
	stats.TotalPlayTime += result.Duration
	if result.Plies > stats.LongestGame {
		stats.LongestGame = result.Plies
	}

	switch result.Outcome {
	case WhiteWon:
		stats.WhiteWins++
		stats.WinsByPlayer[result.White.String()]++
	case BlackWon:
		stats.BlackWins++
		stats.WinsByPlayer[result.Black.String()]++
	default:
		stats.Unfinished++
	}

	return s.SaveStats(stats)
}

// SaveGame stores moves under name in record format, replacing any game
// with the same name.
func (s *Storage) SaveGame(name string, moves []board.Move) error {
	var buf bytes.Buffer
	if err := record.Write(&buf, moves); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(gamePrefix+name), buf.Bytes())
	})
}

// LoadGame returns the moves stored under name.
func (s *Storage) LoadGame(name string) ([]board.Move, error) {
	var moves []board.Move
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%q: %w", name, ErrGameNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			moves, err = record.Read(bytes.NewReader(val))
			return err
		})
	})
	return moves, err
}

// DeleteGame removes the game stored under name.
func (s *Storage) DeleteGame(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gamePrefix + name))
	})
}

// ListGames returns the names of all saved games in key order.
func (s *Storage) ListGames() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(gamePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, gamePrefix))
		}
		return nil
	})
	return names, err
}
