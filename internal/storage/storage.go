package storage

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Storage keys
const (
	keyPreferences  = "preferences"
	keyStats        = "stats"
	keyFirstLaunch  = "first_launch"
	keyResultPrefix = "result/"
)

// Game end reasons recorded with each result.
const (
	ReasonCheckmate = "checkmate"
	ReasonStalemate = "stalemate"
	ReasonResigned  = "resigned"
	ReasonDraw      = "draw"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string            `json:"username"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	PlayerColor board.Color       `json:"player_color"`
	LastPlayed  time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  engine.Normal,
		PlayerColor: board.White,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores aggregate game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	EndsByReason   map[string]int `json:"ends_by_reason"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDiff:   make(map[string]int),
		EndsByReason: make(map[string]int),
	}
}

// GameResult is the outcome of a completed game, from the human player's side.
type GameResult struct {
	GameID      uuid.UUID         `json:"game_id"`
	Won         bool              `json:"won"`
	Draw        bool              `json:"draw"`
	Reason      string            `json:"reason"`
	Difficulty  engine.Difficulty `json:"difficulty"`
	PlayerColor board.Color       `json:"player_color"`
	Moves       int               `json:"moves"`
	Duration    time.Duration     `json:"duration"`
	FinishedAt  time.Time         `json:"finished_at"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the database under dataDir. An empty dataDir
// selects the platform default. A nil logger discards output.
func Open(dataDir string, logger *zap.Logger) (*Storage, error) {
	dbDir, err := DatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return open(badger.DefaultOptions(dbDir), logger)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(logger *zap.Logger) (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = badgerLogger{logger.Named("badger").Sugar()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyPreferences, prefs)
		return err
	})
	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})
	return stats, err
}

// RecordGame stores the result and folds it into the statistics in one
// transaction. A result for a game ID that was already recorded replaces the
// earlier one, and the statistics are rebuilt from the stored results.
func (s *Storage) RecordGame(result GameResult) error {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}
	resultKey := keyResultPrefix + result.GameID.String()

	err := s.db.Update(func(txn *badger.Txn) error {
		var existing GameResult
		found, err := getJSON(txn, resultKey, &existing)
		if err != nil {
			return err
		}

		stats := NewGameStats()
		if found {
			results, err := readResults(txn)
			if err != nil {
				return err
			}
			for i := range results {
				if results[i].GameID == result.GameID {
					results[i] = result
				}
			}
			sort.Slice(results, func(i, j int) bool {
				return results[i].FinishedAt.Before(results[j].FinishedAt)
			})
			for _, r := range results {
				stats.apply(r)
			}
		} else {
			if _, err := getJSON(txn, keyStats, stats); err != nil {
				return err
			}
			stats.apply(result)
		}

		if err := setJSON(txn, resultKey, result); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("game recorded",
		zap.Stringer("game", result.GameID),
		zap.String("reason", result.Reason),
		zap.Bool("won", result.Won),
		zap.Bool("draw", result.Draw))
	return nil
}

// RecentResults returns up to limit results, most recent first.
// A limit of zero or less returns all of them.
func (s *Storage) RecentResults(limit int) ([]GameResult, error) {
	var results []GameResult

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		results, err = readResults(txn)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func readResults(txn *badger.Txn) ([]GameResult, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(keyResultPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var results []GameResult
	for it.Rewind(); it.Valid(); it.Next() {
		var r GameResult
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		}); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *GameStats) apply(result GameResult) {
	s.GamesPlayed++
	s.TotalPlayTime += result.Duration
	if result.Reason != "" {
		s.EndsByReason[result.Reason]++
	}

	switch {
	case result.Draw:
		s.Draws++
		s.CurrentStreak = 0
	case result.Won:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsByDiff[result.Difficulty.String()]++
	default:
		s.Losses++
		s.CurrentStreak = 0
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// getJSON decodes the value at key into v and reports whether it was present.
func getJSON(txn *badger.Txn, key string, v any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// badgerLogger routes badger's log output through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Warnf(format, args...)
}
