package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/testutil"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory(nil)
	testutil.AssertNoError(t, err, "OpenInMemory")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Difficulty != engine.Normal {
			t.Errorf("Expected normal difficulty, got %s", prefs.Difficulty)
		}
		if prefs.PlayerColor != board.White {
			t.Errorf("Expected white player color")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	testutil.AssertNoError(t, err, "IsFirstLaunch")
	testutil.AssertTrue(t, first, "fresh database is a first launch")

	testutil.AssertNoError(t, s.MarkFirstLaunchComplete(), "MarkFirstLaunchComplete")

	first, err = s.IsFirstLaunch()
	testutil.AssertNoError(t, err, "IsFirstLaunch")
	testutil.AssertFalse(t, first, "after MarkFirstLaunchComplete")
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	testutil.AssertNoError(t, err, "LoadPreferences")
	testutil.AssertEqual(t, prefs.Username, "Player", "default username")

	prefs.Username = "Ada"
	prefs.Difficulty = engine.Professional
	prefs.PlayerColor = board.Black
	testutil.AssertNoError(t, s.SavePreferences(prefs), "SavePreferences")

	loaded, err := s.LoadPreferences()
	testutil.AssertNoError(t, err, "LoadPreferences")
	testutil.AssertEqual(t, loaded.Username, "Ada", "username")
	testutil.AssertEqual(t, loaded.Difficulty, engine.Professional, "difficulty")
	testutil.AssertEqual(t, loaded.PlayerColor, board.Black, "player color")
	testutil.AssertFalse(t, loaded.LastPlayed.IsZero(), "LastPlayed set on save")
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)
	base := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

	results := []GameResult{
		{GameID: uuid.New(), Won: true, Reason: ReasonCheckmate, Difficulty: engine.Beginner, Moves: 30, Duration: time.Minute, FinishedAt: base},
		{GameID: uuid.New(), Won: true, Reason: ReasonResigned, Difficulty: engine.Normal, Moves: 41, Duration: 2 * time.Minute, FinishedAt: base.Add(time.Hour)},
		{GameID: uuid.New(), Reason: ReasonCheckmate, Difficulty: engine.Professional, Moves: 22, Duration: time.Minute, FinishedAt: base.Add(2 * time.Hour)},
		{GameID: uuid.New(), Draw: true, Reason: ReasonStalemate, Difficulty: engine.Normal, Moves: 60, Duration: 3 * time.Minute, FinishedAt: base.Add(3 * time.Hour)},
	}
	for _, r := range results {
		testutil.AssertNoError(t, s.RecordGame(r), "RecordGame")
	}

	// Recording the same result again replaces it instead of counting it twice.
	testutil.AssertNoError(t, s.RecordGame(results[0]), "RecordGame again")

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err, "LoadStats")

	want := &GameStats{
		GamesPlayed:    4,
		Wins:           2,
		Losses:         1,
		Draws:          1,
		WinsByDiff:     map[string]int{"beginner": 1, "normal": 1},
		EndsByReason:   map[string]int{ReasonCheckmate: 2, ReasonResigned: 1, ReasonStalemate: 1},
		TotalPlayTime:  7 * time.Minute,
		LongestWinStrk: 2,
		CurrentStreak:  0,
	}
	testutil.AssertEqual(t, stats, want, "stats")
	testutil.AssertEqual(t, stats.GetWinRate(), 50.0, "win rate")

	recent, err := s.RecentResults(2)
	testutil.AssertNoError(t, err, "RecentResults")
	if len(recent) != 2 {
		t.Fatalf("RecentResults(2) returned %d results", len(recent))
	}
	testutil.AssertEqual(t, recent[0].GameID, results[3].GameID, "most recent first")
	testutil.AssertEqual(t, recent[1].GameID, results[2].GameID, "second most recent")

	all, err := s.RecentResults(0)
	testutil.AssertNoError(t, err, "RecentResults(0)")
	testutil.AssertEqual(t, len(all), 4, "all results")
}

func TestRecordGameReplacesResult(t *testing.T) {
	s := openTest(t)
	base := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	id := uuid.New()

	earlier := GameResult{GameID: uuid.New(), Won: true, Reason: ReasonCheckmate, Difficulty: engine.Normal, Duration: time.Minute, FinishedAt: base}
	mate := GameResult{GameID: id, Won: true, Reason: ReasonCheckmate, Difficulty: engine.Beginner, Duration: time.Minute, FinishedAt: base.Add(time.Hour)}
	resigned := GameResult{GameID: id, Reason: ReasonResigned, Difficulty: engine.Beginner, Duration: 2 * time.Minute, FinishedAt: base.Add(2 * time.Hour)}

	testutil.AssertNoError(t, s.RecordGame(earlier), "RecordGame earlier")
	testutil.AssertNoError(t, s.RecordGame(mate), "RecordGame mate")
	testutil.AssertNoError(t, s.RecordGame(resigned), "RecordGame resigned")

	stats, err := s.LoadStats()
	testutil.AssertNoError(t, err, "LoadStats")

	want := &GameStats{
		GamesPlayed:    2,
		Wins:           1,
		Losses:         1,
		WinsByDiff:     map[string]int{"normal": 1},
		EndsByReason:   map[string]int{ReasonCheckmate: 1, ReasonResigned: 1},
		TotalPlayTime:  3 * time.Minute,
		LongestWinStrk: 1,
		CurrentStreak:  0,
	}
	testutil.AssertEqual(t, stats, want, "stats after replacement")

	all, err := s.RecentResults(0)
	testutil.AssertNoError(t, err, "RecentResults")
	testutil.AssertEqual(t, len(all), 2, "one result per game")
	testutil.AssertEqual(t, all[0].Reason, ReasonResigned, "replacement stored")
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, nil)
	testutil.AssertNoError(t, err, "Open")
	testutil.AssertNoError(t, s.MarkFirstLaunchComplete(), "MarkFirstLaunchComplete")
	testutil.AssertNoError(t, s.Close(), "Close")

	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Fatalf("database directory missing: %v", err)
	}

	s, err = Open(dir, nil)
	testutil.AssertNoError(t, err, "reopen")
	defer s.Close()

	first, err := s.IsFirstLaunch()
	testutil.AssertNoError(t, err, "IsFirstLaunch")
	testutil.AssertFalse(t, first, "first launch flag persisted")
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("DefaultDataDir returned empty path")
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("DefaultDataDir = %s, want a %s directory", dataDir, appName)
	}

	t.Logf("Data directory: %s", dataDir)
}
