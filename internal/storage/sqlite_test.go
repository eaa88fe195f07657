package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("duckchase")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score 0 for empty game, got %d", high)
	}

	for _, score := range []int{100, 300, 200} {
		if _, err := store.SaveSession(SessionRecord{GameID: "duckchase", Score: score}); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	store.SaveSession(SessionRecord{GameID: "other", Score: 500})

	high, err = store.HighScore("duckchase")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{GameID: "duckchase", Score: 100})
	store.SaveSession(SessionRecord{GameID: "duckchase", Score: 200})
	store.SaveSession(SessionRecord{GameID: "other", Score: 300})

	if err := store.ClearScores("duckchase"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if high, _ := store.HighScore("duckchase"); high != 0 {
		t.Errorf("Expected no duckchase scores after clear, got high %d", high)
	}
	if top, _ := store.TopSessions("duckchase", 10); len(top) != 0 {
		t.Errorf("Expected no duckchase sessions after clear, got %d", len(top))
	}

	// Other games should be unaffected
	if high, _ := store.HighScore("other"); high != 300 {
		t.Errorf("Expected other game's high score 300, got %d", high)
	}
}

func TestStoreSessionWritesScoreRow(t *testing.T) {
	store := openTestStore(t)
	store.SaveSession(SessionRecord{GameID: "duckchase", Score: 12})

	var n, score int
	err := store.db.QueryRow("SELECT COUNT(*), MAX(score) FROM scores WHERE game_id = ?", "duckchase").Scan(&n, &score)
	if err != nil {
		t.Fatalf("query scores: %v", err)
	}
	if n != 1 || score != 12 {
		t.Errorf("scores table has %d rows with max %d, expected 1 row of 12", n, score)
	}
}

func TestStoreFailedSessionLeavesNoScore(t *testing.T) {
	store := openTestStore(t)
	id := uuid.NewString()

	if _, err := store.SaveSession(SessionRecord{ID: id, GameID: "duckchase", Score: 5}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := store.SaveSession(SessionRecord{ID: id, GameID: "duckchase", Score: 99}); err == nil {
		t.Fatal("expected an error for a duplicate session id")
	}

	if high, _ := store.HighScore("duckchase"); high != 5 {
		t.Errorf("high score = %d, expected 5; the rolled back session must not add a score", high)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	// Test that ~ expansion works (we won't actually write to home)
	// Just verify the function doesn't crash
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	rec := SessionRecord{
		GameID:         "duckchase",
		Player:         "alice",
		Score:          42,
		Misses:         20,
		ElapsedSecs:    93.5,
		PeakDifficulty: 3.55,
	}

	id, err := store.SaveSession(rec)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated session id %q is not a UUID: %v", id, err)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SessionByID() returned nil for a saved session")
	}

	rec.ID = id
	got.CreatedAt = time.Time{}
	if *got != rec {
		t.Errorf("SessionByID() = %+v, expected %+v", *got, rec)
	}

	// The session's score also lands in the scores table
	high, _ := store.HighScore("duckchase")
	if high != 42 {
		t.Errorf("Expected high score 42 from saved session, got %d", high)
	}
}

func TestStoreSessionKeepsExplicitID(t *testing.T) {
	store := openTestStore(t)
	want := uuid.NewString()

	id, err := store.SaveSession(SessionRecord{ID: want, GameID: "duckchase"})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id != want {
		t.Errorf("SaveSession() id = %q, expected %q", id, want)
	}

	if _, err := store.SaveSession(SessionRecord{ID: want, GameID: "duckchase"}); err == nil {
		t.Error("Expected error when saving a duplicate session id")
	}
}

func TestStoreSessionByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.SessionByID(uuid.NewString())
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown session, got %+v", got)
	}
}

func TestStoreTopAndRecentSessions(t *testing.T) {
	store := openTestStore(t)

	sessions := []SessionRecord{
		{GameID: "duckchase", Player: "a", Score: 10, ElapsedSecs: 30},
		{GameID: "duckchase", Player: "b", Score: 30, ElapsedSecs: 60},
		{GameID: "duckchase", Player: "c", Score: 30, ElapsedSecs: 90},
		{GameID: "duckchase", Player: "d", Score: 5, ElapsedSecs: 10},
		{GameID: "other", Player: "e", Score: 99, ElapsedSecs: 10},
	}
	for _, rec := range sessions {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	top, err := store.TopSessions("duckchase", 3)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	var players []string
	for _, rec := range top {
		players = append(players, rec.Player)
	}
	if len(players) != 3 || players[0] != "c" || players[1] != "b" || players[2] != "a" {
		t.Errorf("TopSessions() players = %v, expected [c b a]", players)
	}

	recent, err := store.RecentSessions("duckchase", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("Expected 4 recent sessions, got %d", len(recent))
	}
	if recent[0].Player != "d" {
		t.Errorf("Most recent session player = %q, expected %q", recent[0].Player, "d")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{GameID: "duckchase", Score: 10, Misses: 20, ElapsedSecs: 40})
	store.SaveSession(SessionRecord{GameID: "duckchase", Score: 20, Misses: 20, ElapsedSecs: 75.5})

	stats, err := store.GetGameStats("duckchase")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 20 || stats.TotalScore != 30 {
		t.Errorf("GetGameStats() = %+v, expected 2 games, high 20, total 30", stats)
	}
	if stats.AvgScore != 15 {
		t.Errorf("AvgScore = %f, expected 15", stats.AvgScore)
	}
	if stats.TotalMisses != 40 || stats.LongestSecs != 75.5 {
		t.Errorf("session stats = %d misses, %f secs; expected 40, 75.5", stats.TotalMisses, stats.LongestSecs)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	empty, err := store.GetGameStats("never-played")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}
}

func TestStoreClearScoresRemovesSessions(t *testing.T) {
	store := openTestStore(t)
	id, _ := store.SaveSession(SessionRecord{GameID: "duckchase", Score: 7})

	if err := store.ClearScores("duckchase"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got != nil {
		t.Error("Sessions should be cleared along with scores")
	}
}
