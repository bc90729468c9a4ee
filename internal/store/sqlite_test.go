package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "game.db")

	s, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	want := sampleState()
	if err := s.Save(ctx, "g1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Overwrites must upsert, not duplicate.
	want.UsedNames["asuna yuuki"] = true
	if err := s.Save(ctx, "g1", want); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 guild, got %d", len(got))
	}
	if !reflect.DeepEqual(got["g1"], want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got["g1"], want)
	}
}

func TestSQLiteEmptyDatabase(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("fresh database should load empty, got %d", len(got))
	}
}

func TestSQLiteSkipsCorruptRow(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Save(ctx, "good", sampleState()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO guild_states (guild_id, state, updated_at) VALUES ('bad', 'not json', '2025-01-01T00:00:00Z')`,
	); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if got["good"] == nil {
		t.Error("good guild lost alongside the corrupt row")
	}
	if _, ok := got["bad"]; ok {
		t.Error("corrupt row should have been skipped")
	}
}
