package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/cantinho.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migrations do not run twice.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get("k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("reopened Get = %q, %v, %v", v, ok, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Key/value
// ============================================================

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get("myPlants")
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Fatalf("expected missing key, got %q", v)
	}
}

func TestPutOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.Put("key", "v1")
	s.Put("key", "v2")
	v, ok, _ := s.Get("key")
	if !ok || v != "v2" {
		t.Fatalf("expected v2, got %q", v)
	}
}

func TestGetEntryTimestamp(t *testing.T) {
	s := newTestStore(t)
	s.Put("key", "value")
	e, err := s.GetEntry("key")
	if err != nil {
		t.Fatal(err)
	}
	if e.Value != "value" {
		t.Fatalf("value = %q", e.Value)
	}
	if time.Since(e.UpdatedAt) > time.Minute {
		t.Fatalf("updated_at not set: %v", e.UpdatedAt)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetEntry("missing"); err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestKeysSorted(t *testing.T) {
	s := newTestStore(t)
	s.Put("viewedPlants", "[]")
	s.Put("achievements", "{}")
	s.Put("myPlants", "[]")

	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"achievements", "myPlants", "viewedPlants"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)

	type record struct {
		IDs   []int          `json:"ids"`
		Count map[string]int `json:"count"`
	}
	in := record{IDs: []int{1, 3}, Count: map[string]int{"a": 2}}
	if err := s.SaveJSON("favoritePlants", in); err != nil {
		t.Fatal(err)
	}

	var out record
	ok, err := s.LoadJSON("favoritePlants", &out)
	if err != nil || !ok {
		t.Fatalf("LoadJSON = %v, %v", ok, err)
	}
	if len(out.IDs) != 2 || out.IDs[1] != 3 || out.Count["a"] != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestLoadJSONMissingLeavesValue(t *testing.T) {
	s := newTestStore(t)
	out := []int{7}
	ok, err := s.LoadJSON("viewedPlants", &out)
	if err != nil || ok {
		t.Fatalf("LoadJSON = %v, %v", ok, err)
	}
	if len(out) != 1 || out[0] != 7 {
		t.Fatal("missing key must not touch the target")
	}
}

func TestLoadJSONCorrupt(t *testing.T) {
	s := newTestStore(t)
	s.Put("myPlants", "{not json")
	var out []int
	if _, err := s.LoadJSON("myPlants", &out); err == nil {
		t.Fatal("expected decode error")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		SettingDefaultFrequency: "7",
		SettingReminderSchedule: "0 9 * * *",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting(SettingDefaultFrequency, "3")
	val, _ := s.GetSetting(SettingDefaultFrequency)
	if val != "3" {
		t.Fatalf("expected 3, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestSettingInt(t *testing.T) {
	s := newTestStore(t)
	if got := s.SettingInt(SettingDefaultFrequency, 1); got != 7 {
		t.Fatalf("SettingInt = %d, want 7", got)
	}
	s.SetSetting(SettingDefaultFrequency, "abc")
	if got := s.SettingInt(SettingDefaultFrequency, 5); got != 5 {
		t.Fatalf("malformed setting should fall back, got %d", got)
	}
	if got := s.SettingInt("missing", 9); got != 9 {
		t.Fatalf("missing setting should fall back, got %d", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

// ============================================================
// Lifecycle
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Get("k"); err == nil {
		t.Fatal("expected error after close")
	}
}
