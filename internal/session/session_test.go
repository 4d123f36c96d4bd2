package session

import (
	"path/filepath"
	"testing"
)

func TestManagerSetSelectsStore(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	pair := TokenPair{Token: "t1", RefreshToken: "r1"}

	if err := m.Set(pair, false); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := NewFileStore(dir).Get(); ok {
		t.Fatal("session-only login must not touch the persistent store")
	}
	got, ok := m.Get()
	if !ok || got != pair {
		t.Fatalf("expected %+v, got %+v (ok=%v)", pair, got, ok)
	}

	if err := m.Set(pair, true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := NewFileStore(dir).Get(); !ok {
		t.Fatal("remember-me login must persist the pair")
	}
}

func TestManagerClearWipesBothStores(t *testing.T) {
	dir := t.TempDir()
	persistent := NewFileStore(dir)
	transient := NewMemStore()
	m := NewManagerWithStores(persistent, transient, filepath.Join(dir, "remember"))

	// Both stores populated, however unlikely; logout must wipe both.
	if err := persistent.Set(TokenPair{Token: "p", RefreshToken: "pr"}); err != nil {
		t.Fatalf("seed persistent: %v", err)
	}
	if err := transient.Set(TokenPair{Token: "m", RefreshToken: "mr"}); err != nil {
		t.Fatalf("seed transient: %v", err)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := persistent.Get(); ok {
		t.Fatal("persistent store not cleared")
	}
	if _, ok := transient.Get(); ok {
		t.Fatal("transient store not cleared")
	}
}

func TestRememberPreferenceSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	if err := m.SetRememberPreference(true); err != nil {
		t.Fatalf("set preference: %v", err)
	}

	// A fresh manager over the same data dir sees the preference, as the
	// post-OAuth-redirect process does.
	again := NewManager(dir)
	if !again.RememberPreference() {
		t.Fatal("preference lost across managers")
	}
}

func TestUpdateKeepsCurrentStore(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	if err := m.Set(TokenPair{Token: "old", RefreshToken: "oldr"}, true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := m.Update(TokenPair{Token: "new", RefreshToken: "newr"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	pair, ok := NewFileStore(dir).Get()
	if !ok || pair.Token != "new" {
		t.Fatalf("refresh must rewrite the persistent store, got %+v", pair)
	}
}
