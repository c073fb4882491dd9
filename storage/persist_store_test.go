package storage

import (
	"testing"
)

func TestPersistenceStore_BasicOperations(t *testing.T) {
	ps, err := NewPersistenceStore("")
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ps.Close()

	key := []byte("test-key")
	value := []byte("test-value")
	if err := ps.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := ps.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key to be found")
	}
	if string(got) != string(value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	_, found, err = ps.Get([]byte("non-existent"))
	if err != nil {
		t.Fatalf("Get non-existent failed: %v", err)
	}
	if found {
		t.Error("Expected key not to be found")
	}

	if err := ps.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, err := ps.Has(key); err != nil || ok {
		t.Errorf("Has after delete = %v, %v; want false, nil", ok, err)
	}
}

func TestPersistenceStore_Keys(t *testing.T) {
	ps, err := NewPersistenceStore("")
	if err != nil {
		t.Fatalf("Failed to create memory store: %v", err)
	}
	defer ps.Close()

	for _, k := range []string{"a:2", "b:1", "a:1", "ab"} {
		if err := ps.Put([]byte(k), []byte{1}); err != nil {
			t.Fatalf("Put %s failed: %v", k, err)
		}
	}
	keys, err := ps.Keys([]byte("a:"))
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || string(keys[0]) != "a:1" || string(keys[1]) != "a:2" {
		t.Errorf("Keys(a:) = %q, want [a:1 a:2]", keys)
	}
}

func TestPersistenceStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ps, err := NewPersistenceStore(dir)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := ps.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := ps.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	ps, err = NewPersistenceStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer ps.Close()
	got, found, err := ps.Get([]byte("k"))
	if err != nil || !found || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v, %v", got, found, err)
	}
}
