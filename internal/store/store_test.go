package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) kv{
		"memory": func(t *testing.T) kv {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) kv {
			s, err := NewSQLite(filepath.Join(t.TempDir(), "weather.db"))
			if err != nil {
				t.Fatalf("NewSQLite failed: %v", err)
			}
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			ctx := context.Background()

			if _, err := s.Get(ctx, "settings"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store error = %v, want ErrNotFound", err)
			}

			if err := s.Put(ctx, "settings", []byte(`{"showDate":true}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := s.Put(ctx, "settings", []byte(`{"showDate":false}`)); err != nil {
				t.Fatalf("second Put failed: %v", err)
			}

			got, err := s.Get(ctx, "settings")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `{"showDate":false}` {
				t.Errorf("Get = %s, want latest value", got)
			}

			if _, err := s.Get(ctx, "favourites"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get of other key error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v := []byte("abc")
	if err := s.Put(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[0] = 'x'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %s", got)
	}
	got[1] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value changed through returned slice: %s", again)
	}

	if s.Writes("k") != 1 {
		t.Errorf("Writes = %d, want 1", s.Writes("k"))
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Put(ctx, "favourites", []byte("[]")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_ = s.Close()

	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, "favourites")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get = %s, want []", got)
	}
}
