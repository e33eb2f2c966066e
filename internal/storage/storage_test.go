package storage

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := testStore(t)

	want := record{Name: "alpha", Count: 3}
	if err := s.Put("rec", want); err != nil {
		t.Fatal(err)
	}

	var got record
	found, err := s.Get("rec", &got)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("key not found after Put")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := testStore(t)

	var got record
	found, err := s.Get("nope", &got)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestPutOverwrites(t *testing.T) {
	s := testStore(t)

	if err := s.Put("rec", record{Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("rec", record{Name: "new"}); err != nil {
		t.Fatal(err)
	}

	var got record
	if _, err := s.Get("rec", &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "new" {
		t.Errorf("name = %q, want new", got.Name)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := testStore(t)

	if err := s.Put("rec", record{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("rec"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("rec"); err != nil {
		t.Errorf("second delete: %v", err)
	}

	var got record
	if found, _ := s.Get("rec", &got); found {
		t.Error("deleted key still found")
	}
}

func TestKeysPrefix(t *testing.T) {
	s := testStore(t)

	for _, key := range []string{"set-a", "set-b", "ectts-settings"} {
		if err := s.Put(key, record{}); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := s.Keys("set-")
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if want := []string{"set-a", "set-b"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestModTime(t *testing.T) {
	s := testStore(t)

	if !s.ModTime("rec").IsZero() {
		t.Error("missing key has non-zero mod time")
	}

	before := time.Now().Add(-time.Minute)
	if err := s.Put("rec", record{}); err != nil {
		t.Fatal(err)
	}
	if mt := s.ModTime("rec"); mt.Before(before) {
		t.Errorf("mod time = %v, want after %v", mt, before)
	}
}

func TestWatchReportsChangedKey(t *testing.T) {
	s := testStore(t)

	stop := make(chan struct{})
	defer close(stop)

	changes, err := s.Watch(stop)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put("rec", record{Name: "alpha"}); err != nil {
		t.Fatal(err)
	}

	select {
	case key := <-changes:
		if key != "rec" {
			t.Errorf("changed key = %q, want rec", key)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
