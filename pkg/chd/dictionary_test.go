package chd

import (
	"fmt"
	"testing"

	"github.com/333fps/vista-sdk/pkg/viserr"
)

func TestNewRejectsEmptyInput(t *testing.T) {
	_, _, err := New[int](nil)
	if !viserr.Is(err, viserr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, _, err := New([]Entry[int]{{Key: "", Value: 1}})
	if !viserr.Is(err, viserr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestNewRejectsDuplicateKey(t *testing.T) {
	_, _, err := New([]Entry[int]{{Key: "A", Value: 1}, {Key: "A", Value: 2}})
	if !viserr.Is(err, viserr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestLookupRoundTrip(t *testing.T) {
	var entries []Entry[string]
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("N%04d", i)
		entries = append(entries, Entry[string]{Key: key, Value: fmt.Sprintf("value-%d", i)})
	}

	dict, stats, err := New(entries)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if stats == nil {
		t.Fatalf("expected build stats")
	}

	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("N%04d", i)
		want := fmt.Sprintf("value-%d", i)
		got, ok := dict.TryGet(key)
		if !ok || got != want {
			t.Fatalf("TryGet(%q) = (%q, %v), want (%q, true)", key, got, ok, want)
		}
	}
}

func TestLookupMissingKey(t *testing.T) {
	dict, _, err := New([]Entry[int]{{Key: "VE", Value: 1}, {Key: "400a", Value: 2}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := dict.TryGet("nonexistent"); ok {
		t.Fatalf("expected miss for absent key")
	}
	_, err = dict.Get("nonexistent")
	if !viserr.Is(err, viserr.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}
}

func TestAllVisitsEveryEntryExactlyOnce(t *testing.T) {
	entries := []Entry[int]{{Key: "VE", Value: 0}, {Key: "400a", Value: 1}, {Key: "411.1", Value: 2}, {Key: "C101", Value: 3}}
	dict, _, err := New(entries)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seen := map[string]int{}
	dict.All(func(key string, value int) bool {
		seen[key] = value
		return true
	})
	if len(seen) != len(entries) {
		t.Fatalf("All visited %d entries, want %d", len(seen), len(entries))
	}
	for _, e := range entries {
		if seen[e.Key] != e.Value {
			t.Fatalf("All: entry %q = %d, want %d", e.Key, seen[e.Key], e.Value)
		}
	}
}

func TestHashIsDeterministic(t *testing.T) {
	h1 := hashBytes("400a")
	h2 := hashBytes("400a")
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %d != %d", h1, h2)
	}
}

func TestTableSizeIsPowerOfTwoAtLeastDoubleCount(t *testing.T) {
	cases := []int{1, 2, 3, 4, 5, 100, 1000}
	for _, n := range cases {
		size := tableSize(n)
		if size < uint32(2*n) {
			t.Fatalf("tableSize(%d) = %d, want >= %d", n, size, 2*n)
		}
		if size&(size-1) != 0 {
			t.Fatalf("tableSize(%d) = %d is not a power of two", n, size)
		}
	}
}
