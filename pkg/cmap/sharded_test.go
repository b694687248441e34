package cmap

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[string, int](tt.input)
			if got := m.ShardCount(); got != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetGetDelete(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)

	if val, ok := m.Get("a"); !ok || val != 1 {
		t.Fatalf("Get(a) = (%d, %v), want (1, true)", val, ok)
	}
	if !m.Delete("a") {
		t.Fatal("Delete(a) = false, want true")
	}
	if m.Delete("a") {
		t.Fatal("second Delete(a) = true, want false")
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("a should not exist after deletion")
	}
}

func TestCompute(t *testing.T) {
	m := New[string, int]()

	m.Compute("n", func(cur int, exists bool) (int, bool) {
		if exists {
			t.Fatal("exists = true on empty map")
		}
		return cur + 5, true
	})
	m.Compute("n", func(cur int, exists bool) (int, bool) {
		return cur * 2, true
	})
	if val, _ := m.Get("n"); val != 10 {
		t.Fatalf("Get(n) = %d, want 10", val)
	}

	m.Compute("n", func(int, bool) (int, bool) { return 0, false })
	if _, ok := m.Get("n"); ok {
		t.Fatal("Compute returning keep=false should delete the key")
	}
}

func TestView(t *testing.T) {
	m := New[string, string]()
	m.Set("k", "v")

	var seen string
	m.View("k", func(cur string, exists bool) {
		if exists {
			seen = cur
		}
	})
	if seen != "v" {
		t.Fatalf("View saw %q, want %q", seen, "v")
	}
}

func TestDeleteIf(t *testing.T) {
	m := New[string, int]()
	m.Set("k", 3)

	if m.DeleteIf("k", func(v int) bool { return v > 5 }) {
		t.Fatal("DeleteIf removed a value that failed the predicate")
	}
	if !m.DeleteIf("k", func(v int) bool { return v == 3 }) {
		t.Fatal("DeleteIf did not remove a matching value")
	}
	if m.DeleteIf("missing", func(int) bool { return true }) {
		t.Fatal("DeleteIf reported removal of a missing key")
	}
}

func TestClear(t *testing.T) {
	m := New[string, int]()
	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key%d", i), i)
	}

	if removed := m.Clear(); removed != 100 {
		t.Errorf("Clear() = %d, want 100", removed)
	}
	if m.Count() != 0 {
		t.Errorf("Count() after Clear = %d, want 0", m.Count())
	}
}

func TestConcurrentCompute(t *testing.T) {
	m := NewWithShards[string, int](4)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Compute(fmt.Sprintf("c%d", j%10), func(cur int, _ bool) (int, bool) {
					return cur + 1, true
				})
			}
		}()
	}
	wg.Wait()

	total := 0
	m.Range(func(_ string, v int) bool {
		total += v
		return true
	})
	if total != 5000 {
		t.Errorf("sum of counters = %d, want 5000", total)
	}
}

type named string

func TestNamedStringKeys(t *testing.T) {
	m := New[named, int]()
	m.Set(named("x"), 1)
	if _, ok := m.Get("x"); !ok {
		t.Fatal("named string key not found")
	}
}
