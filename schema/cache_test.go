package schema

import "testing"

func TestCachePutGet(t *testing.T) {
	cache := NewCache()

	summary := Summary{Tables: []TableDescriptor{{Name: "students"}}}
	cache.Put("sqlite3:student.db", summary)

	got, ok := cache.Get("sqlite3:student.db")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got.Tables) != 1 || got.Tables[0].Name != "students" {
		t.Errorf("unexpected cached summary: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	cache := NewCache()
	if _, ok := cache.Get("postgres:nowhere"); ok {
		t.Error("expected cache miss")
	}
}

func TestCacheInvalidateOnlyKeyedEntry(t *testing.T) {
	cache := NewCache()
	cache.Put("a", Summary{Tables: []TableDescriptor{{Name: "t1"}}})
	cache.Put("b", Summary{Tables: []TableDescriptor{{Name: "t2"}}})

	cache.Invalidate("a")

	if _, ok := cache.Get("a"); ok {
		t.Error("invalidated entry still present")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Error("unrelated entry was dropped")
	}
}
