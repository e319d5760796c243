package container

import "testing"

func TestVectorAppendAndGet(t *testing.T) {
	v := NewVector[int](0)
	for i := 0; i < 20; i++ {
		v.Append(i)
	}
	if v.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", v.Len())
	}
	for i := 0; i < 20; i++ {
		if got := v.Get(i); got != i {
			t.Errorf("Get(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestVectorSet(t *testing.T) {
	v := NewVector[string](4)
	v.Append("a")
	v.Append("b")
	v.Set(1, "c")
	if got := v.Get(1); got != "c" {
		t.Errorf("Get(1) = %q, want %q", got, "c")
	}
}

func TestOrderedMapShadowing(t *testing.T) {
	m := NewOrderedMap()
	m.Put("x", 1)
	m.Put("x", 2)

	got, ok := m.Get("x")
	if !ok || got != 2 {
		t.Errorf("Get(x) = (%v, %v), want (2, true)", got, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (shadowed bindings are retained)", m.Len())
	}
}

func TestOrderedMapAbsent(t *testing.T) {
	m := NewOrderedMap()
	if _, ok := m.Get("missing"); ok {
		t.Errorf("Get(missing) ok = true, want false")
	}
}

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	keys := m.Keys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], k)
		}
	}
}
