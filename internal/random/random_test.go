package random

import "testing"

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed: %v", err)
	}
	if a == b {
		t.Errorf("two seeds are equal: %d", a)
	}
}

func TestSourceDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Intn(6), b.Intn(6); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestSourceRange(t *testing.T) {
	s := New(7)
	for i := 0; i < 200; i++ {
		if v := s.Intn(6); v < 0 || v >= 6 {
			t.Fatalf("Intn(6) = %d", v)
		}
	}
}
