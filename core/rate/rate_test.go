package rate

import "testing"

func TestTokenBucketBurst(t *testing.T) {
	lim := NewTokenBucket(1, 3)

	for i := 0; i < 3; i++ {
		if !lim.Allow("client-a") {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if lim.Allow("client-a") {
		t.Error("request beyond burst allowed")
	}
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	lim := NewTokenBucket(1, 1)

	if !lim.Allow("a") {
		t.Fatal("first request for a denied")
	}
	if lim.Allow("a") {
		t.Error("a should be exhausted")
	}
	if !lim.Allow("b") {
		t.Error("b must have its own bucket")
	}
	if lim.Len() != 2 {
		t.Errorf("Len() = %d", lim.Len())
	}
}
