package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Allow("client-a", 5) {
			t.Fatalf("request %d denied, want all 5 allowed", i+1)
		}
	}
	if l.Allow("client-a", 5) {
		t.Fatal("request 6 allowed, want denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("client-a", 3)
	}
	if l.Allow("client-a", 3) {
		t.Fatal("exhausted key still allowed")
	}
	if !l.Allow("client-b", 3) {
		t.Fatal("fresh key denied")
	}
}

func TestTokensRefillOverTime(t *testing.T) {
	// 100 tokens per 100ms, so one token refills every millisecond.
	l := New(100 * time.Millisecond)

	for i := 0; i < 100; i++ {
		l.Allow("client-a", 100)
	}
	if l.Allow("client-a", 100) {
		t.Fatal("allowed immediately after exhaustion")
	}

	time.Sleep(20 * time.Millisecond)
	if !l.Allow("client-a", 100) {
		t.Fatal("denied after refill window elapsed")
	}
}
