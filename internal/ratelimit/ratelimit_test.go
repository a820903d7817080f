package ratelimit

import (
	"testing"
	"time"
)

func TestBurstThenDenied(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("viewer-a") {
			t.Fatalf("request %d inside burst should pass", i+1)
		}
	}
	if limiter.Allow("viewer-a") {
		t.Fatal("request past the burst should be denied")
	}
}

func TestViewersAreIndependent(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 1)

	if !limiter.Allow("viewer-a") {
		t.Fatal("first request for viewer-a should pass")
	}
	if !limiter.Allow("viewer-b") {
		t.Fatal("viewer-b must not share viewer-a's bucket")
	}
}
