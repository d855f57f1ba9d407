package session

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if got, err := store.Get(ctx, "573001112233"); err != nil || got != nil {
		t.Fatalf("Get on empty store = %v, %v; want nil, nil", got, err)
	}

	s := New("573001112233")
	s.Step = StepCity
	s.Contact.Name = "Ana"
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "573001112233")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Step != StepCity || got.Contact.Name != "Ana" {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Contact.Name = "Other"
	again, _ := store.Get(ctx, "573001112233")
	if again.Contact.Name != "Ana" {
		t.Error("store returned a shared reference")
	}

	if err := store.Delete(ctx, "573001112233"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := store.Get(ctx, "573001112233"); got != nil {
		t.Error("session survived delete")
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	if got, err := store.Get(ctx, "unknown"); err != nil || got != nil {
		t.Fatalf("Get on missing key = %v, %v; want nil, nil", got, err)
	}

	s := New("573001112233")
	s.Step = StepMenu
	s.Language = LangES
	s.Request.City = "cartagena"
	s.AppendHistory("villas")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "573001112233")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Step != StepMenu || got.Language != LangES || len(got.History) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}

	// TTL set on the key.
	if mr.TTL(sessionKey("573001112233")) != time.Hour {
		t.Errorf("TTL = %v, want 1h", mr.TTL(sessionKey("573001112233")))
	}
}

func TestAppendHistoryDedup(t *testing.T) {
	s := New("x")
	s.Request = ServiceRequest{ServiceType: "villas", City: "cartagena", PartySize: 6, Date: "2026-05-01"}

	s.AppendHistory("villas")
	s.AppendHistory("villas")
	if len(s.History) != 1 {
		t.Fatalf("duplicate consecutive entries appended: %d", len(s.History))
	}

	s.Request.PartySize = 8
	s.AppendHistory("villas")
	if len(s.History) != 2 {
		t.Fatalf("changed entry should append, got %d", len(s.History))
	}
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 1}
	if p.Exhausted(0) {
		t.Error("fresh field should not be exhausted")
	}
	if !p.Exhausted(1) {
		t.Error("one failure should exhaust a 1-attempt policy")
	}

	s := New("x")
	if got := s.RecordAttempt("email"); got != 1 {
		t.Errorf("RecordAttempt = %d, want 1", got)
	}
	s.ClearAttempts("email")
	if s.Attempts("email") != 0 {
		t.Error("ClearAttempts did not reset")
	}
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("same")
			counter++
			km.Unlock("same")
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestNormalizeIdentity(t *testing.T) {
	tests := []struct {
		in     string
		region string
		want   string
	}{
		{"+57 300 111 2233", "CO", "573001112233"},
		{"573001112233", "CO", "573001112233"},
		{"(212) 653-0000", "US", "12126530000"},
		{"not a phone 99", "CO", "99"},
		{"", "CO", ""},
	}
	for _, tt := range tests {
		if got := NormalizeIdentity(tt.in, tt.region); got != tt.want {
			t.Errorf("NormalizeIdentity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
