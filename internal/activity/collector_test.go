package activity

import (
	"context"
	"sync"
	"testing"
	"time"
)

// mockStore records all batches that were inserted.
type mockStore struct {
	mu      sync.Mutex
	batches [][]Event
}

func (m *mockStore) BatchInsert(_ context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Event, len(events))
	copy(cp, events)
	m.batches = append(m.batches, cp)
	return nil
}

func (m *mockStore) totalInserted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func sampleEvent(kind string) Event {
	return Event{
		UserID: "u1",
		Kind:   kind,
		Detail: "Morning Yoga",
	}
}

func TestCollectorRecordAddsToBuffer(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour) // large batch size, long interval

	c.Record(sampleEvent(KindClassBooked))
	c.Record(sampleEvent(KindLoggedIn))

	c.mu.Lock()
	bufLen := len(c.buffer)
	c.mu.Unlock()

	if bufLen != 2 {
		t.Fatalf("expected buffer length 2, got %d", bufLen)
	}
	if ms.totalInserted() != 0 {
		t.Fatalf("expected 0 inserted before flush, got %d", ms.totalInserted())
	}
}

func TestCollectorAssignsIDAndTimestamp(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	c.Record(sampleEvent(KindRegistered))

	c.mu.Lock()
	ev := c.buffer[0]
	c.mu.Unlock()

	if ev.ID == "" {
		t.Error("expected id to be assigned")
	}
	if ev.CreatedAt.IsZero() {
		t.Error("expected created_at to be assigned")
	}
}

func TestCollectorFlushOnBatchSize(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		records   int
		wantFlush int // total events flushed
	}{
		{"exact batch size triggers flush", 3, 3, 3},
		{"below batch size stays buffered", 3, 2, 0},
		{"two full batches", 2, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{}
			c := NewCollector(ms, tt.batchSize, time.Hour)

			for i := 0; i < tt.records; i++ {
				c.Record(sampleEvent(KindClassBooked))
			}

			if ms.totalInserted() != tt.wantFlush {
				t.Errorf("expected %d flushed, got %d", tt.wantFlush, ms.totalInserted())
			}
		})
	}
}

func TestCollectorStopFlushesRemainder(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	c.Record(sampleEvent(KindMembershipPurchased))
	c.Record(sampleEvent(KindClassBooked))

	c.Stop()
	<-done

	if ms.totalInserted() != 2 {
		t.Fatalf("expected 2 events flushed on stop, got %d", ms.totalInserted())
	}
}

func TestCollectorContextCancelFlushes(t *testing.T) {
	ms := &mockStore{}
	c := NewCollector(ms, 100, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	c.Record(sampleEvent(KindBookingCancelled))
	cancel()
	<-done

	if ms.totalInserted() != 1 {
		t.Fatalf("expected 1 event flushed on cancel, got %d", ms.totalInserted())
	}
}
