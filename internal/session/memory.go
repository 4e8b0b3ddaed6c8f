package session

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often MemoryStore drops expired records.
const DefaultSweepInterval = time.Minute

// MemoryStore is an in-process Store used when no Redis is configured.
// A background janitor removes expired records until Close is called.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its janitor. A
// non-positive interval uses DefaultSweepInterval.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.janitor(sweepInterval)
	return s
}

// Put stores rec under key. ttl is carried by rec.ExpiresAt.
func (s *MemoryStore) Put(ctx context.Context, key string, rec Record, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.records[key] = rec
	s.mu.Unlock()
	return nil
}

// Get returns the record for key, or (nil, nil) if absent or expired.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	if rec.ExpiredAt(s.now()) {
		delete(s.records, key)
		return nil, nil
	}
	return &rec, nil
}

// Delete removes key. Missing keys are ignored.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored records, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep removes every expired record and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if rec.ExpiredAt(now) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor and waits for it to exit. It is safe to call
// more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
