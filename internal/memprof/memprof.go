// Package memprof measures peak memory usage over a scoped region of the
// run. The whole load-sanitize-prepare-solve-export sequence is wrapped in
// one sampler so the operator sees the run's high-water mark even when a
// stage inside the region fails.
package memprof

import (
	"runtime"
	"sync"
	"time"
)

// Peak is the high-water mark observed over the sampled region
type Peak struct {
	HeapBytes uint64
	SysBytes  uint64
}

// Sampler periodically records memory statistics until stopped
type Sampler struct {
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup

	mu   sync.Mutex
	peak Peak
}

// Start begins sampling at the given interval. An interval of zero or less
// falls back to one second.
func Start(interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	s := &Sampler{
		interval: interval,
		done:     make(chan struct{}),
	}
	s.sample()
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *Sampler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sample()
		case <-s.done:
			return
		}
	}
}

func (s *Sampler) sample() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.mu.Lock()
	if m.HeapAlloc > s.peak.HeapBytes {
		s.peak.HeapBytes = m.HeapAlloc
	}
	if m.Sys > s.peak.SysBytes {
		s.peak.SysBytes = m.Sys
	}
	s.mu.Unlock()
}

// Stop halts sampling, takes one final guaranteed sample, and returns the
// peak. Safe to call exactly once.
func (s *Sampler) Stop() Peak {
	close(s.done)
	s.wg.Wait()
	s.sample()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}
