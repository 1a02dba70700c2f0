package usecase

import (
	"context"
	"sync"

	"FolioPull/internal/domain/models"
)

// LatestCycle keeps the most recent cycle for readers such as the web API.
// It is a Sink; publishing only swaps a pointer.
type LatestCycle struct {
	mu sync.RWMutex
	c  *models.Cycle
}

func NewLatestCycle() *LatestCycle { return &LatestCycle{} }

func (l *LatestCycle) Name() string { return "web" }

func (l *LatestCycle) Publish(_ context.Context, c *models.Cycle) error {
	l.mu.Lock()
	l.c = c
	l.mu.Unlock()
	return nil
}

// Get returns the latest cycle, or nil before the first one completes.
func (l *LatestCycle) Get() *models.Cycle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.c
}
