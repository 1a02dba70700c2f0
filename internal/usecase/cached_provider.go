package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FolioPull/internal/domain/models"
	drepo "FolioPull/internal/domain/repository"
	"FolioPull/internal/service/cache"
	applogger "FolioPull/pkg/logger"
)

// CachedProvider serves snapshots from a cache for ttl before asking the
// wrapped provider again. Failed fetches are never cached.
type CachedProvider struct {
	next  drepo.SnapshotProvider
	cache cache.BytesCache
	ttl   time.Duration
	log   *applogger.Logger
}

func NewCachedProvider(next drepo.SnapshotProvider, c cache.BytesCache, ttl time.Duration, l *applogger.Logger) *CachedProvider {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedProvider{next: next, cache: c, ttl: ttl, log: l}
}

func (p *CachedProvider) Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if p.ttl <= 0 || p.cache == nil {
		return p.next.Fetch(ctx, ticker)
	}

	key := "snapshot:" + ticker
	if b, ok, err := p.cache.GetBytes(ctx, key); err != nil {
		p.log.Warn("snapshot cache read failed", applogger.String("ticker", ticker), applogger.Error(err))
	} else if ok {
		var snap models.MarketSnapshot
		if err := json.Unmarshal(b, &snap); err == nil {
			return &snap, nil
		}
	}

	snap, err := p.next.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(snap); err == nil {
		if err := p.cache.SetBytes(ctx, key, b, p.ttl); err != nil {
			p.log.Warn("snapshot cache write failed", applogger.String("ticker", ticker), applogger.Error(err))
		}
	}
	return snap, nil
}
