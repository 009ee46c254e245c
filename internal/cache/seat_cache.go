package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

const seatTTL = 30 * time.Second

// SeatCache keeps per-trip availability snapshots in redis. It is purely
// an accelerator for GET /trips/:id/seats; the database stays the source
// of truth and every ledger commit invalidates the trip's key.
type SeatCache struct {
	Client *redis.Client
}

func NewSeatCache(addr string) *SeatCache {
	return &SeatCache{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func seatKey(tripID int64) string {
	return fmt.Sprintf("seats:%d", tripID)
}

// Get returns the cached seat list, or ok=false on miss or any redis
// error. Callers fall back to the database either way.
func (c *SeatCache) Get(ctx context.Context, tripID int64) ([]models.TripSeat, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	raw, err := c.Client.Get(ctx, seatKey(tripID)).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []models.TripSeat
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

func (c *SeatCache) Set(ctx context.Context, tripID int64, seats []models.TripSeat) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(seats)
	if err != nil {
		return
	}
	_ = c.Client.Set(ctx, seatKey(tripID), raw, seatTTL).Err()
}

// Invalidate drops the trip's snapshot after a seat-state mutation.
func (c *SeatCache) Invalidate(ctx context.Context, tripID int64) {
	if c == nil || c.Client == nil {
		return
	}
	_ = c.Client.Del(ctx, seatKey(tripID)).Err()
}
