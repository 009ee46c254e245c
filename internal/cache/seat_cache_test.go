package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youth-Garden-School/pragma-lab-sub001/internal/domain/models"
)

func sampleSeats() []models.TripSeat {
	ticketID := int64(11)
	return []models.TripSeat{
		{TripID: 7, SeatNumber: "A1", IsBooked: true, TicketID: &ticketID},
		{TripID: 7, SeatNumber: "A2", IsBooked: false},
	}
}

func TestSeatCacheRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &SeatCache{Client: client}
	ctx := context.Background()

	seats := sampleSeats()
	raw, err := json.Marshal(seats)
	require.NoError(t, err)

	mock.ExpectSet("seats:7", raw, 30*time.Second).SetVal("OK")
	c.Set(ctx, 7, seats)

	mock.ExpectGet("seats:7").SetVal(string(raw))
	got, ok := c.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, seats, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &SeatCache{Client: client}

	mock.ExpectGet("seats:7").RedisNil()
	_, ok := c.Get(context.Background(), 7)
	assert.False(t, ok)
}

func TestSeatCacheCorruptPayloadIsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &SeatCache{Client: client}

	mock.ExpectGet("seats:7").SetVal("{not json")
	_, ok := c.Get(context.Background(), 7)
	assert.False(t, ok)
}

func TestSeatCacheInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &SeatCache{Client: client}

	mock.ExpectDel("seats:7").SetVal(1)
	c.Invalidate(context.Background(), 7)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatCacheNilSafe(t *testing.T) {
	var c *SeatCache

	_, ok := c.Get(context.Background(), 7)
	assert.False(t, ok)
	c.Set(context.Background(), 7, sampleSeats())
	c.Invalidate(context.Background(), 7)
}
