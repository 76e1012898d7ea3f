// README: Redis read-through cache for the hospital roster.
package hospital

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const rosterKey = "hospitals:roster"

// RosterCache keeps a short-lived JSON snapshot of the full hospital list.
// It only ever serves the roster listing; eligibility queries go straight
// to the store so matching always sees fresh capacity.
type RosterCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRosterCache(client *goredis.Client, ttl time.Duration) *RosterCache {
	return &RosterCache{client: client, ttl: ttl}
}

// Get returns the cached roster, or nil on a miss.
func (c *RosterCache) Get(ctx context.Context) ([]Hospital, error) {
	data, err := c.client.Get(ctx, rosterKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var hospitals []Hospital
	if err := json.Unmarshal(data, &hospitals); err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (c *RosterCache) Set(ctx context.Context, hospitals []Hospital) error {
	b, err := json.Marshal(hospitals)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rosterKey, b, c.ttl).Err()
}

func (c *RosterCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rosterKey).Err()
}
