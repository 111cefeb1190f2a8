package session

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "hms:session:"

// Redis keeps the slots under one key each for a named session, so several
// gateway instances or operator shells can share a login.
type Redis struct {
	client *redis.Client
	name   string
}

func NewRedis(client *redis.Client, name string) *Redis {
	return &Redis{client: client, name: name}
}

func (r *Redis) key(slot string) string {
	return redisPrefix + r.name + ":" + slot
}

func (r *Redis) Load(ctx context.Context) (Record, error) {
	vals, err := r.client.MGet(ctx, r.key(SlotToken), r.key(SlotUser)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("load session: %w", err)
	}

	var rec Record
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return Record{}, ErrCorrupt
		}
		if i == 0 {
			rec.Token = s
		} else {
			rec.User = s
		}
	}
	return rec, nil
}

// Save writes both slots in one MULTI/EXEC.
func (r *Redis) Save(ctx context.Context, rec Record) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(SlotToken), rec.Token, 0)
		p.Set(ctx, r.key(SlotUser), rec.User, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key(SlotToken), r.key(SlotUser))
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
