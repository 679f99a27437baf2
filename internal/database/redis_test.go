package database

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathway-planner/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr() + "/0"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Set: %v", err)
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "mysql://nope"}, zerolog.Nop()); err == nil {
		t.Error("NewRedisClient accepted a non-redis URL")
	}
}

func TestNewPostgresPool_RequiresURL(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), &config.Config{}, zerolog.Nop())
	if !errors.Is(err, ErrNoDatabaseURL) {
		t.Errorf("err = %v, want ErrNoDatabaseURL", err)
	}
}
