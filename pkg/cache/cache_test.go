package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNoOp_AlwaysMisses(t *testing.T) {
	c := NoOp{}
	var dest map[string]string
	hit, err := c.Get(context.Background(), "k", &dest)
	if err != nil || hit {
		t.Errorf("NoOp.Get() = (%v, %v), want (false, nil)", hit, err)
	}
	if err := c.Set(context.Background(), "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Errorf("NoOp.Set() error = %v, want nil", err)
	}
}

func TestRedisCache_SetThenGet(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	c := &RedisCache{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	type payload struct {
		MainKeyword string `json:"main_keyword"`
	}
	want := payload{MainKeyword: "rozwód warszawa"}
	if err := c.Set(context.Background(), "brief:rozwód", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	hit, err := c.Get(context.Background(), "brief:rozwód", &got)
	if err != nil || !hit {
		t.Fatalf("Get() = (%v, %v), want (true, nil)", hit, err)
	}
	if got.MainKeyword != want.MainKeyword {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestRedisCache_MissReturnsFalse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	defer mr.Close()

	c := &RedisCache{client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	var dest map[string]string
	hit, err := c.Get(context.Background(), "missing", &dest)
	if err != nil || hit {
		t.Errorf("Get(missing) = (%v, %v), want (false, nil)", hit, err)
	}
}
