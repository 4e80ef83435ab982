package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestGetRemainingHitAndMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := AvailabilityCache{Client: client, TTL: 30 * time.Second}
	ctx := context.Background()

	mock.ExpectGet("trip:remaining:5").SetVal("12")
	n, ok := c.GetRemaining(ctx, 5)
	if !ok || n != 12 {
		t.Fatalf("expected hit with 12, got %d ok=%v", n, ok)
	}

	mock.ExpectGet("trip:remaining:6").RedisNil()
	if _, ok := c.GetRemaining(ctx, 6); ok {
		t.Fatalf("expected miss")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetAndInvalidateRemaining(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := AvailabilityCache{Client: client, TTL: 30 * time.Second}
	ctx := context.Background()

	mock.ExpectSet("trip:remaining:5", "12", 30*time.Second).SetVal("OK")
	if err := c.SetRemaining(ctx, 5, 12); err != nil {
		t.Fatalf("set error: %v", err)
	}

	mock.ExpectDel("trip:remaining:5").SetVal(1)
	if err := c.Invalidate(ctx, 5); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNilClientIsANoop(t *testing.T) {
	c := AvailabilityCache{}
	ctx := context.Background()

	if _, ok := c.GetRemaining(ctx, 5); ok {
		t.Fatalf("nil client should always miss")
	}
	if err := c.SetRemaining(ctx, 5, 1); err != nil {
		t.Fatalf("set on nil client: %v", err)
	}
	if err := c.Invalidate(ctx, 5); err != nil {
		t.Fatalf("invalidate on nil client: %v", err)
	}
}
