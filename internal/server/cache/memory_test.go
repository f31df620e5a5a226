package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/contacthub/internal/common"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}
}

func TestMemory_GetMissing(t *testing.T) {
	c := NewMemory()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, err := c.Get(ctx, "k")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
}

func TestMemory_DeletePrefix(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.Set(ctx, "contacts:u1:0:10", []byte("a"), time.Minute)
	_ = c.Set(ctx, "contacts:u1:10:10", []byte("b"), time.Minute)
	_ = c.Set(ctx, "contacts:u2:0:10", []byte("c"), time.Minute)

	if err := c.DeletePrefix(ctx, "contacts:u1:"); err != nil {
		t.Fatalf("DeletePrefix error: %v", err)
	}

	if _, err := c.Get(ctx, "contacts:u1:0:10"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected u1 page dropped, got %v", err)
	}
	if _, err := c.Get(ctx, "contacts:u1:10:10"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected u1 page dropped, got %v", err)
	}
	if _, err := c.Get(ctx, "contacts:u2:0:10"); err != nil {
		t.Fatalf("u2 page must survive, got %v", err)
	}
}
