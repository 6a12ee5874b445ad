package common

import (
	"errors"
	"testing"
)

func TestGuard(t *testing.T) {
	registry := NewStaticRegistry([]string{"market"}, nil)
	if err := Guard(registry, "market"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if err := Guard(registry, "other"); err != nil {
		t.Fatalf("expected unpaused module to pass, got %v", err)
	}
	if err := Guard(nil, "market"); err != nil {
		t.Fatalf("expected nil view to pass, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	var granted, blocked [20]byte
	granted[19] = 0x01
	blocked[19] = 0x02

	registry := NewStaticRegistry(nil, [][20]byte{granted})
	if err := Authorize(registry, "market", granted); err != nil {
		t.Fatalf("expected granted operator to pass, got %v", err)
	}
	if err := Authorize(registry, "market", blocked); !errors.Is(err, ErrOperatorBlocked) {
		t.Fatalf("expected ErrOperatorBlocked, got %v", err)
	}

	open := NewStaticRegistry(nil, nil)
	if err := Authorize(open, "market", blocked); err != nil {
		t.Fatalf("expected empty operator set to grant all, got %v", err)
	}
	if err := Authorize(nil, "market", blocked); err != nil {
		t.Fatalf("expected nil view to grant all, got %v", err)
	}
}
