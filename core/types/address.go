package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseAddress decodes a 20-byte principal address from its hex form, with or
// without a 0x prefix.
func ParseAddress(s string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, len(addr), len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

// FormatAddress renders a principal address as 0x-prefixed hex.
func FormatAddress(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}
