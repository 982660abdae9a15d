package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/decibling/smart-contracts/internal/domain"
)

// parseBig accepts a non-negative decimal or 0x-prefixed hex integer
func parseBig(name, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s %q is not a non-negative integer", domain.ErrInvalidInput, name, s)
	}
	return v, nil
}

func parseUint64(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an unsigned integer", domain.ErrInvalidInput, name, s)
	}
	return v, nil
}

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: %w: %q", name, domain.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// parseSlot accepts a declared slot number or a full 32-byte slot in hex
func parseSlot(s string) (common.Hash, error) {
	if strings.HasPrefix(s, "0x") && len(s) == 66 {
		return common.HexToHash(s), nil
	}
	v, err := parseBig("slot", s)
	if err != nil {
		return common.Hash{}, err
	}
	if v.BitLen() > 256 {
		return common.Hash{}, fmt.Errorf("%w: slot %q exceeds 256 bits", domain.ErrInvalidInput, s)
	}
	return common.BigToHash(v), nil
}

// parseTime accepts RFC3339, unix seconds, or +duration relative to now
func parseTime(name, s string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(s, "+") {
		d, err := time.ParseDuration(s[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s %q: %v", domain.ErrInvalidInput, name, s, err)
		}
		return now.Add(d), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not RFC3339, unix seconds or +duration", domain.ErrInvalidInput, name, s)
	}
	return t, nil
}
