package slot

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/decibling/smart-contracts/internal/domain"
)

// maxLongStringWords bounds a long string read to 32 KiB
const maxLongStringWords = 1024

// StorageReader reads raw contract storage; chain.Client satisfies it
type StorageReader interface {
	StorageAt(ctx context.Context, contract common.Address, slot common.Hash) ([]byte, error)
}

// Kind is the Solidity type of a struct field read from storage
type Kind int

const (
	KindUint Kind = iota
	KindAddress
	KindBool
	KindString
	KindBytes32
)

// FieldSpec describes one full-slot struct member
type FieldSpec struct {
	Name   string
	Offset uint64
	Kind   Kind
}

// Resolver performs read-only storage introspection
type Resolver struct {
	reader StorageReader
}

func NewResolver(reader StorageReader) *Resolver {
	return &Resolver{reader: reader}
}

// Read returns the word at slot. An unset slot is the zero word, not an error;
// transport failures are *domain.RPCError.
func (r *Resolver) Read(ctx context.Context, contract common.Address, slot common.Hash) (Word, error) {
	raw, err := r.reader.StorageAt(ctx, contract, slot)
	if err != nil {
		if errors.Is(err, domain.ErrRPC) {
			return Word{}, err
		}
		return Word{}, domain.NewRPCError("eth_getStorageAt", err)
	}
	return WordFromBytes(raw), nil
}

// ReadString reads a string or bytes value whose head word is at slot
func (r *Resolver) ReadString(ctx context.Context, contract common.Address, slot common.Hash) (string, error) {
	head, err := r.Read(ctx, contract, slot)
	if err != nil {
		return "", err
	}

	if s, ok := head.ShortString(); ok {
		return s, nil
	}

	length, ok := head.longStringLength()
	if !ok {
		return "", fmt.Errorf("%w: malformed string head at %s", domain.ErrDecode, slot.Hex())
	}

	words := (length + 31) / 32
	if words > maxLongStringWords {
		return "", fmt.Errorf("%w: string at %s is %d bytes", domain.ErrDecode, slot.Hex(), length)
	}

	data := make([]byte, 0, words*32)
	start := crypto.Keccak256Hash(slot.Bytes())
	for i := uint64(0); i < words; i++ {
		w, err := r.Read(ctx, contract, Field(start, i))
		if err != nil {
			return "", err
		}
		data = append(data, w[:]...)
	}

	return string(data[:length]), nil
}

// ReadStruct reads fields relative to base and returns them by name.
// Uints are *big.Int, addresses common.Address, bools bool, strings string, bytes32 common.Hash.
func (r *Resolver) ReadStruct(ctx context.Context, contract common.Address, base common.Hash, fields []FieldSpec) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		slot := Field(base, f.Offset)

		if f.Kind == KindString {
			s, err := r.ReadString(ctx, contract, slot)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			out[f.Name] = s
			continue
		}

		w, err := r.Read(ctx, contract, slot)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		switch f.Kind {
		case KindUint:
			out[f.Name] = w.Big()
		case KindAddress:
			out[f.Name] = w.Address()
		case KindBool:
			out[f.Name] = w.Bool()
		case KindBytes32:
			out[f.Name] = w.Hash()
		default:
			return nil, fmt.Errorf("%w: unknown kind %d for field %s", domain.ErrInvalidInput, f.Kind, f.Name)
		}
	}
	return out, nil
}

// ReadUint is a convenience for a single uint256 slot
func (r *Resolver) ReadUint(ctx context.Context, contract common.Address, slot common.Hash) (*big.Int, error) {
	w, err := r.Read(ctx, contract, slot)
	if err != nil {
		return nil, err
	}
	return w.Big(), nil
}
