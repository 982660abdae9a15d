// Package slot derives Solidity storage positions for mappings, dynamic arrays
// and struct fields, for reading contract state no getter exposes.
package slot

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key is a mapping key in its storage-hashing encoding
type Key interface {
	Bytes() []byte
}

type rawKey []byte

func (k rawKey) Bytes() []byte { return k }

// StringKey encodes a string or bytes key; such keys are hashed unpadded
func StringKey(s string) Key {
	return rawKey(s)
}

// AddressKey left-pads an address to 32 bytes
func AddressKey(address common.Address) Key {
	return rawKey(common.LeftPadBytes(address.Bytes(), 32))
}

// UintKey encodes an unsigned integer key as a 32-byte big-endian word
func UintKey(v *big.Int) Key {
	return rawKey(math.U256Bytes(new(big.Int).Set(v)))
}

// Uint64Key is UintKey for small integers
func Uint64Key(v uint64) Key {
	return UintKey(new(big.Int).SetUint64(v))
}

// Bytes32Key encodes a bytes32 key as-is
func Bytes32Key(h common.Hash) Key {
	return rawKey(h.Bytes())
}

// At returns the hash form of the declared slot number n
func At(n uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(n))
}

// Mapping returns keccak256(key ++ pad32(base))
func Mapping(base common.Hash, key Key) common.Hash {
	return crypto.Keccak256Hash(key.Bytes(), base.Bytes())
}

// ArrayElement returns keccak256(pad32(base)) + index*elementSlots
func ArrayElement(base common.Hash, index *big.Int, elementSlots uint64) common.Hash {
	if elementSlots == 0 {
		elementSlots = 1
	}
	start := new(big.Int).SetBytes(crypto.Keccak256(base.Bytes()))
	offset := new(big.Int).Mul(index, new(big.Int).SetUint64(elementSlots))
	return add(start, offset)
}

// Field returns the slot of the struct field at offset from base
func Field(base common.Hash, offset uint64) common.Hash {
	return add(base.Big(), new(big.Int).SetUint64(offset))
}

func add(a, b *big.Int) common.Hash {
	sum := new(big.Int).Add(a, b)
	return common.BytesToHash(math.U256Bytes(sum))
}

// Path chains slot derivations starting from a declared slot, e.g.
//
//	NewPath(252).Mapping(StringKey(uri)).Field(5).Mapping(Uint64Key(i))
type Path struct {
	slot common.Hash
}

// NewPath starts at declared slot n
func NewPath(n uint64) Path {
	return Path{slot: At(n)}
}

// From starts at an already derived slot
func From(slot common.Hash) Path {
	return Path{slot: slot}
}

func (p Path) Mapping(key Key) Path {
	return Path{slot: Mapping(p.slot, key)}
}

func (p Path) Index(index uint64, elementSlots uint64) Path {
	return Path{slot: ArrayElement(p.slot, new(big.Int).SetUint64(index), elementSlots)}
}

func (p Path) Field(offset uint64) Path {
	return Path{slot: Field(p.slot, offset)}
}

func (p Path) Slot() common.Hash {
	return p.slot
}
