package slot

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Word is one raw 32-byte storage word. An unset slot reads as the zero word.
type Word [32]byte

// WordFromBytes right-aligns b into a word, keeping the low 32 bytes of longer input
func WordFromBytes(b []byte) Word {
	var w Word
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(w[32-len(b):], b)
	return w
}

func (w Word) IsZero() bool {
	return w == Word{}
}

func (w Word) Big() *big.Int {
	return new(big.Int).SetBytes(w[:])
}

func (w Word) Address() common.Address {
	return common.BytesToAddress(w[12:])
}

func (w Word) Bool() bool {
	return w[31] != 0
}

func (w Word) Hash() common.Hash {
	return common.Hash(w)
}

func (w Word) Hex() string {
	return hexutil.Encode(w[:])
}

// ShortString decodes a string or bytes value stored inline (31 bytes or fewer).
// ok is false when the word holds the length of a long string instead.
func (w Word) ShortString() (s string, ok bool) {
	if w[31]&1 == 1 {
		return "", false
	}
	n := int(w[31] / 2)
	if n > 31 {
		return "", false
	}
	return string(w[:n]), true
}

// longStringLength returns the byte length encoded in a long string's head word
func (w Word) longStringLength() (uint64, bool) {
	if w[31]&1 == 0 {
		return 0, false
	}
	length := new(big.Int).Rsh(w.Big(), 1)
	if !length.IsUint64() {
		return 0, false
	}
	return length.Uint64(), true
}
