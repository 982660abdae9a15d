// Package merkle builds allow-list trees whose proofs verify with
// OpenZeppelin's MerkleProof.verify (sorted-pair keccak256).
package merkle

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/decibling/smart-contracts/internal/domain"
)

// LeafFunc hashes an allow-listed address into a leaf
type LeafFunc func(common.Address) common.Hash

// AddressLeaf is keccak256(address), the encoding the mint and pool allow-lists use
func AddressLeaf(address common.Address) common.Hash {
	return crypto.Keccak256Hash(address.Bytes())
}

var addressArgs = abi.Arguments{{Type: mustType("address")}}

// StandardLeaf is keccak256(keccak256(abi.encode(address))), the
// @openzeppelin/merkle-tree StandardMerkleTree leaf encoding
func StandardLeaf(address common.Address) common.Hash {
	encoded, err := addressArgs.Pack(address)
	if err != nil {
		// packing a fixed-size address cannot fail
		panic(err)
	}
	return crypto.Keccak256Hash(crypto.Keccak256(encoded))
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Tree is an immutable Merkle tree. Layer 0 holds the leaves; an odd node
// at the end of a layer is carried up unchanged.
type Tree struct {
	leaf   LeafFunc
	layers [][]common.Hash
	index  map[common.Hash]int
}

// New builds a tree over addresses with AddressLeaf leaves
func New(addresses []common.Address) (*Tree, error) {
	return NewWithLeaf(addresses, AddressLeaf)
}

// NewWithLeaf builds a tree using a custom leaf encoding. Duplicate addresses are ignored.
func NewWithLeaf(addresses []common.Address, leaf LeafFunc) (*Tree, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: empty allow-list", domain.ErrInvalidInput)
	}

	leaves := make([]common.Hash, 0, len(addresses))
	index := make(map[common.Hash]int, len(addresses))
	for _, a := range addresses {
		if a == (common.Address{}) {
			return nil, fmt.Errorf("%w: zero address in allow-list", domain.ErrInvalidAddress)
		}
		h := leaf(a)
		if _, ok := index[h]; ok {
			continue
		}
		index[h] = len(leaves)
		leaves = append(leaves, h)
	}

	layers := [][]common.Hash{leaves}
	for current := leaves; len(current) > 1; {
		next := make([]common.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 == len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, HashPair(current[i], current[i+1]))
		}
		layers = append(layers, next)
		current = next
	}

	return &Tree{leaf: leaf, layers: layers, index: index}, nil
}

// Root returns the tree root
func (t *Tree) Root() common.Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Len returns the number of distinct leaves
func (t *Tree) Len() int {
	return len(t.layers[0])
}

// Contains reports whether address is in the allow-list
func (t *Tree) Contains(address common.Address) bool {
	_, ok := t.index[t.leaf(address)]
	return ok
}

// Proof returns the sibling path for address, bottom up.
// A single-leaf tree has an empty proof.
func (t *Tree) Proof(address common.Address) ([]common.Hash, error) {
	i, ok := t.index[t.leaf(address)]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the allow-list", domain.ErrInvalidProof, address.Hex())
	}

	proof := make([]common.Hash, 0, len(t.layers)-1)
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := i ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		i /= 2
	}
	return proof, nil
}

// ProofBytes returns Proof in the [][32]byte form the contract bindings take
func (t *Tree) ProofBytes(address common.Address) ([][32]byte, error) {
	proof, err := t.Proof(address)
	if err != nil {
		return nil, err
	}
	return ToBytes32(proof), nil
}

// ToBytes32 converts a proof to the ABI bytes32[] argument shape
func ToBytes32(proof []common.Hash) [][32]byte {
	out := make([][32]byte, len(proof))
	for i, h := range proof {
		out[i] = h
	}
	return out
}

// Verify folds proof over leaf and compares the result with root
func Verify(root, leaf common.Hash, proof []common.Hash) bool {
	computed := leaf
	for _, p := range proof {
		computed = HashPair(computed, p)
	}
	return computed == root
}

// HashPair hashes two nodes in ascending byte order
func HashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a[:], b[:])
}
