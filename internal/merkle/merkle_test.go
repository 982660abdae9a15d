package merkle_test

import (
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibling/smart-contracts/internal/domain"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/merkle"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var allowList = []common.Address{
	common.HexToAddress("0x1111111111111111111111111111111111111111"),
	common.HexToAddress("0x1111111111111111111111111111111111111112"),
	common.HexToAddress("0x1111111111111111111111111111111111111113"),
	common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
	common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
}

func TestProofsVerifyForEveryMember(t *testing.T) {
	for _, leaf := range []merkle.LeafFunc{merkle.AddressLeaf, merkle.StandardLeaf} {
		for n := 1; n <= len(allowList); n++ {
			tree, err := merkle.NewWithLeaf(allowList[:n], leaf)
			require.NoError(t, err)
			assert.Equal(t, n, tree.Len())

			for _, a := range allowList[:n] {
				proof, err := tree.Proof(a)
				require.NoError(t, err)
				assert.True(t, merkle.Verify(tree.Root(), leaf(a), proof), "n=%d address=%s", n, a.Hex())
			}
		}
	}
}

func TestTwoLeafRoot(t *testing.T) {
	tree, err := merkle.New(allowList[:2])
	require.NoError(t, err)

	a := crypto.Keccak256Hash(allowList[0].Bytes())
	b := crypto.Keccak256Hash(allowList[1].Bytes())
	assert.Equal(t, merkle.HashPair(a, b), tree.Root())
	assert.Equal(t, merkle.HashPair(a, b), merkle.HashPair(b, a))

	proof, err := tree.Proof(allowList[0])
	require.NoError(t, err)
	assert.Equal(t, []common.Hash{b}, proof)
}

func TestSingleLeafTree(t *testing.T) {
	tree, err := merkle.New(allowList[:1])
	require.NoError(t, err)

	assert.Equal(t, merkle.AddressLeaf(allowList[0]), tree.Root())
	proof, err := tree.Proof(allowList[0])
	require.NoError(t, err)
	assert.Empty(t, proof)
}

func TestProofRejectsNonMember(t *testing.T) {
	tree, err := merkle.New(allowList[:3])
	require.NoError(t, err)

	outsider := common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	assert.False(t, tree.Contains(outsider))

	_, err = tree.Proof(outsider)
	assert.ErrorIs(t, err, domain.ErrInvalidProof)

	proof, err := tree.Proof(allowList[0])
	require.NoError(t, err)
	assert.False(t, merkle.Verify(tree.Root(), merkle.AddressLeaf(outsider), proof))
}

func TestDuplicatesAreIgnored(t *testing.T) {
	withDup, err := merkle.New(append([]common.Address{allowList[0]}, allowList[:3]...))
	require.NoError(t, err)
	plain, err := merkle.New(allowList[:3])
	require.NoError(t, err)

	assert.Equal(t, 3, withDup.Len())
	assert.Equal(t, plain.Root(), withDup.Root())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := merkle.New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = merkle.New([]common.Address{{}})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestProofBytes(t *testing.T) {
	tree, err := merkle.New(allowList)
	require.NoError(t, err)

	proof, err := tree.Proof(allowList[4])
	require.NoError(t, err)
	raw, err := tree.ProofBytes(allowList[4])
	require.NoError(t, err)

	require.Len(t, raw, len(proof))
	for i := range proof {
		assert.Equal(t, [32]byte(proof[i]), raw[i])
	}
}
