package logger

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsUsableBeforeInitialize(t *testing.T) {
	assert.NotNil(t, Default())
	assert.NotPanics(t, func() {
		Info("before init")
		ErrorCtx(context.Background(), errors.New("boom"))
	})
}

func TestInitializeWithoutSentry(t *testing.T) {
	require.NoError(t, Initialize(Config{Debug: true}))
	assert.NotNil(t, Named("chain"))
	assert.NotPanics(t, func() {
		DebugCtx(context.Background(), "debug message")
		Error(nil)
		Flush(0)
	})
}

func TestFields(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	f := Address("owner", addr)
	assert.Equal(t, "owner", f.Key)
	assert.Equal(t, addr.Hex(), f.String)

	assert.Equal(t, "<nil>", BigInt("amount", nil).String)
	assert.Equal(t, "2000", BigInt("amount", big.NewInt(2000)).String)
	assert.Equal(t, "txHash", TxHash(common.Hash{}).Key)
}
