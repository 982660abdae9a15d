package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/store/schema"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupTestStore(t *testing.T) Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewPGStore(db)
}

const grantee = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func TestReserveGrantCooldown(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	wait := 5 * time.Second
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ok, err := st.ReserveGrant(ctx, grantee, start, wait)
	require.NoError(t, err)
	assert.True(t, ok, "first request is granted")

	ok, err = st.ReserveGrant(ctx, grantee, start.Add(2*time.Second), wait)
	require.NoError(t, err)
	assert.False(t, ok, "second request inside the window waits")

	grant, err := st.GetGrant(ctx, grantee)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.True(t, start.Equal(grant.LastGrantAt), "a rejected request does not move the window")

	ok, err = st.ReserveGrant(ctx, grantee, start.Add(6*time.Second), wait)
	require.NoError(t, err)
	assert.True(t, ok, "request after the window is granted")

	grant, err = st.GetGrant(ctx, grantee)
	require.NoError(t, err)
	assert.True(t, start.Add(6*time.Second).Equal(grant.LastGrantAt))
	assert.Len(t, grant.GrantID, 26)
}

func TestReserveGrantIsCaseInsensitive(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	ok, err := st.ReserveGrant(ctx, grantee, now, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.ReserveGrant(ctx, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", now.Add(time.Second), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	grant, err := st.GetGrant(ctx, "0x70997970C51812DC3A010C7D01B50E0D17DC79C8")
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", grant.Address)
}

func TestGetGrantMissing(t *testing.T) {
	st := setupTestStore(t)

	grant, err := st.GetGrant(context.Background(), grantee)
	require.NoError(t, err)
	assert.Nil(t, grant)
}

func TestSaveEventIsIdempotent(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	event := &schema.ContractEvent{
		ChainID:     421614,
		Contract:    "DeciblingAuction",
		Address:     "0xfdd485062b3e73549ec3e654ba565f6fab7dc670",
		Event:       "BidPlaced",
		BlockNumber: 120,
		TxHash:      "0x8f1a",
		LogIndex:    3,
		Args:        datatypes.JSON(`{"price":"2000"}`),
	}

	saved, err := st.SaveEvent(ctx, event)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.NotEmpty(t, event.ID)

	duplicate := *event
	duplicate.ID = ""
	saved, err = st.SaveEvent(ctx, &duplicate)
	require.NoError(t, err)
	assert.False(t, saved)

	other := *event
	other.ID = ""
	other.LogIndex = 4
	saved, err = st.SaveEvent(ctx, &other)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestBlockCursor(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	name := CursorName(421614, "DeciblingAuction")

	assert.Equal(t, "421614:DeciblingAuction", name)

	block, err := st.GetBlockCursor(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), block)

	require.NoError(t, st.SetBlockCursor(ctx, name, 100))
	require.NoError(t, st.SetBlockCursor(ctx, name, 250))

	block, err = st.GetBlockCursor(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), block)

	other, err := st.GetBlockCursor(ctx, CursorName(421614, "DeciblingStaking"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), other)
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 10, open)
	assert.Equal(t, 2, idle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(4, 8, time.Minute, time.Minute)
	assert.Equal(t, 4, open)
	assert.Equal(t, 4, idle)
}
