package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/decibling/smart-contracts/internal/config"
	"github.com/decibling/smart-contracts/internal/logger"
	"github.com/decibling/smart-contracts/internal/store/schema"
)

type pgStore struct {
	CursorStore
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		CursorStore: NewCursorStore(db),
		db:          db,
	}
}

// Open connects to PostgreSQL and configures the connection pool
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the tables the services use
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&schema.FaucetGrant{},
		&schema.ContractEvent{},
		&schema.KeyValueStore{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 10
	}
	if maxIdleConns == 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// ReserveGrant upserts the grant row in a single statement. The conflict branch only
// updates when the stored grant is at least wait old, so concurrent reservations for the
// same address cannot both succeed.
func (s *pgStore) ReserveGrant(ctx context.Context, address string, now time.Time, wait time.Duration) (bool, error) {
	address = strings.ToLower(address)
	now = now.UTC()

	grant := schema.FaucetGrant{
		Address:     address,
		LastGrantAt: now,
		GrantID:     ulid.MustNewDefault(now).String(),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_grant_at", "grant_id", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "faucet_grants.last_grant_at <= ?", Vars: []interface{}{now.Add(-wait)}},
		}},
	}).Create(&grant)
	if result.Error != nil {
		return false, fmt.Errorf("failed to reserve grant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		logger.DebugCtx(ctx, "Grant reservation rejected by cooldown", zap.String("address", address))
		return false, nil
	}

	return true, nil
}

// GetGrant retrieves the grant record of an address
func (s *pgStore) GetGrant(ctx context.Context, address string) (*schema.FaucetGrant, error) {
	var grant schema.FaucetGrant
	err := s.db.WithContext(ctx).Where("address = ?", strings.ToLower(address)).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	return &grant, nil
}

// SaveEvent inserts the event unless a row with the same tx hash and log index exists
func (s *pgStore) SaveEvent(ctx context.Context, event *schema.ContractEvent) (bool, error) {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, fmt.Errorf("failed to save contract event: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
