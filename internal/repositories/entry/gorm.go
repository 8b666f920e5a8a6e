package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entryRow is the SQL layout of an entry. The autoincrement ID keeps join order.
type entryRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	GiveawayID int64  `gorm:"uniqueIndex:idx_entry_giveaway_user"`
	UserID     string `gorm:"size:32;uniqueIndex:idx_entry_giveaway_user"`
	JoinedAt   int64
}

func (entryRow) TableName() string {
	return "participants"
}

// GormConfig holds configuration for the SQL entry repository
type GormConfig struct {
	DB *gorm.DB
}

type gormRepository struct {
	db *gorm.DB
}

// NewGorm creates a SQL-backed entry repository and migrates its table
func NewGorm(cfg *GormConfig) (*gormRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("db cannot be nil")
	}

	if err := cfg.DB.AutoMigrate(&entryRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate participants: %w", err)
	}

	return &gormRepository{
		db: cfg.DB,
	}, nil
}

// ToggleEntry deletes the pair if present, otherwise inserts it, in one transaction
func (r *gormRepository) ToggleEntry(ctx context.Context, input *ToggleEntryInput) (models.EntryAction, error) {
	if input == nil || input.GiveawayID == 0 || input.UserID == "" {
		return "", errors.New("input, giveaway ID and user ID cannot be empty")
	}

	var action models.EntryAction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("giveaway_id = ? AND user_id = ?", input.GiveawayID, input.UserID).Delete(&entryRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			action = models.EntryActionLeft
			return nil
		}

		// a concurrent insert of the same pair leaves the user joined either way
		row := &entryRow{
			GiveawayID: input.GiveawayID,
			UserID:     input.UserID,
			JoinedAt:   input.At.Unix(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		action = models.EntryActionJoined
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to toggle entry: %w", err)
	}

	return action, nil
}

// ListEntries returns entries in join order
func (r *gormRepository) ListEntries(ctx context.Context, input *ListEntriesInput) ([]*models.Entry, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	var rows []entryRow
	err := r.db.WithContext(ctx).
		Where("giveaway_id = ?", input.GiveawayID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*models.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &models.Entry{
			GiveawayID: row.GiveawayID,
			UserID:     row.UserID,
			JoinedAt:   time.Unix(row.JoinedAt, 0).UTC(),
		})
	}

	return entries, nil
}

// CountEntries counts the entries of a giveaway
func (r *gormRepository) CountEntries(ctx context.Context, input *CountEntriesInput) (int, error) {
	if input == nil || input.GiveawayID == 0 {
		return 0, errors.New("input and giveaway ID cannot be empty")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entryRow{}).
		Where("giveaway_id = ?", input.GiveawayID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return int(count), nil
}

// ClearEntries removes every entry of a giveaway
func (r *gormRepository) ClearEntries(ctx context.Context, input *ClearEntriesInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	err := r.db.WithContext(ctx).Where("giveaway_id = ?", input.GiveawayID).Delete(&entryRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	return nil
}
