package winner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"gorm.io/gorm"
)

// winnerRow is the SQL layout of a winner. A user may appear once per draw.
type winnerRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	GiveawayID int64  `gorm:"index"`
	UserID     string `gorm:"size:32"`
	DrawID     string `gorm:"size:36"`
	DrawnAt    int64
}

func (winnerRow) TableName() string {
	return "winners"
}

func rowsFromDraw(d *Draw) []*winnerRow {
	rows := make([]*winnerRow, 0, len(d.UserIDs))
	for _, userID := range d.UserIDs {
		rows = append(rows, &winnerRow{
			GiveawayID: d.GiveawayID,
			UserID:     userID,
			DrawID:     d.DrawID,
			DrawnAt:    d.DrawnAt.Unix(),
		})
	}
	return rows
}

// GormConfig holds configuration for the SQL winner repository
type GormConfig struct {
	DB *gorm.DB
}

type gormRepository struct {
	db *gorm.DB
}

// NewGorm creates a SQL-backed winner repository and migrates its table
func NewGorm(cfg *GormConfig) (*gormRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("db cannot be nil")
	}

	if err := cfg.DB.AutoMigrate(&winnerRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate winners: %w", err)
	}

	return &gormRepository{
		db: cfg.DB,
	}, nil
}

// AddWinners inserts the draw
func (r *gormRepository) AddWinners(ctx context.Context, input *AddWinnersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	if err := input.validate(); err != nil {
		return err
	}
	if len(input.UserIDs) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).Create(rowsFromDraw(&input.Draw)).Error; err != nil {
		return fmt.Errorf("failed to add winners: %w", err)
	}

	return nil
}

// ReplaceWinners deletes the previous winners and inserts the draw in one transaction
func (r *gormRepository) ReplaceWinners(ctx context.Context, input *ReplaceWinnersInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	if err := input.validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("giveaway_id = ?", input.GiveawayID).Delete(&winnerRow{}).Error; err != nil {
			return err
		}
		if len(input.UserIDs) == 0 {
			return nil
		}
		return tx.Create(rowsFromDraw(&input.Draw)).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace winners: %w", err)
	}

	return nil
}

// ListWinners returns winners in draw order
func (r *gormRepository) ListWinners(ctx context.Context, input *ListWinnersInput) ([]*models.Winner, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	var rows []winnerRow
	err := r.db.WithContext(ctx).
		Where("giveaway_id = ?", input.GiveawayID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}

	winners := make([]*models.Winner, 0, len(rows))
	for _, row := range rows {
		winners = append(winners, &models.Winner{
			GiveawayID: row.GiveawayID,
			UserID:     row.UserID,
			DrawID:     row.DrawID,
			DrawnAt:    time.Unix(row.DrawnAt, 0).UTC(),
		})
	}

	return winners, nil
}

// ClearWinners removes every winner of a giveaway
func (r *gormRepository) ClearWinners(ctx context.Context, input *ClearWinnersInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	err := r.db.WithContext(ctx).Where("giveaway_id = ?", input.GiveawayID).Delete(&winnerRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear winners: %w", err)
	}

	return nil
}
