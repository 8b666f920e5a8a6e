package giveaway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/models"
	"gorm.io/gorm"
)

// giveawayRow is the SQL layout of a giveaway. Times are Unix seconds.
type giveawayRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	GuildID        string `gorm:"size:32;index"`
	ChannelID      string `gorm:"size:32"`
	MessageID      string `gorm:"size:32"`
	Title          string `gorm:"size:256"`
	Prize          string `gorm:"size:256"`
	Criteria       string `gorm:"type:text"`
	WinnersCount   int
	CreatedAt      int64  `gorm:"column:created_at;autoCreateTime:false"`
	EndsAt         int64  `gorm:"column:ends_at"`
	CreatorID      string `gorm:"size:32"`
	HostID         string `gorm:"size:32"`
	RequiredRoleID string `gorm:"size:32"`
	PingRole       bool
	Recurring      bool
	Active         bool `gorm:"index"`
}

func (giveawayRow) TableName() string {
	return "giveaways"
}

func rowFromModel(g *models.Giveaway) *giveawayRow {
	return &giveawayRow{
		ID:             g.ID,
		GuildID:        g.GuildID,
		ChannelID:      g.ChannelID,
		MessageID:      g.MessageID,
		Title:          g.Title,
		Prize:          g.Prize,
		Criteria:       g.Criteria,
		WinnersCount:   g.WinnersCount,
		CreatedAt:      g.CreatedAt.Unix(),
		EndsAt:         g.EndsAt.Unix(),
		CreatorID:      g.CreatorID,
		HostID:         g.HostID,
		RequiredRoleID: g.RequiredRoleID,
		PingRole:       g.PingRole,
		Recurring:      g.Recurring,
		Active:         g.Active,
	}
}

func (r *giveawayRow) toModel() *models.Giveaway {
	return &models.Giveaway{
		ID:             r.ID,
		GuildID:        r.GuildID,
		ChannelID:      r.ChannelID,
		MessageID:      r.MessageID,
		Title:          r.Title,
		Prize:          r.Prize,
		Criteria:       r.Criteria,
		WinnersCount:   r.WinnersCount,
		CreatedAt:      time.Unix(r.CreatedAt, 0).UTC(),
		EndsAt:         time.Unix(r.EndsAt, 0).UTC(),
		CreatorID:      r.CreatorID,
		HostID:         r.HostID,
		RequiredRoleID: r.RequiredRoleID,
		PingRole:       r.PingRole,
		Recurring:      r.Recurring,
		Active:         r.Active,
	}
}

// GormConfig holds configuration for the SQL giveaway repository
type GormConfig struct {
	DB *gorm.DB
}

// gormRepository implements the Repository interface using gorm
type gormRepository struct {
	db *gorm.DB
}

// NewGorm creates a SQL-backed giveaway repository and migrates its table
func NewGorm(cfg *GormConfig) (*gormRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DB == nil {
		return nil, errors.New("db cannot be nil")
	}

	if err := cfg.DB.AutoMigrate(&giveawayRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate giveaways: %w", err)
	}

	return &gormRepository{
		db: cfg.DB,
	}, nil
}

// CreateGiveaway inserts a giveaway and lets the database assign its ID
func (r *gormRepository) CreateGiveaway(ctx context.Context, input *CreateGiveawayInput) (*models.Giveaway, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if err := validateGiveaway(input.Giveaway); err != nil {
		return nil, err
	}

	row := rowFromModel(input.Giveaway)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	return row.toModel(), nil
}

// GetGiveaway retrieves a giveaway by ID
func (r *gormRepository) GetGiveaway(ctx context.Context, input *GetGiveawayInput) (*models.Giveaway, error) {
	if input == nil || input.GiveawayID == 0 {
		return nil, errors.New("input and giveaway ID cannot be empty")
	}

	var row giveawayRow
	err := r.db.WithContext(ctx).Where("id = ?", input.GiveawayID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiveawayNotFound
		}
		return nil, fmt.Errorf("failed to get giveaway: %w", err)
	}

	return row.toModel(), nil
}

// ListGiveaways returns matching giveaways ordered by ID
func (r *gormRepository) ListGiveaways(ctx context.Context, input *ListGiveawaysInput) ([]*models.Giveaway, error) {
	if input == nil {
		input = &ListGiveawaysInput{}
	}

	query := r.db.WithContext(ctx).Model(&giveawayRow{})
	if input.GuildID != "" {
		query = query.Where("guild_id = ?", input.GuildID)
	}
	if input.ChannelID != "" {
		query = query.Where("channel_id = ?", input.ChannelID)
	}
	if input.Active != nil {
		query = query.Where("active = ?", *input.Active)
	}

	var rows []giveawayRow
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list giveaways: %w", err)
	}

	giveaways := make([]*models.Giveaway, 0, len(rows))
	for i := range rows {
		giveaways = append(giveaways, rows[i].toModel())
	}

	return giveaways, nil
}

// SetMessageID attaches the announcement message. Setting the same value twice is a no-op.
func (r *gormRepository) SetMessageID(ctx context.Context, input *SetMessageIDInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	res := r.db.WithContext(ctx).
		Model(&giveawayRow{}).
		Where("id = ?", input.GiveawayID).
		Update("message_id", input.MessageID)
	if res.Error != nil {
		return fmt.Errorf("failed to set message id: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// mysql reports zero affected rows when the value is unchanged
	var count int64
	if err := r.db.WithContext(ctx).Model(&giveawayRow{}).Where("id = ?", input.GiveawayID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to set message id: %w", err)
	}
	if count == 0 {
		return ErrGiveawayNotFound
	}

	return nil
}

// TryFinalize is a single conditional update; only the caller that changes
// the row observes true.
func (r *gormRepository) TryFinalize(ctx context.Context, input *TryFinalizeInput) (bool, error) {
	if input == nil || input.GiveawayID == 0 {
		return false, errors.New("input and giveaway ID cannot be empty")
	}

	res := r.db.WithContext(ctx).
		Model(&giveawayRow{}).
		Where("id = ? AND active = ?", input.GiveawayID, true).
		Update("active", false)
	if res.Error != nil {
		return false, fmt.Errorf("failed to finalize giveaway: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}

// DeleteGiveaway removes the giveaway row
func (r *gormRepository) DeleteGiveaway(ctx context.Context, input *DeleteGiveawayInput) error {
	if input == nil || input.GiveawayID == 0 {
		return errors.New("input and giveaway ID cannot be empty")
	}

	res := r.db.WithContext(ctx).Where("id = ?", input.GiveawayID).Delete(&giveawayRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete giveaway: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGiveawayNotFound
	}

	return nil
}
