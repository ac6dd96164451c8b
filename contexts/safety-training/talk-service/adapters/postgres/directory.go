package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"

	"gorm.io/gorm"
)

type recipientModel struct {
	RecipientID string `gorm:"column:recipient_id;primaryKey"`
	Name        string `gorm:"column:name"`
	Email       string `gorm:"column:email"`
	Phone       string `gorm:"column:phone"`
}

func (recipientModel) TableName() string {
	return "recipients"
}

// Directory resolves recipients from the shared recipients table. The talk
// service only reads it; ownership of the rows sits with the HR import job.
type Directory struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDirectory(db *gorm.DB, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		db:     db,
		logger: logger,
	}
}

// MigrateDirectory creates the recipients table when the import job has not
// run yet. Local and staging convenience only.
func MigrateDirectory(db *gorm.DB) error {
	return db.AutoMigrate(&recipientModel{})
}

func (d *Directory) Lookup(ctx context.Context, recipientID string) (ports.Recipient, error) {
	var row recipientModel
	err := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Recipient{}, domainerrors.ErrRecipientNotFound
	}
	if err != nil {
		d.logger.Error("recipient lookup failed",
			"event", "recipient_lookup_failed",
			"module", "safety-training/talk-service",
			"layer", "adapter",
			"recipient_id", recipientID,
			"error", err.Error(),
		)
		return ports.Recipient{}, fmt.Errorf("lookup recipient %s: %w", recipientID, err)
	}
	return ports.Recipient{
		RecipientID: row.RecipientID,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
	}, nil
}
