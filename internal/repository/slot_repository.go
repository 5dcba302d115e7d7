package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"assignment-tracker/internal/model"
	"assignment-tracker/internal/storage"
)

// SlotRepository stores named values in the slots table.
type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Get returns the raw value of a slot or storage.ErrSlotNotFound.
func (r *SlotRepository) Get(ctx context.Context, key string) (string, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).Where("slot_key = ?", key).First(&slot).Error
	switch {
	case err == nil:
		return slot.Value, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", storage.ErrSlotNotFound
	default:
		return "", fmt.Errorf("find slot %q: %w", key, err)
	}
}

// Put writes the whole value of a slot, creating the row on first use.
func (r *SlotRepository) Put(ctx context.Context, key, value string) error {
	slot := model.Slot{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("save slot %q: %w", key, err)
	}
	return nil
}
