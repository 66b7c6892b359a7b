package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"refakat-backend/internal/ident"
	"refakat-backend/internal/model"
)

// Card code layout: "RK-" + 6 digits for the human-readable number,
// "RK" + zero-padded order id + 4 digits for the barcode.
const (
	cardNoPrefix     = "RK-"
	cardNoDigits     = 6
	barcodePrefix    = "RK"
	barcodeDigits    = 4
	createCardTries  = 3
	defaultCardLimit = 200
)

// ListCards returns cards matching the filter, newest first, with the
// current department joined in.
func (s *gormStore) ListCards(ctx context.Context, filter CardFilter) ([]model.ProductionCard, error) {
	q := s.db.WithContext(ctx).Model(&model.ProductionCard{}).Preload("CurrentDepartment")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != nil {
		q = q.Where("current_department_id = ?", *filter.DepartmentID)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.PlanID != nil {
		q = q.Where("production_plan_id = ?", *filter.PlanID)
	}
	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("card_no LIKE ? OR barcode LIKE ?", like, like)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCardLimit
	}

	var cards []model.ProductionCard
	if err := q.Order("created_at DESC").Limit(limit).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// GetCard returns a single card with its department joined in.
func (s *gormStore) GetCard(ctx context.Context, id int64) (*model.ProductionCard, error) {
	var card model.ProductionCard
	err := s.db.WithContext(ctx).Preload("CurrentDepartment").First(&card, id).Error
	if err != nil {
		return nil, translateNotFound(err, "card %d", id)
	}
	return &card, nil
}

// GetCardByBarcode is the scanner lookup path.
func (s *gormStore) GetCardByBarcode(ctx context.Context, barcode string) (*model.ProductionCard, error) {
	var card model.ProductionCard
	err := s.db.WithContext(ctx).Preload("CurrentDepartment").
		First(&card, "barcode = ?", barcode).Error
	if err != nil {
		return nil, translateNotFound(err, "card barcode %q", barcode)
	}
	return &card, nil
}

// CreateCard generates the card number and barcode server-side and persists
// the card with status "created". Generated codes are probabilistic, so the
// insert retries on a unique violation with fresh codes.
func (s *gormStore) CreateCard(ctx context.Context, input CardInput) (*model.ProductionCard, error) {
	if input.OrderID <= 0 {
		return nil, validationErr("orderId must be positive")
	}
	if input.Length < 0 || input.Weight < 0 || input.Width < 0 {
		return nil, validationErr("physical attributes must not be negative")
	}

	var lastErr error
	for attempt := 0; attempt < createCardTries; attempt++ {
		card := model.ProductionCard{
			CardNo:           ident.Code(cardNoPrefix, cardNoDigits),
			Barcode:          ident.Barcode(barcodePrefix, input.OrderID, barcodeDigits),
			OrderID:          input.OrderID,
			ProductionPlanID: input.ProductionPlanID,
			Status:           model.StatusCreated,
			Length:           input.Length,
			Weight:           input.Weight,
			Width:            input.Width,
			Color:            input.Color,
			FabricTypeID:     input.FabricTypeID,
			QualityGrade:     input.QualityGrade,
		}
		if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("create card: %w", err)
		}
		return &card, nil
	}
	return nil, fmt.Errorf("create card: code collision persisted after %d attempts: %w", createCardTries, lastErr)
}

// UpdateCard merges a partial update and stamps updated_at. Status changes
// are checked against the transition table; everything else is
// last-writer-wins.
func (s *gormStore) UpdateCard(ctx context.Context, id int64, patch CardUpdate) (*model.ProductionCard, error) {
	var updated model.ProductionCard
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.ProductionCard
		if err := tx.First(&card, id).Error; err != nil {
			return translateNotFound(err, "card %d", id)
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if patch.Status != nil {
			if !card.Status.CanTransition(*patch.Status) {
				return fmt.Errorf("card %d: %s -> %s: %w", id, card.Status, *patch.Status, ErrInvalidTransition)
			}
			updates["status"] = *patch.Status
		}
		if patch.CurrentDepartmentID != nil {
			updates["current_department_id"] = *patch.CurrentDepartmentID
		}
		if patch.CurrentStepID != nil {
			updates["current_step_id"] = *patch.CurrentStepID
		}
		if patch.Color != nil {
			updates["color"] = *patch.Color
		}
		if patch.QualityGrade != nil {
			updates["quality_grade"] = *patch.QualityGrade
		}

		if err := tx.Model(&card).Updates(updates).Error; err != nil {
			return fmt.Errorf("update card %d: %w", id, err)
		}
		return tx.Preload("CurrentDepartment").First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCard removes the card and its movement log in one transaction so a
// partial failure cannot orphan movements.
func (s *gormStore) DeleteCard(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.ProductionCard
		if err := tx.First(&card, id).Error; err != nil {
			return translateNotFound(err, "card %d", id)
		}
		if err := tx.Where("production_card_id = ?", id).Delete(&model.CardMovement{}).Error; err != nil {
			return fmt.Errorf("delete movements of card %d: %w", id, err)
		}
		if err := tx.Delete(&model.ProductionCard{}, id).Error; err != nil {
			return fmt.Errorf("delete card %d: %w", id, err)
		}
		return nil
	})
}
