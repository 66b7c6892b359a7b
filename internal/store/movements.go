package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"refakat-backend/internal/model"
)

// StartMovement records an operator scanning a card into a department. The
// movement insert and the card's current-department pointer move in the same
// transaction, so the pointer always matches the newest open movement.
func (s *gormStore) StartMovement(ctx context.Context, input MovementInput) (*model.CardMovement, error) {
	if input.ProductionCardID <= 0 {
		return nil, validationErr("productionCardId must be positive")
	}
	if input.ToDepartmentID <= 0 {
		return nil, validationErr("toDepartmentId must be positive")
	}
	if input.OperatorID <= 0 {
		return nil, validationErr("operatorId must be positive")
	}

	now := time.Now().UTC()
	var movement model.CardMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.ProductionCard
		if err := tx.First(&card, input.ProductionCardID).Error; err != nil {
			return translateNotFound(err, "card %d", input.ProductionCardID)
		}
		if card.Status.Terminal() {
			return fmt.Errorf("card %d is %s: %w", card.ID, card.Status, ErrInvalidTransition)
		}

		movement = model.CardMovement{
			ProductionCardID: card.ID,
			FromDepartmentID: card.CurrentDepartmentID,
			ToDepartmentID:   input.ToDepartmentID,
			OperatorID:       input.OperatorID,
			MachineID:        input.MachineID,
			OperationTypeID:  input.OperationTypeID,
			StartTime:        now,
			Status:           model.MovementInProgress,
			Notes:            input.Notes,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("create movement for card %d: %w", card.ID, err)
		}

		updates := map[string]any{
			"current_department_id": input.ToDepartmentID,
			"updated_at":            now,
		}
		if input.StepID != nil {
			updates["current_step_id"] = *input.StepID
		}
		if card.Status == model.StatusCreated {
			updates["status"] = model.StatusInProgress
		}
		if err := tx.Model(&card).Updates(updates).Error; err != nil {
			return fmt.Errorf("advance card %d: %w", card.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// CompleteMovement closes an open step. With FinalStep set, the owning card
// transitions to completed in the same transaction.
func (s *gormStore) CompleteMovement(ctx context.Context, id int64, input CompleteMovementInput) (*model.CardMovement, error) {
	now := time.Now().UTC()
	var movement model.CardMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&movement, id).Error; err != nil {
			return translateNotFound(err, "movement %d", id)
		}
		if movement.EndTime != nil {
			return fmt.Errorf("movement %d already completed: %w", id, ErrInvalidTransition)
		}

		updates := map[string]any{
			"end_time": now,
			"status":   model.MovementCompleted,
		}
		if input.Defects != "" {
			updates["defects"] = input.Defects
		}
		if input.Notes != "" {
			updates["notes"] = input.Notes
		}
		if err := tx.Model(&movement).Updates(updates).Error; err != nil {
			return fmt.Errorf("complete movement %d: %w", id, err)
		}

		if input.FinalStep {
			var card model.ProductionCard
			if err := tx.First(&card, movement.ProductionCardID).Error; err != nil {
				return translateNotFound(err, "card %d", movement.ProductionCardID)
			}
			if !card.Status.CanTransition(model.StatusCompleted) {
				return fmt.Errorf("card %d: %s -> %s: %w", card.ID, card.Status, model.StatusCompleted, ErrInvalidTransition)
			}
			if err := tx.Model(&card).Updates(map[string]any{
				"status":     model.StatusCompleted,
				"updated_at": now,
			}).Error; err != nil {
				return fmt.Errorf("complete card %d: %w", card.ID, err)
			}
		}
		return tx.First(&movement, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// ListMovementsByCard returns a card's movement log, newest start first,
// with the department and operator joined in.
func (s *gormStore) ListMovementsByCard(ctx context.Context, cardID int64) ([]model.CardMovement, error) {
	var movements []model.CardMovement
	err := s.db.WithContext(ctx).
		Preload("ToDepartment").
		Preload("Operator").
		Where("production_card_id = ?", cardID).
		Order("start_time DESC").
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("list movements of card %d: %w", cardID, err)
	}
	return movements, nil
}
