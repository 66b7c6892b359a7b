package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"refakat-backend/internal/mw"
	"refakat-backend/internal/store"
)

type startMovementRequest struct {
	ToDepartmentID  int64  `json:"toDepartmentId" binding:"required"`
	StepID          *int64 `json:"stepId"`
	MachineID       *int64 `json:"machineId"`
	OperationTypeID *int64 `json:"operationTypeId"`
	Notes           string `json:"notes"`
}

// StartMovement handles POST /api/cards/:id/movements. The operator is the
// authenticated actor.
func (h *Handler) StartMovement(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req startMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := mw.ActorFrom(c)
	movement, err := h.store.StartMovement(c.Request.Context(), store.MovementInput{
		ProductionCardID: cardID,
		ToDepartmentID:   req.ToDepartmentID,
		StepID:           req.StepID,
		OperatorID:       actor.UserID,
		MachineID:        req.MachineID,
		OperationTypeID:  req.OperationTypeID,
		Notes:            req.Notes,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

type completeMovementRequest struct {
	Defects   string `json:"defects"`
	Notes     string `json:"notes"`
	FinalStep bool   `json:"finalStep"`
}

// CompleteMovement handles PATCH /api/movements/:id/complete.
func (h *Handler) CompleteMovement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req completeMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, err := h.store.CompleteMovement(c.Request.Context(), id, store.CompleteMovementInput{
		Defects:   req.Defects,
		Notes:     req.Notes,
		FinalStep: req.FinalStep,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, movement)
}

// ListMovements handles GET /api/cards/:id/movements.
func (h *Handler) ListMovements(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	// 404 when the card itself is unknown, not an empty list.
	if _, err := h.store.GetCard(c.Request.Context(), cardID); err != nil {
		abortStoreErr(c, err)
		return
	}
	movements, err := h.store.ListMovementsByCard(c.Request.Context(), cardID)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
