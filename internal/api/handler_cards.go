package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"refakat-backend/internal/model"
	"refakat-backend/internal/store"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ListCards handles GET /api/cards with the filter query params.
func (h *Handler) ListCards(c *gin.Context) {
	filter := store.CardFilter{
		Status:       model.CardStatus(c.Query("status")),
		DepartmentID: queryInt64(c, "departmentId"),
		OrderID:      queryInt64(c, "orderId"),
		PlanID:       queryInt64(c, "planId"),
		Barcode:      c.Query("barcode"),
		Search:       c.Query("search"),
	}
	if limit := queryInt64(c, "limit"); limit != nil {
		filter.Limit = int(*limit)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	cards, err := h.store.ListCards(c.Request.Context(), filter)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetCard handles GET /api/cards/:id.
func (h *Handler) GetCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	card, err := h.store.GetCard(c.Request.Context(), id)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// GetCardByBarcode handles GET /api/cards/barcode/:barcode, the scanner
// lookup.
func (h *Handler) GetCardByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}
	card, err := h.store.GetCardByBarcode(c.Request.Context(), barcode)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type createCardRequest struct {
	OrderID          int64   `json:"orderId" binding:"required"`
	ProductionPlanID int64   `json:"productionPlanId"`
	Length           float64 `json:"length"`
	Weight           float64 `json:"weight"`
	Width            float64 `json:"width"`
	Color            string  `json:"color"`
	FabricTypeID     int64   `json:"fabricTypeId"`
	QualityGrade     string  `json:"qualityGrade"`
}

// CreateCard handles POST /api/cards. Card number and barcode are always
// generated server-side; client-supplied values are not read.
func (h *Handler) CreateCard(c *gin.Context) {
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.store.CreateCard(c.Request.Context(), store.CardInput{
		OrderID:          req.OrderID,
		ProductionPlanID: req.ProductionPlanID,
		Length:           req.Length,
		Weight:           req.Weight,
		Width:            req.Width,
		Color:            req.Color,
		FabricTypeID:     req.FabricTypeID,
		QualityGrade:     req.QualityGrade,
	})
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

type updateCardRequest struct {
	Status              *string `json:"status"`
	CurrentDepartmentID *int64  `json:"currentDepartmentId"`
	CurrentStepID       *int64  `json:"currentStepId"`
	Color               *string `json:"color"`
	QualityGrade        *string `json:"qualityGrade"`
}

// UpdateCard handles PATCH /api/cards/:id.
func (h *Handler) UpdateCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := store.CardUpdate{
		CurrentDepartmentID: req.CurrentDepartmentID,
		CurrentStepID:       req.CurrentStepID,
		Color:               req.Color,
		QualityGrade:        req.QualityGrade,
	}
	if req.Status != nil {
		status := model.CardStatus(*req.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + *req.Status})
			return
		}
		patch.Status = &status
	}

	card, err := h.store.UpdateCard(c.Request.Context(), id, patch)
	if err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /api/cards/:id (admin only).
func (h *Handler) DeleteCard(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCard(c.Request.Context(), id); err != nil {
		abortStoreErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
