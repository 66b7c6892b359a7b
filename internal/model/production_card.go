package model

import "time"

// ProductionCard is the travel card that follows a fabric batch through
// the production departments.
type ProductionCard struct {
	ID                  int64      `gorm:"primaryKey" json:"id"`
	CardNo              string     `gorm:"uniqueIndex;size:32;not null" json:"cardNo"`
	Barcode             string     `gorm:"uniqueIndex;size:32;not null" json:"barcode"`
	OrderID             int64      `gorm:"index" json:"orderId"`
	ProductionPlanID    int64      `gorm:"index" json:"productionPlanId"`
	CurrentDepartmentID *int64     `gorm:"index" json:"currentDepartmentId"`
	CurrentStepID       *int64     `json:"currentStepId"`
	Status              CardStatus `gorm:"size:20;not null;index" json:"status"`

	// Physical attributes, descriptive and immutable after creation.
	Length       float64 `json:"length"`
	Weight       float64 `json:"weight"`
	Width        float64 `json:"width"`
	Color        string  `gorm:"size:64" json:"color"`
	FabricTypeID int64   `json:"fabricTypeId"`
	QualityGrade string  `gorm:"size:16" json:"qualityGrade"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	CurrentDepartment *Department    `gorm:"foreignKey:CurrentDepartmentID" json:"currentDepartment,omitempty"`
	Movements         []CardMovement `gorm:"foreignKey:ProductionCardID" json:"movements,omitempty"`
}
