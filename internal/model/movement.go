package model

import "time"

// CardMovement is one logged visit of a production card to a department
// or machine. Rows are append-only: a movement is opened when an operator
// scans the card and closed (EndTime set) when the step completes.
type CardMovement struct {
	ID               int64  `gorm:"primaryKey" json:"id"`
	ProductionCardID int64  `gorm:"index;not null" json:"productionCardId"`
	FromDepartmentID *int64 `json:"fromDepartmentId"`
	ToDepartmentID   int64  `gorm:"index;not null" json:"toDepartmentId"`
	OperatorID       int64  `gorm:"index" json:"operatorId"`
	MachineID        *int64 `json:"machineId"`
	OperationTypeID  *int64 `json:"operationTypeId"`

	StartTime time.Time  `gorm:"not null;index" json:"startTime"`
	EndTime   *time.Time `json:"endTime"` // nil while the step is in progress

	Status  string `gorm:"size:20;not null" json:"status"`
	Notes   string `gorm:"type:text" json:"notes"`
	Defects string `gorm:"type:text" json:"defects"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	// Associations
	ToDepartment *Department `gorm:"foreignKey:ToDepartmentID" json:"toDepartment,omitempty"`
	Operator     *User       `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

// Movement step statuses.
const (
	MovementInProgress = "in_progress"
	MovementCompleted  = "completed"
)
