package store

import (
	"time"

	"refakat-backend/internal/model"
)

// CardFilter narrows a card listing. Zero values mean "no filter".
type CardFilter struct {
	Status       model.CardStatus
	DepartmentID *int64
	OrderID      *int64
	PlanID       *int64
	Barcode      string // exact match
	Search       string // free text over card_no and barcode
	Limit        int
}

// CardInput carries the caller-supplied fields for a new card. Card number
// and barcode are always generated server-side.
type CardInput struct {
	OrderID          int64
	ProductionPlanID int64
	Length           float64
	Weight           float64
	Width            float64
	Color            string
	FabricTypeID     int64
	QualityGrade     string
}

// CardUpdate is a partial card mutation; nil fields are left untouched.
type CardUpdate struct {
	Status              *model.CardStatus
	CurrentDepartmentID *int64
	CurrentStepID       *int64
	Color               *string
	QualityGrade        *string
}

// MovementInput opens a step: the operator scanned the card in a department.
type MovementInput struct {
	ProductionCardID int64
	ToDepartmentID   int64
	StepID           *int64
	OperatorID       int64
	MachineID        *int64
	OperationTypeID  *int64
	Notes            string
}

// CompleteMovementInput closes a step. FinalStep marks the card itself
// completed in the same transaction.
type CompleteMovementInput struct {
	Defects   string
	Notes     string
	FinalStep bool
}

// StatusCount is one bucket of the card status histogram.
type StatusCount struct {
	Status model.CardStatus `json:"status"`
	Count  int64            `json:"count"`
}

// DepartmentCount is one bucket of the per-department card histogram.
type DepartmentCount struct {
	DepartmentID   int64  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	Count          int64  `json:"count"`
}

// TrendPoint is one day of the creation/completion trend.
type TrendPoint struct {
	Day       string `json:"day"` // YYYY-MM-DD
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

// DeptPerformance is average completion time for cards that finished in a
// given department.
type DeptPerformance struct {
	DepartmentID   int64   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	AvgHours       float64 `json:"avgHours"`
	Cards          int64   `json:"cards"`
}

// Performance aggregates completion times over completed cards only; active
// or broken flows are not counted.
type Performance struct {
	CompletedCards int64             `json:"completedCards"`
	AvgHours       float64           `json:"avgHours"`
	ByDepartment   []DeptPerformance `json:"byDepartment"`
}

// NotificationQuery narrows a per-user notification listing.
type NotificationQuery struct {
	ShowArchived bool
	Limit        int
	Type         string
}

// NotificationInput carries the fields of a new notification.
type NotificationInput struct {
	UserID  int64
	Type    string
	Title   string
	Message string
}

// NotificationStats is the admin dashboard aggregate.
type NotificationStats struct {
	Total              int64            `json:"total"`
	Unread             int64            `json:"unread"`
	ByType             map[string]int64 `json:"byType"`
	ByUser             map[int64]int64  `json:"byUser"`
	OldestDate         *time.Time       `json:"oldestDate"`
	AdminNotifications int64            `json:"adminNotifications"`
}

// CleanupOptions is the retention rule for one cleanup call.
type CleanupOptions struct {
	UserID           *int64
	OlderThan        *time.Time
	KeepUnread       bool
	MaxNotifications int
}

// SweepOptions parameterizes the auto-cleanup sweep.
type SweepOptions struct {
	PerUserMax int           // retained rows per user, 0 uses DefaultPerUserMax
	Retention  time.Duration // global age window, 0 uses DefaultRetention
}

// Auto-cleanup defaults.
const (
	DefaultPerUserMax = 50
	DefaultRetention  = 7 * 24 * time.Hour
)

// UserCleanupResult is one user's slice of a sweep report.
type UserCleanupResult struct {
	UserID  int64  `json:"userId"`
	Deleted int64  `json:"deletedCount"`
	Error   string `json:"error,omitempty"`
}

// SweepReport summarizes one auto-cleanup run. TotalCleaned equals the sum
// of the per-user deletions plus OldDeleted.
type SweepReport struct {
	RunID        string              `json:"runId"`
	TotalCleaned int64               `json:"totalCleanedCount"`
	OldDeleted   int64               `json:"oldNotificationsDeleted"`
	Results      []UserCleanupResult `json:"results"`
}
