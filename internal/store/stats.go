package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"refakat-backend/internal/model"
)

// StatusCounts returns the card count per status.
func (s *gormStore) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := s.db.WithContext(ctx).
		Model(&model.ProductionCard{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return counts, nil
}

// DepartmentCounts returns the card count per current department, with the
// department name joined in. Cards not yet in any department are skipped.
func (s *gormStore) DepartmentCounts(ctx context.Context) ([]DepartmentCount, error) {
	var counts []DepartmentCount
	err := s.db.WithContext(ctx).
		Model(&model.ProductionCard{}).
		Select("production_cards.current_department_id as department_id, departments.name as department_name, COUNT(*) as count").
		Joins("JOIN departments ON departments.id = production_cards.current_department_id").
		Group("production_cards.current_department_id, departments.name").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("department counts: %w", err)
	}
	return counts, nil
}

// dayRow is one grouped day of either the created or completed series.
type dayRow struct {
	Day   string
	Count int64
}

// DailyTrend returns per-day created and completed card counts over the
// window. The two grouped queries are merged in Go.
func (s *gormStore) DailyTrend(ctx context.Context, start, end time.Time) ([]TrendPoint, error) {
	var created []dayRow
	err := s.db.WithContext(ctx).
		Model(&model.ProductionCard{}).
		Select("DATE(created_at) as day, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Group("DATE(created_at)").
		Scan(&created).Error
	if err != nil {
		return nil, fmt.Errorf("trend created counts: %w", err)
	}

	// Completion day approximated by the completed card's last update.
	var completed []dayRow
	err = s.db.WithContext(ctx).
		Model(&model.ProductionCard{}).
		Select("DATE(updated_at) as day, COUNT(*) as count").
		Where("status = ? AND updated_at >= ? AND updated_at < ?", model.StatusCompleted, start, end).
		Group("DATE(updated_at)").
		Scan(&completed).Error
	if err != nil {
		return nil, fmt.Errorf("trend completed counts: %w", err)
	}

	byDay := make(map[string]*TrendPoint, len(created))
	for _, row := range created {
		byDay[row.Day] = &TrendPoint{Day: row.Day, Created: row.Count}
	}
	for _, row := range completed {
		if p, ok := byDay[row.Day]; ok {
			p.Completed = row.Count
		} else {
			byDay[row.Day] = &TrendPoint{Day: row.Day, Completed: row.Count}
		}
	}

	points := make([]TrendPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })
	return points, nil
}

// perfRow joins a completed card with one of its completed movements.
type perfRow struct {
	CardID         int64
	CardCreatedAt  time.Time
	EndTime        time.Time
	DepartmentID   int64
	DepartmentName string
}

// PerformanceMetrics computes the average hours from card creation to the
// last completed movement, overall and per department. Only completed cards
// with at least one closed movement count, which undercounts active or
// broken flows; that approximation is deliberate.
func (s *gormStore) PerformanceMetrics(ctx context.Context) (*Performance, error) {
	var rows []perfRow
	err := s.db.WithContext(ctx).
		Model(&model.CardMovement{}).
		Select("card_movements.production_card_id as card_id, "+
			"production_cards.created_at as card_created_at, "+
			"card_movements.end_time as end_time, "+
			"card_movements.to_department_id as department_id, "+
			"departments.name as department_name").
		Joins("JOIN production_cards ON production_cards.id = card_movements.production_card_id").
		Joins("JOIN departments ON departments.id = card_movements.to_department_id").
		Where("production_cards.status = ? AND card_movements.end_time IS NOT NULL", model.StatusCompleted).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("performance rows: %w", err)
	}

	// Reduce to the last completed movement per card.
	type lastStep struct {
		created time.Time
		end     time.Time
		deptID  int64
		dept    string
	}
	lastByCard := make(map[int64]lastStep, len(rows))
	for _, row := range rows {
		if cur, ok := lastByCard[row.CardID]; !ok || row.EndTime.After(cur.end) {
			lastByCard[row.CardID] = lastStep{
				created: row.CardCreatedAt,
				end:     row.EndTime,
				deptID:  row.DepartmentID,
				dept:    row.DepartmentName,
			}
		}
	}

	perf := &Performance{CompletedCards: int64(len(lastByCard))}
	if len(lastByCard) == 0 {
		perf.ByDepartment = []DeptPerformance{}
		return perf, nil
	}

	type deptAgg struct {
		name  string
		hours float64
		cards int64
	}
	var totalHours float64
	byDept := make(map[int64]*deptAgg)
	for _, step := range lastByCard {
		hours := step.end.Sub(step.created).Hours()
		totalHours += hours
		agg, ok := byDept[step.deptID]
		if !ok {
			agg = &deptAgg{name: step.dept}
			byDept[step.deptID] = agg
		}
		agg.hours += hours
		agg.cards++
	}
	perf.AvgHours = totalHours / float64(len(lastByCard))

	for id, agg := range byDept {
		perf.ByDepartment = append(perf.ByDepartment, DeptPerformance{
			DepartmentID:   id,
			DepartmentName: agg.name,
			AvgHours:       agg.hours / float64(agg.cards),
			Cards:          agg.cards,
		})
	}
	sort.Slice(perf.ByDepartment, func(i, j int) bool {
		return perf.ByDepartment[i].DepartmentID < perf.ByDepartment[j].DepartmentID
	})
	return perf, nil
}
