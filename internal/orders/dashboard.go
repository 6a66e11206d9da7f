package orders

import (
	"math"
	"time"

	"github.com/angelmondragon/florale-backend/pkg/enums"
)

const weekDays = 7

// DashboardMetrics summarizes a point's (or every point's) orders for the admin dashboard.
type DashboardMetrics struct {
	TodayOrders   TodayOrders   `json:"today_orders"`
	Processing    Processing    `json:"processing"`
	WeekCompleted WeekCompleted `json:"week_completed"`
	AverageCheck  AverageCheck  `json:"average_check"`
}

type TodayOrders struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

type Processing struct {
	Count int `json:"count"`
}

// WeekCompleted counts delivered orders over the trailing seven days. Graph runs oldest day first.
type WeekCompleted struct {
	Count int   `json:"count"`
	Graph []int `json:"graph"`
}

// AverageCheck is the mean total over the trailing seven days and its percent change against the week before.
type AverageCheck struct {
	Amount int64   `json:"amount"`
	Change float64 `json:"change"`
}

// ComputeMetrics derives dashboard metrics from orders. Days are calendar days in now's location.
// Cancelled orders never count towards revenue figures.
func ComputeMetrics(orders []Order, now time.Time) DashboardMetrics {
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -(weekDays - 1))
	prevWeekStart := weekStart.AddDate(0, 0, -weekDays)

	m := DashboardMetrics{WeekCompleted: WeekCompleted{Graph: make([]int, weekDays)}}
	var weekSum, prevSum int64
	var weekCount, prevCount int

	for _, o := range orders {
		created := o.CreatedAt.In(now.Location())

		if o.Status == enums.OrderStatusNew || o.Status == enums.OrderStatusProcessing {
			m.Processing.Count++
		}

		if o.Status == enums.OrderStatusDelivered {
			delivered := o.UpdatedAt.In(now.Location())
			if !delivered.Before(weekStart) && delivered.Before(today.AddDate(0, 0, 1)) {
				day := int(startOfDay(delivered).Sub(weekStart).Hours() / 24)
				if day >= 0 && day < weekDays {
					m.WeekCompleted.Graph[day]++
					m.WeekCompleted.Count++
				}
			}
		}

		if o.Status == enums.OrderStatusCancelled {
			continue
		}
		if !created.Before(today) {
			m.TodayOrders.Count++
			m.TodayOrders.Amount += o.Total
		}
		switch {
		case !created.Before(weekStart):
			weekSum += o.Total
			weekCount++
		case !created.Before(prevWeekStart):
			prevSum += o.Total
			prevCount++
		}
	}

	if weekCount > 0 {
		m.AverageCheck.Amount = weekSum / int64(weekCount)
	}
	if prevCount > 0 && m.AverageCheck.Amount > 0 {
		prevAvg := float64(prevSum) / float64(prevCount)
		change := (float64(m.AverageCheck.Amount) - prevAvg) / prevAvg * 100
		m.AverageCheck.Change = math.Round(change*10) / 10
	}
	return m
}

func startOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
