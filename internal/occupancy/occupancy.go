// Package occupancy derives the render plan for a weekly grid: which slot,
// if any, occupies each (day, bucket) coordinate and what row span a
// multi-bucket slot renders with, so a three hour class appears as one tall
// card instead of three stacked ones.
package occupancy

import (
	"go.uber.org/zap"

	"github.com/campuskit/section-scheduler/internal/models"
	"github.com/campuskit/section-scheduler/internal/timegrid"
)

// Resolver turns a slot set into a render plan. It is a pure function of
// its inputs; the logger only reports data-integrity anomalies.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver builds a resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Resolve computes the render plan for the given slots over a grid that
// starts at startHour with the given bucket granularity. Slots on invisible
// days or starting outside the visible window are excluded. If two slots
// claim the same starting bucket, the first seen wins and the loser is
// dropped with a warning; the conflict checks upstream should make that
// impossible.
func (r *Resolver) Resolve(slots []models.Slot, days []models.Day, times []string, startHour, granMins int) models.RenderPlan {
	plan := models.RenderPlan{
		Days:    days,
		Times:   times,
		Columns: make(map[models.Day][]models.Cell, len(days)),
	}

	visible := make(map[models.Day]struct{}, len(days))
	for _, day := range days {
		visible[day] = struct{}{}
		column := make([]models.Cell, len(times))
		for i, t := range times {
			column[i] = models.Cell{Day: day, Bucket: i, Time: t, Kind: models.CellEmpty}
		}
		plan.Columns[day] = column
	}

	for i := range slots {
		slot := slots[i]
		if _, ok := visible[slot.Day]; !ok {
			continue
		}

		start := timegrid.BucketIndex(slot.StartTime, startHour, granMins)
		if start < 0 || start >= len(times) {
			r.logger.Warn("slot outside visible window",
				zap.String("slot_id", slot.ID),
				zap.String("day", string(slot.Day)),
				zap.String("start_time", slot.StartTime))
			continue
		}

		column := plan.Columns[slot.Day]
		if column[start].Kind != models.CellEmpty {
			r.logger.Warn("two slots claim the same starting bucket",
				zap.String("kept", cellSlotID(column[start])),
				zap.String("dropped", slot.ID),
				zap.String("day", string(slot.Day)),
				zap.String("start_time", slot.StartTime))
			continue
		}

		span := timegrid.DurationInBuckets(slot.StartTime, slot.EndTime, granMins)
		if start+span > len(times) {
			span = len(times) - start
		}

		column[start] = models.Cell{
			Day:     slot.Day,
			Bucket:  start,
			Time:    times[start],
			Kind:    models.CellSpanStart,
			RowSpan: span,
			Slot:    &slots[i],
		}
		for b := start + 1; b < start+span; b++ {
			if column[b].Kind != models.CellEmpty {
				r.logger.Warn("slot span overlaps an occupied bucket",
					zap.String("slot_id", slot.ID),
					zap.String("day", string(slot.Day)),
					zap.Int("bucket", b))
				continue
			}
			column[b].Kind = models.CellContinuation
		}
	}

	return plan
}

func cellSlotID(cell models.Cell) string {
	if cell.Slot == nil {
		return ""
	}
	return cell.Slot.ID
}
