package service

import (
	"fmt"

	"salondesk/internal/models"
)

// BuildTimeSlots lists every bookable start time from first to last
// inclusive, one per SlotStep.
func BuildTimeSlots(first, last string) ([]string, error) {
	from, err := models.ParseClock(first)
	if err != nil {
		return nil, fmt.Errorf("first slot: %w", err)
	}
	to, err := models.ParseClock(last)
	if err != nil {
		return nil, fmt.Errorf("last slot: %w", err)
	}
	if to < from {
		return nil, fmt.Errorf("last slot %s is before first slot %s", last, first)
	}

	slots := make([]string, 0, int((to-from)/models.SlotStep)+1)
	for t := from; t <= to; t += models.SlotStep {
		slots = append(slots, models.FormatClock(t))
	}
	return slots, nil
}
