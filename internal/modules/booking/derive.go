package booking

import (
	"sort"
	"time"

	"photomarket/internal/domain"
)

// StatusStep is a presentation-only projection of one stage of the booking
// progression. Derived fresh on every request, never persisted.
type StatusStep struct {
	Label      string `json:"label"`
	Date       string `json:"date"`
	Completed  bool   `json:"completed"`
	InProgress bool   `json:"in_progress"`
}

type StatusTimeline struct {
	ID    int64        `json:"id"`
	Steps []StatusStep `json:"steps"`
}

type ProgressStats struct {
	// CompletedSteps counts gaps traversed, not steps reached: three
	// completed steps mean two transitions happened.
	CompletedSteps     int     `json:"completed_steps"`
	InProgressStep     int     `json:"in_progress_step"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

var statusLabels = map[domain.BookingStatus]string{
	domain.StatusBookingCreated:       "Booking Created",
	domain.StatusPhotographerAssigned: "Photographer Assigned",
	domain.StatusShooting:             "Shooting",
	domain.StatusEditing:              "Editing",
	domain.StatusCompleted:            "Completed",
	domain.StatusCancelled:            "Cancelled",
}

const stepDateFormat = "Jan 2, 3:04 PM"

// expectedDeliveryLag is the estimate shown on the final step while a
// booking sits in editing.
const expectedDeliveryLag = 72 * time.Hour

// DeriveTimeline projects a booking's status history onto the fixed ordered
// progression. It is a total function: for any input it returns either nil
// (empty history) or a timeline with exactly len(domain.AllStatuses) steps.
// It never panics, including on unrecognized or cancelled statuses, so
// callers need no defensive recovery around it.
func DeriveTimeline(bookingID int64, entries []domain.StatusHistoryEntry) *StatusTimeline {
	if len(entries) == 0 {
		return nil
	}

	sorted := make([]domain.StatusHistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	current := sorted[0].Status
	// -1 for CANCELLED or unrecognized values: every step renders as
	// neither completed nor in progress.
	currentIndex := domain.StatusIndex(current)

	// Latest entry per status; sorted is newest-first, so first hit wins.
	latest := make(map[domain.BookingStatus]time.Time, len(sorted))
	for _, e := range sorted {
		if _, ok := latest[e.Status]; !ok {
			latest[e.Status] = e.CreatedAt
		}
	}

	steps := make([]StatusStep, 0, len(domain.AllStatuses))
	for i, st := range domain.AllStatuses {
		step := StatusStep{
			Label:      StatusLabel(st),
			Completed:  currentIndex >= 0 && i <= currentIndex,
			InProgress: currentIndex >= 0 && i == currentIndex+1,
		}

		switch ts, ok := latest[st]; {
		case ok:
			step.Date = ts.Format(stepDateFormat)
		case i == len(domain.AllStatuses)-1:
			step.Date = expectedDeliveryDate(current, latest)
		default:
			step.Date = "Pending"
		}

		steps = append(steps, step)
	}

	return &StatusTimeline{ID: bookingID, Steps: steps}
}

// expectedDeliveryDate estimates the final step's date while the booking is
// in editing and a real EDITING entry exists; otherwise "Pending".
func expectedDeliveryDate(current domain.BookingStatus, latest map[domain.BookingStatus]time.Time) string {
	if current != domain.StatusEditing {
		return "Pending"
	}
	ts, ok := latest[domain.StatusEditing]
	if !ok {
		return "Pending"
	}
	return "Expected " + ts.Add(expectedDeliveryLag).Format(stepDateFormat)
}

// StatusLabel returns the display label for a status; unknown values pass
// through unchanged.
func StatusLabel(s domain.BookingStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Progress summarizes a derived step list for dashboard progress bars.
func Progress(steps []StatusStep) ProgressStats {
	completed := 0
	inProgress := -1
	for i, s := range steps {
		if s.Completed {
			completed++
		}
		if s.InProgress && inProgress == -1 {
			inProgress = i
		}
	}

	completedSteps := completed - 1

	pct := 0.0
	if len(steps) > 1 {
		pct = float64(completedSteps) / float64(len(steps)-1) * 100
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return ProgressStats{
		CompletedSteps:     completedSteps,
		InProgressStep:     inProgress,
		ProgressPercentage: pct,
	}
}
