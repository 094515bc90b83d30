package booking

import "photomarket/internal/domain"

// The progression is linear: exactly one step forward at a time, plus
// cancellation from any non-terminal status. COMPLETED and CANCELLED are
// terminal.
var allowedTransitions = map[domain.BookingStatus]map[domain.BookingStatus]bool{
	domain.StatusBookingCreated: {
		domain.StatusPhotographerAssigned: true,
		domain.StatusCancelled:            true,
	},
	domain.StatusPhotographerAssigned: {
		domain.StatusShooting:  true,
		domain.StatusCancelled: true,
	},
	domain.StatusShooting: {
		domain.StatusEditing:   true,
		domain.StatusCancelled: true,
	},
	domain.StatusEditing: {
		domain.StatusCompleted: true,
		domain.StatusCancelled: true,
	},
	domain.StatusCompleted: {},
	domain.StatusCancelled: {},
}

func CanTransition(from, to domain.BookingStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
