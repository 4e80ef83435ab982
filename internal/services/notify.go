package services

import (
	"fmt"

	"bookutu/internal/domain/models"
	"bookutu/internal/utils"
)

// Notifier receives the ticket snapshot of a freshly confirmed booking.
// Delivery is best-effort: a failed notification is logged and the
// confirmation stands.
type Notifier interface {
	SendTicket(snapshot models.TicketSnapshot) error
}

// LogNotifier writes the ticket to the event log. The default wiring
// until an SMS or e-mail channel is plugged in.
type LogNotifier struct {
	RequestID string
}

func (n LogNotifier) SendTicket(s models.TicketSnapshot) error {
	utils.LogEvent(n.RequestID, "notify", "ticket",
		fmt.Sprintf("ref=%s seat=%s route=%s-%s departure=%s total=%s",
			s.Reference, s.SeatNumber, s.Origin, s.Destination,
			utils.FormatDateTime(s.DepartureAt), utils.FormatMoney(s.TotalAmount)))
	return nil
}
