package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookutu/internal/cache"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/monitoring"
	"bookutu/internal/pricing"
	"bookutu/internal/repositories"
	"bookutu/internal/utils"
)

// referenceAttempts bounds the retry loop on a booking-reference
// collision.
const referenceAttempts = 3

// CreateBookingInput carries a booking request into the lifecycle engine.
// Seat is a seat number like "2B" or a numeric ordinal; SeatID short-cuts
// resolution when the client already knows the seat row.
type CreateBookingInput struct {
	TripID         int64
	SeatID         int64
	Seat           string
	UserID         int64
	PassengerName  string
	PassengerPhone string
	PassengerEmail string
	Source         string
}

// BookingService is the booking lifecycle engine: create, confirm,
// cancel, payment events, departure close-out.
type BookingService struct {
	BookingRepo     repositories.BookingRepository
	TripRepo        repositories.TripRepository
	VehicleRepo     repositories.VehicleRepository
	CompanyRepo     repositories.CompanyRepository
	ReservationRepo repositories.ReservationRepository
	PaymentRepo     repositories.PaymentRepository
	Trips           TripService
	Catalog         CatalogService
	Cache           cache.AvailabilityCache
	Notifier        Notifier
	RequestID       string
}

// Create runs the booking admission sequence: trip bookable, seat
// resolved and on the trip's vehicle, no live booking, no blocking hold,
// then the atomic insert. The database's unique active-seat key settles
// any race the pre-checks missed.
func (s BookingService) Create(ctx context.Context, in CreateBookingInput, now time.Time) (models.Booking, error) {
	started := time.Now()

	if err := validateBookingInput(in); err != nil {
		return models.Booking{}, err
	}

	trip, err := s.TripRepo.GetByID(in.TripID)
	if err != nil {
		return models.Booking{}, err
	}
	if err := s.Trips.Bookable(trip, now); err != nil {
		return models.Booking{}, err
	}

	seat, err := s.resolveSeat(trip, in)
	if err != nil {
		return models.Booking{}, err
	}

	booked, err := s.TripRepo.BookedSeatIDs(trip.ID)
	if err != nil {
		return models.Booking{}, err
	}
	if booked[seat.ID] {
		monitoring.TrackSeatConflict("book")
		return models.Booking{}, domain.SeatAlreadyBookedError{TripID: trip.ID, SeatID: seat.ID}
	}

	if hold, err := s.ReservationRepo.Get(trip.ID, seat.ID); err == nil {
		if hold.Blocks(in.UserID, now) {
			monitoring.TrackSeatConflict("book")
			return models.Booking{}, domain.SeatReservedError{TripID: trip.ID, SeatID: seat.ID}
		}
	} else if !domain.IsNotFound(err) {
		return models.Booking{}, err
	}

	factors, err := s.TripRepo.GetPricing(trip.ID)
	if err != nil {
		return models.Booking{}, err
	}
	policy, err := s.CompanyRepo.GetPolicy(trip.CompanyID)
	if err != nil {
		return models.Booking{}, err
	}
	quote := pricing.Calculator{Policy: policy}.BookingQuote(trip.BaseFare, seat.PriceMultiplier, factors, trip.DepartureAt, now)

	b := models.Booking{
		CompanyID:      trip.CompanyID,
		TripID:         trip.ID,
		SeatID:         seat.ID,
		UserID:         in.UserID,
		PassengerName:  strings.TrimSpace(in.PassengerName),
		PassengerPhone: strings.TrimSpace(in.PassengerPhone),
		PassengerEmail: strings.TrimSpace(in.PassengerEmail),
		Status:         models.BookingPending,
		Source:         in.Source,
		PaymentStatus:  models.PaymentPending,
		BaseFare:       quote.BaseFare,
		SeatFee:        quote.SeatFee,
		ServiceFee:     quote.ServiceFee,
		TotalAmount:    quote.Total,
	}

	var created models.Booking
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		b.Reference = utils.NewBookingReference(now)
		created, err = s.BookingRepo.Create(b)
		if err == repositories.ErrDuplicateReference {
			continue
		}
		break
	}
	if err != nil {
		if domain.IsSeatAlreadyBooked(err) {
			monitoring.TrackSeatConflict("book")
		}
		if err == repositories.ErrDuplicateReference {
			return models.Booking{}, domain.InternalError{Msg: "could not allocate a unique booking reference", Err: err}
		}
		return models.Booking{}, err
	}

	if err := s.Cache.Invalidate(ctx, trip.ID); err != nil {
		utils.LogEvent(s.RequestID, "bookings", "create", "cache invalidate failed: "+err.Error())
	}
	monitoring.TrackBookingCreated(created.Source)
	monitoring.TrackBookingCreateDuration(time.Since(started))
	utils.LogEvent(s.RequestID, "bookings", "create",
		fmt.Sprintf("ref=%s trip=%d seat=%d user=%d total=%s",
			created.Reference, trip.ID, seat.ID, in.UserID, utils.FormatMoney(created.TotalAmount)))
	return created, nil
}

// Get returns the booking and, when it has been cancelled, the
// cancellation record with the fee breakdown.
func (s BookingService) Get(ref string) (models.Booking, *models.Cancellation, error) {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return models.Booking{}, nil, err
	}
	if b.Status != models.BookingCancelled {
		return b, nil, nil
	}
	cn, err := s.BookingRepo.GetCancellation(b.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return b, nil, nil
		}
		return models.Booking{}, nil, err
	}
	return b, &cn, nil
}

func (s BookingService) ListByUser(userID int64) ([]models.Booking, error) {
	return s.BookingRepo.ListByUser(userID)
}

// ListByTrip is the passenger manifest for a trip.
func (s BookingService) ListByTrip(tripID int64) ([]models.Booking, error) {
	return s.BookingRepo.ListByTrip(tripID)
}

// Confirm is the explicit confirmation used for cash and direct sales.
// Legal only once payment is settled.
func (s BookingService) Confirm(ref string, now time.Time) (models.Booking, error) {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return models.Booking{}, err
	}
	updated, err := s.BookingRepo.Confirm(b.ID, now)
	if err != nil {
		return models.Booking{}, err
	}
	s.notifyConfirmed(updated)
	return updated, nil
}

// CancelResult reports the policy outcome of a cancellation.
type CancelResult struct {
	Booking models.Booking `json:"booking"`
	Fee     float64        `json:"cancellationFee"`
	Refund  float64        `json:"refundAmount"`
}

// Cancel ends a PENDING or CONFIRMED booking, charging the company's
// late-cancellation fee when inside the policy window.
func (s BookingService) Cancel(ctx context.Context, ref, reason string, actor int64, now time.Time) (CancelResult, error) {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return CancelResult{}, err
	}
	trip, err := s.TripRepo.GetByID(b.TripID)
	if err != nil {
		return CancelResult{}, err
	}
	policy, err := s.CompanyRepo.GetPolicy(b.CompanyID)
	if err != nil {
		return CancelResult{}, err
	}
	fee, refund := pricing.Calculator{Policy: policy}.CancellationFee(b.TotalAmount, trip.DepartureAt, now)

	updated, err := s.BookingRepo.Cancel(b.ID, models.Cancellation{
		BookingID:       b.ID,
		Reason:          strings.TrimSpace(reason),
		CancelledBy:     actor,
		CancellationFee: fee,
		RefundAmount:    refund,
	}, now)
	if err != nil {
		return CancelResult{}, err
	}

	if err := s.Cache.Invalidate(ctx, b.TripID); err != nil {
		utils.LogEvent(s.RequestID, "bookings", "cancel", "cache invalidate failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "bookings", "cancel",
		fmt.Sprintf("ref=%s fee=%s refund=%s", ref, utils.FormatMoney(fee), utils.FormatMoney(refund)))
	return CancelResult{Booking: updated, Fee: fee, Refund: refund}, nil
}

// Payment looks up one settlement record by its payment reference.
func (s BookingService) Payment(ref string) (models.Payment, error) {
	return s.PaymentRepo.GetByReference(ref)
}

// Payments lists every settlement attempt recorded against a booking,
// oldest first.
func (s BookingService) Payments(ref string) ([]models.Payment, error) {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return nil, err
	}
	return s.PaymentRepo.ListByBooking(b.ID)
}

// OnPaymentSettled records the settlement and auto-confirms a PENDING
// booking in the same transaction as the payment-status write. Gateways
// retry webhooks; a replay carrying an already-recorded gateway id is
// acknowledged without writing a second payment row.
func (s BookingService) OnPaymentSettled(ref string, amount float64, method, gatewayID string, now time.Time) (models.Booking, error) {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return models.Booking{}, err
	}
	// A replay only short-circuits when the booking itself was settled.
	// If the first delivery recorded the payment row but died before the
	// status write, the retry skips the duplicate insert and still runs
	// the settlement.
	recorded := false
	if gatewayID != "" {
		prior, err := s.PaymentRepo.ListByBooking(b.ID)
		if err != nil {
			return models.Booking{}, err
		}
		for _, p := range prior {
			if p.GatewayID == gatewayID && p.Status == models.PaymentRecordCompleted {
				recorded = true
				break
			}
		}
	}
	if recorded && b.PaymentStatus == models.PaymentPaid {
		utils.LogEvent(s.RequestID, "bookings", "payment_settled",
			fmt.Sprintf("ref=%s gateway_id=%s duplicate webhook ignored", ref, gatewayID))
		return b, nil
	}
	if !recorded {
		if _, err := s.PaymentRepo.Insert(models.Payment{
			Reference: utils.NewPaymentReference(now),
			BookingID: b.ID,
			Amount:    amount,
			Method:    method,
			Status:    models.PaymentRecordCompleted,
			GatewayID: gatewayID,
		}); err != nil {
			return models.Booking{}, err
		}
	}

	updated, confirmed, err := s.BookingRepo.SettlePayment(b.ID, now)
	if err != nil {
		return models.Booking{}, err
	}
	if confirmed {
		s.notifyConfirmed(updated)
	}
	utils.LogEvent(s.RequestID, "bookings", "payment_settled",
		fmt.Sprintf("ref=%s amount=%s confirmed=%v", ref, utils.FormatMoney(amount), confirmed))
	return updated, nil
}

// OnPaymentFailed appends the failed attempt; the booking stays PENDING
// and the seat stays held by it.
func (s BookingService) OnPaymentFailed(ref, method, reason string, now time.Time) error {
	b, err := s.BookingRepo.GetByReference(ref)
	if err != nil {
		return err
	}
	if _, err := s.PaymentRepo.Insert(models.Payment{
		Reference: utils.NewPaymentReference(now),
		BookingID: b.ID,
		Method:    method,
		Status:    models.PaymentRecordFailed,
	}); err != nil {
		return err
	}
	if err := s.BookingRepo.MarkPaymentFailed(b.ID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "bookings", "payment_failed", fmt.Sprintf("ref=%s reason=%s", ref, reason))
	return nil
}

// MarkDeparted closes out a trip at departure: the trip moves to
// IN_TRANSIT, confirmed bookings complete, unpaid pending ones become
// no-shows.
func (s BookingService) MarkDeparted(ctx context.Context, tripID int64) error {
	if err := s.TripRepo.UpdateStatus(tripID, models.TripInTransit); err != nil {
		return err
	}
	completed, noShow, err := s.BookingRepo.CloseOutTrip(tripID)
	if err != nil {
		return err
	}
	if err := s.Cache.Invalidate(ctx, tripID); err != nil {
		utils.LogEvent(s.RequestID, "bookings", "departed", "cache invalidate failed: "+err.Error())
	}
	utils.LogEvent(s.RequestID, "bookings", "departed",
		fmt.Sprintf("trip=%d completed=%d no_show=%d", tripID, completed, noShow))
	return nil
}

func (s BookingService) notifyConfirmed(b models.Booking) {
	if s.Notifier == nil {
		return
	}
	trip, err := s.TripRepo.GetByID(b.TripID)
	if err != nil {
		utils.LogEvent(s.RequestID, "notify", "ticket", "load trip failed: "+err.Error())
		return
	}
	seat, err := s.VehicleRepo.GetSeatByID(b.SeatID)
	if err != nil {
		utils.LogEvent(s.RequestID, "notify", "ticket", "load seat failed: "+err.Error())
		return
	}
	snapshot := models.TicketSnapshot{
		Reference:      b.Reference,
		PassengerName:  b.PassengerName,
		PassengerPhone: b.PassengerPhone,
		Origin:         trip.Origin,
		Destination:    trip.Destination,
		SeatNumber:     seat.SeatNumber,
		DepartureAt:    trip.DepartureAt,
		TotalAmount:    b.TotalAmount,
	}
	if err := s.Notifier.SendTicket(snapshot); err != nil {
		utils.LogEvent(s.RequestID, "notify", "ticket", "send failed: "+err.Error())
	}
}

func (s BookingService) resolveSeat(trip models.Trip, in CreateBookingInput) (models.Seat, error) {
	if in.SeatID > 0 {
		seat, err := s.VehicleRepo.GetSeatByID(in.SeatID)
		if err != nil {
			return models.Seat{}, err
		}
		if seat.VehicleID != trip.VehicleID {
			return models.Seat{}, domain.SeatMismatchError{SeatID: seat.ID, TripID: trip.ID}
		}
		return seat, nil
	}
	vehicle, err := s.VehicleRepo.GetByID(trip.VehicleID)
	if err != nil {
		return models.Seat{}, err
	}
	return s.Catalog.ResolveSeat(vehicle, in.Seat)
}

func validateBookingInput(in CreateBookingInput) error {
	if in.TripID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "trip id is required"}
	}
	if in.SeatID <= 0 && strings.TrimSpace(in.Seat) == "" {
		return domain.ValidationError{Field: "seat", Msg: "seat is required"}
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		return domain.ValidationError{Field: "passenger_name", Msg: "passenger name is required"}
	}
	if strings.TrimSpace(in.PassengerPhone) == "" {
		return domain.ValidationError{Field: "passenger_phone", Msg: "passenger phone is required"}
	}
	switch in.Source {
	case models.SourceMobileApp, models.SourceWeb, models.SourceDirect, models.SourcePhone, models.SourceWalkIn:
		return nil
	case "":
		return domain.ValidationError{Field: "source", Msg: "source is required"}
	default:
		return domain.ValidationError{Field: "source", Msg: "unknown booking source"}
	}
}
