package usecase

import (
	"context"
	"fmt"
	"time"

	"schedule-agent/internal/delivery/dto"
	"schedule-agent/internal/domain/entity"
	"schedule-agent/internal/domain/repository"
	"schedule-agent/internal/service"
	"schedule-agent/pkg/dates"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// availabilityWindowDays is the rolling scan horizon, anchor day included.
	availabilityWindowDays = 14

	// slotIntervalMinutes is the booking grid granularity.
	slotIntervalMinutes = 30
)

// openHours is a day's operating interval in whole hours, half-open:
// slots start at Start and the last one begins before End.
type openHours struct {
	Start int
	End   int
}

// operatingHours returns the clinic hours for a weekday, nil when closed.
// Hours are business rules, not data: Mon-Fri 07-18, Sat 08-12, Sun closed.
func operatingHours(weekday time.Weekday) *openHours {
	switch weekday {
	case time.Sunday:
		return nil
	case time.Saturday:
		return &openHours{Start: 8, End: 12}
	default:
		return &openHours{Start: 7, End: 18}
	}
}

type AvailabilityUsecase interface {
	// ComputeAvailability scans the next 14 days starting at anchor (today
	// when nil) and returns each open day that still has free slots, in
	// chronological order.
	ComputeAvailability(ctx context.Context, anchor *time.Time, svc entity.Service) ([]dto.DayAvailability, error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotCache       *service.SlotCacheService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotCache *service.SlotCacheService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		slotCache:       slotCache,
	}
}

// The svc parameter is accepted for the API shape but bookings of every
// service occupy the same slot grid of a day, so it does not filter anything.
func (u *availabilityUsecase) ComputeAvailability(ctx context.Context, anchor *time.Time, svc entity.Service) ([]dto.DayAvailability, error) {
	start := time.Now()
	if anchor != nil {
		start = *anchor
	}

	days := make([]dto.DayAvailability, 0, availabilityWindowDays)
	for i := 0; i < availabilityWindowDays; i++ {
		day := start.AddDate(0, 0, i)

		hours := operatingHours(day.Weekday())
		if hours == nil {
			continue
		}

		slots, err := u.freeSlots(ctx, day, hours)
		if err != nil {
			u.log.Warnf("Failed to compute slots for %s: %+v", dates.FormatISO(day), err)
			return nil, err
		}

		// Fully booked days are omitted, not returned empty
		if len(slots) == 0 {
			continue
		}

		days = append(days, dto.DayAvailability{
			Date:    dates.FormatISO(day),
			Display: dates.FormatLong(day),
			Slots:   slots,
		})
	}

	return days, nil
}

// freeSlots generates the 30-minute grid of an open day and removes hours
// taken by non-cancelled bookings. The result is cached per day.
func (u *availabilityUsecase) freeSlots(ctx context.Context, day time.Time, hours *openHours) ([]string, error) {
	if u.slotCache != nil {
		if cached, ok := u.slotCache.Get(ctx, day); ok {
			return cached, nil
		}
	}

	booked, err := u.appointmentRepo.FindBookedHours(u.db.WithContext(ctx), day)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, h := range booked {
		taken[h] = struct{}{}
	}

	var slots []string
	for hour := hours.Start; hour < hours.End; hour++ {
		for min := 0; min < 60; min += slotIntervalMinutes {
			slot := fmt.Sprintf("%02d:%02d", hour, min)
			if _, ok := taken[slot]; !ok {
				slots = append(slots, slot)
			}
		}
	}

	if u.slotCache != nil {
		u.slotCache.Set(ctx, day, slots)
	}

	return slots, nil
}
