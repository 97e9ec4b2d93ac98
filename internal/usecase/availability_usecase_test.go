package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schedule-agent/internal/domain/entity"
)

func newAvailabilityForTest(t *testing.T, repo *fakeAppointmentRepo) AvailabilityUsecase {
	t.Helper()
	db, _ := newTestDB(t)
	return NewAvailabilityUsecase(db, logrus.New(), repo, nil)
}

func anchorAt(t time.Time) *time.Time { return &t }

func TestComputeAvailabilityWindow(t *testing.T) {
	// Monday 2026-03-02; a 14-day window spans two Sundays (Mar 8 and 15)
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	u := newAvailabilityForTest(t, newFakeAppointmentRepo())

	days, err := u.ComputeAvailability(context.Background(), anchorAt(anchor), entity.ServiceMammography)
	require.NoError(t, err)

	require.Len(t, days, 12, "14 calendar days minus two Sundays")

	for _, d := range days {
		assert.NotContains(t, d.Display, "domingo")
	}

	// Chronological order
	for i := 1; i < len(days); i++ {
		assert.Less(t, days[i-1].Date, days[i].Date)
	}
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Equal(t, "lunes 2 de marzo", days[0].Display)
}

func TestComputeAvailabilityWeekdayGrid(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	u := newAvailabilityForTest(t, newFakeAppointmentRepo())

	days, err := u.ComputeAvailability(context.Background(), anchorAt(monday), entity.ServiceMammography)
	require.NoError(t, err)
	require.NotEmpty(t, days)

	slots := days[0].Slots
	require.Len(t, slots, 22, "07:00 through 17:30 on the half hour")
	assert.Equal(t, "07:00", slots[0])
	assert.Equal(t, "17:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "18:00", "closing hour is exclusive")
}

func TestComputeAvailabilitySaturdayGrid(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local)
	u := newAvailabilityForTest(t, newFakeAppointmentRepo())

	days, err := u.ComputeAvailability(context.Background(), anchorAt(saturday), entity.ServiceDensitometry)
	require.NoError(t, err)
	require.NotEmpty(t, days)
	require.Equal(t, "2026-03-07", days[0].Date)

	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, days[0].Slots)
}

func TestComputeAvailabilitySubtractsBookedHours(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	repo := newFakeAppointmentRepo()
	repo.bookedByDay["2026-03-02"] = []string{"07:00", "09:30"}
	u := newAvailabilityForTest(t, repo)

	days, err := u.ComputeAvailability(context.Background(), anchorAt(monday), entity.ServiceMammography)
	require.NoError(t, err)
	require.NotEmpty(t, days)

	slots := days[0].Slots
	assert.Len(t, slots, 20)
	assert.NotContains(t, slots, "07:00")
	assert.NotContains(t, slots, "09:30")
	assert.Equal(t, "07:30", slots[0])
}

func TestComputeAvailabilityOmitsFullyBookedDay(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.Local)
	repo := newFakeAppointmentRepo()
	repo.bookedByDay["2026-03-07"] = []string{
		"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	}
	u := newAvailabilityForTest(t, repo)

	days, err := u.ComputeAvailability(context.Background(), anchorAt(saturday), entity.ServiceMammography)
	require.NoError(t, err)

	for _, d := range days {
		assert.NotEqual(t, "2026-03-07", d.Date, "a fully booked day must be omitted")
	}
}

func TestComputeAvailabilityIsReadOnly(t *testing.T) {
	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	repo := newFakeAppointmentRepo()
	repo.bookedByDay["2026-03-03"] = []string{"07:00"}
	u := newAvailabilityForTest(t, repo)

	first, err := u.ComputeAvailability(context.Background(), anchorAt(monday), entity.ServiceMammography)
	require.NoError(t, err)
	second, err := u.ComputeAvailability(context.Background(), anchorAt(monday), entity.ServiceMammography)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, repo.created, "computing availability must not write")
}

func TestComputeAvailabilityRepoError(t *testing.T) {
	repo := newFakeAppointmentRepo()
	repo.bookedErr = assert.AnError
	u := newAvailabilityForTest(t, repo)

	_, err := u.ComputeAvailability(context.Background(), nil, entity.ServiceMammography)
	assert.Error(t, err)
}
