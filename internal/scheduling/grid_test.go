package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func TestBuildGrid_SalonWindow(t *testing.T) {
	staff := stylist(1, 10)
	dc := BuildDayConstraints(staff, monday,
		[]*domain.Break{brk(1, "12:00", "12:30")},
		nil,
		[]*domain.Appointment{appt(1, monday, "15:00", 30, domain.StatusConfirmed)},
	)
	avail := Compute(dc, 30, 30, time.Time{})

	grid := BuildGrid(avail, Interval{Start: tod("08:00"), End: tod("21:00")}, 30)

	require.Len(t, grid, 26)
	assert.Equal(t, tod("08:00"), grid[0].StartTime)
	assert.Equal(t, tod("20:30"), grid[len(grid)-1].StartTime)

	cases := map[string]domain.SlotReason{
		"08:00": domain.ReasonOutsideHours,
		"08:30": domain.ReasonOutsideHours,
		"09:00": domain.ReasonNone,
		"12:00": domain.ReasonBreak,
		"12:30": domain.ReasonNone,
		"15:00": domain.ReasonBooked,
		"16:30": domain.ReasonNone,
		"17:00": domain.ReasonOutsideHours,
		"20:30": domain.ReasonOutsideHours,
	}
	for start, want := range cases {
		cell, ok := slotAt(grid, start)
		require.True(t, ok, start)
		assert.Equal(t, want, cell.Reason, start)
		assert.Equal(t, want == domain.ReasonNone, cell.Available, start)
	}
}

func TestBuildGrid_WorkingHoursBeyondSalonWindow(t *testing.T) {
	staff := stylist(1, 10)
	staff.WorkingHours = domain.WorkingHours{Start: tod("07:00"), End: tod("12:00")}
	dc := BuildDayConstraints(staff, monday, nil, nil, nil)
	avail := Compute(dc, 30, 30, time.Time{})

	grid := BuildGrid(avail, Interval{Start: tod("08:00"), End: tod("21:00")}, 30)

	require.Len(t, grid, 28)
	assert.Equal(t, tod("07:00"), grid[0].StartTime)
	assert.Equal(t, tod("20:30"), grid[len(grid)-1].StartTime)

	early, ok := slotAt(grid, "07:00")
	require.True(t, ok)
	assert.True(t, early.Available)
	assert.Equal(t, domain.ReasonNone, dc.CheckWindow(NewInterval(tod("07:00"), 30)), "grid and booking agree on 07:00")

	late, ok := slotAt(grid, "12:00")
	require.True(t, ok)
	assert.Equal(t, domain.ReasonOutsideHours, late.Reason)
}

func TestBuildGrid_NotWorkingDay(t *testing.T) {
	staff := stylist(1, 10)
	sunday := monday.AddDate(0, 0, -1)
	avail := Compute(BuildDayConstraints(staff, sunday, nil, nil, nil), 30, 60, time.Time{})

	grid := BuildGrid(avail, Interval{Start: tod("08:00"), End: tod("12:00")}, 60)

	require.Len(t, grid, 4)
	for _, cell := range grid {
		assert.False(t, cell.Available)
		assert.Equal(t, domain.ReasonNotWorking, cell.Reason)
	}
}

func TestBuildGrid_DefaultsToWorkingHours(t *testing.T) {
	staff := stylist(1, 10)
	avail := Compute(BuildDayConstraints(staff, monday, nil, nil, nil), 60, 60, time.Time{})

	grid := BuildGrid(avail, Interval{}, 60)

	require.Len(t, grid, 8)
	for _, cell := range grid {
		assert.True(t, cell.Available)
	}
}

func TestBuildGrid_TailShorterThanDuration(t *testing.T) {
	staff := stylist(1, 10)
	avail := Compute(BuildDayConstraints(staff, monday, nil, nil, nil), 90, 30, time.Time{})

	grid := BuildGrid(avail, Interval{Start: tod("09:00"), End: tod("17:00")}, 30)

	cell, _ := slotAt(grid, "15:30")
	assert.True(t, cell.Available)
	cell, _ = slotAt(grid, "16:00")
	assert.Equal(t, domain.ReasonOutsideHours, cell.Reason, "90 minutes from 16:00 overruns the close")
}
