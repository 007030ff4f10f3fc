package attendance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("08:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 8, Minute: 5}, c)
	assert.Equal(t, "08:05", c.String())

	for _, bad := range []string{"8:05", "24:00", "", "noon"} {
		_, err := ParseClockTime(bad)
		assert.ErrorIs(t, err, ErrInvalidPolicy, bad)
	}
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.WorkEnd = p.WorkStart
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)

	p = DefaultPolicy()
	p.DefaultLeaveDays = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)

	p = DefaultPolicy()
	p.OvertimeRatePerHour = decimal.NewFromInt(-1)
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)

	p = DefaultPolicy()
	p.WorkdayRule = "FREQ=SOMETIMES"
	assert.ErrorIs(t, p.Validate(), ErrInvalidPolicy)
}

func TestPolicy_WorkBoundariesUseLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	p := DefaultPolicy()
	p.Location = jakarta

	// 23:30 UTC on the 1st is already the 2nd in Jakarta
	ts := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	assert.True(t, p.WorkStartOn(ts).Equal(time.Date(2024, 6, 2, 8, 0, 0, 0, jakarta)))
	assert.True(t, p.WorkEndOn(ts).Equal(time.Date(2024, 6, 2, 17, 0, 0, 0, jakarta)))
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), p.DateOf(ts))
}

func TestPolicy_WithWorkHours(t *testing.T) {
	start, end := "09:00", "18:00"
	p, err := DefaultPolicy().WithWorkHours(&start, &end)
	require.NoError(t, err)
	assert.Equal(t, "09:00", p.WorkStart.String())
	assert.Equal(t, "18:00", p.WorkEnd.String())

	p, err = DefaultPolicy().WithWorkHours(nil, &end)
	require.NoError(t, err)
	assert.Equal(t, "08:00", p.WorkStart.String())

	early := "07:00"
	_, err = DefaultPolicy().WithWorkHours(&start, &early)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicy_ScheduledWorkdays(t *testing.T) {
	p := DefaultPolicy()

	// June 2024 starts on a Saturday: 20 weekdays
	n, err := p.ScheduledWorkdays(6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	// February 2024 (leap year): 21 weekdays
	n, err = p.ScheduledWorkdays(2, 2024)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	p.WorkdayRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR,SA"
	n, err = p.ScheduledWorkdays(6, 2024)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = p.ScheduledWorkdays(13, 2024)
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	assert.NoError(t, Period{Month: 6, Year: 2024}.Validate())
	assert.Error(t, Period{Month: 0, Year: 2024}.Validate())

	from, to := Period{Month: 12, Year: 2024}.Range()
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)

	assert.Equal(t, Period{Month: 12, Year: 2023}, Period{Month: 1, Year: 2024}.Previous())
}

func TestPolicy_IsWorkday(t *testing.T) {
	p := DefaultPolicy()

	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

	ok, err := p.IsWorkday(monday)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.IsWorkday(saturday)
	require.NoError(t, err)
	assert.False(t, ok)
}
