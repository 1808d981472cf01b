package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenAt_SameDayWindow(t *testing.T) {
	h := &OpenHours{Open: "10:00", Close: "22:00"}

	assert.True(t, h.IsOpenAt(clock(10, 0)))
	assert.True(t, h.IsOpenAt(clock(21, 59)))
	assert.True(t, h.IsOpenAt(clock(22, 0)))
	assert.False(t, h.IsOpenAt(clock(22, 1)))
	assert.False(t, h.IsOpenAt(clock(9, 59)))
}

func TestIsOpenAt_CrossMidnightWindow(t *testing.T) {
	h := &OpenHours{Open: "22:00", Close: "02:00"}

	assert.True(t, h.IsOpenAt(clock(23, 30)))
	assert.True(t, h.IsOpenAt(clock(1, 30)))
	assert.True(t, h.IsOpenAt(clock(2, 0)))
	assert.False(t, h.IsOpenAt(clock(10, 0)))
	assert.False(t, h.IsOpenAt(clock(21, 59)))
}

func TestIsOpenAt_InvalidOrMissing(t *testing.T) {
	var none *OpenHours
	assert.False(t, none.IsOpenAt(clock(12, 0)))

	assert.False(t, (&OpenHours{Open: "ten", Close: "22:00"}).IsOpenAt(clock(12, 0)))
	assert.False(t, (&OpenHours{Open: "10:00", Close: ""}).IsOpenAt(clock(12, 0)))
}

func TestParseClock(t *testing.T) {
	mins, err := ParseClock("22:30")
	assert.NoError(t, err)
	assert.Equal(t, 22*60+30, mins)

	_, err = ParseClock("24:00")
	assert.Error(t, err)

	_, err = ParseClock("12:60")
	assert.Error(t, err)

	_, err = ParseClock("noon")
	assert.Error(t, err)
}
