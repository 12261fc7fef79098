package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToMinutes(t *testing.T) {
	assert.Equal(t, 0, ToMinutes("00:00"))
	assert.Equal(t, 9*60, ToMinutes("09:00"))
	assert.Equal(t, 10*60+15, ToMinutes("10:15"))
	assert.Equal(t, 23*60+59, ToMinutes("23:59"))
}

func TestToTimeString(t *testing.T) {
	assert.Equal(t, "00:00", ToTimeString(0))
	assert.Equal(t, "09:05", ToTimeString(9*60+5))
	assert.Equal(t, "23:59", ToTimeString(23*60+59))
}

func TestAddMinutes_WrapsAroundMidnight(t *testing.T) {
	assert.Equal(t, "10:30", AddMinutes("10:00", 30))
	assert.Equal(t, "00:15", AddMinutes("23:45", 30))
	assert.Equal(t, "23:45", AddMinutes("00:15", -30))
}

func TestMinutesOfDay(t *testing.T) {
	moment := time.Date(2025, 6, 2, 10, 15, 42, 0, time.UTC)
	assert.Equal(t, 10*60+15, MinutesOfDay(moment))
}
