package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

// ToMinutes конвертирует время формата "HH:mm" в минуты с начала суток.
// Валидация строки происходит на границе (json_types), здесь только арифметика.
func ToMinutes(t string) int {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	return hours*60 + minutes
}

// ToTimeString конвертирует минуты с начала суток обратно в строку "HH:mm".
// Границы дня не проверяются, за это отвечает вызывающая сторона.
func ToTimeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddMinutes прибавляет минуты ко времени "HH:mm" с переходом через полночь.
// Слоты через полночь не переходят, но арифметика должна оставаться корректной.
func AddMinutes(t string, delta int) string {
	minutes := (ToMinutes(t) + delta) % MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}

	return ToTimeString(minutes)
}

// MinutesOfDay возвращает количество минут с начала суток для момента времени.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
