package utils

import (
	"fmt"
	"time"

	"github.com/suchimauz/clinic-slots-engine/internal/config"
)

// StartCurrentDay возвращает дату с временем 00:00, таймзона остается прежней.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает новую дату, где день увеличен на 1, время установлено на 00:00.
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return time.Date(newDate.Year(), newDate.Month(), newDate.Day(), 0, 0, 0, 0, newDate.Location())
}

// SameDay проверяет, что две даты приходятся на один календарный день.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate парсит дату из строки в формате "2006-01-02" в таймзоне из конфига.
func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.ParseInLocation("2006-01-02", str, config.TimeZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
	}

	return parsedDate, nil
}

// AtMinute возвращает момент времени на дате date со временем minutes минут от полуночи.
func AtMinute(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}
