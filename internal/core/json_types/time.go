package json_types

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

// Формат строго "HH:mm" с ведущими нулями, остальное отбрасываем на границе
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Time - время суток в виде минут с полуночи, на проводе сериализуется как "HH:mm".
// Внутри движка сравнения всегда числовые, строковый формат живет только здесь.
type Time struct {
	Minutes int
}

func NewTime(minutes int) Time {
	return Time{Minutes: minutes}
}

// ParseTime валидирует строку "HH:mm" и конвертирует ее в минуты.
func ParseTime(str string) (Time, error) {
	if !timePattern.MatchString(str) {
		return Time{}, fmt.Errorf("invalid time format %q, expected HH:mm", str)
	}

	return Time{Minutes: utils.ToMinutes(str)}, nil
}

func (t Time) String() string {
	return utils.ToTimeString(t.Minutes)
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse time: %v", err)
	}

	parsedTime, err := ParseTime(str)
	if err != nil {
		return err
	}

	*t = parsedTime
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
