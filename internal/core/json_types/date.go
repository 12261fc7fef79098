package json_types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

// Date - календарная дата, на проводе сериализуется как "YYYY-MM-DD".
// Таймзона берется из конфига приложения.
type Date struct {
	Date time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("failed to parse date: %v", err)
	}

	parsedDate, err := utils.ParseDate(str)
	if err != nil {
		return err
	}

	*d = Date{Date: parsedDate}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Date.Format("2006-01-02"))
}

type DateOrEmpty struct {
	Date time.Time
}

func (d *DateOrEmpty) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	inner := Date{}
	if err := inner.UnmarshalJSON(data); err != nil {
		return err
	}

	*d = DateOrEmpty{Date: inner.Date}
	return nil
}

func (d DateOrEmpty) MarshalJSON() ([]byte, error) {
	if d.Date.IsZero() {
		return json.Marshal(nil)
	}

	return json.Marshal(d.Date.Format("2006-01-02"))
}
