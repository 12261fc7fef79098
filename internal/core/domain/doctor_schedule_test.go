package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

func TestDoctorSchedule_Validate(t *testing.T) {
	valid := DoctorSchedule{
		StartTime:    json_types.NewTime(9 * 60),
		EndTime:      json_types.NewTime(17 * 60),
		SlotDuration: 30,
		GracePeriod:  15,
	}
	assert.NoError(t, valid.Validate())

	tooShort := valid
	tooShort.SlotDuration = MinSlotDuration - 1
	assert.Error(t, tooShort.Validate())

	tooLong := valid
	tooLong.SlotDuration = MaxSlotDuration + 1
	assert.Error(t, tooLong.Validate())

	badGrace := valid
	badGrace.GracePeriod = MaxGracePeriod + 1
	assert.Error(t, badGrace.Validate())

	negativeGrace := valid
	negativeGrace.GracePeriod = -1
	assert.Error(t, negativeGrace.Validate())

	// Инвертированное окно валидно, генерация вернет пустой список
	inverted := valid
	inverted.StartTime = json_types.NewTime(17 * 60)
	inverted.EndTime = json_types.NewTime(9 * 60)
	assert.NoError(t, inverted.Validate())
}
