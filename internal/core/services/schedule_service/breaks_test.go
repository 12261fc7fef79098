package schedule_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
)

func breakPeriod(start, end int) domain.BreakPeriod {
	return domain.BreakPeriod{
		StartTime: json_types.NewTime(start),
		EndTime:   json_types.NewTime(end),
	}
}

func TestApplyBreaks_RemovesWholeSlot(t *testing.T) {
	slots := GenerateSlots(9*60, 12*60, 30)

	// Обед 10:15-10:45 задевает слоты 10:00-10:30 и 10:30-11:00 целиком
	filtered := ApplyBreaks(slots, []domain.BreakPeriod{breakPeriod(10*60+15, 10*60+45)})

	require.Len(t, filtered, 4)
	for _, slot := range filtered {
		assert.False(t, RangesOverlap(slot.Start, slot.End, 10*60+15, 10*60+45))
	}
}

func TestApplyBreaks_TouchingBoundaryIsNotOverlap(t *testing.T) {
	slots := GenerateSlots(9*60, 11*60, 30)

	// Перерыв 10:00-10:30 ровно совпадает с одним слотом, соседние не трогаем
	filtered := ApplyBreaks(slots, []domain.BreakPeriod{breakPeriod(10*60, 10*60+30)})

	require.Len(t, filtered, 3)
	for _, slot := range filtered {
		assert.NotEqual(t, 10*60, slot.Start)
	}
}

func TestApplyBreaks_OverlappingBreaksActAsUnion(t *testing.T) {
	slots := GenerateSlots(9*60, 12*60, 30)

	withUnion := ApplyBreaks(slots, []domain.BreakPeriod{breakPeriod(10*60, 11*60)})
	withOverlapping := ApplyBreaks(slots, []domain.BreakPeriod{
		breakPeriod(10*60, 10*60+45),
		breakPeriod(10*60+30, 11*60),
	})

	assert.Equal(t, withUnion, withOverlapping)
}

func TestApplyBreaks_NoBreaksKeepsAll(t *testing.T) {
	slots := GenerateSlots(9*60, 12*60, 30)

	assert.Equal(t, slots, ApplyBreaks(slots, nil))
	assert.Equal(t, slots, ApplyBreaks(slots, []domain.BreakPeriod{}))
}
