package scheduling

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/memstore"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/pkg/config"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

func testConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		WindowOpen:         "09:00",
		WindowClose:        "18:00",
		LessonSlotMinutes:  60,
		TuneUpSlotMinutes:  120,
		DefaultSlotMinutes: 60,
	}
}

func newScheduler(t *testing.T) *Service {
	t.Helper()
	sel, err := backend.NewSelector(memstore.New(), memstore.NewEmpty(), logger.New(logger.Options{
		ServiceName: "scheduling-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	}), nil)
	require.NoError(t, err)
	return New(sel, testConfig(), logger.New(logger.Options{
		ServiceName: "scheduling-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	}))
}

func TestAvailableTimes(t *testing.T) {
	svc := newScheduler(t)
	ctx := context.Background()

	t.Run("empty calendar slices the whole window", func(t *testing.T) {
		slots, degraded, err := svc.AvailableTimes(ctx, "tennis lesson", "2026-09-03")
		require.NoError(t, err)
		assert.False(t, degraded)
		require.Len(t, slots, 9) // 09:00-18:00 in hour slots
		assert.Equal(t, "09:00-10:00", slots[0].String())
		assert.Equal(t, "17:00-18:00", slots[8].String())
	})

	t.Run("tune-up uses two hour slots", func(t *testing.T) {
		slots, _, err := svc.AvailableTimes(ctx, "ski tune-up", "2026-09-03")
		require.NoError(t, err)
		require.Len(t, slots, 4)
		assert.Equal(t, "09:00-11:00", slots[0].String())
	})

	t.Run("booked slot disappears", func(t *testing.T) {
		_, err := svc.Schedule(ctx, ScheduleInput{
			CustomerID:  seed.DemoCustomerID,
			ServiceType: "tennis lesson",
			Date:        "2026-09-04",
			TimeRange:   "10:00-11:00",
		})
		require.NoError(t, err)

		slots, _, err := svc.AvailableTimes(ctx, "tennis lesson", "2026-09-04")
		require.NoError(t, err)
		require.Len(t, slots, 8)
		for _, slot := range slots {
			assert.False(t, slot.Overlaps(types.TimeRange{Start: 600, End: 660}))
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		_, _, err := svc.AvailableTimes(ctx, "tennis lesson", "next tuesday")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	})
}

func TestScheduleOverlap(t *testing.T) {
	svc := newScheduler(t)
	ctx := context.Background()

	book := func(timeRange string) error {
		_, err := svc.Schedule(ctx, ScheduleInput{
			CustomerID:  seed.DemoCustomerID,
			ServiceType: "racket stringing",
			Date:        "2026-09-03",
			TimeRange:   timeRange,
		})
		return err
	}

	require.NoError(t, book("10:00-11:00"))

	t.Run("overlapping booking conflicts", func(t *testing.T) {
		err := book("10:30-11:30")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeSlotConflict, pkgerrors.CodeOf(err))
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		assert.NoError(t, book("11:00-12:00"))
		assert.NoError(t, book("09:00-10:00"))
	})

	t.Run("same slot for a different service is free", func(t *testing.T) {
		_, err := svc.Schedule(ctx, ScheduleInput{
			CustomerID:  seed.DemoCustomerID,
			ServiceType: "bike tune-up",
			Date:        "2026-09-03",
			TimeRange:   "10:00-12:00",
		})
		assert.NoError(t, err)
	})

	t.Run("shorthand hours parse", func(t *testing.T) {
		err := book("13-14")
		assert.NoError(t, err)
	})

	t.Run("malformed range", func(t *testing.T) {
		err := book("eleven to noon")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	})
}

func TestCancelFreesSlot(t *testing.T) {
	svc := newScheduler(t)
	ctx := context.Background()

	booked, err := svc.Schedule(ctx, ScheduleInput{
		CustomerID:  seed.DemoCustomerID,
		ServiceType: "tennis lesson",
		Date:        "2026-09-05",
		TimeRange:   "10:00-11:00",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	rebooked, err := svc.Schedule(ctx, ScheduleInput{
		CustomerID:  seed.DemoCustomerID,
		ServiceType: "tennis lesson",
		Date:        "2026-09-05",
		TimeRange:   "10:00-11:00",
	})
	require.NoError(t, err)
	assert.NotEqual(t, booked.ID, rebooked.ID)

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := svc.Cancel(ctx, "APT-404")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}

func TestConcurrentScheduleOneWinner(t *testing.T) {
	svc := newScheduler(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Schedule(ctx, ScheduleInput{
				CustomerID:  seed.DemoCustomerID,
				ServiceType: "tennis lesson",
				Date:        "2026-09-06",
				TimeRange:   "10:00-11:00",
			})
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.Equal(t, pkgerrors.CodeSlotConflict, pkgerrors.CodeOf(err))
		}
	}
	assert.Equal(t, 1, winners)
}
