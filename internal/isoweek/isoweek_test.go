package isoweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFromTime(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want YearWeek
	}{
		{"mitad de año", date(2024, time.June, 12), 202424},
		{"enero en semana del año anterior", date(2021, time.January, 1), 202053},
		{"diciembre en semana 1 del año siguiente", date(2024, time.December, 30), 202501},
		{"año con semana 53", date(2020, time.December, 31), 202053},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromTime(tt.date))
		})
	}
}

func TestMonday(t *testing.T) {
	tests := []struct {
		yw   YearWeek
		want time.Time
	}{
		{202424, date(2024, time.June, 10)},
		{202501, date(2024, time.December, 30)},
		{202053, date(2020, time.December, 28)},
		{202101, date(2021, time.January, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.yw.String(), func(t *testing.T) {
			got := tt.yw.Monday()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
			// El lunes de una semana debe pertenecer a esa misma semana.
			assert.Equal(t, tt.yw, FromTime(got))
		})
	}
}

func TestRange(t *testing.T) {
	t.Run("rango contiguo sin huecos", func(t *testing.T) {
		weeks := Range(date(2024, time.December, 2), date(2025, time.January, 20))
		require.Len(t, weeks, 8)
		assert.Equal(t, YearWeek(202449), weeks[0])
		assert.Equal(t, YearWeek(202501), weeks[4])
		assert.Equal(t, YearWeek(202504), weeks[7])

		// Cada semana es el lunes+7d de la anterior.
		for i := 1; i < len(weeks); i++ {
			assert.Equal(t, weeks[i], FromTime(weeks[i-1].Monday().AddDate(0, 0, 7)))
		}
	})

	t.Run("una sola fecha", func(t *testing.T) {
		weeks := Range(date(2024, time.June, 12), date(2024, time.June, 12))
		require.Len(t, weeks, 1)
		assert.Equal(t, YearWeek(202424), weeks[0])
	})

	t.Run("rango invertido", func(t *testing.T) {
		assert.Nil(t, Range(date(2024, time.June, 12), date(2024, time.June, 1)))
	})

	t.Run("cruza un año con semana 53", func(t *testing.T) {
		weeks := Range(date(2020, time.December, 21), date(2021, time.January, 11))
		require.Equal(t, []YearWeek{202052, 202053, 202101, 202102}, weeks)
	})
}
