package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

func demandRecord(material string, date time.Time, need int64, sku string) models.DemandRecord {
	return models.DemandRecord{
		Material:    material,
		Category:    "IN",
		Need:        dec(need),
		ReleaseDate: date,
		SKU:         sku,
		YearWeek:    isoweek.FromTime(date),
	}
}

func TestNormalizeWeeklyDenseGrid(t *testing.T) {
	normalizer := NewNormalizerService(zap.NewNop())

	week1 := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC) // 202501
	week2 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)   // 202502
	week3 := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)  // 202503

	records := []models.DemandRecord{
		demandRecord("MAT-A", week1, 10, "OC-100"),
		demandRecord("MAT-A", week3, 2, "OC-101"),
		demandRecord("MAT-A", week3, 3, "OC-102"),
		demandRecord("MAT-B", week2, 7, "OC-200"),
	}

	rows := normalizer.NormalizeWeekly(records)

	// Grilla densa: ambos materiales cubren las tres semanas del rango
	require.Len(t, rows, 6)

	expectedWeeks := []isoweek.YearWeek{202501, 202502, 202503}
	for m := 0; m < 2; m++ {
		for w, week := range expectedWeeks {
			assert.Equal(t, week, rows[m*3+w].YearWeek)
		}
	}
	assert.Equal(t, "MAT-A", rows[0].Material)
	assert.Equal(t, "MAT-B", rows[3].Material)

	// La semana con dos registros suma la necesidad y concatena comprobantes
	assert.True(t, rows[2].MaterialNeed.Equal(dec(5)))
	assert.Equal(t, "OC-101, OC-102", rows[2].SKU)

	// Acumulado de necesidad: negativo y no creciente
	accums := []int64{-10, -10, -15}
	for i, want := range accums {
		assert.True(t, rows[i].NeedAccum.Equal(dec(want)),
			"semana %d: need_accum %s, esperado %d", i, rows[i].NeedAccum, want)
	}
}

func TestNormalizeWeeklyFillsEmptyWeeks(t *testing.T) {
	normalizer := NewNormalizerService(zap.NewNop())

	week1 := time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	week2 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	records := []models.DemandRecord{
		demandRecord("MAT-A", week1, 10, "OC-100"),
		demandRecord("MAT-B", week2, 7, "OC-200"),
	}

	rows := normalizer.NormalizeWeekly(records)
	require.Len(t, rows, 4)

	// MAT-B no tiene demanda en la primera semana: necesidad cero y
	// atributos heredados de su primera fila conocida
	first := rows[2]
	assert.Equal(t, "MAT-B", first.Material)
	assert.True(t, first.MaterialNeed.IsZero())
	assert.True(t, first.NeedAccum.IsZero())
	assert.Equal(t, "OC-200", first.SKU)
	assert.Equal(t, "IN", first.Category)
}

func TestNormalizeWeeklyEmptyInput(t *testing.T) {
	normalizer := NewNormalizerService(zap.NewNop())
	assert.Nil(t, normalizer.NormalizeWeekly(nil))
}

func TestNormalizeWeeklyCrossesYearBoundary(t *testing.T) {
	normalizer := NewNormalizerService(zap.NewNop())

	records := []models.DemandRecord{
		demandRecord("MAT-A", time.Date(2020, 12, 21, 0, 0, 0, 0, time.UTC), 1, "OC-1"), // 202052
		demandRecord("MAT-A", time.Date(2021, 1, 11, 0, 0, 0, 0, time.UTC), 1, "OC-2"),  // 202102
	}

	rows := normalizer.NormalizeWeekly(records)

	// 2020 tiene semana 53: el rango es 202052, 202053, 202101, 202102
	require.Len(t, rows, 4)
	weeks := []isoweek.YearWeek{202052, 202053, 202101, 202102}
	for i, want := range weeks {
		assert.Equal(t, want, rows[i].YearWeek)
	}
}
