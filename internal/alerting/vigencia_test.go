package alerting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuggestedLifeYears(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		year int
		want int
	}{
		{year: 2026, want: 10},
		{year: 2023, want: 10},
		{year: 2022, want: 8},
		{year: 2021, want: 8},
		{year: 2018, want: 5},
		{year: 2016, want: 5},
		{year: 2015, want: 3},
		{year: 2005, want: 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestedLifeYears(tt.year, now), "year %d", tt.year)
	}
}

func TestCalcularVigencia_Vigente(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	v := CalcularVigencia(2024, 0, now)

	assert.Equal(t, 10, v.AniosVidaUtil)
	assert.Equal(t, time.Date(2034, time.December, 31, 0, 0, 0, 0, time.UTC), v.FechaVencimiento)
	assert.Equal(t, VigenciaVigente, v.Estado)
	assert.Greater(t, v.DiasRestantes, 180)
	assert.Greater(t, v.AniosRestantes, 8.0)
}

func TestCalcularVigencia_Vencido(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// 2005 + 3 years of life expired at end of 2008.
	v := CalcularVigencia(2005, 0, now)

	assert.Equal(t, VigenciaVencido, v.Estado)
	assert.Negative(t, v.DiasRestantes)
	assert.Equal(t, 0.0, v.AniosRestantes)
}

func TestCalcularVigencia_PorVencer(t *testing.T) {
	// Explicit 10-year life expiring 2026-12-31; asOf within the 180-day window.
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	v := CalcularVigencia(2016, 10, now)

	assert.Equal(t, VigenciaPorVencer, v.Estado)
	assert.GreaterOrEqual(t, v.DiasRestantes, 0)
	assert.LessOrEqual(t, v.DiasRestantes, 180)
}
