package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/naftapulse/internal/domain/models"
)

func TestParseNumber_TableDriven(t *testing.T) {
	cases := []struct {
		in      string
		mark    DecimalMark
		want    float64
		wantErr bool
	}{
		{in: "1234.56", want: 1234.56},
		{in: " 1234,56 ", want: 1234.56},
		{in: "1.234,56", want: 1234.56},
		{in: "1,234.56", want: 1234.56},
		{in: "1,234", want: 1.234},
		{in: "0", want: 0},
		{in: "-2.5", want: -2.5},
		{in: "1,234", mark: DecimalPoint, want: 1234},
		{in: "1,234,567.5", mark: DecimalPoint, want: 1234567.5},
		{in: "0.95", mark: DecimalPoint, want: 0.95},
		{in: "1,234", mark: DecimalComma, want: 1.234},
		{in: "1.234", mark: DecimalComma, want: 1234},
		{in: "1.395,4205", mark: DecimalComma, want: 1395.4205},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "nan", wantErr: true},
		{in: "NaN", mark: DecimalPoint, wantErr: true},
		{in: "inf", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(string(tc.mark)+tc.in, func(t *testing.T) {
			got, err := ParseNumber(tc.in, tc.mark)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestToObservations_SortsStableAndSkips(t *testing.T) {
	records := []models.RawRecord{
		{"empresa": "V", "fecha_chequeo": "2025-01-03", "precio": "30", "localidad": "CABA"},
		{"empresa": "V", "fecha_chequeo": "2025-01-01 18:00:00", "precio": "10"},
		{"empresa": "V", "fecha_chequeo": "2025-01-03", "precio": "31"},
		{"empresa": "V", "fecha_chequeo": "bad", "precio": "99"},
		{"empresa": "V", "fecha_chequeo": "2025-01-02", "precio": "nan"},
		{"empresa": "V", "fecha_chequeo": "2025-01-01", "precio": "11"},
	}

	obs, skipped := ToObservations(records, SchemaARS)
	assert.Equal(t, 2, skipped)
	require.Len(t, obs, 4)

	prices := []float64{obs[0].Price, obs[1].Price, obs[2].Price, obs[3].Price}
	assert.Equal(t, []float64{10, 11, 30, 31}, prices)
	assert.Equal(t, "CABA", obs[2].Location)
	assert.Equal(t, 12, obs[0].Date.Hour())
}

func TestToObservations_ProductFilter(t *testing.T) {
	records := []models.RawRecord{
		{"empresa": "V", "fecha_vigencia": "2025-01-01", "precio": "10", "producto": "Nafta (súper) entre 92 y 95 Ron"},
		{"empresa": "V", "fecha_vigencia": "2025-01-01", "precio": "20", "producto": "Gas Oil Grado 2"},
		{"empresa": "V", "fecha_vigencia": "2025-01-02", "precio": "11", "producto": "NAFTA (SÚPER) ENTRE 92 Y 95 RON"},
	}

	obs, skipped := ToObservations(records, SchemaOfficial)
	assert.Equal(t, 1, skipped)
	require.Len(t, obs, 2)
	assert.Equal(t, 10.0, obs[0].Price)
	assert.Equal(t, 11.0, obs[1].Price)
}

func TestToObservations_VariationColumn(t *testing.T) {
	records := []models.RawRecord{
		{"empresa": "V", "fecha_chequeo": "2025-01-01", "precio": "10", "%_variacion": "0.0"},
		{"empresa": "V", "fecha_chequeo": "2025-01-02", "precio": "11", "%_variacion": "10.0"},
		{"empresa": "V", "fecha_chequeo": "2025-01-03", "precio": "11"},
	}

	obs, _ := ToObservations(records, SchemaARS)
	require.Len(t, obs, 3)
	assert.True(t, obs[0].HasVariation)
	assert.Equal(t, 10.0, obs[1].Variation)
	assert.False(t, obs[2].HasVariation)
}

func TestToObservations_USDSchema(t *testing.T) {
	records := []models.RawRecord{
		{"empresa": "V", "fecha_chequeo": "2025-01-01", "precio": "1000", "price_usd": "0.95"},
	}
	obs, skipped := ToObservations(records, SchemaUSD)
	assert.Zero(t, skipped)
	require.Len(t, obs, 1)
	assert.Equal(t, 0.95, obs[0].Price)
}

func TestToObservations_DecimalMark(t *testing.T) {
	usd := []models.RawRecord{
		{"empresa": "V", "fecha_chequeo": "2025-01-01", "price_usd": "1,234"},
	}
	obs, _ := ToObservations(usd, SchemaUSD)
	require.Len(t, obs, 1)
	assert.Equal(t, 1234.0, obs[0].Price)

	official := []models.RawRecord{
		{"empresa": "V", "fecha_vigencia": "2025-01-01", "precio": "1.234,5", "producto": "Nafta (súper) entre 92 y 95 Ron"},
	}
	obs, _ = ToObservations(official, SchemaOfficial)
	require.Len(t, obs, 1)
	assert.Equal(t, 1234.5, obs[0].Price)
}
