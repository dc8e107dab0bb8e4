package alerting

import (
	"math"
	"time"
)

// Vigencia states
const (
	VigenciaVencido   = "vencido"
	VigenciaPorVencer = "por_vencer"
	VigenciaVigente   = "vigente"
)

// Vigencia projects the operational lifecycle of a vehicle from its
// fabrication year: the corporate standard assigns a suggested useful life by
// age and expires the unit at the end of that calendar year.
type Vigencia struct {
	AnioFabricacion  int       `json:"anioFabricacion"`
	AniosVidaUtil    int       `json:"aniosVidaUtil"`
	FechaVencimiento time.Time `json:"fechaVencimiento"`
	DiasRestantes    int       `json:"diasRestantes"`
	AniosRestantes   float64   `json:"aniosRestantes"`
	Estado           string    `json:"estado"`
}

// SuggestedLifeYears returns the corporate useful-life standard for a unit of
// the given fabrication year: newer units get longer projections.
func SuggestedLifeYears(fabricationYear int, asOf time.Time) int {
	age := asOf.Year() - fabricationYear
	switch {
	case age <= 3:
		return 10
	case age <= 5:
		return 8
	case age <= 10:
		return 5
	default:
		return 3
	}
}

// CalcularVigencia computes the lifecycle projection for a fabrication year
// at the given reference instant. lifeYears overrides the corporate standard
// when positive; zero applies the suggested value. Units inside 180 days of
// expiry are flagged por_vencer.
func CalcularVigencia(fabricationYear, lifeYears int, asOf time.Time) Vigencia {
	life := lifeYears
	if life <= 0 {
		life = SuggestedLifeYears(fabricationYear, asOf)
	}
	expiry := time.Date(fabricationYear+life, time.December, 31, 0, 0, 0, 0, asOf.Location())

	diff := expiry.Sub(asOf)
	days := int(math.Ceil(diff.Hours() / 24))
	years := math.Max(0, math.Round(diff.Hours()/24/365.25*10)/10)

	estado := VigenciaVigente
	switch {
	case days < 0:
		estado = VigenciaVencido
	case days <= 180:
		estado = VigenciaPorVencer
	}

	return Vigencia{
		AnioFabricacion:  fabricationYear,
		AniosVidaUtil:    life,
		FechaVencimiento: expiry,
		DiasRestantes:    days,
		AniosRestantes:   years,
		Estado:           estado,
	}
}
