package alerting

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"flota-backend/internal/models"
)

// Evaluator computes the full set of maintenance and compliance alerts for a
// fleet snapshot. It is a pure function of its inputs: it performs no I/O,
// never mutates the vehicles it receives, and the same (vehicles, asOf) pair
// always yields the same alert list in the same order, so it is safe to call
// concurrently on independent snapshots.
type Evaluator struct {
	policy Policy
}

func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy.normalized()}
}

// Evaluate walks the fleet in input order and emits, per vehicle, the service
// alert followed by the document alert when their conditions hold. The result
// is stable-sorted so every "alta" alert precedes every "media" alert while
// per-vehicle emission order is preserved within each tier.
//
// Data-quality problems never abort the pass: an unparseable expiration date
// skips that document, and a nil vehicle slice is an empty fleet.
func (e *Evaluator) Evaluate(vehicles []models.Vehicle, asOf time.Time) []models.Alert {
	alerts := []models.Alert{}

	for i := range vehicles {
		v := &vehicles[i]

		if a, ok := e.serviceAlert(v); ok {
			alerts = append(alerts, a)
		}
		if a, ok := e.documentAlert(v, asOf); ok {
			alerts = append(alerts, a)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})

	return alerts
}

func (e *Evaluator) serviceAlert(v *models.Vehicle) (models.Alert, bool) {
	kmRemaining := v.NextServiceKm - v.CurrentKm

	switch {
	case kmRemaining <= 0:
		return models.Alert{
			ID:       alertID(models.AlertKindService, v.Plate),
			Kind:     models.AlertKindService,
			Plate:    v.Plate,
			Severity: models.SeverityAlta,
			Message:  "SERVICE VENCIDO (KM EXCEDIDO)",
			Detail:   fmt.Sprintf("%d KM EXCEDIDOS", -kmRemaining),
		}, true
	case kmRemaining < e.policy.WarningKm:
		severity := models.SeverityMedia
		if kmRemaining < e.policy.UrgentKm {
			severity = models.SeverityAlta
		}
		return models.Alert{
			ID:       alertID(models.AlertKindService, v.Plate),
			Kind:     models.AlertKindService,
			Plate:    v.Plate,
			Severity: severity,
			Message:  "SERVICE PRÓXIMO",
			Detail:   fmt.Sprintf("%d KM RESTANTES", kmRemaining),
		}, true
	}

	return models.Alert{}, false
}

// documentAlert checks the first document whose type contains "VTV"
// (case-insensitively). Later VTV documents are ignored; this mirrors the
// single-certificate lookup of the source system.
func (e *Evaluator) documentAlert(v *models.Vehicle, asOf time.Time) (models.Alert, bool) {
	var doc *models.Document
	for i := range v.Documents {
		if strings.Contains(strings.ToUpper(v.Documents[i].Type), "VTV") {
			doc = &v.Documents[i]
			break
		}
	}
	if doc == nil || doc.ExpirationDate == "" {
		return models.Alert{}, false
	}

	expiration, ok := parseExpiration(doc.ExpirationDate)
	if !ok {
		// Malformed date: skip this document rather than failing the pass.
		return models.Alert{}, false
	}

	daysUntil := daysUntil(expiration, asOf)

	switch {
	case daysUntil < 0:
		return models.Alert{
			ID:       alertID(models.AlertKindDocument, v.Plate),
			Kind:     models.AlertKindDocument,
			Plate:    v.Plate,
			Severity: models.SeverityAlta,
			Message:  "VTV VENCIDA",
			Detail:   fmt.Sprintf("VENCIDO HACE %d DÍAS", -daysUntil),
		}, true
	case daysUntil < e.policy.WarningDays:
		severity := models.SeverityMedia
		if daysUntil < e.policy.UrgentDays {
			severity = models.SeverityAlta
		}
		return models.Alert{
			ID:       alertID(models.AlertKindDocument, v.Plate),
			Kind:     models.AlertKindDocument,
			Plate:    v.Plate,
			Severity: severity,
			Message:  "VTV POR VENCER",
			Detail:   fmt.Sprintf("%d DÍAS RESTANTES", daysUntil),
		}, true
	}

	return models.Alert{}, false
}

// daysUntil counts calendar days from asOf to the expiration instant. Only
// asOf is truncated to the start of its day; the expiration keeps full
// precision, and partial days round up.
func daysUntil(expiration, asOf time.Time) int {
	day0 := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	return int(math.Ceil(expiration.Sub(day0).Hours() / 24))
}

var expirationLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseExpiration(s string) (time.Time, bool) {
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// alertID is deterministic over (kind, plate) so recomputed alerts dedupe
// across evaluation passes.
func alertID(kind, plate string) string {
	return kind + ":" + plate
}

func severityRank(severity string) int {
	if severity == models.SeverityAlta {
		return 0
	}
	return 1
}
