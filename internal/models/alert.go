package models

// Alert kinds
const (
	AlertKindService  = "service"
	AlertKindDocument = "document"
)

// Alert severities, in urgency order
const (
	SeverityAlta  = "alta"
	SeverityMedia = "media"
)

// Alert is a derived compliance/maintenance warning. Alerts are never
// persisted: the full set is recomputed from the fleet snapshot on every
// evaluation pass, and the ID is deterministic so recomputation is idempotent.
type Alert struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Plate    string `json:"plate"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Detail   string `json:"detail"`
}
