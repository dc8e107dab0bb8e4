package alerting

// Policy holds the alerting thresholds. Kilometre thresholds gate the
// service-interval check, day thresholds gate the VTV expiration check.
// The urgent tier escalates severity to "alta"; the warning tier opens the
// alert window at severity "media".
type Policy struct {
	UrgentKm    int
	WarningKm   int
	UrgentDays  int
	WarningDays int
}

// DefaultPolicy returns the fleet-wide thresholds: a standing notice inside
// 1500 km / 30 days and an urgent notice inside 500 km / 10 days.
func DefaultPolicy() Policy {
	return Policy{
		UrgentKm:    500,
		WarningKm:   1500,
		UrgentDays:  10,
		WarningDays: 30,
	}
}

// normalized fills unusable threshold values from the defaults so a partially
// configured policy never disables a tier.
func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.UrgentKm <= 0 {
		p.UrgentKm = def.UrgentKm
	}
	if p.WarningKm <= 0 {
		p.WarningKm = def.WarningKm
	}
	if p.UrgentDays <= 0 {
		p.UrgentDays = def.UrgentDays
	}
	if p.WarningDays <= 0 {
		p.WarningDays = def.WarningDays
	}
	return p
}
