package notify

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"flota-backend/internal/models"
)

// Digest is a rendered alert notification for one recipient. The Link opens
// WhatsApp with the message prefilled; no delivery happens server side.
type Digest struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Phone      string `json:"phone"`
	CostCenter string `json:"costCenter"`
	AlertCount int    `json:"alertCount"`
	Message    string `json:"message"`
	Link       string `json:"link"`
}

// Thresholds the digest uses for its own line selection. These are tighter
// than the dashboard alert thresholds so the digest only nags about vehicles
// that need action soon.
const (
	digestServiceKm    = 1000
	digestDocumentDays = 15
)

// DigestBuilder renders WhatsApp alert digests for fleet recipients.
type DigestBuilder struct{}

func NewDigestBuilder() *DigestBuilder {
	return &DigestBuilder{}
}

// Build renders one digest per recipient that has at least one alert line.
// Recipients without receiveAlerts, approval or a phone are expected to be
// filtered out by the caller. A recipient with an empty cost center sees the
// whole fleet.
func (b *DigestBuilder) Build(recipients []models.User, vehicles []models.Vehicle, asOf time.Time) []Digest {
	digests := make([]Digest, 0)

	for _, user := range recipients {
		if user.Phone == "" {
			continue
		}

		var lines []string
		for _, v := range vehicles {
			if v.Status == models.VehicleStatusInactive {
				continue
			}
			if user.CostCenter != "" && user.CostCenter != v.CostCenter {
				continue
			}
			lines = append(lines, vehicleLines(v, asOf)...)
		}

		if len(lines) == 0 {
			continue
		}

		message := renderMessage(user, lines)

		digests = append(digests, Digest{
			UserID:     user.ID.Hex(),
			UserName:   user.Name,
			Phone:      user.Phone,
			CostCenter: user.CostCenter,
			AlertCount: len(lines),
			Message:    message,
			Link:       waLink(user.Phone, message),
		})
	}

	return digests
}

func vehicleLines(v models.Vehicle, asOf time.Time) []string {
	var lines []string

	kmLeft := v.NextServiceKm - v.CurrentKm
	if kmLeft < 0 {
		lines = append(lines, fmt.Sprintf("🔴 *%s*: SERVICE VENCIDO por %d km.", v.Plate, -kmLeft))
	} else if kmLeft < digestServiceKm {
		lines = append(lines, fmt.Sprintf("⚠️ *%s*: Service próximo en %d km.", v.Plate, kmLeft))
	}

	for _, d := range v.Documents {
		if d.ExpirationDate == "" {
			continue
		}
		exp, err := time.Parse("2006-01-02", d.ExpirationDate)
		if err != nil {
			continue
		}
		days := exp.Sub(asOf).Hours() / 24
		if days < 0 {
			lines = append(lines, fmt.Sprintf("⛔ *%s*: %s VENCIDO el %s.", v.Plate, d.Type, d.ExpirationDate))
		} else if days < digestDocumentDays {
			lines = append(lines, fmt.Sprintf("📅 *%s*: %s vence en %d días.", v.Plate, d.Type, int(math.Ceil(days))))
		}
	}

	return lines
}

func renderMessage(user models.User, lines []string) string {
	costCenter := user.CostCenter
	if costCenter == "" {
		costCenter = "Global"
	}

	var sb strings.Builder
	sb.WriteString("🤖 *ALERTA AUTOMÁTICA DE FLOTA*\n")
	sb.WriteString(fmt.Sprintf("Hola %s, este es el reporte de novedades para tu centro de costo (%s):\n\n", user.Name, costCenter))
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nPor favor gestionar en el sistema.")
	return sb.String()
}

// waLink builds a wa.me URL with the phone stripped to digits and the
// message URL-escaped.
func waLink(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), url.QueryEscape(message))
}
