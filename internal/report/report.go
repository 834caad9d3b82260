// Package report renders a finalized inspection as a PDF document or an XLSX
// workbook.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/vbonduro/vistoria/internal/domain"
	"github.com/vbonduro/vistoria/internal/summary"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	notAvailable = "N/A"
)

// Input is everything a report shows. Property and Inspection are required.
type Input struct {
	Property   *domain.Property
	Inspection *domain.Inspection
	// Inspector is printed as-is; usually the inspector's e-mail.
	Inspector string
	Summary   *summary.Inspection
}

func (in Input) validate() error {
	if in.Property == nil {
		return fmt.Errorf("report requires a property: %w", domain.ErrValidation)
	}
	if in.Inspection == nil {
		return fmt.Errorf("report requires an inspection: %w", domain.ErrValidation)
	}
	return nil
}

func (in Input) summary() *summary.Inspection {
	if in.Summary == nil {
		return &summary.Inspection{}
	}
	return in.Summary
}

// Document is a rendered report ready to be sent to a client.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format("02/01/2006")
}

func formatArea(a *float64) string {
	if a == nil {
		return notAvailable
	}
	return ptBR.Sprint(number.Decimal(*a, number.MaxFractionDigits(2))) + " m²"
}

func formatMoney(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return "R$ " + ptBR.Sprint(number.Decimal(*v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func formatAddress(p *domain.Property) string {
	var parts []string
	street := strings.TrimSpace(p.Street)
	if street != "" && strings.TrimSpace(p.Number) != "" {
		street += ", " + strings.TrimSpace(p.Number)
	}
	if street != "" {
		parts = append(parts, street)
	}
	var place []string
	for _, s := range []string{p.Neighborhood, p.City, p.State} {
		if s = strings.TrimSpace(s); s != "" {
			place = append(place, s)
		}
	}
	if len(place) > 0 {
		parts = append(parts, strings.Join(place, ", "))
	}
	if len(parts) == 0 {
		return notAvailable
	}
	return strings.Join(parts, " - ")
}

func formatType(p *domain.Property) string {
	switch {
	case p.Type != "" && p.Subtype != "":
		return p.Type + " - " + p.Subtype
	case p.Type != "":
		return p.Type
	default:
		return orNA(p.Subtype)
	}
}

func baseName(in Input, now time.Time) string {
	date := now.Format("2006-01-02")
	if in.Property != nil {
		if reg := sanitizeRegistration(in.Property.RegistrationNumber); reg != "" {
			return "vistoria_" + reg + "_" + date
		}
	}
	return "vistoria_" + date
}

func sanitizeRegistration(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
