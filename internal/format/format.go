// Package format renders values for the console: currency, dates, labels and
// badge colors.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xavierca1/seller-console/internal/entity"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders USD with en-US grouping: 1000 -> "$1,000.00".
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + printer.Sprintf("$%.2f", -amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

// FormatAmount is FormatCurrency for an optional amount; nil renders as "-".
func FormatAmount(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return FormatCurrency(*amount)
}

// ParseCurrency strips everything but digits, dot and minus. Garbage parses as 0.
func ParseCurrency(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

var sourceLabels = map[string]string{
	"website":       "Website",
	"referral":      "Referral",
	"cold_call":     "Cold Call",
	"email":         "Email",
	"social_media":  "Social Media",
	"advertisement": "Advertisement",
	"trade_show":    "Trade Show",
	"other":         "Other",
}

// KnownSources lists the sources offered by the lead form.
var KnownSources = []string{
	"website", "referral", "cold_call", "email",
	"social_media", "advertisement", "trade_show", "other",
}

// SourceLabel falls back to the raw value since source is free text.
func SourceLabel(source string) string {
	if l, ok := sourceLabels[source]; ok {
		return l
	}
	return source
}

func StatusLabel(s entity.LeadStatus) string       { return s.Label() }
func StageLabel(s entity.OpportunityStage) string { return s.Label() }

// ScoreColor buckets a lead score: >=80 green, >=60 yellow, >=40 orange, else red.
func ScoreColor(score int) entity.Color {
	switch {
	case score >= 80:
		return entity.ColorGreen
	case score >= 60:
		return entity.ColorYellow
	case score >= 40:
		return entity.ColorOrange
	}
	return entity.ColorRed
}

// ScoreLabel names the bucket used by ScoreColor.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "High"
	case score >= 60:
		return "Medium"
	case score >= 40:
		return "Low"
	}
	return "Very Low"
}
