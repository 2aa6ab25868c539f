package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/seller-console/internal/entity"
)

// TestFormatCurrency - agrupamento en-US com duas casas
func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1,000.00", FormatCurrency(1000))
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$1,234,567.89", FormatCurrency(1234567.89))
	assert.Equal(t, "$12.50", FormatCurrency(12.5))
	assert.Equal(t, "-$5.00", FormatCurrency(-5))
}

func TestFormatAmountNil(t *testing.T) {
	v := 250.0
	assert.Equal(t, "-", FormatAmount(nil))
	assert.Equal(t, "$250.00", FormatAmount(&v))
}

// TestParseCurrency - remove símbolos e separadores
func TestParseCurrency(t *testing.T) {
	assert.Equal(t, 1000.50, ParseCurrency("$1,000.50"))
	assert.Equal(t, 42.0, ParseCurrency("42"))
	assert.Equal(t, 0.0, ParseCurrency("abc"))
	assert.Equal(t, 0.0, ParseCurrency(""))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	assert.Equal(t, "Mar 5, 2024", FormatDate(ts))
	assert.Equal(t, "Mar 5, 2024, 02:07 PM", FormatDateTime(ts))
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "Cold Call", SourceLabel("cold_call"))
	assert.Equal(t, "Trade Show", SourceLabel("trade_show"))
	assert.Equal(t, "Unknown", SourceLabel("Unknown"))
	for _, s := range KnownSources {
		assert.NotEqual(t, s, SourceLabel(s), "source %s sem label", s)
	}
}

// TestScoreBuckets - limites 80/60/40
func TestScoreBuckets(t *testing.T) {
	cases := []struct {
		score int
		color entity.Color
		label string
	}{
		{100, entity.ColorGreen, "High"},
		{80, entity.ColorGreen, "High"},
		{79, entity.ColorYellow, "Medium"},
		{60, entity.ColorYellow, "Medium"},
		{59, entity.ColorOrange, "Low"},
		{40, entity.ColorOrange, "Low"},
		{39, entity.ColorRed, "Very Low"},
		{0, entity.ColorRed, "Very Low"},
	}
	for _, c := range cases {
		assert.Equal(t, c.color, ScoreColor(c.score), "score %d", c.score)
		assert.Equal(t, c.label, ScoreLabel(c.score), "score %d", c.score)
	}
}

func TestStatusAndStageLabels(t *testing.T) {
	assert.Equal(t, "Converted", StatusLabel(entity.LeadStatusConverted))
	assert.Equal(t, "Closed Won", StageLabel(entity.StageClosedWon))
}
