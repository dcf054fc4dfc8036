package render

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	axisDateLayout    = "Jan 02"
	tooltipDateLayout = "Mon, Jan 02"
)

var printer = message.NewPrinter(language.English)

// AxisValue formats a Y axis label: compact SI from a thousand upwards
// ("1.2k", "35M"), at most two decimals below.
func AxisValue(v float64) string {
	if math.Abs(v) < 1000 {
		return humanize.FtoaWithDigits(v, 2)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(v, 1, ""), " ", "")
}

// TooltipValue formats a cursor readout with digit grouping, "12,345".
func TooltipValue(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return printer.Sprint(v)
	case v != math.Trunc(v):
		return printer.Sprintf("%.2f", v)
	case math.Abs(v) < 1<<53:
		return printer.Sprintf("%d", int64(v))
	default:
		// Beyond 2^53 every float is integral and may overflow int64.
		return humanize.Commaf(v)
	}
}

// AxisDate formats a Unix millisecond timestamp as "Mar 10".
func AxisDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(axisDateLayout)
}

// TooltipDate formats a Unix millisecond timestamp as "Sun, Mar 10".
func TooltipDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(tooltipDateLayout)
}
