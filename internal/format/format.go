package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Dollar renders a value as a grouped dollar amount, e.g. -$1,234.50.
func Dollar(x float64) string {
	if x < 0 {
		return fmt.Sprintf("-$%s", humanize.CommafWithDigits(-x, 2))
	}
	return fmt.Sprintf("$%s", humanize.CommafWithDigits(x, 2))
}

// Percent renders a ratio as a percentage with two decimals.
func Percent(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}
