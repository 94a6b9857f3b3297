// Package pages holds the FMS report's templ components.
package pages

import (
	"strconv"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

// chartIDs are the canvases fms.js draws into.
var chartIDs = []string{"chart-status", "chart-weights", "chart-categories", "chart-scatter"}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

func cell(rec fms.Record, col string) string {
	v, _ := rec.Lookup(col)
	return fms.Text(v)
}
