package fms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Summary counts verdicts. Total == Pass + Fail once every row is folded.
type Summary struct {
	Total int `json:"total"`
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
}

// FailRate returns Fail/Total, or 0 for an empty summary.
func (s Summary) FailRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Fail) / float64(s.Total)
}

// WeightPoint is one scatter plot point.
type WeightPoint struct {
	ID       any     `json:"id"`
	Weight   float64 `json:"weight"`
	Category string  `json:"category"`
}

// CategoryWeights groups weights by category, keeping categories in the
// order they were first seen.
type CategoryWeights struct {
	order   []string
	weights map[string][]float64
}

// NewCategoryWeights returns an empty grouping.
func NewCategoryWeights() *CategoryWeights {
	return &CategoryWeights{weights: make(map[string][]float64)}
}

// Add appends w to category.
func (c *CategoryWeights) Add(category string, w float64) {
	if _, ok := c.weights[category]; !ok {
		c.order = append(c.order, category)
	}
	c.weights[category] = append(c.weights[category], w)
}

// Categories returns category names in first-seen order.
func (c *CategoryWeights) Categories() []string {
	return c.order
}

// Weights returns the weights of category in scan order.
func (c *CategoryWeights) Weights(category string) []float64 {
	return c.weights[category]
}

// Len returns the number of categories.
func (c *CategoryWeights) Len() int {
	return len(c.order)
}

// MarshalJSON encodes the grouping as an object whose keys keep first-seen order.
func (c *CategoryWeights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat)
		if err != nil {
			return nil, err
		}
		vals, err := json.Marshal(c.weights[cat])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CategoryStat summarises the weights of one category.
type CategoryStat struct {
	Category string
	Count    int
	Min      float64
	Max      float64
	Mean     float64
}

// Stats returns per-category statistics in first-seen order.
func (c *CategoryWeights) Stats() []CategoryStat {
	stats := make([]CategoryStat, 0, len(c.order))
	for _, cat := range c.order {
		ws := c.weights[cat]
		st := CategoryStat{Category: cat, Count: len(ws), Min: ws[0], Max: ws[0]}
		var sum float64
		for _, w := range ws {
			sum += w
			st.Min = min(st.Min, w)
			st.Max = max(st.Max, w)
		}
		st.Mean = sum / float64(len(ws))
		stats = append(stats, st)
	}
	return stats
}

// RowShapeError reports a row missing columns the aggregator reads.
// It is informational: the row is still folded with defaults.
type RowShapeError struct {
	Row     int
	Missing []string
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d: missing columns %s", e.Row, strings.Join(e.Missing, ", "))
}

// Report is everything the FMS result page shows.
type Report struct {
	Summary           Summary          `json:"summary"`
	WeightsAll        []float64        `json:"weights_all"`
	WeightsByCategory *CategoryWeights `json:"weights_by_category"`
	Scatter           []WeightPoint    `json:"scatter"`

	// Issues lists rows that were folded with defaults.
	Issues []error `json:"-"`
}

// NewReport returns an empty report with all collections allocated.
func NewReport() *Report {
	return &Report{
		WeightsAll:        []float64{},
		WeightsByCategory: NewCategoryWeights(),
		Scatter:           []WeightPoint{},
	}
}

// Aggregate folds records into a report in a single ordered pass.
func Aggregate(records []Record, cols Columns) *Report {
	rep, _ := fold(records, cols)
	return rep
}

// fold is Aggregate with panic containment: a panic on any row stops the
// fold and the report built so far is returned together with the error.
func fold(records []Record, cols Columns) (rep *Report, err error) {
	cols = cols.withDefaults()
	rep = NewReport()
	rep.Summary.Total = len(records)

	i := 0
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregating row %d: %v", i, r)
		}
	}()

	for ; i < len(records); i++ {
		rep.add(i, records[i], cols)
	}
	return rep, nil
}

func (rep *Report) add(i int, rec Record, cols Columns) {
	var missing []string
	for _, col := range cols.all() {
		if _, ok := rec.Lookup(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		rep.Issues = append(rep.Issues, &RowShapeError{Row: i, Missing: missing})
	}

	if Classify(rec, cols) == Fail {
		rep.Summary.Fail++
	} else {
		rep.Summary.Pass++
	}

	category := rec.String(cols.Category, UnknownCategory)
	w := ParseWeight(rec.Get(cols.Weight, nil))
	id := rec.Get(cols.ID, 0)

	if !w.Positive() {
		return
	}
	rep.WeightsAll = append(rep.WeightsAll, w.Grams)
	rep.WeightsByCategory.Add(category, w.Grams)
	rep.Scatter = append(rep.Scatter, WeightPoint{ID: id, Weight: w.Grams, Category: category})
}
