package fms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resultColumns = []string{"부적합여부", "품종", "종란무게", "육계번호"}

func row(status, category, weight any, id any) Record {
	return NewRecord(resultColumns, []any{status, category, weight, id})
}

func TestAggregate_Scenario(t *testing.T) {
	records := []Record{
		row("부적합", "A", "60g", int64(1)),
		row("Fail", "B", "0g", int64(2)),
		row("정상", "A", "55.5g", int64(3)),
	}

	rep := Aggregate(records, DefaultColumns())

	assert.Equal(t, Summary{Total: 3, Pass: 1, Fail: 2}, rep.Summary)
	assert.Equal(t, []float64{60, 55.5}, rep.WeightsAll)
	assert.Equal(t, []string{"A"}, rep.WeightsByCategory.Categories())
	assert.Equal(t, []float64{60, 55.5}, rep.WeightsByCategory.Weights("A"))
	assert.Nil(t, rep.WeightsByCategory.Weights("B"), "zero weight must not create a category")
	assert.Equal(t, []WeightPoint{
		{ID: int64(1), Weight: 60, Category: "A"},
		{ID: int64(3), Weight: 55.5, Category: "A"},
	}, rep.Scatter)
	assert.Empty(t, rep.Issues)
}

func TestAggregate_SummaryInvariant(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"empty", nil},
		{"all pass", []Record{row("정상", "A", "1g", 1), row("", "A", "2g", 2)}},
		{"all fail", []Record{row("fail", "A", "1g", 1), row("부적합", "B", "x", 2)}},
		{"shapeless", []Record{NewRecord(nil, nil), NewRecord([]string{"x"}, []any{"y"})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Aggregate(tt.records, DefaultColumns())
			assert.Equal(t, len(tt.records), rep.Summary.Total)
			assert.Equal(t, rep.Summary.Total, rep.Summary.Pass+rep.Summary.Fail)
		})
	}
}

func TestAggregate_NonPositiveWeightsOnlyCounted(t *testing.T) {
	records := []Record{
		row("정상", "A", "0", 1),
		row("정상", "A", "-5g", 2),
		row("정상", "A", "abc", 3),
		row("정상", "A", nil, 4),
	}

	rep := Aggregate(records, DefaultColumns())

	assert.Equal(t, 4, rep.Summary.Total)
	assert.Empty(t, rep.WeightsAll)
	assert.Equal(t, 0, rep.WeightsByCategory.Len())
	assert.Empty(t, rep.Scatter)
}

func TestAggregate_CategoryOrderAndDefaults(t *testing.T) {
	records := []Record{
		row("", "b", "1g", 1),
		row("", "A", "2g", 2),
		row("", "a", "3g", 3),
		row("", "b", "4g", 4),
		NewRecord([]string{"종란무게"}, []any{"5g"}),
		row("", nil, "6g", nil),
	}

	rep := Aggregate(records, DefaultColumns())

	assert.Equal(t, []string{"b", "A", "a", UnknownCategory}, rep.WeightsByCategory.Categories())
	assert.Equal(t, []float64{1, 4}, rep.WeightsByCategory.Weights("b"))
	assert.Equal(t, []float64{5, 6}, rep.WeightsByCategory.Weights(UnknownCategory))
	require.Len(t, rep.Scatter, 6)
	assert.Equal(t, 0, rep.Scatter[4].ID, "missing id defaults to 0")
	assert.Equal(t, 0, rep.Scatter[5].ID, "null id defaults to 0")
}

func TestAggregate_RowShapeIssues(t *testing.T) {
	records := []Record{
		row("정상", "A", "1g", 1),
		NewRecord([]string{"부적합여부", "종란무게"}, []any{"정상", "2g"}),
	}

	rep := Aggregate(records, DefaultColumns())

	require.Len(t, rep.Issues, 1)
	var shapeErr *RowShapeError
	require.ErrorAs(t, rep.Issues[0], &shapeErr)
	assert.Equal(t, 1, shapeErr.Row)
	assert.Equal(t, []string{"품종", "육계번호"}, shapeErr.Missing)
	assert.Contains(t, shapeErr.Error(), "row 1: missing columns 품종, 육계번호")
}

func TestCategoryWeights_MarshalJSON(t *testing.T) {
	cw := NewCategoryWeights()
	cw.Add("z", 1)
	cw.Add("a", 2.5)
	cw.Add("z", 3)

	out, err := json.Marshal(cw)
	require.NoError(t, err)
	assert.Equal(t, `{"z":[1,3],"a":[2.5]}`, string(out))

	empty, err := json.Marshal(NewCategoryWeights())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestCategoryWeights_Stats(t *testing.T) {
	cw := NewCategoryWeights()
	cw.Add("A", 60)
	cw.Add("B", 50)
	cw.Add("A", 55)
	cw.Add("A", 65)

	stats := cw.Stats()

	require.Len(t, stats, 2)
	assert.Equal(t, CategoryStat{Category: "A", Count: 3, Min: 55, Max: 65, Mean: 60}, stats[0])
	assert.Equal(t, CategoryStat{Category: "B", Count: 1, Min: 50, Max: 50, Mean: 50}, stats[1])
}

func TestSummaryFailRate(t *testing.T) {
	assert.InDelta(t, 0.0, Summary{}.FailRate(), 1e-9)
	assert.InDelta(t, 0.25, Summary{Total: 4, Pass: 3, Fail: 1}.FailRate(), 1e-9)
}

func TestReportJSON(t *testing.T) {
	rep := Aggregate([]Record{row("정상", "A", "60g", int64(1))}, DefaultColumns())

	out, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": {"total": 1, "pass": 1, "fail": 0},
		"weights_all": [60],
		"weights_by_category": {"A": [60]},
		"scatter": [{"id": 1, "weight": 60, "category": "A"}]
	}`, string(out))
}
