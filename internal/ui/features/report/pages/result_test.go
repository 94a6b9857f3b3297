package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fmsboard/internal/fms"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func sampleResult() *fms.Result {
	cols := []string{"육계번호", "부적합여부", "품종", "종란무게"}
	records := []fms.Record{
		fms.NewRecord(cols, []any{int64(1), "적합", "A", 58.0}),
		fms.NewRecord(cols, []any{int64(2), "부적합", "A", "61"}),
		fms.NewRecord(cols, []any{int64(3), "fail", "<B>", "x"}),
	}
	return &fms.Result{Records: records, Report: fms.Aggregate(records, fms.DefaultColumns())}
}

func TestResultPage(t *testing.T) {
	html := render(t, ResultPage(sampleResult(), fms.DefaultColumns()))

	t.Run("summary cards", func(t *testing.T) {
		assert.Contains(t, html, `<div class="summary" id="fms-summary-cards"><div>전체<strong>3</strong></div><div>적합<strong>1</strong></div><div>부적합<strong>2</strong></div><div>부적합률<strong>66.7%</strong></div></div>`)
	})

	t.Run("chart canvases", func(t *testing.T) {
		assert.Contains(t, html, `<div class="charts"><div><canvas id="chart-status"></canvas></div><div><canvas id="chart-weights"></canvas></div><div><canvas id="chart-categories"></canvas></div><div><canvas id="chart-scatter"></canvas></div></div>`)
	})

	t.Run("json blocks", func(t *testing.T) {
		assert.Contains(t, html, `<script id="fms-summary" type="application/json">{"total":3,"pass":1,"fail":2}`)
		for _, id := range []string{"fms-weights-all", "fms-weights-by-category", "fms-scatter"} {
			assert.Contains(t, html, `<script id="`+id+`" type="application/json">`)
		}
	})

	t.Run("category table", func(t *testing.T) {
		assert.Contains(t, html, `<h2>품종별 종란무게</h2><table><thead><tr><th>품종</th><th class="num">개수</th>`)
		assert.Contains(t, html, `<tr><td>A</td><td class="num">2</td><td class="num">58.0</td><td class="num">61.0</td><td class="num">59.5</td></tr>`)
		assert.NotContains(t, html, `<td>&lt;B&gt;</td><td class="num">`)
	})

	t.Run("record table", func(t *testing.T) {
		assert.Contains(t, html, `<div class="data-table"><table><thead><tr><th>육계번호</th><th>부적합여부</th><th>품종</th><th>종란무게</th></tr></thead> <tbody>`)
		assert.Contains(t, html, `<tr><td>3</td><td>fail</td><td>&lt;B&gt;</td><td>x</td></tr>`)
	})
}

func TestResultPage_Empty(t *testing.T) {
	res := &fms.Result{Report: fms.Aggregate(nil, fms.DefaultColumns())}
	html := render(t, ResultPage(res, fms.DefaultColumns()))

	assert.Contains(t, html, `<strong>0.0%</strong>`)
	assert.NotContains(t, html, "<table>")
	assert.Contains(t, html, `<h2>원본 데이터</h2><p class="meta">데이터가 없습니다.</p>`)
}
