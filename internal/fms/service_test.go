package fms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fmsboard/internal/testutil"
)

type stubSource struct {
	records []Record
	err     error
	table   string
}

func (s *stubSource) FetchAll(_ context.Context, table string) ([]Record, error) {
	s.table = table
	return s.records, s.err
}

func TestService_Result(t *testing.T) {
	src := &stubSource{records: []Record{
		row("부적합", "A", "60g", int64(1)),
		row("정상", "B", "50g", int64(2)),
	}}
	svc := NewService(src, Config{}, testutil.NewTestLogger(t))

	res, err := svc.Result(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DefaultTable, src.table)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, Summary{Total: 2, Pass: 1, Fail: 1}, res.Report.Summary)
	assert.Equal(t, []string{"A", "B"}, res.Report.WeightsByCategory.Categories())
}

func TestService_ResultDegradesOnFetchError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	svc := NewService(src, Config{Table: "fms.other"}, nil)

	res, err := svc.Result(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching fms.other")
	require.NotNil(t, res)
	require.NotNil(t, res.Report)
	assert.Equal(t, Summary{}, res.Report.Summary)
	assert.Empty(t, res.Report.WeightsAll)
	assert.Empty(t, res.Report.Scatter)
	assert.Equal(t, 0, res.Report.WeightsByCategory.Len())
}

type panickyStringer struct{}

func (panickyStringer) String() string { panic("bad cell") }

func TestService_ResultKeepsPartialReportOnPanic(t *testing.T) {
	src := &stubSource{records: []Record{
		row("정상", "A", "60g", int64(1)),
		row("정상", "A", panickyStringer{}, int64(2)),
		row("정상", "A", "70g", int64(3)),
	}}
	svc := NewService(src, Config{}, testutil.NewTestLogger(t))

	res, err := svc.Result(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregating row 1")
	assert.Equal(t, []float64{60}, res.Report.WeightsAll)
	assert.Equal(t, 3, res.Report.Summary.Total)
}

func TestService_Export(t *testing.T) {
	src := &stubSource{records: []Record{NewRecord([]string{"a", "b"}, []any{int64(1), int64(2)})}}
	svc := NewService(src, Config{}, nil)

	data, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a,b\r\n1,2\r\n", string(data))
	assert.Equal(t, DefaultExportFilename, svc.ExportFilename())
}

func TestService_ExportFetchErrorWritesNothing(t *testing.T) {
	src := &stubSource{err: errors.New("timeout")}
	svc := NewService(src, Config{ExportFilename: "out.csv"}, nil)

	data, err := svc.Export(context.Background())

	require.Error(t, err)
	assert.Empty(t, data)
	assert.Equal(t, "out.csv", svc.ExportFilename())
}
