package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/zeta/internal/report"
	"github.com/roach88/zeta/internal/schema"
)

func seatReport(t *testing.T, root string, violations ...string) *report.Report {
	t.Helper()
	b := schema.NewBuilder(schema.NewKind("Seat", schema.Conjoined))
	for _, v := range violations {
		b.RegisterViolation(v)
	}
	r, err := report.New(root, b.Build())
	require.NoError(t, err)
	return r
}

func TestRecord_AssignsSequentialSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq1, ok, err := s.Record(ctx, "doc-a", "booking", seatReport(t, "s1"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), seq1)

	seq2, ok, err := s.Record(ctx, "doc-a", "booking", seatReport(t, "s2", "taken"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), seq2)
}

func TestRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, _, err := s.Record(ctx, "doc-a", "booking", seatReport(t, "s1", "taken"))
	require.NoError(t, err)

	again, recorded, err := s.Record(ctx, "doc-a", "booking", seatReport(t, "s1", "taken"))
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.Equal(t, first, again)

	// A different document is new history.
	other, recorded, err := s.Record(ctx, "doc-b", "booking", seatReport(t, "s1", "taken"))
	require.NoError(t, err)
	assert.True(t, recorded)
	assert.Equal(t, first+1, other)
}

func TestHistory_FiltersAndOrders(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, _, err := s.Record(ctx, "doc-a", "booking", seatReport(t, "s1", "taken"))
	require.NoError(t, err)
	_, _, err = s.Record(ctx, "doc-a", "booking", seatReport(t, "s2"))
	require.NoError(t, err)
	_, _, err = s.Record(ctx, "doc-b", "booking", seatReport(t, "s1"))
	require.NoError(t, err)

	all, err := s.History(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	s1, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, s1, 2)
	assert.False(t, s1[0].Report.Consistent)
	assert.Equal(t, []string{"taken"}, s1[0].Report.Labels())
	assert.True(t, s1[1].Report.Consistent)
	assert.Equal(t, "doc-b", s1[1].Document)
	assert.Equal(t, "booking", s1[1].DocumentName)
}

func TestHistory_RoundTripsReport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := seatReport(t, "s1", "<taken>")
	_, _, err := s.Record(ctx, "doc", "booking", r)
	require.NoError(t, err)

	got, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *r, got[0].Report)

	var stored string
	require.NoError(t, s.db.QueryRow("SELECT report FROM checks").Scan(&stored))
	assert.Contains(t, stored, "<taken>", "labels are stored unescaped")
}

func TestHistory_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	got, err := s.History(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Latest(ctx, "s1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, _, err = s.Record(ctx, "doc-a", "booking", seatReport(t, "s1", "taken"))
	require.NoError(t, err)
	_, _, err = s.Record(ctx, "doc-b", "booking", seatReport(t, "s1"))
	require.NoError(t, err)

	latest, err := s.Latest(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.Seq)
	assert.True(t, latest.Report.Consistent)
}
