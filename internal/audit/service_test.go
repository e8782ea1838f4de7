package audit

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows       []TimelineRow
	lastLimit  int
	lastOffset int
}

func (f *fakeRepo) Window(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	f.lastLimit = limit
	f.lastOffset = offset
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeRepo) All(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	return f.rows, nil
}

func seedRows(n int) []TimelineRow {
	rows := make([]TimelineRow, 0, n)
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rows = append(rows, TimelineRow{
			At:       base.Add(-time.Duration(i) * time.Hour),
			ActorID:  1,
			Action:   "menu.update",
			Entity:   "daily_menus",
			EntityID: fmt.Sprintf("%d", i+1),
		})
	}
	return rows
}

func TestTimelinePaging(t *testing.T) {
	repo := &fakeRepo{rows: seedRows(25)}
	svc := NewService(repo)

	first, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, first.Rows, 10)
	assert.True(t, first.Paging.HasNext)
	assert.Equal(t, 2, first.Paging.NextPage)
	assert.Zero(t, first.Paging.PrevPage)
	assert.Equal(t, 11, repo.lastLimit)

	last, err := svc.Timeline(context.Background(), TimelineFilters{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, last.Rows, 5)
	assert.False(t, last.Paging.HasNext)
	assert.Equal(t, 2, last.Paging.PrevPage)
	assert.Equal(t, 20, repo.lastOffset)
}

func TestTimelineClampsPageSize(t *testing.T) {
	repo := &fakeRepo{rows: seedRows(60)}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, result.Paging.PageSize)
	assert.Len(t, result.Rows, maxPageSize)

	result, err = svc.Timeline(context.Background(), TimelineFilters{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, result.Paging.PageSize)
	assert.Equal(t, 1, result.Paging.Page)
}

func TestWriteCSV(t *testing.T) {
	rows := []TimelineRow{
		{
			At:         time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
			ActorID:    3,
			ActorEmail: "pcp@merenda.local",
			Action:     "menu.duplicate",
			Entity:     "daily_menus",
			EntityID:   "42",
		},
		{
			At:       time.Date(2026, time.March, 9, 8, 30, 0, 0, time.UTC),
			ActorID:  5,
			Action:   "menu.delete",
			Entity:   "daily_menus",
			EntityID: "41",
		},
	}

	payload, err := WriteCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "data,ator,acao,entidade,registro", lines[0])
	assert.Contains(t, lines[1], "pcp@merenda.local")
	assert.Contains(t, lines[1], "menu.duplicate")
	// Actor without a matching user falls back to the raw ID.
	assert.Contains(t, lines[2], ",5,")
}
