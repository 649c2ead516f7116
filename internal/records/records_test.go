package records

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/iudanet/gophadmin/internal/models"
)

type row struct {
	id string
	ts string
}

func rowTime(r row) string { return r.ts }

func ids(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "iso without zone", input: "2024-01-01T10:20:30", want: time.Date(2024, 1, 1, 10, 20, 30, 0, time.UTC), ok: true},
		{name: "iso with fraction", input: "2024-01-01T10:20:30.250", want: time.Date(2024, 1, 1, 10, 20, 30, 250_000_000, time.UTC), ok: true},
		{name: "rfc3339 utc", input: "2024-01-01T10:20:30Z", want: time.Date(2024, 1, 1, 10, 20, 30, 0, time.UTC), ok: true},
		{name: "space separated", input: "2024-01-01 10:20:30", want: time.Date(2024, 1, 1, 10, 20, 30, 0, time.UTC), ok: true},
		{name: "date only", input: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestSortByTimestampDescending(t *testing.T) {
	input := []row{
		{id: "a", ts: "2024-01-01T00:00:00"},
		{id: "b", ts: "2025-06-01T00:00:00"},
		{id: "c", ts: ""},
	}

	got := SortByTimestampDescending(input, rowTime)

	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
	// Входной срез не меняется
	assert.Equal(t, []string{"a", "b", "c"}, ids(input))
}

func TestSortByTimestampDescending_Stable(t *testing.T) {
	input := []row{
		{id: "x1", ts: "bad"},
		{id: "t1", ts: "2024-03-01T00:00:00"},
		{id: "x2", ts: ""},
		{id: "t2", ts: "2024-03-01T00:00:00"},
		{id: "t3", ts: "2024-05-01"},
	}

	got := SortByTimestampDescending(input, rowTime)

	// Равные времена и записи без времени сохраняют исходный порядок
	assert.Equal(t, []string{"t3", "t1", "t2", "x1", "x2"}, ids(got))
}

func TestSortByTimestampDescending_Empty(t *testing.T) {
	got := SortByTimestampDescending([]row{}, rowTime)
	assert.Empty(t, got)

	got = SortByTimestampDescending[row](nil, rowTime)
	assert.Empty(t, got)
}

func TestMerge(t *testing.T) {
	batches := []Batch[models.Order]{
		{
			Label: ServerLabel(0),
			Records: []models.Order{
				{ID: models.OrderID{OrderID: "o-1", Version: 1}, CreateTime: "2024-01-01T00:00:00"},
			},
		},
		{
			Label: ServerLabel(1),
			Records: []models.Order{
				{ID: models.OrderID{OrderID: "o-2", Version: 1}, CreateTime: "2024-02-01T00:00:00"},
				{ID: models.OrderID{OrderID: "o-3", Version: 1}},
			},
		},
	}

	merged := Merge(batches,
		func(o *models.Order, label string) { o.Server = label },
		func(o models.Order) string { return o.CreateTime },
	)

	want := []models.Order{
		{ID: models.OrderID{OrderID: "o-2", Version: 1}, CreateTime: "2024-02-01T00:00:00", Server: "Server 2"},
		{ID: models.OrderID{OrderID: "o-1", Version: 1}, CreateTime: "2024-01-01T00:00:00", Server: "Server 1"},
		{ID: models.OrderID{OrderID: "o-3", Version: 1}, Server: "Server 2"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	// Исходные батчи не помечаются
	assert.Empty(t, batches[0].Records[0].Server)
}

func TestServerLabel(t *testing.T) {
	assert.Equal(t, "Server 1", ServerLabel(0))
	assert.Equal(t, "Server 3", ServerLabel(2))
}
