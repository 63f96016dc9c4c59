package availability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/internal/domains/availability"
	"concierge/internal/domains/catalog/model"
)

func candidates() []model.Resource {
	return []model.Resource{
		{ID: "t1", Kind: model.KindTable, Label: "Table 1", Capacity: 2, Active: true},
		{ID: "t2", Kind: model.KindTable, Label: "Table 2", Capacity: 4, Active: true},
		{ID: "t3", Kind: model.KindTable, Label: "Table 3", Capacity: 8, Active: true},
		{ID: "t4", Kind: model.KindTable, Label: "Table 4", Capacity: 6, Active: false},
	}
}

func rangeParams(partySize int) availability.Params {
	return availability.Params{
		Kind:       model.KindTable,
		Start:      time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 6, 1, 21, 0, 0, 0, time.UTC),
		PartySize:  partySize,
		Candidates: candidates(),
	}
}

func TestMerge(t *testing.T) {
	t.Run("create mode keeps the server set as is", func(t *testing.T) {
		eligible := candidates()[:2]

		set := availability.Merge(eligible, rangeParams(2))

		require.Len(t, set.Entries, 2)
		assert.False(t, set.Fallback)
		for _, entry := range set.Entries {
			assert.Equal(t, availability.TagAvailable, entry.Tag)
		}
	})

	t.Run("edit mode tags the original when the server returns it", func(t *testing.T) {
		p := rangeParams(2)
		p.Edit = true
		p.OriginalResourceID = "t2"

		set := availability.Merge(candidates()[:3], p)

		require.Len(t, set.Entries, 3)

		entry, ok := set.Find("t2")
		require.True(t, ok)
		assert.Equal(t, availability.TagCurrent, entry.Tag)
	})

	t.Run("edit mode synthesizes the original when the server omits it", func(t *testing.T) {
		p := rangeParams(2)
		p.Edit = true
		p.OriginalResourceID = "t3"

		// Server says only t1 is free; the edited booking's table must stay
		// selectable anyway.
		set := availability.Merge(candidates()[:1], p)

		require.Len(t, set.Entries, 2)
		assert.Equal(t, "t3", set.Entries[0].ID)
		assert.Equal(t, availability.TagCurrent, set.Entries[0].Tag)
		assert.Equal(t, 8, set.Entries[0].Capacity)
	})

	t.Run("edit mode synthesizes a placeholder for an unknown original", func(t *testing.T) {
		p := rangeParams(2)
		p.Edit = true
		p.OriginalResourceID = "gone"

		set := availability.Merge(nil, p)

		require.Len(t, set.Entries, 1)
		assert.Equal(t, "gone", set.Entries[0].ID)
		assert.Equal(t, availability.TagCurrent, set.Entries[0].Tag)
	})
}

func TestFallback(t *testing.T) {
	t.Run("filters by capacity only", func(t *testing.T) {
		set := availability.Fallback(rangeParams(6))

		assert.True(t, set.Fallback)

		// Capacity 2 and 4 cannot seat six; the inactive table is out too.
		require.Len(t, set.Entries, 1)
		assert.Equal(t, "t3", set.Entries[0].ID)
	})

	t.Run("party of two keeps every active table", func(t *testing.T) {
		set := availability.Fallback(rangeParams(2))

		assert.Len(t, set.Entries, 3)
		assert.False(t, set.Contains("t4"))
	})

	t.Run("edit mode keeps an undersized original", func(t *testing.T) {
		p := rangeParams(6)
		p.Edit = true
		p.OriginalResourceID = "t2"

		set := availability.Fallback(p)

		require.True(t, set.Contains("t2"))

		entry, _ := set.Find("t2")
		assert.Equal(t, availability.TagCurrent, entry.Tag)

		assert.True(t, set.Contains("t3"))
		assert.False(t, set.Contains("t1"))
	})
}

func TestParams_Complete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*availability.Params)
		want   bool
	}{
		{
			name:   "full tuple",
			mutate: func(p *availability.Params) {},
			want:   true,
		},
		{
			name:   "missing party size",
			mutate: func(p *availability.Params) { p.PartySize = 0 },
			want:   false,
		},
		{
			name:   "missing start",
			mutate: func(p *availability.Params) { p.Start = time.Time{} },
			want:   false,
		},
		{
			name:   "missing end",
			mutate: func(p *availability.Params) { p.End = time.Time{} },
			want:   false,
		},
		{
			name:   "inverted range",
			mutate: func(p *availability.Params) { p.Start, p.End = p.End, p.Start },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rangeParams(2)
			tt.mutate(&p)

			assert.Equal(t, tt.want, p.Complete())
		})
	}
}
