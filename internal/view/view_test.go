package view

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/simprofile/internal/model"
)

func entry(id string, views, likes, comments, tips int64, updated, published time.Time) model.ProjectEntry {
	return model.ProjectEntry{
		Project: model.Project{
			ID:        id,
			Stats:     model.ProjectStats{Views: views, Likes: likes, Comments: comments},
			UpdatedAt: updated,
		},
		Revision:     model.ProjectRevision{CreatedAt: published},
		TipsReceived: tips,
	}
}

func ids(entries []model.ProjectEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Project.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProject(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }
	input := []model.ProjectEntry{
		entry("a", 30, 1, 5, 0, day(3), day(1)),
		entry("b", 10, 9, 5, 100, day(1), day(4)),
		entry("c", 20, 5, 7, 50, day(2), time.Time{}),
	}

	tests := []struct {
		name  string
		state model.SortState
		want  []string
	}{
		{name: "last updated desc", state: model.SortState{By: model.SortLastUpdated, Order: model.SortDesc}, want: []string{"a", "c", "b"}},
		{name: "last updated asc", state: model.SortState{By: model.SortLastUpdated, Order: model.SortAsc}, want: []string{"b", "c", "a"}},
		{name: "last published desc, zero time oldest", state: model.SortState{By: model.SortLastPublished, Order: model.SortDesc}, want: []string{"b", "a", "c"}},
		{name: "views desc", state: model.SortState{By: model.SortViewCount, Order: model.SortDesc}, want: []string{"a", "c", "b"}},
		{name: "likes asc", state: model.SortState{By: model.SortLikes, Order: model.SortAsc}, want: []string{"a", "c", "b"}},
		{name: "comments desc keeps ties in input order", state: model.SortState{By: model.SortComments, Order: model.SortDesc}, want: []string{"c", "a", "b"}},
		{name: "comments asc keeps ties in input order", state: model.SortState{By: model.SortComments, Order: model.SortAsc}, want: []string{"a", "b", "c"}},
		{name: "credits desc", state: model.SortState{By: model.SortCredits, Order: model.SortDesc}, want: []string{"b", "c", "a"}},
		{name: "unknown key keeps input order", state: model.SortState{By: "nope", Order: model.SortDesc}, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ids(Project(input, tt.state))
			if !equal(got, tt.want) {
				t.Errorf("Project() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestProjectReversal(t *testing.T) {
	t.Parallel()

	// With distinct keys, desc is exactly the reverse of asc.
	values := []int64{5, 3, 9, 1, 7}
	tests := []struct {
		key   model.SortKey
		entry func(id string, v int64) model.ProjectEntry
	}{
		{
			key: model.SortViewCount,
			entry: func(id string, v int64) model.ProjectEntry {
				return entry(id, v, 0, 0, 0, time.Time{}, time.Time{})
			},
		},
		{
			key: model.SortCredits,
			entry: func(id string, v int64) model.ProjectEntry {
				return entry(id, 0, 0, 0, v, time.Time{}, time.Time{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			t.Parallel()

			var input []model.ProjectEntry
			for i, v := range values {
				input = append(input, tt.entry(string(rune('a'+i)), v))
			}

			asc := ids(Project(input, model.SortState{By: tt.key, Order: model.SortAsc}))
			desc := ids(Project(input, model.SortState{By: tt.key, Order: model.SortDesc}))
			if !equal(asc, []string{"d", "b", "a", "e", "c"}) {
				t.Fatalf("asc = %v", asc)
			}
			for i := range asc {
				if asc[i] != desc[len(desc)-1-i] {
					t.Fatalf("desc %v is not the reverse of asc %v", desc, asc)
				}
			}
		})
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []model.ProjectEntry{
		entry("a", 1, 4, 0, 10, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}),
		entry("b", 2, 3, 0, 30, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), time.Time{}),
		entry("c", 3, 2, 0, 20, time.Time{}, time.Time{}),
	}
	input[0].Project.Domains = []model.Domain{{Name: "a.websim.ai"}}
	before := slices.Clone(input)

	for _, key := range []model.SortKey{model.SortViewCount, model.SortLikes, model.SortCredits, model.SortLastUpdated} {
		for _, order := range []model.SortOrder{model.SortAsc, model.SortDesc} {
			Project(input, model.SortState{By: key, Order: order})
			if !reflect.DeepEqual(before, input) {
				t.Fatalf("sorting by %s %s changed the input: %v", key, order, ids(input))
			}
		}
	}

	got := Project(input, model.SortState{By: model.SortViewCount, Order: model.SortDesc})
	got[0].TipsReceived = 99
	if !reflect.DeepEqual(before, input) {
		t.Error("result shares storage with input")
	}
}

func TestProjectEmpty(t *testing.T) {
	t.Parallel()

	got := Project(nil, model.DefaultSortState())
	if got == nil || len(got) != 0 {
		t.Errorf("Project(nil) = %v, expected empty slice", got)
	}
}
