package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/stats"
)

// fakeAPI serves a small websim API for one user.
func fakeAPI(t *testing.T, routes map[string]string) *api.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.Query().Get("count") == "true" {
			key += "?count"
		}
		if after := r.URL.Query().Get("after"); after != "" {
			key += "?after=" + after
		}
		body, ok := routes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

const projectsPage = `{"projects":{"data":[
	{"project":{"id":"p1","slug":"game","title":"Game","stats":{"views":100,"likes":10}},"project_revision":{}},
	{"project":{"id":"p2","slug":"alice-profile","title":"Profile"},"project_revision":{}},
	{"project":{"id":"p3","slug":"chat","stats":{"views":5,"likes":1}},"project_revision":{}}
],"meta":{"has_next_page":false,"end_cursor":null}}}`

func TestCountStep(t *testing.T) {
	t.Parallel()

	client := fakeAPI(t, map[string]string{
		"/api/v1/users/alice/followers?count": `{"followers":{"meta":{"count":12}}}`,
	})

	t.Run("records count", func(t *testing.T) {
		t.Parallel()

		step := NewCountStep(client, model.RelationFollowers)
		if step.Name() != "followers-count" || step.Flow() != model.FlowFollowerCount {
			t.Errorf("unexpected step identity: %s %s", step.Name(), step.Flow())
		}

		state := newState()
		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c := state.Snapshot().FollowerCount; c == nil || *c != 12 {
			t.Errorf("FollowerCount = %v, expected 12", c)
		}
	})

	t.Run("failure leaves count unset", func(t *testing.T) {
		t.Parallel()

		step := NewCountStep(client, model.RelationFollowing)
		state := newState()
		if err := step.Do(context.Background(), state); err == nil {
			t.Fatal("expected error for missing endpoint")
		}
		if state.Snapshot().FollowingCount != nil {
			t.Error("FollowingCount should be unset")
		}
	})
}

// countingObserver records the order of project updates.
type countingObserver struct {
	stats.NopObserver
	mu      sync.Mutex
	updated []string
}

func (o *countingObserver) ProjectUpdated(id string, _ int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updated = append(o.updated, id)
}

func TestProjectsStep(t *testing.T) {
	t.Parallel()

	t.Run("lists projects then aggregates stats", func(t *testing.T) {
		t.Parallel()

		client := fakeAPI(t, map[string]string{
			"/api/v1/users/alice/projects": projectsPage,
			"/api/v1/projects/p1/stats":    `{"total_tip_amount":40}`,
			"/api/v1/projects/p3/stats":    `{"total_tip_amount":2}`,
		})

		var listed []model.ProjectEntry
		obs := &countingObserver{}
		step := NewProjectsStep(client,
			WithListedCallback(func(entries []model.ProjectEntry) { listed = entries }),
			WithStatsObserver(obs),
			WithStatsOptions(stats.WithConcurrency(1)),
		)

		state := newState()
		if err := step.Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(listed) != 2 {
			t.Fatalf("expected 2 listed entries, got %d", len(listed))
		}
		for _, e := range listed {
			if e.TipsReceived != 0 {
				t.Errorf("listed entry %s has tips before aggregation", e.Project.ID)
			}
		}

		profile := state.Snapshot()
		if profile.TotalCredits != 42 {
			t.Errorf("TotalCredits = %d, expected 42", profile.TotalCredits)
		}
		if profile.TotalViews != 105 || profile.TotalLikes != 11 {
			t.Errorf("totals = %d views, %d likes", profile.TotalViews, profile.TotalLikes)
		}
		if !profile.StatsComplete || profile.HasErrors() {
			t.Errorf("unexpected completion state: complete=%v errors=%v", profile.StatsComplete, profile.Errors)
		}
		if len(profile.ProfileProjects) != 1 || profile.ProfileProjects[0].ID != "p2" {
			t.Errorf("unexpected profile projects: %+v", profile.ProfileProjects)
		}
		if len(obs.updated) != 2 {
			t.Errorf("observer saw %d updates, expected 2", len(obs.updated))
		}
	})

	t.Run("stats failure is recorded separately", func(t *testing.T) {
		t.Parallel()

		client := fakeAPI(t, map[string]string{
			"/api/v1/users/alice/projects": projectsPage,
			"/api/v1/projects/p1/stats":    `{"total_tip_amount":40}`,
		})

		state := newState()
		if err := NewProjectsStep(client).Do(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		profile := state.Snapshot()
		if profile.TotalCredits != 40 {
			t.Errorf("TotalCredits = %d, expected 40", profile.TotalCredits)
		}
		if !strings.Contains(profile.ErrorFor(model.FlowStats), "1 of 2") {
			t.Errorf("stats error = %q", profile.ErrorFor(model.FlowStats))
		}
		if len(profile.Projects) != 2 {
			t.Errorf("expected 2 projects, got %d", len(profile.Projects))
		}
	})

	t.Run("list failure is returned", func(t *testing.T) {
		t.Parallel()

		client := fakeAPI(t, map[string]string{})

		state := newState()
		if err := NewProjectsStep(client).Do(context.Background(), state); err == nil {
			t.Fatal("expected error")
		}
		if n := len(state.Snapshot().Projects); n != 0 {
			t.Errorf("expected no projects, got %d", n)
		}
	})
}

func TestPipelineWithSteps(t *testing.T) {
	t.Parallel()

	client := fakeAPI(t, map[string]string{
		"/api/v1/users/alice/followers?count": `{"followers":{"meta":{"count":3}}}`,
		"/api/v1/users/alice/projects":        projectsPage,
		"/api/v1/projects/p1/stats":           `{"total_tip_amount":1}`,
		"/api/v1/projects/p3/stats":           `{}`,
	})

	p := New()
	p.AddSteps(
		NewCountStep(client, model.RelationFollowers),
		NewCountStep(client, model.RelationFollowing),
		NewProjectsStep(client),
	)

	state := newState()
	if err := p.Execute(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := state.Snapshot()
	if profile.FollowerCount == nil || *profile.FollowerCount != 3 {
		t.Errorf("FollowerCount = %v, expected 3", profile.FollowerCount)
	}
	if profile.FollowingCount != nil {
		t.Error("FollowingCount should be unavailable")
	}
	if profile.ErrorFor(model.FlowFollowingCount) == "" {
		t.Error("expected following count error")
	}
	if profile.TotalCredits != 1 || len(profile.Projects) != 2 {
		t.Errorf("projects region affected by count failure: %+v", profile)
	}
}
