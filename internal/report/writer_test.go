package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/simprofile/internal/model"
)

// createTestProfile creates a profile with sample data for testing.
func createTestProfile() *model.Profile {
	followers := int64(1234)
	return &model.Profile{
		Username:      "alice",
		AvatarURL:     model.AvatarURL("alice"),
		FollowerCount: &followers,
		TotalViews:    1500000,
		TotalLikes:    42,
		TotalCredits:  1500,
		Projects: []model.ProjectEntry{
			{
				Project: model.Project{
					ID:          "p1",
					Title:       "Space Game",
					Description: "<p>A <b>fun</b> game</p><script>alert(1)</script>",
					Stats:       model.ProjectStats{Views: 1000, Likes: 40, Comments: 3},
					Domains:     []model.Domain{{Name: "space.websim.ai"}},
					UpdatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
				TipsReceived: 1000,
			},
			{
				Project:      model.Project{ID: "p2", Stats: model.ProjectStats{Views: 500}},
				Revision:     model.ProjectRevision{SiteID: "s2"},
				TipsReceived: 500,
			},
		},
		Sort:          model.DefaultSortState(),
		StatsComplete: true,
		Errors:        map[model.Flow]string{model.FlowFollowingCount: "HTTP error! status: 500"},
		GeneratedAt:   time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
	}
}

func createTestRelations() *RelationList {
	return &RelationList{
		Username: "alice",
		Kind:     model.RelationFollowers,
		Title:    "Followers",
		Users: []model.UserSummary{
			{Username: "bob", IsAdmin: true},
			{Username: "carol"},
		},
	}
}

func createTestHistory() *History {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 9, 0, 0, 0, time.UTC) }
	return &History{
		Username: "alice",
		Snapshots: []model.Snapshot{
			{CapturedAt: day(1), ProjectCount: 2, TotalViews: 100, TotalCredits: 10, Digest: "a"},
			{CapturedAt: day(2), ProjectCount: 2, TotalViews: 100, TotalCredits: 10, Digest: "a"},
			{CapturedAt: day(3), ProjectCount: 3, TotalViews: 90, TotalCredits: 2010, Digest: "b"},
		},
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes profile", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"@alice",
			"Followers:  1,234",
			"Following:  N/A",
			"Views:      1,500,000",
			"Credits:    1,500",
			"Space Game",
			"https://space.websim.com",
			"Untitled Project",
			"https://websim.com/p/p2",
			"sorted by last_updated ↓",
			"[!] Following count: HTTP error! status: 500",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "fun game") {
			t.Error("descriptions should only be shown in verbose mode")
		}
	})

	t.Run("verbose adds details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "A fun game") {
			t.Error("expected plain description")
		}
		if strings.Contains(output, "alert") {
			t.Error("script content must be stripped")
		}
		if !strings.Contains(output, "https://images.websim.com/v1/site/s2/600") {
			t.Error("expected thumbnail fallback")
		}
	})

	t.Run("limit hides projects", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithLimit(1)).Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "... and 1 more") {
			t.Error("expected hidden project notice")
		}
	})

	t.Run("loading credits and failed projects", func(t *testing.T) {
		t.Parallel()

		profile := &model.Profile{
			Username: "bob",
			Errors:   map[model.Flow]string{model.FlowProjects: "boom"},
		}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "(loading)") {
			t.Error("expected loading marker on credits")
		}
		if !strings.Contains(output, "Could not load projects.") {
			t.Error("expected projects failure message")
		}
	})

	t.Run("writes relations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRelations(createTestRelations()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Followers of @alice (2)") || !strings.Contains(output, "@bob [admin]") {
			t.Errorf("unexpected output:\n%s", output)
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "(projects unchanged)") {
			t.Error("expected unchanged marker")
		}
		if !strings.Contains(output, "(views -10, credits +2,000)") {
			t.Errorf("expected deltas, got:\n%s", output)
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes profile", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# @alice",
			"| Followers",
			"1,234",
			"## Projects",
			"[Space Game](https://space.websim.com)",
			"```mermaid",
			"Credits by Project",
			"Following count",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("no chart without credits", func(t *testing.T) {
		t.Parallel()

		profile := createTestProfile()
		profile.TotalCredits = 0

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "mermaid") {
			t.Error("expected no chart")
		}
	})

	t.Run("writes relations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRelations(createTestRelations()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[@carol](https://websim.com/@carol)") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestHistory()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "unchanged") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.Profile
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Username != "alice" || len(decoded.Projects) != 2 || decoded.FollowingCount != nil {
			t.Errorf("unexpected decoded profile: %+v", decoded)
		}
		if strings.Contains(buf.String(), "\n  ") {
			t.Error("compact output expected by default")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteRelations(createTestRelations()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"username\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("full writer wraps version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(createTestProfile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded JSONReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Version != "v1.2.3" || decoded.Profile == nil || decoded.Profile.Username != "alice" {
			t.Errorf("unexpected report: %+v", decoded)
		}
	})
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write(*model.Profile) (int, error)        { return 0, errWrite }
func (failingWriter) WriteRelations(*RelationList) (int, error) { return 0, errWrite }
func (failingWriter) WriteHistory(*History) (int, error)        { return 0, errWrite }

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		m := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
		n, err := m.Write(createTestProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("n = %d, expected %d", n, a.Len()+b.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))
		if _, err := m.WriteHistory(createTestHistory()); !errors.Is(err, errWrite) {
			t.Errorf("expected errWrite, got %v", err)
		}
		if buf.Len() != 0 {
			t.Error("later writers must not run after a failure")
		}
	})
}

// TestNewWriter tests format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, ok := NewWriter(FormatMarkdown, &buf, false).(*MarkdownWriter); !ok {
		t.Error("expected MarkdownWriter")
	}
	if _, ok := NewWriter(FormatJSON, &buf, false).(*JSONWriter); !ok {
		t.Error("expected JSONWriter")
	}
	if _, ok := NewWriter("unknown", &buf, false).(*SimpleWriter); !ok {
		t.Error("expected SimpleWriter fallback")
	}
}
