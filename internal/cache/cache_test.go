package cache

import (
	"sync"
	"testing"

	"github.com/nao1215/simprofile/internal/model"
)

func TestRelations(t *testing.T) {
	t.Parallel()

	t.Run("miss on absent kind", func(t *testing.T) {
		t.Parallel()

		c := NewRelations()
		if _, ok := c.Get(model.RelationFollowers); ok {
			t.Error("expected miss on empty cache")
		}
	})

	t.Run("empty list is a miss", func(t *testing.T) {
		t.Parallel()

		c := NewRelations()
		c.Put(model.RelationFollowers, nil)
		if _, ok := c.Get(model.RelationFollowers); ok {
			t.Error("expected miss on empty list")
		}
	})

	t.Run("hit returns stored users", func(t *testing.T) {
		t.Parallel()

		c := NewRelations()
		c.Put(model.RelationFollowing, []model.UserSummary{{Username: "bob"}})

		got, ok := c.Get(model.RelationFollowing)
		if !ok {
			t.Fatal("expected hit")
		}
		if len(got) != 1 || got[0].Username != "bob" {
			t.Errorf("unexpected users: %+v", got)
		}
		if _, ok := c.Get(model.RelationFollowers); ok {
			t.Error("kinds must be cached independently")
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		t.Parallel()

		c := NewRelations()
		c.Put(model.RelationFollowers, []model.UserSummary{{Username: "a"}, {Username: "b"}})
		c.Put(model.RelationFollowers, []model.UserSummary{{Username: "c"}})

		got, _ := c.Get(model.RelationFollowers)
		if len(got) != 1 || got[0].Username != "c" {
			t.Errorf("unexpected users after overwrite: %+v", got)
		}
		if c.Len(model.RelationFollowers) != 1 {
			t.Errorf("Len() = %d, expected 1", c.Len(model.RelationFollowers))
		}
	})

	t.Run("callers cannot mutate cached lists", func(t *testing.T) {
		t.Parallel()

		users := []model.UserSummary{{Username: "a"}}
		c := NewRelations()
		c.Put(model.RelationFollowers, users)
		users[0].Username = "changed"

		got, _ := c.Get(model.RelationFollowers)
		got[0].Username = "changed again"

		again, _ := c.Get(model.RelationFollowers)
		if again[0].Username != "a" {
			t.Errorf("cached user = %q, expected a", again[0].Username)
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		c := NewRelations()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if i%2 == 0 {
					c.Put(model.RelationFollowers, []model.UserSummary{{Username: "u"}})
				} else {
					c.Get(model.RelationFollowers)
				}
			}(i)
		}
		wg.Wait()

		if c.Len(model.RelationFollowers) != 1 {
			t.Errorf("Len() = %d, expected 1", c.Len(model.RelationFollowers))
		}
	})
}
