package paginate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"
)

// fakeCollection serves ints 0..n-1 in pages, using the item index as cursor.
type fakeCollection struct {
	n        int
	failPage int // 1-based page number that fails, 0 for none
	requests []string
}

func (f *fakeCollection) build(first int, after string) string {
	q := url.Values{}
	q.Set("first", strconv.Itoa(first))
	if after != "" {
		q.Set("after", after)
	}
	return "/items?" + q.Encode()
}

func (f *fakeCollection) fetch(_ context.Context, raw string) (Page[int], error) {
	f.requests = append(f.requests, raw)
	if f.failPage > 0 && len(f.requests) == f.failPage {
		return Page[int]{}, errors.New("HTTP error! status: 500")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Page[int]{}, err
	}
	first, err := strconv.Atoi(u.Query().Get("first"))
	if err != nil {
		return Page[int]{}, err
	}
	start := 0
	if after := u.Query().Get("after"); after != "" {
		start, err = strconv.Atoi(after)
		if err != nil {
			return Page[int]{}, err
		}
	}

	end := min(start+first, f.n)
	items := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, i)
	}
	return Page[int]{
		Items:       items,
		HasNextPage: end < f.n,
		EndCursor:   strconv.Itoa(end),
	}, nil
}

func TestWalk(t *testing.T) {
	t.Parallel()

	t.Run("returns every item in server order", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{0, 1, 7, 100, 101, 250} {
			for _, p := range []int{1, 3, 50, 100} {
				coll := &fakeCollection{n: n}
				result := Walk(context.Background(), coll.build, coll.fetch, WithPageSize(p))

				if result.Err != nil {
					t.Fatalf("n=%d p=%d: unexpected error: %v", n, p, result.Err)
				}
				if len(result.Items) != n {
					t.Fatalf("n=%d p=%d: expected %d items, got %d", n, p, n, len(result.Items))
				}
				for i, v := range result.Items {
					if v != i {
						t.Fatalf("n=%d p=%d: item %d out of order: %d", n, p, i, v)
					}
				}
			}
		}
	})

	t.Run("first request carries no cursor and the ceiling page size", func(t *testing.T) {
		t.Parallel()

		coll := &fakeCollection{n: 150}
		result := Walk(context.Background(), coll.build, coll.fetch)

		if result.Pages != 2 {
			t.Errorf("expected 2 pages, got %d", result.Pages)
		}
		if coll.requests[0] != "/items?first=100" {
			t.Errorf("unexpected first request %q", coll.requests[0])
		}
		if coll.requests[1] != "/items?after=100&first=100" {
			t.Errorf("unexpected second request %q", coll.requests[1])
		}
	})

	t.Run("failure on page k keeps pages 1..k-1", func(t *testing.T) {
		t.Parallel()

		for k := 1; k <= 4; k++ {
			coll := &fakeCollection{n: 40, failPage: k}
			result := Walk(context.Background(), coll.build, coll.fetch, WithPageSize(10))

			if result.Err == nil {
				t.Fatalf("k=%d: expected the error to be reported", k)
			}
			if !result.Partial() {
				t.Errorf("k=%d: expected partial result", k)
			}
			want := (k - 1) * 10
			if len(result.Items) != want {
				t.Errorf("k=%d: expected %d items, got %d", k, want, len(result.Items))
			}
			if result.Pages != k-1 {
				t.Errorf("k=%d: expected %d pages, got %d", k, k-1, result.Pages)
			}
			if len(coll.requests) != k {
				t.Errorf("k=%d: expected no request after the failure, got %d requests", k, len(coll.requests))
			}
		}
	})

	t.Run("failure on the first page yields an empty sequence", func(t *testing.T) {
		t.Parallel()

		coll := &fakeCollection{n: 5, failPage: 1}
		result := Walk(context.Background(), coll.build, coll.fetch)

		if result.Items == nil || len(result.Items) != 0 {
			t.Errorf("expected empty non-nil items, got %v", result.Items)
		}
	})

	t.Run("stalled cursor ends the walk", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (Page[string], error) {
			calls++
			return Page[string]{Items: []string{"x"}, HasNextPage: true, EndCursor: "same"}, nil
		}
		build := func(_ int, after string) string { return "/x?after=" + after }

		result := Walk(context.Background(), build, fetch)

		if !errors.Is(result.Err, ErrCursorStalled) {
			t.Fatalf("expected ErrCursorStalled, got %v", result.Err)
		}
		if calls != 2 || len(result.Items) != 2 {
			t.Errorf("expected 2 calls and 2 items, got %d and %d", calls, len(result.Items))
		}
	})

	t.Run("cancelled context returns partial items", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		coll := &fakeCollection{n: 30}
		fetch := func(ctx context.Context, raw string) (Page[int], error) {
			page, err := coll.fetch(ctx, raw)
			cancel()
			return page, err
		}

		result := Walk(ctx, coll.build, fetch, WithPageSize(10))

		if !errors.Is(result.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", result.Err)
		}
		if len(result.Items) != 10 {
			t.Errorf("expected 10 items, got %d", len(result.Items))
		}
	})

	t.Run("page callback sees running totals", func(t *testing.T) {
		t.Parallel()

		coll := &fakeCollection{n: 25}
		var seen []string
		Walk(context.Background(), coll.build, coll.fetch,
			WithPageSize(10),
			WithName("numbers"),
			WithPageCallback(func(page, items int) {
				seen = append(seen, fmt.Sprintf("%d:%d", page, items))
			}),
		)

		want := []string{"1:10", "2:20", "3:25"}
		if fmt.Sprint(seen) != fmt.Sprint(want) {
			t.Errorf("expected %v, got %v", want, seen)
		}
	})
}

func TestWithPageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 1},
		{in: -5, want: 1},
		{in: 42, want: 42},
		{in: 100, want: 100},
		{in: 1000, want: 100},
	}
	for _, tt := range tests {
		var o options
		WithPageSize(tt.in)(&o)
		if o.pageSize != tt.want {
			t.Errorf("WithPageSize(%d) = %d, want %d", tt.in, o.pageSize, tt.want)
		}
	}
}
