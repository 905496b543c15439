package vendors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedProducts(n int) []Product {
	items := make([]Product, n)
	for i := range items {
		items[i] = Product{
			ExternalID: fmt.Sprintf("discord_%d_%d", i%3, i),
			Name:       fmt.Sprintf("design-%d", i),
		}
	}
	return items
}

// offsetFetch serves a backing slice through offset/limit cursors, the
// way Printful and Teemill paginate.
func offsetFetch(backing []Product) func(context.Context, Cursor) Page {
	return func(_ context.Context, cur Cursor) Page {
		if cur.Offset >= len(backing) {
			return Page{}
		}
		end := cur.Offset + cur.Limit
		if end > len(backing) {
			end = len(backing)
		}
		return Page{
			Items:   backing[cur.Offset:end],
			Next:    Cursor{Offset: end, Limit: cur.Limit},
			HasMore: end < len(backing),
		}
	}
}

// pageNumFetch serves the same data through page-number cursors, the way
// Printify paginates.
func pageNumFetch(backing []Product) func(context.Context, Cursor) Page {
	return func(_ context.Context, cur Cursor) Page {
		start := (cur.PageNum - 1) * cur.Limit
		if start >= len(backing) {
			return Page{}
		}
		end := start + cur.Limit
		if end > len(backing) {
			end = len(backing)
		}
		items := backing[start:end]
		return Page{
			Items:   items,
			Next:    Cursor{PageNum: cur.PageNum + 1, Limit: cur.Limit},
			HasMore: len(items) == cur.Limit,
		}
	}
}

func TestSweepConcatenatesPagesInOrder(t *testing.T) {
	backing := numberedProducts(3)

	calls := 0
	fetch := func(_ context.Context, cur Cursor) Page {
		calls++
		switch cur.PageNum {
		case 1:
			return Page{
				Items:   backing[:2],
				Next:    Cursor{PageNum: 2, Limit: cur.Limit},
				HasMore: true,
			}
		case 2:
			return Page{Items: backing[2:], HasMore: false}
		default:
			t.Fatalf("unexpected page %d", cur.PageNum)
			return Page{}
		}
	}

	all := Sweep(context.Background(), 2, fetch)
	require.Len(t, all, 3)
	assert.Equal(t, 2, calls)
	for i, item := range all {
		assert.Equal(t, fmt.Sprintf("design-%d", i), item.Name)
	}
}

func TestSweepPageSizeInvariance(t *testing.T) {
	backing := numberedProducts(7)

	for _, fetch := range []func(context.Context, Cursor) Page{
		offsetFetch(backing),
		pageNumFetch(backing),
	} {
		one := Sweep(context.Background(), 1, fetch)
		hundred := Sweep(context.Background(), 100, fetch)

		assert.Equal(t, backing, one)
		assert.Equal(t, one, hundred)
	}
}

func TestSweepStopsOnEmptyPage(t *testing.T) {
	calls := 0
	fetch := func(context.Context, Cursor) Page {
		calls++
		return Page{}
	}

	all := Sweep(context.Background(), 10, fetch)
	assert.Empty(t, all)
	assert.Equal(t, 1, calls, "an empty page must terminate immediately")
}

func TestSweepStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	fetch := func(context.Context, Cursor) Page {
		calls++
		return Page{Items: numberedProducts(1), HasMore: true, Next: Cursor{Limit: 1}}
	}

	all := Sweep(ctx, 1, fetch)
	assert.Empty(t, all)
	assert.Zero(t, calls)
}

func TestFirstPageDefaults(t *testing.T) {
	cur := FirstPage(0)
	assert.Equal(t, DefaultPageSize, cur.Limit)
	assert.Equal(t, 0, cur.Offset)
	assert.Equal(t, 1, cur.PageNum)

	cur = FirstPage(25)
	assert.Equal(t, 25, cur.Limit)
}
