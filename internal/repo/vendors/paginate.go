package vendors

import "context"

// DefaultPageSize is the page size aggregate sweeps request from vendors.
const DefaultPageSize = 50

// FirstPage returns the initial cursor of a sweep: offset 0, page 1.
func FirstPage(limit int) Cursor {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Cursor{Offset: 0, PageNum: 1, Limit: limit}
}

// Sweep walks a vendor listing to exhaustion and returns every item in
// the vendor's natural order. The loop stops on an empty page, on
// HasMore=false, or on context cancellation; the aggregate result is
// identical regardless of page size because pages are concatenated in
// arrival order.
func Sweep(ctx context.Context, limit int, fetch func(context.Context, Cursor) Page) []Product {
	cur := FirstPage(limit)
	var all []Product
	for ctx.Err() == nil {
		page := fetch(ctx, cur)
		if len(page.Items) == 0 {
			break
		}
		all = append(all, page.Items...)
		if !page.HasMore {
			break
		}
		cur = page.Next
	}
	return all
}
