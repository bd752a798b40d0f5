// Package pagination walks cursor-paginated Square endpoints.
//
// Square search endpoints return an opaque cursor with each page; the next
// page can only be requested once the previous response has arrived, so pages
// are fetched strictly one after another.
//
// Example usage:
//
//	walker := pagination.NewWalker(pagination.DefaultConfig())
//	pages, err := walker.Walk(ctx, "/catalog/search", func(ctx context.Context, cursor string) (string, error) {
//		page, err := fetch(ctx, cursor)
//		if err != nil {
//			return "", err
//		}
//		collect(page)
//		return page.Cursor, nil
//	})
//
// The walker:
//   - Starts with an empty cursor
//   - Stops when a page returns an empty cursor
//   - Aborts on the first page error; the caller discards partial results
//   - Fails with ErrTooManyPages if the upstream never stops returning cursors
package pagination
