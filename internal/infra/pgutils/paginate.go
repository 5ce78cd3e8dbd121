package pgutils

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const DefaultPageSize = 5000

// Page controls a keyset scan. MaxRows of zero means no cap.
type Page struct {
	Size    int
	MaxRows int
}

func (p Page) size() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}

	return p.Size
}

// FetchFunc returns up to limit rows with key > after, ordered by key, plus
// the key of the last row returned.
type FetchFunc[T any] func(ctx context.Context, tx *sql.Tx, after int64, limit int) (rows []T, last int64, err error)

// Paginate walks the whole keyset with fetch. truncated is true only when the
// scan stopped at p.MaxRows while more rows remained.
func Paginate[T any](ctx context.Context, tx *sql.Tx, p Page, fetch FetchFunc[T]) (all []T, truncated bool, err error) {
	size := p.size()
	after := int64(0)

	for {
		limit := size
		if p.MaxRows > 0 {
			// ask for one extra row past the cap to tell "exactly at cap" from "over"
			limit = min(size, p.MaxRows-len(all)+1)
		}

		rows, last, err := fetch(ctx, tx, after, limit)
		if err != nil {
			return nil, false, fmt.Errorf("fetch page after %d: %w", after, err)
		}

		all = append(all, rows...)

		if p.MaxRows > 0 && len(all) > p.MaxRows {
			return all[:p.MaxRows], true, nil
		}

		if len(rows) < limit {
			return all, false, nil
		}

		after = last
	}
}

// NullTime converts an optional range bound into a query argument.
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
