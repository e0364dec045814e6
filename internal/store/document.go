package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"portfolio-content-api/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateID       = errors.New("record id already exists")
	ErrIncompleteReorder = errors.New("reorder list must name every record exactly once")
	ErrIDExhausted       = errors.New("could not allocate a unique id")
	ErrMalformedRecord   = errors.New("collection entry does not match the record schema")
)

// maxIDAttempts bounds regeneration when a short id collides.
const maxIDAttempts = 16

// Document is the in-memory form of one collection file.
type Document[R models.Record] struct {
	Records []R
}

func (d *Document[R]) indexOf(id string) int {
	for i, rec := range d.Records {
		if rec.GetID() == id {
			return i
		}
	}
	return -1
}

// Find returns the record with the given id.
func (d *Document[R]) Find(id string) (R, bool) {
	if i := d.indexOf(id); i >= 0 {
		return d.Records[i], true
	}
	var zero R
	return zero, false
}

// NewID draws ids from gen until one is neither used by a record nor reported as
// taken by the optional predicate.
func (d *Document[R]) NewID(gen IDGenerator, taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := gen()
		if d.indexOf(id) >= 0 {
			continue
		}
		if taken != nil && taken(id) {
			continue
		}
		return id, nil
	}
	return "", ErrIDExhausted
}

// InsertAtHead shifts every existing record down by one and stores rec at order 0.
func (d *Document[R]) InsertAtHead(rec R) (R, error) {
	if d.indexOf(rec.GetID()) >= 0 {
		return rec, fmt.Errorf("insert %q: %w", rec.GetID(), ErrDuplicateID)
	}
	for _, existing := range d.Records {
		existing.SetOrder(existing.GetOrder() + 1)
	}
	rec.SetOrder(0)
	d.Records = append(d.Records, rec)
	return rec, nil
}

// UpdateFields runs apply on the record with the given id. The id and order are
// restored afterwards so apply can never move or rename a record.
func (d *Document[R]) UpdateFields(id string, apply func(R)) bool {
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	rec := d.Records[i]
	order := rec.GetOrder()
	apply(rec)
	rec.SetOrder(order)
	return true
}

// Reorder assigns each listed id its index as the new order. Ids that are not in the
// collection are skipped and unlisted records keep their order. In strict mode the list
// must be a permutation of the collection's ids, otherwise nothing changes.
func (d *Document[R]) Reorder(ids []string, strict bool) error {
	if strict {
		if err := d.checkPermutation(ids); err != nil {
			return err
		}
	}
	for index, id := range ids {
		if i := d.indexOf(id); i >= 0 {
			d.Records[i].SetOrder(index)
		}
	}
	return nil
}

func (d *Document[R]) checkPermutation(ids []string) error {
	if len(ids) != len(d.Records) {
		return fmt.Errorf("%w: got %d ids for %d records", ErrIncompleteReorder, len(ids), len(d.Records))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q listed twice", ErrIncompleteReorder, id)
		}
		if d.indexOf(id) < 0 {
			return fmt.Errorf("%w: unknown id %q", ErrIncompleteReorder, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// DeleteByID removes the record and returns it so its derivatives can be cleaned up.
func (d *Document[R]) DeleteByID(id string) (R, bool) {
	i := d.indexOf(id)
	if i < 0 {
		var zero R
		return zero, false
	}
	removed := d.Records[i]
	d.Records = append(d.Records[:i], d.Records[i+1:]...)
	return removed, true
}

// Compact rewrites orders as 0..N-1 keeping the current relative order. Ties keep
// their position in the file.
func (d *Document[R]) Compact() {
	sorted := d.Sorted()
	for i, rec := range sorted {
		rec.SetOrder(i)
	}
}

// Sorted returns the records by ascending order without modifying the document.
func (d *Document[R]) Sorted() []R {
	sorted := slices.Clone(d.Records)
	slices.SortStableFunc(sorted, func(a, b R) int {
		return cmp.Compare(a.GetOrder(), b.GetOrder())
	})
	return sorted
}
