// Package batch describes per-item outcomes of bulk seeding.
package batch

// ItemStatus is the processing outcome of a single item.
type ItemStatus string

// Item status values.
const (
	StatusOK     ItemStatus = "ok"
	StatusFailed ItemStatus = "failed"
)

// Item identifies one seeded entity.
type Item struct {
	Kind string
	ID   string
}

// Result is the outcome of processing one item. A failed item may still have
// been stored without vectors; Err says which step failed.
type Result struct {
	item     Item
	status   ItemStatus
	cacheHit bool
	err      error
}

// NewOK creates a successful result. cacheHit marks a triple reused from the run cache.
func NewOK(item Item, cacheHit bool) Result {
	return Result{item: item, status: StatusOK, cacheHit: cacheHit}
}

// NewFailed creates a failed result.
func NewFailed(item Item, err error) Result {
	return Result{item: item, status: StatusFailed, err: err}
}

// Item returns the item identity.
func (r Result) Item() Item { return r.item }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// CacheHit reports whether the triple came from the run cache.
func (r Result) CacheHit() bool { return r.cacheHit }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Report aggregates the results of a run.
type Report struct {
	Processed int
	Failed    int
	CacheHits int
	Results   []Result
}

// Add records r.
func (rep *Report) Add(r Result) {
	rep.Results = append(rep.Results, r)
	if r.status == StatusFailed {
		rep.Failed++
		return
	}
	rep.Processed++
	if r.cacheHit {
		rep.CacheHits++
	}
}
