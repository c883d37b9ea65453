// ═══════════════════════════════════════════════════════════════════════════════
// QUERY BUILDER: boolean queries over lazily-derived bitmaps
// ═══════════════════════════════════════════════════════════════════════════════
// A fluent boolean-query layer sits above Search for callers that want exact
// set semantics (AND/OR/NOT/Group) instead of ranked BM25 scoring. A term's
// bitmap is derived on demand from its posting list rather than persisted,
// since the store itself keeps only flat (doc_id, tf) posting lists — no
// positional data survives indexing, so this layer has no Phrase() operator.
//
//	results, err := NewQueryBuilder(r).
//	    Term("cat").Or().Term("dog").
//	    And().Not().Term("snake").
//	    Execute()
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"github.com/RoaringBitmap/roaring"
)

// QueryOp represents a pending boolean operation.
type QueryOp int

const (
	OpNone QueryOp = iota
	OpAnd
	OpOr
)

// QueryBuilder provides a fluent interface for building boolean queries
// against a loaded Retriever.
type QueryBuilder struct {
	r      *Retriever
	stack  []*roaring.Bitmap
	ops    []QueryOp
	negate bool
	err    error
}

// NewQueryBuilder creates a new query builder over r.
func NewQueryBuilder(r *Retriever) *QueryBuilder {
	return &QueryBuilder{r: r}
}

// Term pushes the bitmap of documents containing term (after the same
// tokenize+stem analysis used at index time) onto the stack, applying any
// pending And/Or operation or a pending Not.
func (q *QueryBuilder) Term(term string) *QueryBuilder {
	tokens := AnalyzeWithConfig(term, q.r.stem)
	bm := roaring.New()
	for _, tok := range tokens {
		tb, err := q.termBitmap(tok)
		if err != nil {
			q.err = err
			return q
		}
		bm.Or(tb)
	}
	return q.pushBitmap(bm)
}

func (q *QueryBuilder) termBitmap(token string) (*roaring.Bitmap, error) {
	bm := roaring.New()
	termID, ok := q.r.lexicon.Lookup(token)
	if !ok {
		return bm, nil
	}
	postings, err := q.r.readPosting(termID)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(postings); i += 2 {
		bm.Add(uint32(postings[i]))
	}
	return bm, nil
}

// And marks the next term/group to be intersected with the running result.
func (q *QueryBuilder) And() *QueryBuilder {
	q.ops = append(q.ops, OpAnd)
	return q
}

// Or marks the next term/group to be unioned with the running result.
func (q *QueryBuilder) Or() *QueryBuilder {
	q.ops = append(q.ops, OpOr)
	return q
}

// Not negates the next term or group.
func (q *QueryBuilder) Not() *QueryBuilder {
	q.negate = true
	return q
}

// Group evaluates fn against a fresh sub-builder sharing the same retriever
// and combines its result with the running result using any pending op.
func (q *QueryBuilder) Group(fn func(*QueryBuilder)) *QueryBuilder {
	sub := NewQueryBuilder(q.r)
	fn(sub)
	bm, err := sub.result()
	if err != nil {
		q.err = err
		return q
	}
	return q.pushBitmap(bm)
}

func (q *QueryBuilder) pushBitmap(bm *roaring.Bitmap) *QueryBuilder {
	if q.negate {
		bm = q.negateBitmap(bm)
		q.negate = false
	}

	if len(q.stack) == 0 {
		q.stack = append(q.stack, bm)
		return q
	}

	var op QueryOp
	if len(q.ops) > 0 {
		op = q.ops[len(q.ops)-1]
		q.ops = q.ops[:len(q.ops)-1]
	}

	top := q.stack[len(q.stack)-1]
	switch op {
	case OpAnd:
		top.And(bm)
	case OpOr:
		top.Or(bm)
	default:
		q.stack[len(q.stack)-1] = bm
	}
	return q
}

// negateBitmap complements bm against the full document-id universe.
func (q *QueryBuilder) negateBitmap(bm *roaring.Bitmap) *roaring.Bitmap {
	universe := roaring.New()
	universe.AddRange(0, uint64(q.r.N()))
	universe.AndNot(bm)
	return universe
}

func (q *QueryBuilder) result() (*roaring.Bitmap, error) {
	if q.err != nil {
		return nil, q.err
	}
	if len(q.stack) == 0 {
		return roaring.New(), nil
	}
	return q.stack[len(q.stack)-1], nil
}

// Execute returns the matching document ids in ascending order.
func (q *QueryBuilder) Execute() ([]int, error) {
	bm, err := q.result()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, int(it.Next()))
	}
	return ids, nil
}

// ExecuteWithBM25 evaluates the boolean query, then ranks the matching
// documents by BM25 against queryText (analyzed like any Search query).
func (q *QueryBuilder) ExecuteWithBM25(queryText string, k int) ([]Result, error) {
	ids, err := q.Execute()
	if err != nil {
		return nil, err
	}
	allowed := make(map[int]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}

	results, err := q.r.Search(queryText, 0)
	if err != nil {
		return nil, err
	}

	filtered := make([]Result, 0, len(results))
	for _, res := range results {
		docID := -1
		for i, d := range q.r.docnos {
			if d == res.DocNo {
				docID = i
				break
			}
		}
		if docID >= 0 && allowed[docID] {
			filtered = append(filtered, res)
		}
	}
	if k > 0 && k < len(filtered) {
		filtered = filtered[:k]
	}
	for i := range filtered {
		filtered[i].Rank = i + 1
	}
	return filtered, nil
}

// AllOf is a convenience constructor equivalent to ANDing every term.
func AllOf(r *Retriever, terms ...string) ([]int, error) {
	qb := NewQueryBuilder(r)
	for i, t := range terms {
		if i > 0 {
			qb.And()
		}
		qb.Term(t)
	}
	return qb.Execute()
}

// AnyOf is a convenience constructor equivalent to ORing every term.
func AnyOf(r *Retriever, terms ...string) ([]int, error) {
	qb := NewQueryBuilder(r)
	for i, t := range terms {
		if i > 0 {
			qb.Or()
		}
		qb.Term(t)
	}
	return qb.Execute()
}

// TermExcluding returns documents matching include but not exclude.
func TermExcluding(r *Retriever, include, exclude string) ([]int, error) {
	return NewQueryBuilder(r).Term(include).And().Not().Term(exclude).Execute()
}
