package sieve

import "math"

// ═══════════════════════════════════════════════════════════════════════════════
// POSTING LISTS AS DETERMINISTIC SKIP LISTS
// ═══════════════════════════════════════════════════════════════════════════════
// A PostingList is a strictly ascending, duplicate-free sequence of Postings,
// one per document the term occurs in. Unlike the probabilistic, randomly
// towered skip list a general-purpose ordered set needs, an IR posting list
// skip list is deterministic: forward pointers sit exactly ⌈√n⌉ apart and are
// rebuilt in full on every structural mutation (spec §3, §4.3).
//
// VISUAL REPRESENTATION (n=9, step=⌈√9⌉=3):
// -------------------------------------------
//
//	index:   0    1    2    3    4    5    6    7    8
//	doc:    [d1] [d2] [d3] [d4] [d5] [d6] [d7] [d8] [d9]
//	skip:    -->------------->------------->    (no skip)
//
// A skip pointer at index i jumps to index i+step, as long as i+step is
// still a real element (it may be the last one). The last element itself
// never carries a forward pointer, per invariant (ii).
//
// WHY REBUILD ON EVERY MUTATION INSTEAD OF BALANCING INCREMENTALLY?
// -------------------------------------------------------------------
// Posting lists here are built once per corpus and read many times; AddAll
// inserts a whole batch of postings and rebuilds the pointers once, so a
// list built in one batch pays the "rebuild" cost once, not once per posting.
// ═══════════════════════════════════════════════════════════════════════════════

// Posting pairs a document with the sorted, 0-based positions a term
// occupies in it. Postings compare by DocumentID only: positions are
// metadata, not identity (spec §3).
type Posting struct {
	Doc       DocumentIdentifier
	Positions []int
}

// mergePositions returns the sorted union of two already-sorted position
// slices, used when the same (term, doc) pair is observed twice during
// construction.
func mergePositions(a, b []int) []int {
	merged := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			merged = append(merged, a[i])
			i++
		case a[i] > b[j]:
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
			j++
		}
	}
	merged = append(merged, a[i:]...)
	merged = append(merged, b[j:]...)
	return merged
}

// PostingList is a strictly ordered, duplicate-free sequence of Postings
// with √n-spaced forward pointers.
type PostingList struct {
	postings []Posting
	skip     []int // skip[i] = index to jump to from i, or -1 if none
}

// NewPostingList creates an empty posting list.
func NewPostingList() *PostingList {
	return &PostingList{}
}

// Len returns the number of postings in the list.
func (pl *PostingList) Len() int {
	if pl == nil {
		return 0
	}
	return len(pl.postings)
}

// At returns the posting at index i. Out-of-range access is a programming
// error, per spec §4.3, and is reported as ErrInternalInvariant rather than
// panicking, so a caller can abort the query cleanly.
func (pl *PostingList) At(i int) (Posting, error) {
	if pl == nil || i < 0 || i >= len(pl.postings) {
		return Posting{}, ErrInternalInvariant
	}
	return pl.postings[i], nil
}

// Postings returns the underlying slice. Callers must not mutate it — per
// spec §3, posting lists returned from the index are read-only.
func (pl *PostingList) Postings() []Posting {
	if pl == nil {
		return nil
	}
	return pl.postings
}

// Add inserts a single posting, merging positions if the document is
// already present, and rebuilds forward pointers.
func (pl *PostingList) Add(p Posting) {
	pl.AddAll([]Posting{p})
}

// AddAll batch-inserts postings and rebuilds forward pointers exactly once,
// per spec §4.3's preference for a batched form over repeated single adds.
func (pl *PostingList) AddAll(ps []Posting) {
	if len(ps) == 0 {
		return
	}
	merged := pl.postings
	for _, p := range ps {
		merged = insertSorted(merged, p)
	}
	pl.postings = merged
	pl.rebuildSkipPointers()
}

// insertSorted inserts p into an ascending, duplicate-free slice, merging
// positions on a DocumentID collision.
func insertSorted(list []Posting, p Posting) []Posting {
	i := 0
	for i < len(list) && list[i].Doc < p.Doc {
		i++
	}
	if i < len(list) && list[i].Doc == p.Doc {
		list[i].Positions = mergePositions(list[i].Positions, p.Positions)
		return list
	}
	list = append(list, Posting{})
	copy(list[i+1:], list[i:])
	list[i] = p
	return list
}

// skipStep returns ⌈√n⌉, the spacing between forward pointers.
func skipStep(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// rebuildSkipPointers recomputes every forward pointer from scratch.
//
// DECISION (documented in DESIGN.md as the locked Open-Question answer):
// pointers sit at indices 0, step, 2·step, ... as long as index+step is a
// valid index (less than n), so a pointer may target the last element but
// the last element never carries a pointer, invariant (ii). This is the
// classical "skip pointers √n apart" layout; spec §4.3 and §8 state two
// other counting formulas that disagree with each other, so this
// implementation picks the textbook spacing.
func (pl *PostingList) rebuildSkipPointers() {
	n := len(pl.postings)
	pl.skip = make([]int, n)
	for i := range pl.skip {
		pl.skip[i] = -1
	}
	if n < 2 {
		return
	}
	step := skipStep(n)
	if step == 0 {
		return
	}
	for i := 0; i+step < n; i += step {
		pl.skip[i] = i + step
	}
}

// ForwardPointerCount returns how many postings carry a live forward
// pointer.
func (pl *PostingList) ForwardPointerCount() int {
	count := 0
	for _, s := range pl.skip {
		if s >= 0 {
			count++
		}
	}
	return count
}

// ═══════════════════════════════════════════════════════════════════════════════
// SET OPERATIONS: INTERSECT / UNION / DIFFERENCE
// ═══════════════════════════════════════════════════════════════════════════════
// Intersect (and PositionalJoin below) use the galloping-with-skip-pointers
// merge from spec §4.3: when a[i] < b[j] and a[i] has a live forward pointer
// to an element whose DocumentID is still ≤ b[j], jump there instead of
// stepping one at a time. Difference gallops over b only; Union emits every
// posting and so steps one element at a time through both lists.
// ═══════════════════════════════════════════════════════════════════════════════

// Intersect returns postings present in both a and b, merging their
// position lists for matching documents.
func Intersect(a, b *PostingList) *PostingList {
	result := NewPostingList()
	if a.Len() == 0 || b.Len() == 0 {
		return result
	}

	i, j := 0, 0
	var out []Posting
	for i < a.Len() && j < b.Len() {
		pa, _ := a.At(i)
		pb, _ := b.At(j)

		switch {
		case pa.Doc == pb.Doc:
			out = append(out, Posting{Doc: pa.Doc, Positions: mergePositions(pa.Positions, pb.Positions)})
			i++
			j++
		case pa.Doc < pb.Doc:
			i = a.gallopOrStep(i, pb.Doc)
		default:
			j = b.gallopOrStep(j, pa.Doc)
		}
	}

	result.postings = out
	result.rebuildSkipPointers()
	return result
}

// gallopOrStep advances from index i toward target, using the forward
// pointer when it doesn't overshoot, otherwise advancing one element.
func (pl *PostingList) gallopOrStep(i int, target DocumentIdentifier) int {
	if i < len(pl.skip) && pl.skip[i] >= 0 {
		if jump, err := pl.At(pl.skip[i]); err == nil && jump.Doc <= target {
			return pl.skip[i]
		}
	}
	return i + 1
}

// Union returns the ordered, duplicate-free merge of a and b.
func Union(a, b *PostingList) *PostingList {
	result := NewPostingList()
	i, j := 0, 0
	var out []Posting
	for i < a.Len() && j < b.Len() {
		pa, _ := a.At(i)
		pb, _ := b.At(j)
		switch {
		case pa.Doc == pb.Doc:
			out = append(out, Posting{Doc: pa.Doc, Positions: mergePositions(pa.Positions, pb.Positions)})
			i++
			j++
		case pa.Doc < pb.Doc:
			out = append(out, pa)
			i++
		default:
			out = append(out, pb)
			j++
		}
	}
	for ; i < a.Len(); i++ {
		p, _ := a.At(i)
		out = append(out, p)
	}
	for ; j < b.Len(); j++ {
		p, _ := b.At(j)
		out = append(out, p)
	}

	result.postings = out
	result.rebuildSkipPointers()
	return result
}

// Difference returns postings in a whose document is absent from b.
func Difference(a, b *PostingList) *PostingList {
	result := NewPostingList()
	if a.Len() == 0 {
		return result
	}

	i, j := 0, 0
	var out []Posting
	for i < a.Len() {
		pa, _ := a.At(i)
		if j >= b.Len() {
			out = append(out, pa)
			i++
			continue
		}
		pb, _ := b.At(j)
		switch {
		case pa.Doc == pb.Doc:
			i++
			j++
		case pa.Doc < pb.Doc:
			out = append(out, pa)
			i++
		default:
			j = b.gallopOrStep(j, pa.Doc)
		}
	}

	result.postings = out
	result.rebuildSkipPointers()
	return result
}

// PositionalJoin returns postings whose document appears in both a and b
// and which contain at least one position pair (p_a, p_b) with
// 0 < p_b - p_a <= maxGap (directional: b must follow a). The returned
// posting's Positions are the qualifying p_b values, so a chain of joins
// (for multi-word phrases) can feed the next slot's a.
func PositionalJoin(a, b *PostingList, maxGap int) *PostingList {
	result := NewPostingList()
	if a.Len() == 0 || b.Len() == 0 {
		return result
	}

	i, j := 0, 0
	var out []Posting
	for i < a.Len() && j < b.Len() {
		pa, _ := a.At(i)
		pb, _ := b.At(j)

		switch {
		case pa.Doc == pb.Doc:
			if positions := joiningPositions(pa.Positions, pb.Positions, maxGap); len(positions) > 0 {
				out = append(out, Posting{Doc: pa.Doc, Positions: positions})
			}
			i++
			j++
		case pa.Doc < pb.Doc:
			i = a.gallopOrStep(i, pb.Doc)
		default:
			j = b.gallopOrStep(j, pa.Doc)
		}
	}

	result.postings = out
	result.rebuildSkipPointers()
	return result
}

// joiningPositions returns every position in bPositions reachable from some
// position in aPositions with a forward gap in (0, maxGap].
func joiningPositions(aPositions, bPositions []int, maxGap int) []int {
	var out []int
	bi := 0
	emitted := 0 // bPositions[:emitted] are already in out
	for _, pa := range aPositions {
		for bi < len(bPositions) && bPositions[bi] <= pa {
			bi++
		}
		k := bi
		if k < emitted {
			k = emitted
		}
		for ; k < len(bPositions); k++ {
			gap := bPositions[k] - pa
			if gap > maxGap {
				break
			}
			if gap > 0 {
				out = append(out, bPositions[k])
				emitted = k + 1
			}
		}
	}
	return dedupeInts(out)
}

func dedupeInts(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// DocIDs returns the ordered, deduplicated document identifiers in pl.
func (pl *PostingList) DocIDs() []DocumentIdentifier {
	if pl == nil {
		return nil
	}
	ids := make([]DocumentIdentifier, len(pl.postings))
	for i, p := range pl.postings {
		ids[i] = p.Doc
	}
	return ids
}
