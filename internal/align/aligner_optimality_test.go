package align_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/graph"
	"github.com/stretchr/testify/require"
)

// bruteForceScore is an independent reference for spec §8's Optimality
// property ("equals the brute-force graph-edit-distance"): a memoized
// recursion over (vertex, offset, query position, open-gap-run) that
// enumerates every match/mismatch/insert/delete/jump choice directly
// against penalties, using the same gap-run cost accounting as
// Alignment.Recompute, without going anywhere near the wavefront/diagonal
// machinery under test.
func bruteForceScore(g *graph.Graph, p *align.Penalties, query []byte) (uint32, bool) {
	type state struct {
		v, offset, qpos int
		gapRun          byte
	}
	const inf = int64(1) << 40
	memo := make(map[state]int64)

	var rec func(st state) int64
	rec = func(st state) int64 {
		if st.v == g.Sink() {
			if st.qpos == len(query) {
				return 0
			}
			return inf
		}
		if c, ok := memo[st]; ok {
			return c
		}
		label := g.Label(st.v)
		best := inf

		if st.offset == len(label) {
			for _, w := range g.Successors(st.v) {
				if c := rec(state{v: w, offset: 0, qpos: st.qpos, gapRun: st.gapRun}); c < best {
					best = c
				}
			}
		}
		if st.offset < len(label) && st.qpos < len(query) {
			cost := int64(p.Mismatch)
			if label[st.offset] == query[st.qpos] {
				cost = int64(p.Match)
			}
			if c := cost + rec(state{v: st.v, offset: st.offset + 1, qpos: st.qpos + 1, gapRun: 0}); c < best {
				best = c
			}
		}
		if st.offset < len(label) {
			cost := int64(p.GapExt)
			if st.gapRun != 'D' {
				cost += int64(p.GapOpen)
			}
			if c := cost + rec(state{v: st.v, offset: st.offset + 1, qpos: st.qpos, gapRun: 'D'}); c < best {
				best = c
			}
		}
		if st.qpos < len(query) {
			cost := int64(p.GapExt)
			if st.gapRun != 'I' {
				cost += int64(p.GapOpen)
			}
			if c := cost + rec(state{v: st.v, offset: st.offset, qpos: st.qpos + 1, gapRun: 'I'}); c < best {
				best = c
			}
		}

		memo[st] = best
		return best
	}

	best := rec(state{v: g.Source(), offset: 0, qpos: 0, gapRun: 0})
	if best >= inf {
		return 0, false
	}
	return uint32(best), true
}

// randomDAG builds a small DAG: a spine v0->v1->...->v(n-1) wired from
// source to sink, plus a handful of random forward "skip" edges for
// branching. Returns the graph and the spine's concatenated labels, a
// reference string close to what an aligned query should resemble.
func randomDAG(r *rand.Rand, n int) (*graph.Graph, string) {
	const alphabet = "ACGT"
	b := graph.NewBuilder()
	ids := make([]int, n)
	var spine []byte
	for i := 0; i < n; i++ {
		label := make([]byte, 1+r.Intn(3))
		for j := range label {
			label[j] = alphabet[r.Intn(len(alphabet))]
		}
		ids[i] = b.AddVertex(fmt.Sprintf("v%d", i), string(label))
		spine = append(spine, label...)
	}
	b.LinkToSource(ids[0])
	for i := 1; i < n; i++ {
		b.AddEdge(ids[i-1], ids[i], 0)
		if i >= 2 && r.Intn(2) == 0 {
			j := r.Intn(i - 1)
			b.AddEdge(ids[j], ids[i], 0)
		}
	}
	b.LinkToSink(ids[n-1])

	g, err := b.Build()
	if err != nil {
		panic(err) // construction-only helper; a bad topology here is a test bug
	}
	return g, string(spine)
}

// mutate applies up to maxEdits random substitutions/insertions/deletions
// to s, always leaving at least one character.
func mutate(r *rand.Rand, s string, maxEdits int) string {
	b := []byte(s)
	const alphabet = "ACGT"
	edits := r.Intn(maxEdits + 1)
	for e := 0; e < edits; e++ {
		if len(b) == 0 {
			break
		}
		switch r.Intn(3) {
		case 0: // substitute
			b[r.Intn(len(b))] = alphabet[r.Intn(len(alphabet))]
		case 1: // insert
			i := r.Intn(len(b) + 1)
			c := alphabet[r.Intn(len(alphabet))]
			b = append(b, 0)
			copy(b[i+1:], b[i:])
			b[i] = c
		case 2: // delete
			if len(b) <= 1 {
				continue
			}
			i := r.Intn(len(b))
			b = append(b[:i], b[i+1:]...)
		}
	}
	return string(b)
}

// TestAlignMatchesBruteForceOptimum checks spec §8's Optimality property
// against an independent reference over random small DAGs and mutated
// queries — the property test that would have caught a diagonal-shift
// sign error in the indel recurrences, since the brute force has no
// notion of "diagonal" at all.
func TestAlignMatchesBruteForceOptimum(t *testing.T) {
	r := rand.New(rand.NewSource(20260730))
	penalties := align.DefaultPenalties

	for trial := 0; trial < 40; trial++ {
		n := 2 + r.Intn(3)
		g, spine := randomDAG(r, n)
		query := []byte(mutate(r, spine, 2))

		a, err := align.NewAligner(g, penalties)
		require.NoError(t, err)

		want, ok := bruteForceScore(g, penalties, query)
		require.True(t, ok, "trial %d: brute force found no alignment for query=%q spine=%q", trial, query, spine)

		maxScore := a.MaxScoreFor(query)
		aln, err := a.Align(context.Background(), query, "v0", 0, maxScore)
		require.NoError(t, err, "trial %d: query=%q spine=%q", trial, query, spine)
		require.Equal(t, want, aln.Score, "trial %d: query=%q spine=%q", trial, query, spine)
	}
}
