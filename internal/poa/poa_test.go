package poa_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/poa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startOf(t *testing.T, p *poa.POAGraph) (string, int32) {
	t.Helper()
	g := p.Graph()
	return g.Name(g.Source()), 0
}

// TestMsaRoundTrip exercises spec §8 scenario 6: seeding with ACGT, aligning
// a one-base substitution, and reading the result back out as a 2-row FASTA
// MSA that differs in exactly one column.
func TestMsaRoundTrip(t *testing.T) {
	p, err := poa.NewSeed("ACGT")
	require.NoError(t, err)

	a, err := align.NewAligner(p.Graph(), align.DefaultPenalties)
	require.NoError(t, err)

	startName, startOffset := startOf(t, p)
	query := []byte("ACCT")
	aln, err := a.Align(context.Background(), query, startName, startOffset, a.MaxScoreFor(query))
	require.NoError(t, err)

	sid := p.NextSequenceID()
	require.NoError(t, poa.Splice(p, aln, query, sid))

	var sb strings.Builder
	require.NoError(t, poa.WriteMSAFasta(&sb, p))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4) // 2 headers + 2 sequence rows
	row0, row1 := lines[1], lines[3]
	require.Equal(t, len(row0), len(row1))

	diffs := 0
	for i := range row0 {
		if row0[i] != row1[i] {
			diffs++
		}
	}
	assert.Equal(t, 1, diffs)
}

// TestMsaIdentityIsIdempotent aligns the seed sequence against itself: the
// result should be an all-match edit string along the original path, and
// splicing it in should only grow SequenceIDs, never change graph topology.
func TestMsaIdentityIsIdempotent(t *testing.T) {
	p, err := poa.NewSeed("ACGT")
	require.NoError(t, err)
	before := p.Graph().NumVertices()

	a, err := align.NewAligner(p.Graph(), align.DefaultPenalties)
	require.NoError(t, err)

	startName, startOffset := startOf(t, p)
	query := []byte("ACGT")
	aln, err := a.Align(context.Background(), query, startName, startOffset, a.MaxScoreFor(query))
	require.NoError(t, err)
	assert.Equal(t, "MMMM", aln.Edits)
	assert.Equal(t, uint32(0), aln.Score)

	sid := p.NextSequenceID()
	require.NoError(t, poa.Splice(p, aln, query, sid))
	assert.Equal(t, before, p.Graph().NumVertices())
}

// TestMsaInsertionChainsIntoOneBranch exercises a multi-character
// insertion: splicing "AGGCGT" against a seed of "ACGT" inserts "GG"
// between the first and second seed bases as a single two-vertex chain, not
// two parallel single-character bypasses.
func TestMsaInsertionChainsIntoOneBranch(t *testing.T) {
	p, err := poa.NewSeed("ACGT")
	require.NoError(t, err)

	a, err := align.NewAligner(p.Graph(), align.DefaultPenalties)
	require.NoError(t, err)

	startName, startOffset := startOf(t, p)
	query := []byte("AGGCGT")
	aln, err := a.Align(context.Background(), query, startName, startOffset, a.MaxScoreFor(query))
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(aln.Edits, "I"))

	sid := p.NextSequenceID()
	require.NoError(t, poa.Splice(p, aln, query, sid))

	g := p.Graph()
	first, ok := g.VertexByName("seq1_ins0")
	require.True(t, ok)
	second, ok := g.VertexByName("seq1_ins1")
	require.True(t, ok)
	assert.Equal(t, []int{first}, g.Predecessors(second))

	cons, err := poa.Consensus(p)
	require.NoError(t, err)
	assert.NotEmpty(t, cons)
}

func TestNewSeedRejectsEmpty(t *testing.T) {
	_, err := poa.NewSeed("")
	assert.ErrorIs(t, err, poa.ErrEmptySeed)
}

func TestWriteGFAAndDotProduceNonEmptyOutput(t *testing.T) {
	p, err := poa.NewSeed("ACGT")
	require.NoError(t, err)

	var gfa, dot strings.Builder
	require.NoError(t, poa.WriteGFA(&gfa, p))
	require.NoError(t, poa.WriteDot(&dot, p))

	assert.Contains(t, gfa.String(), "S\t")
	assert.Contains(t, dot.String(), "digraph G")
}

func TestConsensusMatchesSeedBeforeAnySplice(t *testing.T) {
	p, err := poa.NewSeed("ACGT")
	require.NoError(t, err)

	cons, err := poa.Consensus(p)
	require.NoError(t, err)
	assert.Equal(t, "ACGT", cons)
}
