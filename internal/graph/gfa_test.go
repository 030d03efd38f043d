package graph_test

import (
	"strings"
	"testing"

	"github.com/shenwei356/gwfa/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGFALinear(t *testing.T) {
	const gfa = "H\tVN:Z:1.0\n" +
		"S\tA\tACGT\n"

	g, err := graph.ParseGFA(strings.NewReader(gfa))
	require.NoError(t, err)

	id, ok := g.VertexByName("A")
	require.True(t, ok)
	assert.Equal(t, "ACGT", g.Label(id))
	assert.Contains(t, g.Successors(g.Source()), id)
	assert.Contains(t, g.Successors(id), g.Sink())
}

func TestParseGFABranching(t *testing.T) {
	const gfa = "S\tA\tAC\n" +
		"S\tB\tGT\n" +
		"S\tC\tCT\n" +
		"L\tA\t+\tB\t+\t0M\n" +
		"L\tA\t+\tC\t+\t0M\n"

	g, err := graph.ParseGFA(strings.NewReader(gfa))
	require.NoError(t, err)

	a, _ := g.VertexByName("A")
	b, _ := g.VertexByName("B")
	c, _ := g.VertexByName("C")
	assert.ElementsMatch(t, []int{b, c}, g.Successors(a))
	assert.Contains(t, g.Successors(b), g.Sink())
	assert.Contains(t, g.Successors(c), g.Sink())
}

func TestParseGFARejectsNonzeroOverlap(t *testing.T) {
	const gfa = "S\tA\tACGT\n" +
		"S\tB\tACGT\n" +
		"L\tA\t+\tB\t+\t2M\n"

	_, err := graph.ParseGFA(strings.NewReader(gfa))
	assert.ErrorIs(t, err, graph.ErrUnsupportedGraph)
}

func TestParseGFAMalformed(t *testing.T) {
	_, err := graph.ParseGFA(strings.NewReader("S\tonlyname\n"))
	assert.ErrorIs(t, err, graph.ErrMalformedGFA)
}

func TestWriteGFARoundTrip(t *testing.T) {
	const gfa = "S\tA\tAC\n" +
		"S\tB\tGT\n" +
		"L\tA\t+\tB\t+\t0M\n"

	g, err := graph.ParseGFA(strings.NewReader(gfa))
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, graph.WriteGFA(&buf, g))

	g2, err := graph.ParseGFA(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, g.NumVertices(), g2.NumVertices())
}
