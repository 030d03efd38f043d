package align_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGraph(t *testing.T, gfa string) *graph.Graph {
	t.Helper()
	g, err := graph.ParseGFA(strings.NewReader(gfa))
	require.NoError(t, err)
	return g
}

func TestAlignLinearExactMatch(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("ACGT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, "MMMM", aln.Edits)
	assert.Equal(t, []string{"A", "__sink__"}, aln.Path)
	assert.Equal(t, uint32(0), aln.Score)
}

func TestAlignLinearMismatch(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("ACTT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, "MMXM", aln.Edits)
	assert.Equal(t, align.DefaultPenalties.Mismatch, aln.Score)
}

func TestAlignLinearInsertion(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("ACGGT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(aln.Edits, "I"))
	assert.Equal(t, 4, strings.Count(aln.Edits, "M"))
	assert.Equal(t, align.DefaultPenalties.GapOpen+align.DefaultPenalties.GapExt, aln.Score)
}

func TestAlignBranchingChoosesCheaperBranch(t *testing.T) {
	const gfa = "S\tA\tAC\n" +
		"S\tB\tGT\n" +
		"S\tC\tCT\n" +
		"L\tA\t+\tB\t+\t0M\n" +
		"L\tA\t+\tC\t+\t0M\n"
	g := mustGraph(t, gfa)
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("ACGT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, "MMMM", aln.Edits)
	assert.Equal(t, []string{"A", "B", "__sink__"}, aln.Path)
}

func TestAlignJumpInsideGap(t *testing.T) {
	const gfa = "S\tA\tAA\n" +
		"S\tB\tTT\n" +
		"L\tA\t+\tB\t+\t0M\n"
	g := mustGraph(t, gfa)
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("AATT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, "MMMM", aln.Edits)
	assert.Equal(t, []string{"A", "B", "__sink__"}, aln.Path)

	aln2, err := a.Align(context.Background(), []byte("AACTT"), "A", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(aln2.Edits, "I"))
	assert.Equal(t, []string{"A", "B", "__sink__"}, aln2.Path)
}

func TestAlignRejectsEmptyInput(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	_, err = a.Align(context.Background(), nil, "A", 0, 1000)
	assert.ErrorIs(t, err, align.ErrEmptyInput)
}

func TestAlignRejectsBadStart(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	_, err = a.Align(context.Background(), []byte("ACGT"), "nope", 0, 1000)
	assert.ErrorIs(t, err, align.ErrBadStart)

	_, err = a.Align(context.Background(), []byte("ACGT"), "A", 99, 1000)
	assert.ErrorIs(t, err, align.ErrBadStart)
}

func TestAlignFailsWhenScoreBoundTooLow(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	_, err = a.Align(context.Background(), []byte("TTTT"), "A", 0, 1)
	assert.ErrorIs(t, err, align.ErrNoAlignment)
}

func TestAlignScoreMatchesRecompute(t *testing.T) {
	g := mustGraph(t, "S\tA\tACGTACGT\n")
	a, err := align.NewAligner(g, align.DefaultPenalties)
	require.NoError(t, err)

	aln, err := a.Align(context.Background(), []byte("ACGAACGT"), "A", 0, 1000)
	require.NoError(t, err)
	reported := aln.Score
	require.NoError(t, aln.Recompute(align.DefaultPenalties))
	assert.Equal(t, reported, aln.Score)
}
