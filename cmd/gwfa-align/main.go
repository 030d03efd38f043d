// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/shenwei356/gwfa"
	"github.com/shenwei356/gwfa/internal/align"
	"github.com/shenwei356/gwfa/internal/graph"
)

var version = "0.1.0"

const (
	exitOK               = 0
	exitUsage            = 1
	exitInvalidPenalties = 2
	exitMalformedGFA     = 3
	exitNoAlignment      = 4
	exitInternal         = 5
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(0)
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
Sequence-to-graph WFA alignment in Golang

Version: v%s

Usage:
  %s [options] -g graph.gfa -q query.fasta
  %s [options] -g graph.gfa <query sequence>

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	gfaPath := flag.String("g", "", "GFA graph file (S/L records, spec subset)")
	queryPath := flag.String("q", "", "FASTA file holding a single query sequence")
	start := flag.String("start", "", "start vertex name (default: first segment with no in-edges)")
	startOffset := flag.Int("start-offset", 0, "offset within the start vertex's label")
	maxScore := flag.Uint("max-score", 0, "score bound (0: derive from query length)")

	match := flag.Uint("match", uint(align.DefaultPenalties.Match), "match score")
	mismatch := flag.Uint("mismatch", uint(align.DefaultPenalties.Mismatch), "mismatch penalty")
	gapOpen := flag.Uint("gap-open", uint(align.DefaultPenalties.GapOpen), "gap open penalty")
	gapExt := flag.Uint("gap-ext", uint(align.DefaultPenalties.GapExt), "gap extend penalty")

	pprofCPU := flag.Bool("cpuprofile", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("memprofile", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	if *gfaPath == "" {
		flag.Usage()
		return exitUsage
	}

	query, err := readQuery(*queryPath)
	if err != nil {
		log.Print(err)
		return exitUsage
	}

	gfaFh, err := os.Open(*gfaPath)
	if err != nil {
		log.Print(err)
		return exitUsage
	}
	defer gfaFh.Close()

	penalties := &align.Penalties{
		Match:    uint32(*match),
		Mismatch: uint32(*mismatch),
		GapOpen:  uint32(*gapOpen),
		GapExt:   uint32(*gapExt),
	}

	a, err := gwfa.New(penalties, gfaFh)
	if err != nil {
		log.Print(err)
		if errors.Is(err, align.ErrInvalidPenalties) {
			return exitInvalidPenalties
		}
		return exitMalformedGFA
	}

	startName := *start
	if startName == "" {
		startName, err = defaultStart(*gfaPath)
		if err != nil {
			log.Print(err)
			return exitMalformedGFA
		}
	}

	ctx := context.Background()
	var aln *gwfa.Alignment
	if *maxScore == 0 {
		aln, err = a.Align(ctx, query, startName, int32(*startOffset))
	} else {
		aln, err = a.AlignWithBound(ctx, query, startName, int32(*startOffset), uint32(*maxScore))
	}
	if err != nil {
		log.Print(err)
		switch {
		case errors.Is(err, align.ErrNoAlignment):
			return exitNoAlignment
		case errors.Is(err, align.ErrBadStart), errors.Is(err, align.ErrEmptyInput):
			return exitUsage
		default:
			return exitInternal
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	fmt.Fprintf(out, "edits\t%s\n", aln.Edits)
	fmt.Fprintf(out, "path\t%s\n", strings.Join(aln.Path, ","))
	fmt.Fprintf(out, "score\t%d\n", aln.Score)
	fmt.Fprintf(out, "start_offset\t%d\n", aln.StartOffset)
	fmt.Fprintf(out, "end_offset\t%d\n", aln.EndOffset)
	return exitOK
}

// readQuery reads the query sequence either from a FASTA file (first record
// only) or, if path is empty, from the first non-flag positional argument.
func readQuery(path string) ([]byte, error) {
	if path == "" {
		if flag.NArg() != 1 {
			return nil, fmt.Errorf("give a query sequence, or -q a FASTA file")
		}
		return []byte(flag.Arg(0)), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var seq strings.Builder
	scanner := bufio.NewScanner(fh)
	started := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if started {
				break
			}
			started = true
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if seq.Len() == 0 {
		return nil, fmt.Errorf("no sequence found in %s", path)
	}
	return []byte(seq.String()), nil
}

// defaultStart re-parses the GFA file to find the first segment with no
// in-edges, mirroring how ParseGFA itself chooses which segments to wire to
// the synthetic source.
func defaultStart(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fh.Close()
	g, err := graph.ParseGFA(fh)
	if err != nil {
		return "", err
	}
	succs := g.Successors(g.Source())
	if len(succs) == 0 {
		return "", fmt.Errorf("graph has no reachable start vertex")
	}
	return g.Name(succs[0]), nil
}
