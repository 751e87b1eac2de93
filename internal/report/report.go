// Package report writes the plain-text log of a bootstrapping run.
//
// Layout:
//
//	Pattern: <pattern>
//	Seeds: <seed0>\t<seed1>...
//	Sense <i>: <count>          one line per sense
//	Not classified: <count>
//	<sense> <context words>     up to ContextSample labeled contexts
//	Iterations: <n> (<converged|not converged>)
//	Rules: <len>
//	<rank>\t<score>\t<rule>\t<key>\t<counts>   up to RuleSample rules
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kittclouds/yarowsky/pkg/wsd/bootstrap"
)

// Options bounds the sampled sections. Zero omits a section.
type Options struct {
	ContextSample int
	RuleSample    int
}

// Write renders res to w.
func Write(w io.Writer, res *bootstrap.Result, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Pattern: %s\n", res.Pattern)
	fmt.Fprintf(bw, "Seeds: %s\n", strings.Join(res.Seeds, "\t"))
	for sense, n := range res.SenseCounts {
		fmt.Fprintf(bw, "Sense %d: %d\n", sense, n)
	}
	fmt.Fprintf(bw, "Not classified: %d\n", res.Unlabeled)

	written := 0
	for _, c := range res.Contexts {
		if written >= opts.ContextSample {
			break
		}
		if !c.Labeled() {
			continue
		}
		fmt.Fprintf(bw, "%d %s\n", c.Sense, c.Text())
		written++
	}

	status := "converged"
	if !res.Converged {
		status = "not converged"
	}
	fmt.Fprintf(bw, "Iterations: %d (%s)\n", res.Iterations, status)
	fmt.Fprintf(bw, "Rules: %d\n", len(res.Rules))
	for _, e := range res.Entries() {
		if e.Rank > opts.RuleSample {
			break
		}
		fmt.Fprintf(bw, "%d\t%.4f\t%s\t%s\t%s\n", e.Rank, e.Score, e.Rule, e.Key, formatCounts(e.Counts))
	}
	return bw.Flush()
}

// WriteFile renders res to path, replacing any existing file.
func WriteFile(path string, res *bootstrap.Result, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, res, opts)
}

func formatCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
