package triggers

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/vetoplot/internal/fsutil"
)

// Segment is a half-open GPS time interval [Start, End).
type Segment struct {
	Start float64
	End   float64
}

// Segments is a sorted, non-overlapping segment list.
type Segments []Segment

// Contains reports whether t falls inside any segment.
func (s Segments) Contains(t float64) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].End > t })
	return i < len(s) && s[i].Start <= t
}

// NewSegments sorts and coalesces segs.
func NewSegments(segs ...Segment) Segments {
	if len(segs) == 0 {
		return nil
	}
	sorted := append([]Segment(nil), segs...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Start < sorted[b].Start })

	out := Segments{sorted[0]}
	for _, seg := range sorted[1:] {
		last := &out[len(out)-1]
		if seg.Start <= last.End {
			if seg.End > last.End {
				last.End = seg.End
			}
			continue
		}
		out = append(out, seg)
	}
	return out
}

// ReadSegments parses veto segment files and merges them into one list.
// Lines hold "start end" or "id start end duration"; blank lines and lines
// starting with '#' are skipped.
func ReadSegments(fsys fsutil.FileSystem, paths ...string) (Segments, error) {
	var all []Segment
	for _, path := range paths {
		segs, err := readSegmentFile(fsys, path)
		if err != nil {
			return nil, err
		}
		all = append(all, segs...)
	}
	return NewSegments(all...), nil
}

func readSegmentFile(fsys fsutil.FileSystem, path string) ([]Segment, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("veto file: %w", err)
	}
	defer f.Close()

	var segs []Segment
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		var cols []string
		switch len(fields) {
		case 2:
			cols = fields
		case 4:
			cols = fields[1:3]
		default:
			return nil, fmt.Errorf("%s:%d: expected 2 or 4 columns, got %d", path, line, len(fields))
		}

		start, err := strconv.ParseFloat(cols[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: start: %w", path, line, err)
		}
		end, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: end: %w", path, line, err)
		}
		if end < start {
			return nil, fmt.Errorf("%s:%d: segment ends before it starts", path, line)
		}
		segs = append(segs, Segment{Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segs, nil
}
