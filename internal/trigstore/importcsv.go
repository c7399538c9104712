package trigstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ImportCSV writes one dataset per CSV column. The header row names the
// dataset paths; every group other than "network" is recorded as a detector.
// It returns the number of data rows imported.
func ImportCSV(ctx context.Context, s *Store, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	paths := lo.Map(header, func(h string, _ int) string { return strings.TrimSpace(h) })
	groups := make([]string, len(paths))
	for i, p := range paths {
		group, field, ok := strings.Cut(p, "/")
		if !ok || group == "" || field == "" {
			return 0, fmt.Errorf("csv column %d: %q is not a <group>/<field> dataset path", i+1, p)
		}
		groups[i] = group
	}
	if dup := lo.FindDuplicates(paths); len(dup) > 0 {
		return 0, fmt.Errorf("csv repeats dataset columns %v", dup)
	}

	columns := make([][]float64, len(paths))
	rows := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row %d: %w", rows+1, err)
		}
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return 0, fmt.Errorf("csv row %d column %s: %w", rows+1, paths[i], err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("csv row %d column %s: %q: %w", rows+1, paths[i], field, ErrNonFinite)
			}
			columns[i] = append(columns[i], v)
		}
		rows++
	}

	detectors := lo.Uniq(lo.Filter(groups, func(g string, _ int) bool { return g != NetworkGroup }))
	if err := s.SetDetectors(ctx, detectors...); err != nil {
		return 0, err
	}
	for i, p := range paths {
		if err := s.WriteDataset(ctx, p, columns[i]); err != nil {
			return 0, err
		}
	}
	return rows, nil
}
