package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ezoic/sparsefit/pkg/errors"
)

// LoadLibSVM reads a LibSVM-format file into a sparse design and target
// vector. Each line is "label index:value index:value ...", indices are
// 1-based, and anything after '#' is a comment.
func LoadLibSVM(filename string) (*SparseDesign, []float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadLibSVMReader(file)
}

// LoadLibSVMReader parses LibSVM-format data from r. The feature count
// is the maximum index seen across all rows.
func LoadLibSVMReader(r io.Reader) (*SparseDesign, []float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		targets []float64
		entries []Entry
		maxCol  int
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		label, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, errors.Newf("line %d: invalid label %q", lineNo, fields[0])
		}
		row := len(targets)
		targets = append(targets, label)

		prevIdx := 0
		for _, f := range fields[1:] {
			sep := strings.IndexByte(f, ':')
			if sep <= 0 {
				return nil, nil, errors.Newf("line %d: malformed feature %q", lineNo, f)
			}
			idx, err := strconv.Atoi(f[:sep])
			if err != nil || idx < 1 {
				return nil, nil, errors.Wrapf(
					errors.NewValidationError("index", "must be a positive integer", f[:sep]),
					"line %d", lineNo)
			}
			if idx <= prevIdx {
				return nil, nil, errors.Newf("line %d: feature indices must be strictly increasing", lineNo)
			}
			prevIdx = idx
			val, err := strconv.ParseFloat(f[sep+1:], 64)
			if err != nil {
				return nil, nil, errors.Wrapf(
					errors.NewValidationError("value", "must be a number", f[sep+1:]),
					"line %d", lineNo)
			}
			if idx > maxCol {
				maxCol = idx
			}
			entries = append(entries, Entry{Row: row, Col: idx - 1, Value: val})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read data: %w", err)
	}

	if len(targets) == 0 {
		return nil, nil, errors.NewModelError("LoadLibSVM", "no samples found", errors.ErrEmptyData)
	}
	if maxCol == 0 {
		return nil, nil, errors.NewValueError("LoadLibSVM", "no features found")
	}

	design, err := NewSparseDesign(len(targets), maxCol, entries)
	if err != nil {
		return nil, nil, err
	}
	return design, targets, nil
}
