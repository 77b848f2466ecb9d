package trio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MarkerRecord is one line of the marker-count table.
type MarkerRecord struct {
	Name          string
	MaternalCount int
	PaternalCount int
}

// ReadMarkers parses a tab-separated marker table: <name> <maternal_count>
// <paternal_count> per line. Lines whose first column is "node" or "contig"
// are a header and are skipped.
func ReadMarkers(r io.Reader) ([]MarkerRecord, error) {
	var out []MarkerRecord
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, errors.Errorf("marker line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		if fields[0] == "node" || fields[0] == "contig" {
			continue
		}
		mat, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "marker line %d: maternal count", lineNo)
		}
		pat, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "marker line %d: paternal count", lineNo)
		}
		out = append(out, MarkerRecord{Name: fields[0], MaternalCount: mat, PaternalCount: pat})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading marker table")
	}
	return out, nil
}

// Thresholds parameterizes parental-group and issue classification.
type Thresholds struct {
	MarkerCnt      int
	MarkerSparsity float64
	MarkerRatio    float64

	HighCnt     int
	ModerateCnt int
	LowCnt      int

	IssueMarkerCnt      int
	IssueMarkerSparsity float64
	IssueMarkerRatio    float64
}

// AssignParentalGroup classifies one segment's marker counts under t. It
// returns (Assignment{}, false) when neither the parental nor the issue
// criteria are met, meaning the segment should be left unassigned.
func AssignParentalGroup(length int, maternalCount, paternalCount int, t Thresholds) (Assignment, bool) {
	x, y := maternalCount, paternalCount
	group := Maternal
	if paternalCount > maternalCount {
		x, y = paternalCount, maternalCount
		group = Paternal
	}

	if meetsCriteria(length, x, y, t.MarkerCnt, t.MarkerSparsity, t.MarkerRatio) {
		return Assignment{Group: group, Confidence: confidenceFor(x, t), Info: ""}, true
	}
	if meetsCriteria(length, x, y, t.IssueMarkerCnt, t.IssueMarkerSparsity, t.IssueMarkerRatio) {
		return Assignment{Group: Issue, Confidence: Inconclusive, Info: ""}, true
	}
	return Assignment{}, false
}

func meetsCriteria(length, x, y, markerCnt int, sparsity, ratio float64) bool {
	if x < markerCnt {
		return false
	}
	if float64(length) > float64(x)*sparsity {
		return false
	}
	if float64(x) < float64(y)*ratio {
		return false
	}
	return true
}

func confidenceFor(x int, t Thresholds) Confidence {
	switch {
	case x >= t.HighCnt:
		return High
	case x >= t.ModerateCnt:
		return Moderate
	case x >= t.LowCnt:
		return Low
	default:
		return Inconclusive
	}
}

// AssignAll runs AssignParentalGroup for every marker record against the
// corresponding segment id (looked up by name) and records the result in
// storage. Records naming an unknown segment are skipped.
func AssignAll(storage *Storage, idByName func(name string) (int, bool), lengthOf func(id int) int, records []MarkerRecord, t Thresholds) {
	for _, rec := range records {
		id, ok := idByName(rec.Name)
		if !ok {
			continue
		}
		a, ok := AssignParentalGroup(lengthOf(id), rec.MaternalCount, rec.PaternalCount, t)
		if !ok {
			continue
		}
		storage.Set(id, a)
	}
}
