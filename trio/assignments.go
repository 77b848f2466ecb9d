package trio

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ParseAssignments re-reads a previously-written assignment table (name,
// group, length, info, color) and records each row's group into storage,
// so a later run can resume from a prior classification instead of
// starting over from markers. The length and color columns are ignored;
// confidence is not recoverable from the table and is set to Inconclusive.
func ParseAssignments(r io.Reader, idByName func(name string) (int, bool)) (*Storage, error) {
	storage := NewStorage()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, errors.Errorf("assignment line %d: expected at least 2 fields, got %d", lineNo, len(fields))
		}
		id, ok := idByName(fields[0])
		if !ok {
			continue
		}
		group, ok := parseGroup(fields[1])
		if !ok {
			return nil, errors.Errorf("assignment line %d: unrecognized group %q", lineNo, fields[1])
		}
		info := ""
		if len(fields) > 3 {
			info = fields[3]
		}
		storage.Set(id, Assignment{Group: group, Confidence: Inconclusive, Info: info})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading assignment table")
	}
	return storage, nil
}

func parseGroup(s string) (Group, bool) {
	switch s {
	case "MATERNAL":
		return Maternal, true
	case "PATERNAL":
		return Paternal, true
	case "HOMOZYGOUS":
		return Homozygous, true
	case "ISSUE":
		return Issue, true
	case "UNASSIGNED":
		return Unassigned, true
	default:
		return Unassigned, false
	}
}
