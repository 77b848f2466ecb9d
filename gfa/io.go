package gfa

import (
	"bufio"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

const (
	tagLength   = "LN:i:"
	tagReadCnt  = "RC:i:"
	tagCoverage = "ll:f:"
)

// Load parses a GFA-like graph in strict mode: overlaps that exceed
// min(segment lengths)-1 are fatal, and duplicate links between the same
// ordered vertex pair are all kept.
func Load(r io.Reader) (*Graph, error) {
	return load(r, false, false)
}

// LoadSanitize parses a GFA-like graph in sanitizing mode: too-long overlaps
// are clamped with a warning, and duplicate links between the same ordered
// vertex pair are collapsed (first overlap wins; a warning is logged if the
// overlap sizes differ).
func LoadSanitize(r io.Reader) (*Graph, error) {
	return load(r, true, true)
}

func load(r io.Reader, collapseMultiEdges, normalizeOverlaps bool) (*Graph, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "gfa: reading graph")
	}
	lines := strings.Split(string(data), "\n")

	g := NewGraph()
	for _, line := range lines {
		if !strings.HasPrefix(line, "S\t") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, errors.Errorf("gfa: malformed segment line %q", line)
		}
		name := fields[1]
		var length int
		if fields[2] != "*" {
			length = len(strings.TrimSpace(fields[2]))
		} else {
			l, ok, perr := parseIntTag(fields[3:], tagLength)
			if perr != nil {
				return nil, perr
			}
			if !ok {
				return nil, errors.Errorf("gfa: segment %s has neither sequence nor LN tag", name)
			}
			length = l
		}
		if length <= 0 {
			return nil, errors.Errorf("gfa: segment %s has non-positive length", name)
		}
		coverage := 0.0
		if readCnt, ok, perr := parseIntTag(fields[3:], tagReadCnt); perr != nil {
			return nil, perr
		} else if ok {
			coverage = float64(readCnt) / float64(length)
		} else if cov, ok, perr := parseFloatTag(fields[3:], tagCoverage); perr != nil {
			return nil, perr
		} else if ok {
			coverage = cov
		}
		g.AddSegment(Segment{Name: name, Length: length, Coverage: coverage})
	}

	for _, line := range lines {
		if !strings.HasPrefix(line, "L\t") {
			continue
		}
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) < 6 {
			return nil, errors.Errorf("gfa: malformed link line %q", line)
		}
		start, err := parseVertex(g, fields[1], fields[2])
		if err != nil {
			return nil, err
		}
		end, err := parseVertex(g, fields[3], fields[4])
		if err != nil {
			return nil, err
		}
		overlap, err := parseOverlap(fields[5])
		if err != nil {
			return nil, err
		}
		if collapseMultiEdges {
			if connect, ok := g.Connector(start, end); ok {
				if connect.Overlap != overlap {
					log.Printf("gfa: multiple links connecting %s and %s with different overlap sizes (%d and %d)",
						g.VertexString(start), g.VertexString(end), overlap, connect.Overlap)
				}
				continue
			}
		}
		maxOvl := min(g.VertexLength(start), g.VertexLength(end)) - 1
		if overlap > maxOvl {
			if !normalizeOverlaps {
				return nil, errors.Errorf("gfa: invalid (too long) overlap of size %d between %s and %s",
					overlap, g.VertexString(start), g.VertexString(end))
			}
			log.Printf("gfa: normalizing overlap between %s and %s (%d -> %d)",
				g.VertexString(start), g.VertexString(end), overlap, maxOvl)
			overlap = maxOvl
		}
		g.AddLink(Link{Start: start, End: end, Overlap: overlap})
	}
	log.Printf("Graph checksum: %x", g.Fingerprint())
	return g, nil
}

func parseVertex(g *Graph, name, dir string) (Vertex, error) {
	id, ok := g.IDByName(name)
	if !ok {
		return Vertex{}, errors.Errorf("gfa: segment %q is not in the graph", name)
	}
	d, err := ParseDirection(dir)
	if err != nil {
		return Vertex{}, err
	}
	return Vertex{Segment: id, Direction: d}, nil
}

func parseOverlap(cigar string) (int, error) {
	if !strings.HasSuffix(cigar, "M") {
		return 0, errors.Errorf("gfa: invalid overlap %q", cigar)
	}
	n, err := strconv.Atoi(strings.TrimSpace(cigar[:len(cigar)-1]))
	if err != nil {
		return 0, errors.Wrapf(err, "gfa: invalid overlap %q", cigar)
	}
	return n, nil
}

func parseIntTag(fields []string, prefix string) (int, bool, error) {
	for _, f := range fields {
		if strings.HasPrefix(f, prefix) {
			n, err := strconv.Atoi(f[len(prefix):])
			if err != nil {
				return 0, false, errors.Wrapf(err, "gfa: couldn't parse tag %q", f)
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

func parseFloatTag(fields []string, prefix string) (float64, bool, error) {
	for _, f := range fields {
		if strings.HasPrefix(f, prefix) {
			v, err := strconv.ParseFloat(f[len(prefix):], 64)
			if err != nil {
				return 0, false, errors.Wrapf(err, "gfa: couldn't parse tag %q", f)
			}
			return v, true, nil
		}
	}
	return 0, false, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Serialize emits the graph back in the textual GFA-like format; every link
// is emitted exactly once, in its stored canonical direction.
func Serialize(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range g.Segments {
		readCnt := uint64(s.Coverage*float64(s.Length) + 0.5)
		if _, err := bw.WriteString("S\t" + s.Name + "\t*\t" +
			tagLength + strconv.Itoa(s.Length) + "\t" +
			tagReadCnt + strconv.FormatUint(readCnt, 10) + "\t" +
			tagCoverage + strconv.FormatFloat(s.Coverage, 'f', 1, 64) + "\n"); err != nil {
			return errors.Wrap(err, "gfa: writing segment")
		}
	}
	for _, l := range g.AllLinks() {
		if _, err := bw.WriteString("L\t" +
			g.Segments[l.Start.Segment].Name + "\t" + l.Start.Direction.String() + "\t" +
			g.Segments[l.End.Segment].Name + "\t" + l.End.Direction.String() + "\t" +
			strconv.Itoa(l.Overlap) + "M\n"); err != nil {
			return errors.Wrap(err, "gfa: writing link")
		}
	}
	return bw.Flush()
}
