package cmd

import (
	"context"
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"v.io/x/lib/cmdline"

	hfileio "github.com/grailbio/haplograph/fileio"
	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/trio"
	"github.com/grailbio/haplograph/walk"
)

// trioFlags collects every knob of the trio subcommand, flattened the way
// the Rust CLI's settings struct was: one flag per threshold, each with the
// original default.
type trioFlags struct {
	graphPath      *string
	matPath        *string
	patPath        *string
	initAssignPath *string
	outPrefix      *string
	gafOutput      *bool
	sanitize       *bool
	augment        *bool

	markerCnt      *int
	markerSparsity *float64
	markerRatio    *float64
	highCnt        *int
	moderateCnt    *int
	lowCnt         *int
	issueCnt       *int
	issueSparsity  *float64
	issueRatio     *float64

	trustedLen             *int
	homozygousMaxLen       *int
	coverageGateMultiplier *float64

	solidLen           *int
	fillableBubbleLen  *int
	fillableBubbleDiff *int
	ambigFillingLevel  *int
	maxUniqueCov       *float64
	minGapSize         *int
	defaultGapSize     *int
}

func newCmdTrio() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "trio",
		Short:    "Classify segments by parental haplotype and extract haplotype paths",
		ArgsName: "",
	}
	def := walk.DefaultSettings()
	f := trioFlags{
		graphPath:      cmd.Flags.String("graph", "", "Input assembly graph, GFA-like S/L lines"),
		matPath:        cmd.Flags.String("maternal-markers", "", "Maternal marker-count table (name, maternal_count, paternal_count)"),
		patPath:        cmd.Flags.String("paternal-markers", "", "Paternal marker-count table, same format as -maternal-markers"),
		initAssignPath: cmd.Flags.String("init-assignments", "", "Resume from a previously-written assignment table instead of reading marker tables"),
		outPrefix:      cmd.Flags.String("out-prefix", "trio", "Prefix for output files: <prefix>.assignments.tsv, <prefix>.paths.txt"),
		gafOutput:      cmd.Flags.Bool("gaf", false, "Emit paths in GAF-like format instead of the default comma format"),
		sanitize:       cmd.Flags.Bool("sanitize", false, "Tolerate and normalize overlap/duplicate-link irregularities in the input graph"),
		augment:        cmd.Flags.Bool("path-search", true, "Run the two-round trio-aware path search to extend assignments"),

		markerCnt:      cmd.Flags.Int("marker-cnt", 10, "Minimum marker count to assign a parental group"),
		markerSparsity: cmd.Flags.Float64("marker-sparsity", 10000, "Maximum segment length per supporting marker"),
		markerRatio:    cmd.Flags.Float64("marker-ratio", 5.0, "Minimum ratio of winning to losing marker counts"),
		highCnt:        cmd.Flags.Int("high-cnt", 50, "Marker count at or above which confidence is HIGH"),
		moderateCnt:    cmd.Flags.Int("moderate-cnt", 20, "Marker count at or above which confidence is MODERATE"),
		lowCnt:         cmd.Flags.Int("low-cnt", 5, "Marker count at or above which confidence is LOW"),
		issueCnt:       cmd.Flags.Int("issue-marker-cnt", 2, "Looser marker count threshold for flagging ISSUE segments"),
		issueSparsity:  cmd.Flags.Float64("issue-marker-sparsity", 20000, "Looser sparsity threshold for ISSUE segments"),
		issueRatio:     cmd.Flags.Float64("issue-marker-ratio", 1, "Looser ratio threshold for ISSUE segments"),

		trustedLen:             cmd.Flags.Int("trusted-len", 200_000, "Minimum segment length trusted for homozygous reclassification and topology search"),
		homozygousMaxLen:       cmd.Flags.Int("homozygous-max-len", 1_000_000, "Maximum segment length eligible for homozygous reclassification"),
		coverageGateMultiplier: cmd.Flags.Float64("coverage-gate-multiplier", 1.5, "Coverage multiplier gating homozygous reclassification; 0 disables the gate"),

		solidLen:           cmd.Flags.Int("solid-len", def.SolidLen, "Minimum segment length to seed and jump across during path search"),
		fillableBubbleLen:  cmd.Flags.Int("fillable-bubble-len", def.FillableBubbleLen, "Maximum extra bubble length eligible for AMBIG filling"),
		fillableBubbleDiff: cmd.Flags.Int("fillable-bubble-diff", def.FillableBubbleDiff, "Maximum bubble min/max length difference eligible for AMBIG filling"),
		ambigFillingLevel:  cmd.Flags.Int("ambig-filling-level", def.AmbigFillingLevel, "Enable small-bubble AMBIG filling when > 0"),
		maxUniqueCov:       cmd.Flags.Float64("max-unique-cov", def.MaxUniqueCov, "Coverage ceiling for the bubble/gap-fill uniqueness gate; negative disables it"),
		minGapSize:         cmd.Flags.Int("min-gap-size", def.MinGapSize, "Floor applied to an estimated GAP size"),
		defaultGapSize:     cmd.Flags.Int("default-gap-size", def.DefaultGapSize, "Fallback GAP size when none can be estimated"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("trio takes no positional arguments, but got %v", argv)
		}
		return runTrio(f)
	})
	return cmd
}

func runTrio(f trioFlags) error {
	ctx := context.Background()
	g, err := loadGraphFlag(ctx, *f.graphPath, *f.sanitize)
	if err != nil {
		return err
	}

	thresholds := trio.Thresholds{
		MarkerCnt:           *f.markerCnt,
		MarkerSparsity:      *f.markerSparsity,
		MarkerRatio:         *f.markerRatio,
		HighCnt:             *f.highCnt,
		ModerateCnt:         *f.moderateCnt,
		LowCnt:              *f.lowCnt,
		IssueMarkerCnt:      *f.issueCnt,
		IssueMarkerSparsity: *f.issueSparsity,
		IssueMarkerRatio:    *f.issueRatio,
	}
	var storage *trio.Storage
	if *f.initAssignPath != "" {
		storage, err = loadInitAssignments(ctx, g, *f.initAssignPath)
		if err != nil {
			return err
		}
		log.Printf("trio: resumed %d segment assignments from %s", len(storage.Segments()), *f.initAssignPath)
	} else {
		storage = trio.NewStorage()
		if err := loadMarkerAssignments(ctx, g, storage, *f.matPath, *f.patPath, thresholds); err != nil {
			return err
		}
		log.Printf("trio: classified %d segments from marker tables", len(storage.Segments()))
	}

	homozygous := trio.NewHomozygousAssigner(trio.HomozygousParams{
		TrustedLen:             *f.trustedLen,
		HomozygousMaxLen:       *f.homozygousMaxLen,
		CoverageGateMultiplier: *f.coverageGateMultiplier,
	})
	homozygous.Run(g, storage)

	settings := walk.Settings{
		SolidLen:           *f.solidLen,
		TrustedLen:         *f.trustedLen,
		FillableBubbleLen:  *f.fillableBubbleLen,
		FillableBubbleDiff: *f.fillableBubbleDiff,
		AmbigFillingLevel:  *f.ambigFillingLevel,
		MaxUniqueCov:       *f.maxUniqueCov,
		MinGapSize:         *f.minGapSize,
		DefaultGapSize:     *f.defaultGapSize,
	}

	var results []walk.Result
	if *f.augment {
		results, storage = walk.AugmentByPathSearch(g, storage, settings)
	} else {
		searcher := walk.NewSearcher(g, storage, settings)
		results = searcher.FindAll()
	}
	log.Printf("trio: emitted %d haplotype paths", len(results))

	if err := writeAssignments(ctx, g, storage, *f.outPrefix+".assignments.tsv"); err != nil {
		return err
	}
	if err := writePaths(ctx, g, storage, results, *f.outPrefix+".paths.txt", *f.gafOutput); err != nil {
		return err
	}
	return nil
}

func loadGraphFlag(ctx context.Context, path string, sanitize bool) (*gfa.Graph, error) {
	r, err := hfileio.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close() // nolint: errcheck
	if sanitize {
		return gfa.LoadSanitize(r)
	}
	return gfa.Load(r)
}

func loadMarkerAssignments(ctx context.Context, g *gfa.Graph, storage *trio.Storage, matPath, patPath string, t trio.Thresholds) error {
	matRecs, err := readMarkerFile(ctx, matPath)
	if err != nil {
		return err
	}
	patRecs, err := readMarkerFile(ctx, patPath)
	if err != nil {
		return err
	}
	merged := mergeMarkerRecords(matRecs, patRecs)
	trio.AssignAll(storage, g.IDByName, func(id int) int { return g.Segments[id].Length }, merged, t)
	return nil
}

// mergeMarkerRecords combines separately-counted maternal and paternal
// marker tables into one record per segment, the shape trio.AssignAll
// expects. A segment present in only one table is treated as having zero
// markers from the other parent.
func mergeMarkerRecords(mat, pat []trio.MarkerRecord) []trio.MarkerRecord {
	byName := make(map[string]*trio.MarkerRecord)
	var order []string
	for _, r := range mat {
		rec := trio.MarkerRecord{Name: r.Name, MaternalCount: r.MaternalCount}
		byName[r.Name] = &rec
		order = append(order, r.Name)
	}
	for _, r := range pat {
		if rec, ok := byName[r.Name]; ok {
			rec.PaternalCount = r.PaternalCount
			continue
		}
		rec := trio.MarkerRecord{Name: r.Name, PaternalCount: r.PaternalCount}
		byName[r.Name] = &rec
		order = append(order, r.Name)
	}
	out := make([]trio.MarkerRecord, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

func loadInitAssignments(ctx context.Context, g *gfa.Graph, path string) (*trio.Storage, error) {
	r, err := hfileio.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close() // nolint: errcheck
	return trio.ParseAssignments(r, g.IDByName)
}

func readMarkerFile(ctx context.Context, path string) ([]trio.MarkerRecord, error) {
	if path == "" {
		return nil, nil
	}
	r, err := hfileio.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close() // nolint: errcheck
	return trio.ReadMarkers(r)
}

// assignmentColor returns the downstream-viewer color for a definite or
// homozygous group, per the fixed palette.
func assignmentColor(group trio.Group) string {
	switch group {
	case trio.Paternal:
		return "#8888FF"
	case trio.Maternal:
		return "#FF8888"
	case trio.Issue:
		return "#FFDE24"
	case trio.Homozygous:
		return "#7900D6"
	default:
		return ""
	}
}

func writeAssignments(ctx context.Context, g *gfa.Graph, storage *trio.Storage, path string) error {
	w, err := hfileio.Create(ctx, path)
	if err != nil {
		return err
	}
	defer w.Close() // nolint: errcheck
	for segID, seg := range g.Segments {
		a := storage.Get(segID)
		if a.Group == trio.Unassigned {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", seg.Name, a.Group, seg.Length, a.Info, assignmentColor(a.Group))
	}
	return nil
}

// writePaths emits one row per searched haplotype walk, then a trivial
// length-1 row for every segment that carries a definite or homozygous
// assignment but was never covered by one of those walks. Every definite or
// homozygous segment therefore appears at least once; a segment covered by
// several walks appears once per walk, and ISSUE or unassigned segments
// outside the walks are not listed.
func writePaths(ctx context.Context, g *gfa.Graph, storage *trio.Storage, results []walk.Result, path string, gaf bool) error {
	w, err := hfileio.Create(ctx, path)
	if err != nil {
		return err
	}
	defer w.Close() // nolint: errcheck

	covered := make(map[int]bool)
	for i, r := range results {
		for _, v := range r.Path.Vertices() {
			covered[v.Segment] = true
		}
		fmt.Fprintf(w, "haplotype_%06d\t%s\t%s\n", i, r.Path.PrintFormat(g, gaf), r.Group)
	}
	for segID, seg := range g.Segments {
		if covered[segID] {
			continue
		}
		a := storage.Get(segID)
		if a.Group != trio.Homozygous && !a.Group.IsDefinite() {
			continue
		}
		trivial := gfa.NewPath(gfa.Vertex{Segment: segID, Direction: gfa.Forward})
		fmt.Fprintf(w, "_unused_%s\t%s\t%s\n", seg.Name, trivial.PrintFormat(g, gaf), a.Group)
	}
	return nil
}
