package cmd

import (
	"context"
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"v.io/x/lib/cmdline"

	hfileio "github.com/grailbio/haplograph/fileio"
	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/graphalgo"
	"github.com/grailbio/haplograph/pseudohap"
)

type pseudoHapFlags struct {
	graphPath  *string
	outPath    *string
	colorsPath *string
	sanitize   *bool

	maxBubbleLength *int
	maxBubbleDiff   *int
	maxBubbleCount  *int
	uniqueBlockLen  *int
}

func newCmdPseudoHap() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "pseudohap",
		Short:    "Decompose an assembly graph into a single primary pseudo-haplotype",
		ArgsName: "",
	}
	def := pseudohap.DefaultParams()
	f := pseudoHapFlags{
		graphPath:  cmd.Flags.String("graph", "", "Input assembly graph, GFA-like S/L lines"),
		outPath:    cmd.Flags.String("out", "pseudohap.blocks.txt", "Output block-table path"),
		colorsPath: cmd.Flags.String("colors-out", "pseudohap.colors.tsv", "Output per-segment primary/alt coloring path"),
		sanitize:   cmd.Flags.Bool("sanitize", false, "Tolerate and normalize overlap/duplicate-link irregularities in the input graph"),

		maxBubbleLength: cmd.Flags.Int("max-bubble-length", def.Bubble.MaxLength, "Maximum superbubble path length considered during block extension"),
		maxBubbleDiff:   cmd.Flags.Int("max-bubble-diff", def.Bubble.MaxDiff, "Maximum superbubble min/max length difference considered during block extension"),
		maxBubbleCount:  cmd.Flags.Int("max-bubble-count", def.Bubble.MaxCount, "Maximum vertices visited while searching for a superbubble"),
		uniqueBlockLen:  cmd.Flags.Int("unique-block-len", def.UniqueBlockLen, "Minimum instance-path length for a segment or bubble chain to seed or continue a primary block"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("pseudohap takes no positional arguments, but got %v", argv)
		}
		return runPseudoHap(f)
	})
	return cmd
}

func runPseudoHap(f pseudoHapFlags) error {
	ctx := context.Background()
	g, err := loadGraphFlag(ctx, *f.graphPath, *f.sanitize)
	if err != nil {
		return err
	}

	params := pseudohap.Params{
		Bubble: graphalgo.SbSearchParams{
			MaxLength: *f.maxBubbleLength,
			MaxDiff:   *f.maxBubbleDiff,
			MaxCount:  *f.maxBubbleCount,
		},
		UniqueBlockLen: *f.uniqueBlockLen,
	}
	blocks := pseudohap.Decompose(g, params)
	log.Printf("pseudohap: decomposed graph into %d blocks", len(blocks))

	if err := writeBlocks(ctx, g, blocks, *f.outPath); err != nil {
		return err
	}
	return writeColors(ctx, g, blocks, *f.colorsPath)
}

// primaryAltLabels classifies every segment as PRIMARY, PRIMARY_BOUNDARY,
// ALT, or NA: ALT wins over PRIMARY when a segment is a known alternate in
// one block but the instance path of another (the conservative call,
// since it flags a segment a downstream viewer should treat with
// suspicion); PRIMARY_BOUNDARY marks an instance segment directly linked
// to an ALT segment, so a viewer can highlight where a block's alternate
// content rejoins the primary path.
const (
	colorPrimary         = "#8888FF"
	colorPrimaryBoundary = "#fbb117"
	colorAlt             = "#FF8888"
	colorNA              = "#808080"
)

func primaryAltLabels(g *gfa.Graph, blocks []*pseudohap.Block) (label map[int]string, color map[int]string) {
	label = make(map[int]string)
	color = make(map[int]string)
	primary := make(map[int]bool)
	alt := make(map[int]bool)
	for _, b := range blocks {
		for _, v := range b.Path().Vertices() {
			primary[v.Segment] = true
		}
		for _, segID := range b.KnownAltSegments() {
			alt[segID] = true
		}
	}
	for segID := range g.Segments {
		switch {
		case alt[segID]:
			label[segID], color[segID] = "ALT", colorAlt
		case primary[segID] && hasAltNeighbor(g, segID, alt):
			label[segID], color[segID] = "PRIMARY_BOUNDARY", colorPrimaryBoundary
		case primary[segID]:
			label[segID], color[segID] = "PRIMARY", colorPrimary
		default:
			label[segID], color[segID] = "NA", colorNA
		}
	}
	return label, color
}

func hasAltNeighbor(g *gfa.Graph, segID int, alt map[int]bool) bool {
	for _, dir := range []gfa.Direction{gfa.Forward, gfa.Reverse} {
		v := gfa.Vertex{Segment: segID, Direction: dir}
		for _, l := range g.OutgoingEdges(v) {
			if alt[l.End.Segment] {
				return true
			}
		}
		for _, l := range g.IncomingEdges(v) {
			if alt[l.Start.Segment] {
				return true
			}
		}
	}
	return false
}

func writeColors(ctx context.Context, g *gfa.Graph, blocks []*pseudohap.Block, path string) error {
	w, err := hfileio.Create(ctx, path)
	if err != nil {
		return err
	}
	defer w.Close() // nolint: errcheck
	label, color := primaryAltLabels(g, blocks)
	for segID, seg := range g.Segments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", seg.Name, label[segID], color[segID])
	}
	return nil
}

func writeBlocks(ctx context.Context, g *gfa.Graph, blocks []*pseudohap.Block, path string) error {
	w, err := hfileio.Create(ctx, path)
	if err != nil {
		return err
	}
	defer w.Close() // nolint: errcheck
	fmt.Fprintln(w, "block\tpath\tinstance_segments\talt_segments")
	for i, b := range blocks {
		fmt.Fprintf(w, "block_%06d\t%s\t%s\t%s\n",
			i, b.Path().Print(g), segmentNames(g, instanceSegments(b)), segmentNames(g, b.KnownAltSegments()))
	}
	return nil
}

func instanceSegments(b *pseudohap.Block) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range b.Path().Vertices() {
		if !seen[v.Segment] {
			seen[v.Segment] = true
			out = append(out, v.Segment)
		}
	}
	return out
}

func segmentNames(g *gfa.Graph, ids []int) string {
	if len(ids) == 0 {
		return "."
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = g.Segments[id].Name
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "," + n
	}
	return out
}
