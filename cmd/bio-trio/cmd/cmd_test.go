package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/haplograph/gfa"
	"github.com/grailbio/haplograph/pseudohap"
	"github.com/grailbio/haplograph/trio"
)

func loadGraph(t *testing.T, text string) *gfa.Graph {
	t.Helper()
	g, err := gfa.Load(strings.NewReader(text))
	require.NoError(t, err)
	return g
}

func TestMergeMarkerRecordsUnionsByName(t *testing.T) {
	mat := []trio.MarkerRecord{{Name: "a", MaternalCount: 10}, {Name: "b", MaternalCount: 3}}
	pat := []trio.MarkerRecord{{Name: "b", PaternalCount: 7}, {Name: "c", PaternalCount: 4}}
	merged := mergeMarkerRecords(mat, pat)
	byName := make(map[string]trio.MarkerRecord)
	for _, r := range merged {
		byName[r.Name] = r
	}
	require.Len(t, merged, 3)
	assert.Equal(t, trio.MarkerRecord{Name: "a", MaternalCount: 10, PaternalCount: 0}, byName["a"])
	assert.Equal(t, trio.MarkerRecord{Name: "b", MaternalCount: 3, PaternalCount: 7}, byName["b"])
	assert.Equal(t, trio.MarkerRecord{Name: "c", MaternalCount: 0, PaternalCount: 4}, byName["c"])
}

func TestAssignmentColorMatchesFixedPalette(t *testing.T) {
	assert.Equal(t, "#8888FF", assignmentColor(trio.Paternal))
	assert.Equal(t, "#FF8888", assignmentColor(trio.Maternal))
	assert.Equal(t, "#FFDE24", assignmentColor(trio.Issue))
	assert.Equal(t, "#7900D6", assignmentColor(trio.Homozygous))
	assert.Equal(t, "", assignmentColor(trio.Unassigned))
}

func TestPrimaryAltLabelsMarksBoundaryBetweenPrimaryAndAlt(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:1000",
		"S\tb\t*\tLN:i:50",
		"S\tc\t*\tLN:i:1000",
		"S\td\t*\tLN:i:1000",
		"L\ta\t+\tb\t+\t50M",
		"L\ta\t+\td\t+\t50M",
		"L\tb\t+\tc\t+\t25M",
		"L\td\t+\tc\t+\t50M",
		"",
	}, "\n"))
	params := pseudohap.DefaultParams()
	params.Bubble.MaxDiff = 2000
	params.UniqueBlockLen = 100
	blocks := pseudohap.Decompose(g, params)
	label, color := primaryAltLabels(g, blocks)

	aID, _ := g.IDByName("a")
	bID, _ := g.IDByName("b")
	dID, _ := g.IDByName("d")
	assert.Equal(t, "PRIMARY_BOUNDARY", label[aID])
	assert.Equal(t, colorPrimaryBoundary, color[aID])
	assert.Equal(t, "ALT", label[bID])
	assert.Equal(t, colorAlt, color[bID])
	assert.Equal(t, "PRIMARY", label[dID])
	assert.Equal(t, colorPrimary, color[dID])
}
