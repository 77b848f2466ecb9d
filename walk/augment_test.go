package walk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/haplograph/trio"
)

func TestAugmentByPathSearchBlendsUsageIntoStorage(t *testing.T) {
	g := loadGraph(t, strings.Join([]string{
		"S\ta\t*\tLN:i:2000",
		"S\tb\t*\tLN:i:2000",
		"S\tc\t*\tLN:i:2000",
		"L\ta\t+\tb\t+\t50M",
		"L\tb\t+\tc\t+\t50M",
		"",
	}, "\n"))
	storage := trio.NewStorage()
	setAssignment(t, g, storage, "a", trio.Maternal)

	results, final := AugmentByPathSearch(g, storage, testSettings())
	require.Len(t, results, 1)
	assert.Equal(t, trio.Maternal, final.Get(mustID(t, g, "b")).Group)
	assert.Equal(t, trio.Maternal, final.Get(mustID(t, g, "c")).Group)
	// The original seed keeps its group and its higher confidence.
	assert.Equal(t, trio.High, final.Get(mustID(t, g, "a")).Confidence)
}

func TestMergeUsageKeepsExistingHomozygousOverPathSearchGroup(t *testing.T) {
	storage := trio.NewStorage()
	storage.Set(5, trio.Assignment{Group: trio.Homozygous, Confidence: trio.High})
	used := NewUsageMap()
	used.Mark(5, trio.Maternal)

	out := mergeUsage(storage, used)
	assert.Equal(t, trio.Homozygous, out.Get(5).Group)
}
