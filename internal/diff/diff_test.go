package diff

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute_InsertedComments(t *testing.T) {
	before := []string{"a", "b", "c", "d", "e"}
	after := []string{"a", "// missing check", "b", "c", "// unclear name", "d", "e"}

	fd := Compute("src/x.ts", before, after)

	require.Len(t, fd.Hunks, 1)
	added, removed := fd.Stats()
	require.Equal(t, 2, added)
	require.Equal(t, 0, removed)

	require.Equal(t,
		"--- a/src/x.ts\n"+
			"+++ b/src/x.ts\n"+
			"@@ -1,5 +1,7 @@\n"+
			" a\n"+
			"+// missing check\n"+
			" b\n"+
			" c\n"+
			"+// unclear name\n"+
			" d\n"+
			" e\n",
		fd.Unified(),
	)
}

func TestCompute_FarApartChangesSplitIntoHunks(t *testing.T) {
	var before []string
	for i := 1; i <= 30; i++ {
		before = append(before, fmt.Sprintf("line%d", i))
	}
	after := append([]string{"// top"}, before...)
	after = append(after[:26], append([]string{"// bottom"}, after[26:]...)...)

	fd := Compute("f.go", before, after)

	require.Len(t, fd.Hunks, 2)

	first := fd.Hunks[0]
	require.Equal(t, 1, first.OldStart)
	require.Equal(t, 1, first.NewStart)
	require.Equal(t, Added, first.Lines[0].Type)
	require.Len(t, first.Lines, 1+ContextLines)

	second := fd.Hunks[1]
	require.Equal(t, 2*ContextLines+1, len(second.Lines))
	require.Equal(t, Added, second.Lines[ContextLines].Type)
	require.Equal(t, "// bottom", second.Lines[ContextLines].Content)
	require.Equal(t, 23, second.OldStart)
	require.Equal(t, 24, second.NewStart)
}

func TestCompute_RemovedLines(t *testing.T) {
	fd := Compute("f.py", []string{"a", "b", "c"}, []string{"a", "c"})

	added, removed := fd.Stats()
	require.Equal(t, 0, added)
	require.Equal(t, 1, removed)
	require.Contains(t, fd.Unified(), "@@ -1,3 +1,2 @@\n a\n-b\n c\n")
}

func TestCompute_NoChanges(t *testing.T) {
	fd := Compute("f.py", []string{"a"}, []string{"a"})

	require.Empty(t, fd.Hunks)
	require.Equal(t, "", fd.Unified())
}

func TestCompute_FromEmpty(t *testing.T) {
	fd := Compute("f.py", nil, []string{"# REVIEW:"})

	require.Len(t, fd.Hunks, 1)
	require.Equal(t, "--- a/f.py\n+++ b/f.py\n@@ -0,0 +1,1 @@\n+# REVIEW:\n", fd.Unified())
}
