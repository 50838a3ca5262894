package review

import (
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PlannerSuite struct {
	suite.Suite
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerSuite))
}

func (s *PlannerSuite) TestPlan_DescendingScenario() {
	parsed := Parse("Line 2: missing check\nLine 4: unclear name", abcde, "//")

	planned := Plan(parsed)

	s.Equal([]Insertion{
		{LineNumber: 3, CommentText: "// unclear name", Context: "d"},
		{LineNumber: 1, CommentText: "// missing check", Context: "b"},
	}, planned)
}

func (s *PlannerSuite) TestPlan_DoesNotMutateInput() {
	in := []Insertion{{LineNumber: 1}, {LineNumber: 5}, {LineNumber: 3}}
	orig := slices.Clone(in)

	_ = Plan(in)

	s.Equal(orig, in)
}

func (s *PlannerSuite) TestPlan_TiesKeepInputOrder() {
	in := []Insertion{
		{LineNumber: 2, CommentText: "// a"},
		{LineNumber: 7, CommentText: "// b"},
		{LineNumber: 2, CommentText: "// c"},
		{LineNumber: 2, CommentText: "// d"},
	}

	planned := Plan(in)

	s.Len(planned, 4)
	s.Equal([]string{"// b", "// a", "// c", "// d"}, texts(planned))
}

func (s *PlannerSuite) TestPlan_Empty() {
	s.Empty(Plan(nil))
	s.True(IsApplicationOrder(nil))
}

func (s *PlannerSuite) TestIsApplicationOrder() {
	s.True(IsApplicationOrder([]Insertion{{LineNumber: 4}, {LineNumber: 4}, {LineNumber: 0}}))
	s.False(IsApplicationOrder([]Insertion{{LineNumber: 1}, {LineNumber: 3}}))
}

// Applying a plan to a model buffer must put each comment directly above the
// original line it targets.
func (s *PlannerSuite) TestPlan_DriftSafetyProperty() {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := 1 + r.Intn(40)
		source := make([]string, n)
		for i := range source {
			source[i] = "src-" + string(rune('A'+i%26)) + "-" + itoa(i)
		}

		// distinct targets
		targets := r.Perm(n)[:1+r.Intn(n)]
		ins := make([]Insertion, len(targets))
		for i, t := range targets {
			ins[i] = Insertion{LineNumber: t, CommentText: "// c" + itoa(t)}
		}

		planned := Plan(ins)
		s.Require().True(IsApplicationOrder(planned))

		buf := slices.Clone(source)
		for _, p := range planned {
			// the anchor of every pending insertion is still where it was
			s.Require().Equal(source[p.LineNumber], buf[p.LineNumber])
			buf = slices.Insert(buf, p.LineNumber, p.CommentText)
		}

		for _, t := range targets {
			idx := slices.Index(buf, source[t])
			s.Require().Greater(idx, 0)
			s.Require().Equal("// c"+itoa(t), buf[idx-1])
		}
		s.Require().Len(buf, n+len(targets))
	}
}

func (s *PlannerSuite) TestPlan_StackedCommentsAtSameLine() {
	planned := Plan([]Insertion{
		{LineNumber: 1, CommentText: "// first"},
		{LineNumber: 1, CommentText: "// second"},
	})

	buf := []string{"a", "b"}
	for _, p := range planned {
		buf = slices.Insert(buf, p.LineNumber, p.CommentText)
	}

	// later remark ends up on top
	s.Equal([]string{"a", "// second", "// first", "b"}, buf)
}

func (s *PlannerSuite) TestPreview_DiscoveryOrderWithContext() {
	parsed := Parse("Line 4: unclear name\nLine 2: missing check", abcde, "//")

	out := Preview(parsed, abcde)

	s.Equal(
		"#1 line 4\n// unclear name\ncontext: d\n"+previewRule+"\n#2 line 2\n// missing check\ncontext: b",
		out,
	)
}

func (s *PlannerSuite) TestPreview_RangeShowsFirstContextLine() {
	src := []string{"  func a() {", "    return", "  }"}
	parsed := Parse("Lines 1-3: empty body", src, "//")

	out := Preview(parsed, src)

	s.Contains(out, "context: func a() {")
	s.NotContains(out, "return")
}

func (s *PlannerSuite) TestPreview_FallbackShowsLineAbove() {
	parsed := Parse("No line references here, just prose.", abcde, "#")

	out := Preview(parsed, abcde)

	s.True(strings.HasPrefix(out, "#1 line 1\n#\n# REVIEW:"))
	s.Contains(out, "above: a")
	s.NotContains(out, previewRule)
}

func (s *PlannerSuite) TestPreview_Empty() {
	s.Equal("", Preview(nil, abcde))
}

func texts(ins []Insertion) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.CommentText
	}
	return out
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
