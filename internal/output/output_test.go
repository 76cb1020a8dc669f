package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/lint"
	"github.com/todoscan/todo-scan/internal/report"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/ui"
)

func TestMain(m *testing.M) {
	ui.ApplyColorPolicy(true)
	os.Exit(m.Run())
}

func sample() *types.Snapshot {
	return &types.Snapshot{
		FilesScanned: 3,
		Items: []types.Item{
			{File: "src/a.go", Line: 3, Tag: types.TagFixme, Message: "handle #42", Author: types.StringPtr("alice"), IssueRef: types.StringPtr("#42"), Priority: types.PriorityNormal},
			{File: "src/a.go", Line: 9, Tag: types.TagTodo, Message: "fix race", Priority: types.PriorityUrgent},
			{File: "lib/b.py", Line: 1, Tag: types.TagNote, Message: "a|b", Priority: types.PriorityNormal},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"text": FormatText, "JSON": FormatJSON, "md": FormatMarkdown,
		"markdown": FormatMarkdown, "github-actions": FormatGitHubActions, "github": FormatGitHubActions,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("sarif")
	assert.ErrorContains(t, err, `unknown format "sarif"`)
}

func TestListJSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, FormatJSON, sample(), ListOptions{}))

	want := `{
  "items": [
    {
      "file": "src/a.go",
      "line": 3,
      "tag": "FIXME",
      "message": "handle #42",
      "author": "alice",
      "issue_ref": "#42",
      "priority": "normal"
    },
    {
      "file": "src/a.go",
      "line": 9,
      "tag": "TODO",
      "message": "fix race",
      "author": null,
      "issue_ref": null,
      "priority": "urgent"
    },
    {
      "file": "lib/b.py",
      "line": 1,
      "tag": "NOTE",
      "message": "a|b",
      "author": null,
      "issue_ref": null,
      "priority": "normal"
    }
  ],
  "files_scanned": 3
}
`
	assert.Equal(t, want, buf.String())
}

func TestListJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, FormatJSON, &types.Snapshot{FilesScanned: 2}, ListOptions{}))
	assert.JSONEq(t, `{"items": [], "files_scanned": 2}`, buf.String())
}

func TestListTextGroups(t *testing.T) {
	tests := []struct {
		by      GroupBy
		headers []string
		summary string
	}{
		{GroupByFile, []string{"src/a.go", "lib/b.py"}, "3 items in 2 files"},
		{GroupByTag, []string{"FIXME", "TODO", "NOTE"}, "3 items in 3 groups"},
		{GroupByPriority, []string{"urgent", "normal"}, "3 items in 2 groups"},
		{GroupByAuthor, []string{"alice", noAuthor}, "3 items in 2 groups"},
		{GroupByDir, []string{"src", "lib"}, "3 items in 2 groups"},
	}
	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, List(&buf, FormatText, sample(), ListOptions{GroupBy: tt.by}))
			out := buf.String()

			var headers []string
			for _, line := range strings.Split(out, "\n") {
				if line != "" && !strings.HasPrefix(line, " ") && !strings.Contains(line, " items in ") {
					headers = append(headers, line)
				}
			}
			assert.Equal(t, tt.headers, headers)
			assert.True(t, strings.HasSuffix(out, tt.summary+"\n"), out)
		})
	}
}

func TestListTextItemLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, FormatText, sample(), ListOptions{GroupBy: GroupByFile}))
	assert.Contains(t, buf.String(), "  3: [FIXME] handle #42 (alice)\n")
	assert.Contains(t, buf.String(), "  9: [TODO]!! fix race\n")
}

func TestListMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, FormatMarkdown, sample(), ListOptions{}))
	out := buf.String()
	assert.Contains(t, out, "| File | Line | Tag | Priority | Message | Author | Issue |")
	assert.Contains(t, out, `| lib/b.py | 1 | NOTE | normal | a\|b |  |  |`)
}

func TestListGitHub(t *testing.T) {
	snap := &types.Snapshot{Items: []types.Item{
		{File: "a,b.go", Line: 2, Tag: types.TagBug, Message: "50% broken\nreally"},
		{File: "c.go", Line: 7, Tag: types.TagNote, Message: "fyi"},
	}}
	var buf bytes.Buffer
	require.NoError(t, List(&buf, FormatGitHubActions, snap, ListOptions{}))
	assert.Equal(t,
		"::error file=a%2Cb.go,line=2,title=BUG::50%25 broken%0Areally\n"+
			"::notice file=c.go,line=7,title=NOTE::fyi\n",
		buf.String())
}

func TestDiff(t *testing.T) {
	d := &types.DiffResult{
		Entries: []types.DiffEntry{
			{Status: types.DiffAdded, Item: types.Item{File: "a.go", Line: 4, Tag: types.TagTodo, Message: "new"}},
			{Status: types.DiffRemoved, Item: types.Item{File: "b.go", Line: 1, Tag: types.TagFixme, Message: "old"}},
		},
		AddedCount: 1, RemovedCount: 1, BaseRef: "main",
	}

	var text bytes.Buffer
	require.NoError(t, Diff(&text, FormatText, d))
	assert.Equal(t, "+ a.go:4 [TODO] new\n- b.go:1 [FIXME] old\n\n+1 -1 (base: main)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, Diff(&js, FormatJSON, d))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "main", decoded["base_ref"])
	assert.Len(t, decoded["entries"], 2)
	assert.True(t, strings.Index(js.String(), `"entries"`) < strings.Index(js.String(), `"added_count"`))

	var gh bytes.Buffer
	require.NoError(t, Diff(&gh, FormatGitHubActions, d))
	assert.Equal(t,
		"::warning file=a.go,line=4,title=New TODO::new\n"+
			"::notice title=todo-scan diff::+1 -1 (base: main)\n",
		gh.String())
}

func TestDiffEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Diff(&buf, FormatJSON, &types.DiffResult{BaseRef: "HEAD~1"}))
	assert.JSONEq(t, `{"entries": [], "added_count": 0, "removed_count": 0, "base_ref": "HEAD~1"}`, buf.String())
}

func TestCheck(t *testing.T) {
	fail := &types.CheckResult{Passed: false, Total: 12, Violations: []types.Violation{
		{Rule: "max", Message: "Total TODOs (12) exceeds max (10)"},
	}}

	var text bytes.Buffer
	require.NoError(t, Check(&text, FormatText, fail))
	assert.Equal(t, "FAIL (12 items)\n  max: Total TODOs (12) exceeds max (10)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, Check(&js, FormatJSON, &types.CheckResult{Passed: true, Total: 0}))
	assert.Equal(t, "{\n  \"passed\": true,\n  \"total\": 0,\n  \"violations\": []\n}\n", js.String())

	var gh bytes.Buffer
	require.NoError(t, Check(&gh, FormatGitHubActions, fail))
	assert.Equal(t, "::error title=todo-scan max::Total TODOs (12) exceeds max (10)\n", gh.String())
}

func TestLint(t *testing.T) {
	res := &lint.Result{Passed: false, TotalItems: 4, ViolationCount: 1, Violations: []lint.Violation{
		{Rule: lint.RuleRequireColon, Message: "missing ':' after TODO", File: "a.go", Line: 2, Suggestion: "TODO: x"},
	}}
	var text bytes.Buffer
	require.NoError(t, Lint(&text, FormatText, res))
	assert.Equal(t, "a.go:2: require_colon missing ':' after TODO (suggestion: TODO: x)\n\nFAIL (1 violations in 4 items)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, Lint(&js, FormatJSON, &lint.Result{Passed: true}))
	assert.JSONEq(t, `{"passed": true, "total_items": 0, "violation_count": 0, "violations": []}`, js.String())
}

func TestBriefBudget(t *testing.T) {
	b := report.NewBrief(sample(), &types.DiffResult{AddedCount: 2, BaseRef: "v1"})

	var full bytes.Buffer
	require.NoError(t, Brief(&full, FormatText, b, 0))
	assert.Equal(t, "3 items in 2 files\n"+
		"priority: 1 urgent, 0 high, 2 normal\n"+
		"top: src/a.go:9 [TODO]!! fix race\n"+
		"trend: +2 -0 (base: v1)\n", full.String())

	var short bytes.Buffer
	require.NoError(t, Brief(&short, FormatText, b, 2))
	assert.Equal(t, "3 items in 2 files\n... (3 more lines)\n", short.String())

	var js bytes.Buffer
	require.NoError(t, Brief(&js, FormatJSON, report.NewBrief(&types.Snapshot{}, nil), 0))
	assert.JSONEq(t, `{"total_items":0,"total_files":0,"priority_counts":{"normal":0,"high":0,"urgent":0},"top_urgent":null,"trend":null}`, js.String())
}

func TestStatsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Stats(&buf, FormatText, report.NewStats(sample(), nil)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "3 items in 2 files (3 files scanned)\n"))
	assert.Contains(t, out, "Hotspots\n     2  src/a.go\n")
	assert.Contains(t, out, "  alice            1\n")
}
