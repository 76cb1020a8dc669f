package clean

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/blame"
	"github.com/todoscan/todo-scan/internal/types"
)

type fakeIssues struct {
	closed map[string]bool
	fail   map[string]bool
	calls  []string
}

func (f *fakeIssues) Closed(_ context.Context, ref string) (bool, error) {
	f.calls = append(f.calls, ref)
	if f.fail[ref] {
		return false, errors.New("not found")
	}
	return f.closed[ref], nil
}

func item(file string, line int, tag types.Tag, msg string) types.Item {
	return types.Item{File: file, Line: line, Tag: tag, Message: msg, Priority: types.PriorityNormal}
}

func withRef(it types.Item, ref string) types.Item {
	it.IssueRef = types.StringPtr(ref)
	return it
}

func TestRunDuplicates(t *testing.T) {
	items := []types.Item{
		item("src/main.go", 10, types.TagTodo, "Handle errors"),
		item("src/lib.go", 20, types.TagTodo, "  handle errors "),
		item("src/lib.go", 30, types.TagFixme, "handle errors"),
		item("src/util.go", 4, types.TagTodo, "handle errors"),
		item("a.go", 1, types.TagTodo, ""),
		item("b.go", 1, types.TagTodo, ""),
	}

	res, err := Run(context.Background(), items, Options{})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, 6, res.TotalItems)
	assert.Equal(t, 2, res.DuplicateCount)
	assert.Zero(t, res.StaleCount)
	require.Len(t, res.Violations, 2)

	v := res.Violations[0]
	assert.Equal(t, "src/lib.go", v.File)
	assert.Equal(t, 20, v.Line)
	assert.Equal(t, RuleDuplicate, v.Rule)
	require.NotNil(t, v.DuplicateOf)
	assert.Equal(t, "src/main.go:10", *v.DuplicateOf)
	assert.Nil(t, v.IssueRef)

	require.NotNil(t, res.Violations[1].DuplicateOf)
	assert.Equal(t, "src/main.go:10", *res.Violations[1].DuplicateOf, "later copies point at the first one")
}

func TestRunStaleIssues(t *testing.T) {
	issues := &fakeIssues{
		closed: map[string]bool{"#42": true},
		fail:   map[string]bool{"#7": true},
	}
	items := []types.Item{
		withRef(item("a.go", 1, types.TagTodo, "remove after #42"), "#42"),
		withRef(item("b.go", 2, types.TagFixme, "see #42 again"), "#42"),
		withRef(item("c.go", 3, types.TagTodo, "open #8"), "#8"),
		withRef(item("d.go", 4, types.TagTodo, "lookup fails #7"), "#7"),
	}

	res, err := Run(context.Background(), items, Options{Issues: issues})
	require.NoError(t, err)
	assert.Equal(t, []string{"#42", "#8", "#7"}, issues.calls, "each ref is looked up once")
	assert.Equal(t, 2, res.StaleCount)
	require.Len(t, res.Violations, 2)
	assert.Equal(t, RuleStaleIssue, res.Violations[0].Rule)
	assert.Equal(t, "TODO references closed issue #42", res.Violations[0].Message)
	assert.Equal(t, "#42", *res.Violations[0].IssueRef)
	assert.Equal(t, "b.go", res.Violations[1].File)
}

func TestRunStaleByAge(t *testing.T) {
	old := item("a.go", 1, types.TagHack, "old workaround")
	fresh := item("a.go", 9, types.TagTodo, "fresh")
	ages := &blame.Result{Entries: []blame.Entry{
		{Item: old, Blame: blame.Info{AgeDays: 500}, Stale: true},
		{Item: fresh, Blame: blame.Info{AgeDays: 3}},
	}}

	res, err := Run(context.Background(), []types.Item{old, fresh}, Options{Ages: ages})
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, Violation{File: "a.go", Line: 1, Rule: RuleStale, Message: "HACK is stale (500 days old)"}, res.Violations[0])
	assert.Equal(t, 1, res.StaleCount)
}

func TestRunRuleOrderWithinItem(t *testing.T) {
	first := withRef(item("a.go", 1, types.TagTodo, "drop #1"), "#1")
	second := withRef(item("b.go", 1, types.TagTodo, "drop #1"), "#1")
	ages := &blame.Result{Entries: []blame.Entry{{Item: second, Blame: blame.Info{AgeDays: 400}, Stale: true}}}

	res, err := Run(context.Background(), []types.Item{first, second}, Options{
		Issues: &fakeIssues{closed: map[string]bool{"#1": true}},
		Ages:   ages,
	})
	require.NoError(t, err)
	var rules []string
	for _, v := range res.Violations {
		rules = append(rules, fmt.Sprintf("%s:%s", v.File, v.Rule))
	}
	assert.Equal(t, []string{"a.go:stale_issue", "b.go:stale", "b.go:stale_issue", "b.go:duplicate"}, rules)
	assert.Equal(t, 3, res.StaleCount)
	assert.Equal(t, 1, res.DuplicateCount)
}

func TestRunPasses(t *testing.T) {
	res, err := Run(context.Background(), []types.Item{item("a.go", 1, types.TagTodo, "unique")}, Options{})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, []Violation{}, res.Violations)
}

// TestGHHelperProcess stands in for the gh binary.
func TestGHHelperProcess(t *testing.T) {
	if os.Getenv("TODO_SCAN_GH_HELPER") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 3 || args[1] != "issue" || args[2] != "view" {
		fmt.Fprintln(os.Stderr, "unexpected args:", strings.Join(args, " "))
		os.Exit(2)
	}
	state := os.Getenv("GH_STATE")
	if state == "" {
		fmt.Fprintln(os.Stderr, "GraphQL: Could not resolve to an issue")
		os.Exit(1)
	}
	fmt.Println(state)
	os.Exit(0)
}

func fakeGH(state string) func(ctx context.Context, args ...string) *exec.Cmd {
	return func(ctx context.Context, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], append([]string{"-test.run=TestGHHelperProcess", "--"}, args...)...)
		cmd.Env = append(os.Environ(), "TODO_SCAN_GH_HELPER=1", "GH_STATE="+state)
		return cmd
	}
}

func TestGitHubIssues(t *testing.T) {
	ctx := context.Background()

	closed, err := (&GitHubIssues{command: fakeGH("CLOSED")}).Closed(ctx, "#12")
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = (&GitHubIssues{command: fakeGH("OPEN")}).Closed(ctx, "#12")
	require.NoError(t, err)
	assert.False(t, closed)

	_, err = (&GitHubIssues{command: fakeGH("")}).Closed(ctx, "#404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve")

	for _, ref := range []string{"PROJ-42", "#abc"} {
		closed, err = (&GitHubIssues{command: fakeGH("CLOSED")}).Closed(ctx, ref)
		require.NoError(t, err)
		assert.False(t, closed, ref)
	}
}
