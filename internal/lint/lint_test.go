package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/types"
)

func TestRunRules(t *testing.T) {
	alice := "alice"
	ref := "#7"
	items := []types.Item{
		{File: "a.go", Line: 1, Tag: types.TagTodo, RawTag: "TODO", Message: "fine", HasColon: true, Author: &alice, IssueRef: &ref},
		{File: "a.go", Line: 2, Tag: types.TagTodo, RawTag: "todo", Message: "", HasColon: false},
		{File: "b.go", Line: 9, Tag: types.TagNote, RawTag: "NOTE", Message: strings.Repeat("x", 12), HasColon: true},
	}

	tests := []struct {
		name      string
		settings  Settings
		wantRules []string
	}{
		{name: "nothing enabled", settings: Settings{}, wantRules: nil},
		{name: "bare tags", settings: Settings{NoBareTags: true}, wantRules: []string{RuleNoBareTags}},
		{name: "uppercase", settings: Settings{UppercaseTag: true}, wantRules: []string{RuleUppercaseTag}},
		{name: "colon", settings: Settings{RequireColon: true}, wantRules: []string{RuleRequireColon}},
		{name: "author on every tag", settings: Settings{RequireAuthor: true}, wantRules: []string{RuleRequireAuthor, RuleRequireAuthor}},
		{name: "author limited to TODO", settings: Settings{RequireAuthor: true, AuthorTags: []types.Tag{types.TagTodo}}, wantRules: []string{RuleRequireAuthor}},
		{name: "issue ref limited to FIXME", settings: Settings{RequireIssueRef: true, IssueTags: []types.Tag{types.TagFixme}}, wantRules: nil},
		{name: "length", settings: Settings{MaxMessageLength: 10}, wantRules: []string{RuleMaxMessageLength}},
		{
			name:      "rule order within an item",
			settings:  Settings{NoBareTags: true, UppercaseTag: true, RequireColon: true},
			wantRules: []string{RuleNoBareTags, RuleUppercaseTag, RuleRequireColon},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(items, tt.settings)
			var got []string
			for _, v := range res.Violations {
				got = append(got, v.Rule)
			}
			assert.Equal(t, tt.wantRules, got)
			assert.Equal(t, len(tt.wantRules) == 0, res.Passed)
			assert.Equal(t, len(tt.wantRules), res.ViolationCount)
			assert.Equal(t, 3, res.TotalItems)
		})
	}
}

func TestViolationDetails(t *testing.T) {
	items := []types.Item{{File: "x.py", Line: 4, Tag: types.TagFixme, RawTag: "Fixme", Message: "later"}}
	res := Run(items, Settings{UppercaseTag: true, RequireColon: true})

	require.Len(t, res.Violations, 2)
	assert.Equal(t, Violation{
		Rule:       RuleUppercaseTag,
		Message:    `tag "Fixme" should be uppercase`,
		File:       "x.py",
		Line:       4,
		Suggestion: "FIXME",
	}, res.Violations[0])
	assert.Equal(t, "FIXME: later", res.Violations[1].Suggestion)
}

func TestMessageLengthCountsCharacters(t *testing.T) {
	items := []types.Item{{File: "a.go", Line: 1, Tag: types.TagTodo, Message: "héllo"}}
	assert.True(t, Run(items, Settings{MaxMessageLength: 5}).Passed)
	assert.False(t, Run(items, Settings{MaxMessageLength: 4}).Passed)
}

func TestRunEmpty(t *testing.T) {
	res := Run(nil, Settings{NoBareTags: true})
	assert.True(t, res.Passed)
	assert.NotNil(t, res.Violations)
}
