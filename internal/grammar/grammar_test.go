package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/types"
)

func defaultGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := New(types.DefaultTags())
	require.NoError(t, err)
	return g
}

func TestParseLine(t *testing.T) {
	g := defaultGrammar(t)

	tests := []struct {
		name     string
		path     string
		line     string
		want     Annotation
		wantNone bool
	}{
		{
			name: "basic todo",
			path: "main.go",
			line: "// TODO: implement this feature",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "implement this feature", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "urgent bang bang",
			path: "main.go",
			line: "// TODO!!: fix race",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "fix race", Priority: types.PriorityUrgent, HasColon: true},
		},
		{
			name: "high single bang",
			path: "main.go",
			line: "\tx := 1 // FIXME!: off by one",
			want: Annotation{Tag: types.TagFixme, RawTag: "FIXME", Message: "off by one", Priority: types.PriorityHigh, HasColon: true},
		},
		{
			name: "author and issue ref",
			path: "a.txt",
			line: "// FIXME(alice): handle #42",
			want: Annotation{Tag: types.TagFixme, RawTag: "FIXME", Message: "handle #42", Author: "alice", IssueRef: "#42", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "bang after author",
			path: "lib.rs",
			line: "// HACK(bob)!: temporary",
			want: Annotation{Tag: types.TagHack, RawTag: "HACK", Message: "temporary", Author: "bob", Priority: types.PriorityHigh, HasColon: true},
		},
		{
			name: "priority token in message",
			path: "app.rs",
			line: "// BUG: !! crashes on empty input",
			want: Annotation{Tag: types.TagBug, RawTag: "BUG", Message: "crashes on empty input", Priority: types.PriorityUrgent, HasColon: true},
		},
		{
			name: "hash comment lowercase tag",
			path: "main.py",
			line: "    # todo: lower case works",
			want: Annotation{Tag: types.TagTodo, RawTag: "todo", Message: "lower case works", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "no colon",
			path: "main.py",
			line: "# NOTE remember the cache",
			want: Annotation{Tag: types.TagNote, RawTag: "NOTE", Message: "remember the cache", Priority: types.PriorityNormal},
		},
		{
			name: "bare tag",
			path: "main.go",
			line: "// TODO",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Priority: types.PriorityNormal},
		},
		{
			name: "block comment terminator",
			path: "main.c",
			line: "int x; /* XXX: magic number */ int y;",
			want: Annotation{Tag: types.TagXXX, RawTag: "XXX", Message: "magic number", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "block continuation line",
			path: "main.java",
			line: "   * TODO: document params",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "document params", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "repeated introducer",
			path: "lib.rs",
			line: "/// TODO: doc comment",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "doc comment", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "html comment",
			path: "index.html",
			line: "<div><!-- FIXME: broken layout --></div>",
			want: Annotation{Tag: types.TagFixme, RawTag: "FIXME", Message: "broken layout", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "sql comment",
			path: "schema.sql",
			line: "SELECT 1; -- TODO: index this",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "index this", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "jira style issue ref",
			path: "main.go",
			line: "// TODO: migrate, see PROJ-123 and #9",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "migrate, see PROJ-123 and #9", IssueRef: "PROJ-123", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "comment after closed block",
			path: "main.c",
			line: "/* plain */ x++; // BUG: overflow",
			want: Annotation{Tag: types.TagBug, RawTag: "BUG", Message: "overflow", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "unclosed author paren is message",
			path: "main.go",
			line: "// TODO(fix later",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "(fix later", Priority: types.PriorityNormal},
		},
		{
			name: "three bangs are urgent",
			path: "main.go",
			line: "// TODO!!!: three bangs",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "three bangs", Priority: types.PriorityUrgent, HasColon: true},
		},
		{
			name: "fsharp line comment",
			path: "Program.fs",
			line: "let x = 1 // TODO: fsharp",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "fsharp", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "fsharp block comment",
			path: "Script.fsx",
			line: "(* FIXME: ml style *)",
			want: Annotation{Tag: types.TagFixme, RawTag: "FIXME", Message: "ml style", Priority: types.PriorityNormal, HasColon: true},
		},
		{
			name: "apostrophe in yaml plain scalar",
			path: "ci.yaml",
			line: "description: let's go # TODO: fix yaml",
			want: Annotation{Tag: types.TagTodo, RawTag: "TODO", Message: "fix yaml", Priority: types.PriorityNormal, HasColon: true},
		},
		{name: "hash inside yaml double quotes", path: "ci.yml", line: `name: "a # TODO: quoted"`, wantNone: true},
		{name: "ocaml has no line comment", path: "lib.ml", line: "let x = 1 // TODO: not ocaml", wantNone: true},
		{name: "inside string", path: "main.go", line: `s := "// TODO: not a comment"`, wantNone: true},
		{name: "inside single quoted string", path: "main.py", line: `x = '# TODO: nope'`, wantNone: true},
		{name: "tag is a prefix of a word", path: "main.go", line: "// TODOS are tracked elsewhere", wantNone: true},
		{name: "tag followed by punctuation", path: "main.go", line: "// TODO-list handling", wantNone: true},
		{name: "tag not directly after introducer", path: "main.go", line: "// see the TODO file", wantNone: true},
		{name: "no comment", path: "main.go", line: "TODO: not in a comment", wantNone: true},
		{name: "url in unknown file", path: "notes.txt", line: "see https://example.com/TODO", wantNone: true},
		{name: "star mid line", path: "main.c", line: "x = a * TODO;", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.ParseLine(ForPath(tt.path), tt.line)
			if tt.wantNone {
				assert.False(t, ok, "expected no match, got %+v", got)
				return
			}
			require.True(t, ok, "expected a match")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineCustomTags(t *testing.T) {
	g, err := New([]types.Tag{"todo", "PERF"})
	require.NoError(t, err)

	a, ok := g.ParseLine(ForPath("x.go"), "// perf: hot loop")
	require.True(t, ok)
	assert.Equal(t, types.Tag("PERF"), a.Tag)
	assert.Equal(t, "perf", a.RawTag)

	_, ok = g.ParseLine(ForPath("x.go"), "// FIXME: not configured")
	assert.False(t, ok)

	assert.Equal(t, []types.Tag{"TODO", "PERF"}, g.Tags())
	assert.True(t, g.Has("PERF"))
}

func TestNewRejectsInvalidTags(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]types.Tag{"TO DO"})
	assert.Error(t, err)

	_, err = New([]types.Tag{"TODO", "FIX-ME"})
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	assert.Equal(t, "go", ForPath("cmd/main.go").Name)
	assert.Equal(t, "python", ForPath("pkg/x.PY").Name)
	assert.Equal(t, "hash", ForPath("Makefile").Name)
	assert.Equal(t, "hash", ForPath("build/Dockerfile").Name)
	assert.Equal(t, "generic", ForPath("README").Name)
	assert.Equal(t, "fsharp", ForPath("src/Program.fs").Name)
	assert.Equal(t, "yaml", ForPath(".github/workflows/ci.yml").Name)
	assert.Equal(t, "hash", ForPath("Cargo.toml").Name)
	assert.Same(t, Fallback(), ForPath("notes.txt"))
}
