// Package grammar recognises tagged comments (TODO, FIXME, ...) on a single
// line of source text.
//
// Recognition is lexical: a small table maps file extensions to the comment
// introducers of the language, and a line is accepted when one of those
// introducers, outside a string literal, is followed by a known tag.
package grammar

import (
	"path"
	"strings"
)

// Block is a block comment delimiter pair.
type Block struct {
	Open  string
	Close string
}

// Syntax describes how comments are introduced in one family of languages.
type Syntax struct {
	Name string
	// Line lists line comment introducers ("//", "#").
	Line []string
	// Blocks lists block comment delimiters; a tag may follow Open directly.
	Blocks []Block
	// LineStart lists introducers only honoured as the first non-blank text
	// on a line, such as the "*" of a block comment continuation.
	LineStart []string
	// Quotes lists the characters that open string literals. Empty disables
	// string tracking.
	Quotes string
}

var (
	cBlock    = Block{Open: "/*", Close: "*/"}
	htmlBlock = Block{Open: "<!--", Close: "-->"}

	cStyle = &Syntax{
		Name:      "c",
		Line:      []string{"//"},
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    `"`,
	}
	jsStyle = &Syntax{
		Name:      "javascript",
		Line:      []string{"//"},
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    "\"'`",
	}
	goStyle = &Syntax{
		Name:      "go",
		Line:      []string{"//"},
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    "\"`",
	}
	hashStyle = &Syntax{
		Name:   "hash",
		Line:   []string{"#"},
		Quotes: `"'`,
	}
	// Apostrophes are common in YAML plain scalars and never open a
	// string there.
	yamlStyle = &Syntax{
		Name:   "yaml",
		Line:   []string{"#"},
		Quotes: `"`,
	}
	pythonStyle = &Syntax{
		Name:   "python",
		Line:   []string{"#"},
		Quotes: `"'`,
	}
	sqlStyle = &Syntax{
		Name:      "sql",
		Line:      []string{"--"},
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    `'"`,
	}
	luaStyle = &Syntax{
		Name:   "lua",
		Line:   []string{"--"},
		Blocks: []Block{{Open: "--[[", Close: "]]"}},
		Quotes: `"'`,
	}
	haskellStyle = &Syntax{
		Name:   "haskell",
		Line:   []string{"--"},
		Blocks: []Block{{Open: "{-", Close: "-}"}},
		Quotes: `"`,
	}
	lispStyle = &Syntax{
		Name:   "lisp",
		Line:   []string{";"},
		Quotes: `"`,
	}
	texStyle = &Syntax{
		Name: "tex",
		Line: []string{"%"},
	}
	markupStyle = &Syntax{
		Name:   "markup",
		Blocks: []Block{htmlBlock},
	}
	mlStyle = &Syntax{
		Name:   "ml",
		Blocks: []Block{{Open: "(*", Close: "*)"}},
		Quotes: `"`,
	}
	fsharpStyle = &Syntax{
		Name:   "fsharp",
		Line:   []string{"//"},
		Blocks: []Block{cBlock, {Open: "(*", Close: "*)"}},
		Quotes: `"`,
	}
	phpStyle = &Syntax{
		Name:      "php",
		Line:      []string{"//", "#"},
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    `"'`,
	}
	cssStyle = &Syntax{
		Name:      "css",
		Blocks:    []Block{cBlock},
		LineStart: []string{"*"},
		Quotes:    `"'`,
	}
	vueStyle = &Syntax{
		Name:      "vue",
		Line:      []string{"//"},
		Blocks:    []Block{cBlock, htmlBlock},
		LineStart: []string{"*"},
		Quotes:    "\"'`",
	}
	iniStyle = &Syntax{
		Name: "ini",
		Line: []string{";", "#"},
	}
	vimStyle = &Syntax{
		Name: "vim",
		Line: []string{`"`},
	}
	batchStyle = &Syntax{
		Name: "batch",
		Line: []string{"::", "REM ", "rem "},
	}

	// fallback is used for files whose type is unknown. It accepts the
	// common introducers without string tracking.
	fallback = &Syntax{
		Name:      "generic",
		Line:      []string{"//", "#", "--", ";"},
		Blocks:    []Block{cBlock, htmlBlock},
		LineStart: []string{"*"},
	}
)

var extensions = []struct {
	syntax *Syntax
	exts   []string
}{
	{cStyle, []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".m", ".mm",
		".java", ".kt", ".kts", ".scala", ".cs", ".swift", ".rs", ".dart",
		".groovy", ".gradle", ".proto", ".zig"}},
	{goStyle, []string{".go"}},
	{jsStyle, []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts", ".scss", ".less"}},
	{vueStyle, []string{".svelte", ".vue"}},
	{cssStyle, []string{".css"}},
	{phpStyle, []string{".php", ".tf", ".hcl"}},
	{pythonStyle, []string{".py", ".pyi"}},
	{hashStyle, []string{".rb", ".sh", ".bash", ".zsh", ".fish", ".pl", ".pm", ".r",
		".ex", ".exs", ".nim", ".cr", ".jl", ".ps1", ".toml", ".cmake", ".mk", ".dockerfile"}},
	{yamlStyle, []string{".yaml", ".yml"}},
	{sqlStyle, []string{".sql"}},
	{luaStyle, []string{".lua"}},
	{haskellStyle, []string{".hs", ".lhs", ".elm"}},
	{lispStyle, []string{".lisp", ".el", ".clj", ".cljs", ".scm", ".rkt", ".asm", ".s"}},
	{texStyle, []string{".tex", ".sty", ".erl", ".hrl"}},
	{markupStyle, []string{".html", ".htm", ".xml", ".svg", ".md", ".markdown"}},
	{mlStyle, []string{".ml", ".mli"}},
	{fsharpStyle, []string{".fs", ".fsi", ".fsx"}},
	{iniStyle, []string{".ini", ".cfg", ".conf"}},
	{vimStyle, []string{".vim"}},
	{batchStyle, []string{".bat", ".cmd"}},
}

var byExtension = func() map[string]*Syntax {
	m := make(map[string]*Syntax)
	for _, e := range extensions {
		for _, ext := range e.exts {
			m[ext] = e.syntax
		}
	}
	return m
}()

var byName = map[string]*Syntax{
	"makefile":       hashStyle,
	"gnumakefile":    hashStyle,
	"dockerfile":     hashStyle,
	"containerfile":  hashStyle,
	"rakefile":       hashStyle,
	"gemfile":        hashStyle,
	"justfile":       hashStyle,
	"cmakelists.txt": hashStyle,
	".bashrc":        hashStyle,
	".zshrc":         hashStyle,
	".gitignore":     hashStyle,
	".editorconfig":  iniStyle,
	".vimrc":         vimStyle,
}

// ForPath selects the comment syntax for a slash separated path.
func ForPath(p string) *Syntax {
	base := strings.ToLower(path.Base(p))
	if s, ok := byName[base]; ok {
		return s
	}
	if s, ok := byExtension[path.Ext(base)]; ok {
		return s
	}
	return fallback
}

// Fallback returns the syntax used for unknown file types.
func Fallback() *Syntax {
	return fallback
}
