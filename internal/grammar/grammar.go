package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
)

// issueRefPattern matches "#123" or tracker keys such as "PROJ-42".
var issueRefPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]*-\d+\b|#\d+\b`)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Annotation is the parsed form of one tagged comment.
type Annotation struct {
	Tag      types.Tag
	RawTag   string
	Message  string
	Author   string
	IssueRef string
	Priority types.Priority
	HasColon bool
}

// Grammar matches a fixed, case-insensitive set of tags.
type Grammar struct {
	tags map[string]types.Tag
	list []types.Tag
}

// New builds a Grammar for the given tags. Tags must be non-empty words of
// letters, digits or underscores.
func New(tags []types.Tag) (*Grammar, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("no tags configured")
	}
	g := &Grammar{tags: make(map[string]types.Tag, len(tags))}
	for _, t := range tags {
		norm := types.NormalizeTag(string(t))
		if !tagNamePattern.MatchString(string(norm)) {
			return nil, fmt.Errorf("invalid tag %q: tags may only contain letters, digits and '_'", string(t))
		}
		if _, dup := g.tags[string(norm)]; dup {
			continue
		}
		g.tags[string(norm)] = norm
		g.list = append(g.list, norm)
	}
	return g, nil
}

// Tags returns the recognised tags in configuration order.
func (g *Grammar) Tags() []types.Tag {
	out := make([]types.Tag, len(g.list))
	copy(out, g.list)
	return out
}

// Has reports whether tag is recognised.
func (g *Grammar) Has(tag types.Tag) bool {
	_, ok := g.tags[string(tag)]
	return ok
}

// ParseLine returns the annotation on line, if any.
//
// Only the first comment on the line is considered, except that a block
// comment closed on the same line does not hide a later comment.
func (g *Grammar) ParseLine(syn *Syntax, line string) (Annotation, bool) {
	if syn == nil {
		syn = fallback
	}
	start := 0
	for start < len(line) {
		m, ok := findIntroducer(syn, line, start)
		if !ok {
			return Annotation{}, false
		}
		body := line[m.end:]
		if a, ok := g.parseAnnotation(body, m.intro, m.close); ok {
			return a, true
		}
		if m.close == "" || m.kind != kindBlock {
			return Annotation{}, false
		}
		idx := strings.Index(body, m.close)
		if idx < 0 {
			return Annotation{}, false
		}
		start = m.end + idx + len(m.close)
	}
	return Annotation{}, false
}

type introKind int

const (
	kindLine introKind = iota
	kindBlock
	kindLineStart
)

type introMatch struct {
	kind  introKind
	intro string
	close string
	end   int
}

// findIntroducer locates the first comment introducer at or after start that
// is not inside a string literal. At a given offset the longest introducer
// wins, so "--[[" beats "--".
func findIntroducer(syn *Syntax, line string, start int) (introMatch, bool) {
	var quote byte
	for i := start; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		var best introMatch
		found := false
		consider := func(kind introKind, intro, closer string) {
			if !strings.HasPrefix(line[i:], intro) {
				return
			}
			if found && len(intro) <= len(best.intro) {
				return
			}
			best = introMatch{kind: kind, intro: intro, close: closer, end: i + len(intro)}
			found = true
		}
		for _, b := range syn.Blocks {
			consider(kindBlock, b.Open, b.Close)
		}
		for _, l := range syn.Line {
			consider(kindLine, l, "")
		}
		if strings.TrimSpace(line[:i]) == "" {
			closer := ""
			if len(syn.Blocks) > 0 {
				closer = syn.Blocks[0].Close
			}
			for _, l := range syn.LineStart {
				consider(kindLineStart, l, closer)
			}
		}
		if found {
			return best, true
		}

		if strings.IndexByte(syn.Quotes, c) >= 0 {
			quote = c
			continue
		}
		// Skip character literals such as '"' when single quotes do not
		// open strings.
		if c == '\'' && syn.Quotes != "" && i+2 < len(line) && line[i+2] == '\'' {
			i += 2
		}
	}
	return introMatch{}, false
}

func (g *Grammar) parseAnnotation(body, intro, closer string) (Annotation, bool) {
	s := trimIntroducerRun(body, intro)
	s = strings.TrimLeft(s, " \t")

	word := leadingWord(s)
	if word == "" {
		return Annotation{}, false
	}
	tag, ok := g.tags[strings.ToUpper(word)]
	if !ok {
		return Annotation{}, false
	}
	a := Annotation{Tag: tag, RawTag: word, Priority: types.PriorityNormal}
	s = s[len(word):]

	bangs := countBangs(s)
	s = s[bangs:]
	if strings.HasPrefix(s, "(") {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			// No author; an unbalanced paren is part of the message.
			finishMessage(&a, s, bangs, closer)
			return a, true
		}
		a.Author = strings.TrimSpace(s[1:end])
		s = s[end+1:]
		if bangs == 0 {
			bangs = countBangs(s)
			s = s[bangs:]
		}
	}

	rest := strings.TrimLeft(s, " \t")
	switch {
	case strings.HasPrefix(rest, ":"):
		a.HasColon = true
		s = rest[1:]
	case rest == "" || (closer != "" && strings.HasPrefix(rest, closer)):
		s = rest
	case len(rest) < len(s):
		// Whitespace separates the tag from the message.
		s = rest
	default:
		return Annotation{}, false
	}

	finishMessage(&a, s, bangs, closer)
	return a, true
}

// finishMessage cuts s at the block terminator and fills in the message,
// priority and issue reference.
func finishMessage(a *Annotation, s string, bangs int, closer string) {
	if closer != "" {
		if idx := strings.Index(s, closer); idx >= 0 {
			s = s[:idx]
		}
	}
	msg := strings.TrimSpace(s)
	if bangs == 0 {
		bangs, msg = leadingPriorityToken(msg)
	}
	a.Priority = types.PriorityFromBangs(bangs)
	a.Message = msg
	a.IssueRef = issueRefPattern.FindString(msg)
}

// trimIntroducerRun drops repeated punctuation from the introducer, so that
// "///", "###" and "/**" are treated like their single forms.
func trimIntroducerRun(s, intro string) string {
	var cut string
	for _, r := range intro {
		if strings.ContainsRune("/*#-;%!<[{(", r) {
			cut += string(r)
		}
	}
	if cut == "" {
		return s
	}
	return strings.TrimLeft(s, cut)
}

func leadingWord(s string) string {
	n := 0
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return s[:n]
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func countBangs(s string) int {
	n := 0
	for n < len(s) && s[n] == '!' {
		n++
	}
	return n
}

// leadingPriorityToken strips a "!" or "!!" token from the start of a
// message, returning the number of bangs found.
func leadingPriorityToken(msg string) (int, string) {
	n := countBangs(msg)
	if n == 0 {
		return 0, msg
	}
	if n < len(msg) && msg[n] != ' ' && msg[n] != '\t' {
		return 0, msg
	}
	return n, strings.TrimSpace(msg[n:])
}
