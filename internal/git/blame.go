package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// uncommittedID is the commit git blame reports for lines not yet committed.
const uncommittedID = "0000000000000000000000000000000000000000"

// BlameLine is the last change to one line of a file.
type BlameLine struct {
	Commit string
	Author string
	Email  string
	Time   time.Time
}

// Uncommitted reports whether the line only exists in the working tree.
func (b BlameLine) Uncommitted() bool {
	return b.Commit == "" || b.Commit == uncommittedID
}

// Blame attributes every line of path (relative to Dir) in the working
// tree. The result is keyed by 1-based line number.
func (r *Repo) Blame(ctx context.Context, path string) (map[int]BlameLine, error) {
	out, err := run(ctx, r.Dir, "blame", "--porcelain", "--", path)
	if err != nil {
		return nil, &ProviderError{Op: "blame", Err: fmt.Errorf("%s: %w", path, err)}
	}
	lines, err := parsePorcelain(out)
	if err != nil {
		return nil, &ProviderError{Op: "blame", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return lines, nil
}

// parsePorcelain reads `git blame --porcelain` output. Commit details are
// only printed the first time a commit appears, so they are remembered by
// commit id.
func parsePorcelain(out []byte) (map[int]BlameLine, error) {
	commits := map[string]*BlameLine{}
	lines := map[int]BlameLine{}

	var cur *BlameLine
	var final int
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "\t") {
			// Content line closes the entry.
			if cur == nil {
				return nil, fmt.Errorf("content before header")
			}
			lines[final] = *cur
			cur = nil
			continue
		}
		if cur == nil {
			// <sha> <orig line> <final line> [<group size>]
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed header %q", line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("malformed header %q", line)
			}
			final = n
			c, ok := commits[fields[0]]
			if !ok {
				c = &BlameLine{Commit: fields[0]}
				commits[fields[0]] = c
			}
			cur = c
			continue
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			cur.Author = value
		case "author-mail":
			cur.Email = strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
		case "author-time":
			sec, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed author-time %q", value)
			}
			cur.Time = time.Unix(sec, 0).UTC()
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
