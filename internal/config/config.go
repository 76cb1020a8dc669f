// Package config loads todo-scan settings from a project file and the
// environment into one immutable Config per invocation.
//
// Sources, lowest precedence first: built-in defaults, .todo-scan.toml (or
// .todo-scan.yaml / .todo-scan.yml) in the scan root or an explicit
// --config path, then TODO_SCAN_* environment variables
// (TODO_SCAN_CHECK_MAX=10, TODO_SCAN_TAGS=TODO,FIXME). Command line flags
// are merged by the caller through the With* methods, which return copies.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/todoscan/todo-scan/internal/gate"
	"github.com/todoscan/todo-scan/internal/grammar"
	"github.com/todoscan/todo-scan/internal/lint"
	"github.com/todoscan/todo-scan/internal/types"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "TODO_SCAN"

// FileNames are the config files looked up in the scan root, in order.
var FileNames = []string{".todo-scan.toml", ".todo-scan.yaml", ".todo-scan.yml"}

// Error reports malformed configuration: an unreadable file, a bad value
// or an invalid regular expression. It is always fatal.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config is the merged configuration. Treat it as read-only; With* methods
// return modified copies.
type Config struct {
	// Path is the file that was loaded, or "" when none was found.
	Path string

	Tags             []types.Tag
	ExcludeDirs      []string
	ExcludePatterns  []string
	RespectGitignore bool
	Jobs             int

	Check gate.Settings
	Lint  lint.Settings

	patterns []*regexp.Regexp
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Tags:             types.DefaultTags(),
		ExcludeDirs:      []string{},
		ExcludePatterns:  []string{},
		RespectGitignore: true,
		Lint:             lint.Settings{NoBareTags: true, UppercaseTag: true},
	}
}

// Load reads configuration for a scan of root. explicitPath, when set, must
// exist; otherwise the first of FileNames found in root is used.
func Load(root, explicitPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicitPath
	if path == "" {
		path = findFile(root)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Err: fmt.Errorf("failed to read %s: %w", path, err)}
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

func findFile(root string) string {
	for _, name := range FileNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tags", tagStrings(d.Tags))
	v.SetDefault("exclude_dirs", d.ExcludeDirs)
	v.SetDefault("exclude_patterns", d.ExcludePatterns)
	v.SetDefault("respect_gitignore", d.RespectGitignore)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("lint.no_bare_tags", d.Lint.NoBareTags)
	v.SetDefault("lint.uppercase_tag", d.Lint.UppercaseTag)
	v.SetDefault("lint.require_colon", d.Lint.RequireColon)
	v.SetDefault("lint.require_author", d.Lint.RequireAuthor)
	v.SetDefault("lint.require_issue_ref", d.Lint.RequireIssueRef)
	v.SetDefault("lint.max_message_length", d.Lint.MaxMessageLength)
	v.SetDefault("lint.author_tags", []string{})
	v.SetDefault("lint.issue_tags", []string{})
	v.SetDefault("check.block_tags", []string{})
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	var err error

	tags, err := stringList(v, "tags")
	if err != nil {
		return nil, err
	}
	if cfg.Tags, err = parseTags("tags", tags); err != nil {
		return nil, err
	}
	if _, err := grammar.New(cfg.Tags); err != nil {
		return nil, &Error{Key: "tags", Err: err}
	}

	if cfg.ExcludeDirs, err = stringList(v, "exclude_dirs"); err != nil {
		return nil, err
	}
	if cfg.ExcludePatterns, err = stringList(v, "exclude_patterns"); err != nil {
		return nil, err
	}
	if cfg.RespectGitignore, err = boolValue(v, "respect_gitignore"); err != nil {
		return nil, err
	}
	jobs, err := intValue(v, "jobs")
	if err != nil {
		return nil, err
	}
	if jobs != nil {
		cfg.Jobs = *jobs
	}

	if cfg.Check.Max, err = intValue(v, "check.max"); err != nil {
		return nil, err
	}
	if cfg.Check.MaxNew, err = intValue(v, "check.max_new"); err != nil {
		return nil, err
	}
	blocked, err := stringList(v, "check.block_tags")
	if err != nil {
		return nil, err
	}
	if cfg.Check.BlockTags, err = parseTags("check.block_tags", blocked); err != nil {
		return nil, err
	}

	if err := lintFromViper(v, &cfg.Lint); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func lintFromViper(v *viper.Viper, l *lint.Settings) error {
	bools := []struct {
		key string
		dst *bool
	}{
		{"lint.no_bare_tags", &l.NoBareTags},
		{"lint.uppercase_tag", &l.UppercaseTag},
		{"lint.require_colon", &l.RequireColon},
		{"lint.require_author", &l.RequireAuthor},
		{"lint.require_issue_ref", &l.RequireIssueRef},
	}
	for _, b := range bools {
		val, err := boolValue(v, b.key)
		if err != nil {
			return err
		}
		*b.dst = val
	}

	n, err := intValue(v, "lint.max_message_length")
	if err != nil {
		return err
	}
	if n != nil {
		l.MaxMessageLength = *n
	}

	authorTags, err := stringList(v, "lint.author_tags")
	if err != nil {
		return err
	}
	if l.AuthorTags, err = parseTags("lint.author_tags", authorTags); err != nil {
		return err
	}
	issueTags, err := stringList(v, "lint.issue_tags")
	if err != nil {
		return err
	}
	l.IssueTags, err = parseTags("lint.issue_tags", issueTags)
	return err
}

// validate checks cross-field constraints and compiles patterns.
func (c *Config) validate() error {
	if c.Jobs < 0 {
		return &Error{Key: "jobs", Err: fmt.Errorf("must not be negative, got %d", c.Jobs)}
	}
	if c.Check.Max != nil && *c.Check.Max < 0 {
		return &Error{Key: "check.max", Err: fmt.Errorf("must not be negative, got %d", *c.Check.Max)}
	}
	if c.Check.MaxNew != nil && *c.Check.MaxNew < 0 {
		return &Error{Key: "check.max_new", Err: fmt.Errorf("must not be negative, got %d", *c.Check.MaxNew)}
	}
	if c.Lint.MaxMessageLength < 0 {
		return &Error{Key: "lint.max_message_length", Err: fmt.Errorf("must not be negative, got %d", c.Lint.MaxMessageLength)}
	}
	for _, t := range c.Check.BlockTags {
		if !c.HasTag(t) {
			return &Error{Key: "check.block_tags", Err: fmt.Errorf("unknown tag %s (configured tags: %s)", t, strings.Join(tagStrings(c.Tags), ", "))}
		}
	}

	c.patterns = make([]*regexp.Regexp, 0, len(c.ExcludePatterns))
	for _, p := range c.ExcludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return &Error{Key: "exclude_patterns", Err: fmt.Errorf("invalid regex %q: %w", p, err)}
		}
		c.patterns = append(c.patterns, re)
	}
	return nil
}

// Patterns returns the compiled exclude_patterns.
func (c *Config) Patterns() []*regexp.Regexp {
	return c.patterns
}

// HasTag reports whether t is one of the configured tags.
func (c *Config) HasTag(t types.Tag) bool {
	for _, have := range c.Tags {
		if have == t {
			return true
		}
	}
	return false
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Tags = append([]types.Tag(nil), c.Tags...)
	cp.ExcludeDirs = append([]string(nil), c.ExcludeDirs...)
	cp.ExcludePatterns = append([]string(nil), c.ExcludePatterns...)
	cp.Check.BlockTags = append([]types.Tag(nil), c.Check.BlockTags...)
	cp.Lint.AuthorTags = append([]types.Tag(nil), c.Lint.AuthorTags...)
	cp.Lint.IssueTags = append([]types.Tag(nil), c.Lint.IssueTags...)
	return &cp
}

// WithCheck returns a copy with the non-nil fields of s replacing the
// configured check settings.
func (c *Config) WithCheck(s gate.Settings) (*Config, error) {
	cp := c.clone()
	if s.Max != nil {
		cp.Check.Max = s.Max
	}
	if s.MaxNew != nil {
		cp.Check.MaxNew = s.MaxNew
	}
	if s.BlockTags != nil {
		cp.Check.BlockTags = append([]types.Tag(nil), s.BlockTags...)
	}
	if err := cp.validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// WithLint returns a copy whose lint settings are replaced by fn's edits.
func (c *Config) WithLint(fn func(l *lint.Settings)) (*Config, error) {
	cp := c.clone()
	fn(&cp.Lint)
	if err := cp.validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// WithJobs returns a copy with the worker count replaced when n >= 0.
func (c *Config) WithJobs(n int) (*Config, error) {
	cp := c.clone()
	if n >= 0 {
		cp.Jobs = n
	}
	if err := cp.validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// ParseTags normalises user supplied tag names, rejecting empty ones.
func ParseTags(key string, names []string) ([]types.Tag, error) {
	return parseTags(key, names)
}

func parseTags(key string, names []string) ([]types.Tag, error) {
	out := make([]types.Tag, 0, len(names))
	seen := make(map[types.Tag]bool, len(names))
	for _, n := range names {
		t := types.NormalizeTag(n)
		if t == "" {
			return nil, &Error{Key: key, Err: errors.New("empty tag name")}
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

func tagStrings(tags []types.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// stringList reads a list that may come from a file (a list) or from the
// environment (a comma separated string).
func stringList(v *viper.Viper, key string) ([]string, error) {
	switch val := v.Get(key).(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(val), nil
	case []string:
		return trimAll(val), nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &Error{Key: key, Err: fmt.Errorf("item %d: expected string, got %T", i, item)}
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, &Error{Key: key, Err: fmt.Errorf("expected a list of strings, got %T", val)}
	}
}

func splitList(s string) []string {
	return trimAll(strings.Split(s, ","))
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// intValue returns nil when key is unset.
func intValue(v *viper.Viper, key string) (*int, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	var n int
	switch val := v.Get(key).(type) {
	case nil:
		return nil, nil
	case int:
		n = val
	case int64:
		n = int(val)
	case uint64:
		n = int(val)
	case float64:
		if val != float64(int(val)) {
			return nil, &Error{Key: key, Err: fmt.Errorf("expected an integer, got %v", val)}
		}
		n = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, &Error{Key: key, Err: fmt.Errorf("expected an integer, got %q", val)}
		}
		n = parsed
	default:
		return nil, &Error{Key: key, Err: fmt.Errorf("expected an integer, got %T", val)}
	}
	return &n, nil
}

func boolValue(v *viper.Viper, key string) (bool, error) {
	switch val := v.Get(key).(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, &Error{Key: key, Err: fmt.Errorf("expected true or false, got %q", val)}
		}
		return b, nil
	default:
		return false, &Error{Key: key, Err: fmt.Errorf("expected true or false, got %T", val)}
	}
}
