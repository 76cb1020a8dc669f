package config

// File is the on-disk shape of a config file. It is what `init` writes and
// what `config` prints.
type File struct {
	Tags             []string  `toml:"tags" yaml:"tags" json:"tags"`
	ExcludeDirs      []string  `toml:"exclude_dirs" yaml:"exclude_dirs" json:"exclude_dirs"`
	ExcludePatterns  []string  `toml:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
	RespectGitignore bool      `toml:"respect_gitignore" yaml:"respect_gitignore" json:"respect_gitignore"`
	Jobs             int       `toml:"jobs,omitempty" yaml:"jobs,omitempty" json:"jobs,omitempty"`
	Check            CheckFile `toml:"check" yaml:"check" json:"check"`
	Lint             LintFile  `toml:"lint" yaml:"lint" json:"lint"`
}

// CheckFile is the [check] table.
type CheckFile struct {
	Max       *int     `toml:"max,omitempty" yaml:"max,omitempty" json:"max,omitempty"`
	MaxNew    *int     `toml:"max_new,omitempty" yaml:"max_new,omitempty" json:"max_new,omitempty"`
	BlockTags []string `toml:"block_tags" yaml:"block_tags" json:"block_tags"`
}

// LintFile is the [lint] table.
type LintFile struct {
	NoBareTags       bool     `toml:"no_bare_tags" yaml:"no_bare_tags" json:"no_bare_tags"`
	UppercaseTag     bool     `toml:"uppercase_tag" yaml:"uppercase_tag" json:"uppercase_tag"`
	RequireColon     bool     `toml:"require_colon" yaml:"require_colon" json:"require_colon"`
	RequireAuthor    bool     `toml:"require_author" yaml:"require_author" json:"require_author"`
	RequireIssueRef  bool     `toml:"require_issue_ref" yaml:"require_issue_ref" json:"require_issue_ref"`
	AuthorTags       []string `toml:"author_tags,omitempty" yaml:"author_tags,omitempty" json:"author_tags,omitempty"`
	IssueTags        []string `toml:"issue_tags,omitempty" yaml:"issue_tags,omitempty" json:"issue_tags,omitempty"`
	MaxMessageLength int      `toml:"max_message_length,omitempty" yaml:"max_message_length,omitempty" json:"max_message_length,omitempty"`
}

// Effective returns c in its file shape.
func (c *Config) Effective() File {
	return File{
		Tags:             tagStrings(c.Tags),
		ExcludeDirs:      nonNil(c.ExcludeDirs),
		ExcludePatterns:  nonNil(c.ExcludePatterns),
		RespectGitignore: c.RespectGitignore,
		Jobs:             c.Jobs,
		Check: CheckFile{
			Max:       c.Check.Max,
			MaxNew:    c.Check.MaxNew,
			BlockTags: tagStrings(c.Check.BlockTags),
		},
		Lint: LintFile{
			NoBareTags:       c.Lint.NoBareTags,
			UppercaseTag:     c.Lint.UppercaseTag,
			RequireColon:     c.Lint.RequireColon,
			RequireAuthor:    c.Lint.RequireAuthor,
			RequireIssueRef:  c.Lint.RequireIssueRef,
			AuthorTags:       tagStrings(c.Lint.AuthorTags),
			IssueTags:        tagStrings(c.Lint.IssueTags),
			MaxMessageLength: c.Lint.MaxMessageLength,
		},
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
