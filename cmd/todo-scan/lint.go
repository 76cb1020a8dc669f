package main

import (
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/lint"
	"github.com/todoscan/todo-scan/internal/output"
)

type lintOptions struct {
	noBareTags       bool
	uppercaseTag     bool
	requireColon     bool
	requireAuthor    bool
	requireIssueRef  bool
	authorTags       []string
	issueTags        []string
	maxMessageLength int
}

func newLintCmd(a *app) *cobra.Command {
	var opts lintOptions
	cmd := &cobra.Command{
		Use:     "lint",
		GroupID: GroupCI,
		Short:   "Check that tagged comments follow formatting conventions",
		Long: `Checks every tagged comment against the enabled rules:

  no_bare_tags        the comment has a message
  uppercase_tag       the tag is written in upper case
  require_colon       the tag is followed by ':'
  require_author      the tag names an author, as in TODO(alice):
  require_issue_ref   the message references an issue (#123, PROJ-123)
  max_message_length  the message is not too long

Rules come from the [lint] section of the config file; flags override it.
Exits 1 when any violation is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.noBareTags, "no-bare-tags", false, "Require a message after every tag")
	f.BoolVar(&opts.uppercaseTag, "uppercase-tag", false, "Require tags written in upper case")
	f.BoolVar(&opts.requireColon, "require-colon", false, "Require ':' after the tag")
	f.BoolVar(&opts.requireAuthor, "require-author", false, "Require an author, as in TODO(name):")
	f.BoolVar(&opts.requireIssueRef, "require-issue-ref", false, "Require an issue reference in the message")
	f.StringSliceVar(&opts.authorTags, "author-tags", nil, "Limit --require-author to these tags")
	f.StringSliceVar(&opts.issueTags, "issue-tags", nil, "Limit --require-issue-ref to these tags")
	f.IntVar(&opts.maxMessageLength, "max-message-length", 0, "Maximum message length in characters (0 = no limit)")
	return cmd
}

func (a *app) runLint(cmd *cobra.Command, opts lintOptions) error {
	flags := cmd.Flags()
	if opts.maxMessageLength < 0 {
		return usageErrorf("--max-message-length must not be negative")
	}
	authorTags, err := config.ParseTags("--author-tags", opts.authorTags)
	if err != nil {
		return usageErrorf("%v", err)
	}
	issueTags, err := config.ParseTags("--issue-tags", opts.issueTags)
	if err != nil {
		return usageErrorf("%v", err)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg, err = cfg.WithLint(func(l *lint.Settings) {
		if flags.Changed("no-bare-tags") {
			l.NoBareTags = opts.noBareTags
		}
		if flags.Changed("uppercase-tag") {
			l.UppercaseTag = opts.uppercaseTag
		}
		if flags.Changed("require-colon") {
			l.RequireColon = opts.requireColon
		}
		if flags.Changed("require-author") {
			l.RequireAuthor = opts.requireAuthor
		}
		if flags.Changed("require-issue-ref") {
			l.RequireIssueRef = opts.requireIssueRef
		}
		if flags.Changed("author-tags") {
			l.AuthorTags = authorTags
		}
		if flags.Changed("issue-tags") {
			l.IssueTags = issueTags
		}
		if flags.Changed("max-message-length") {
			l.MaxMessageLength = opts.maxMessageLength
		}
	})
	if err != nil {
		return err
	}

	env, err := a.newScanEnv(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	snap, err := env.head(cmd.Context())
	if err != nil {
		return err
	}

	res := lint.Run(snap.Items, cfg.Lint)
	if err := output.Lint(a.stdout, a.format, res); err != nil {
		return err
	}
	if !res.Passed {
		return errGateFailed
	}
	return nil
}
