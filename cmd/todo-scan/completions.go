package main

import (
	"github.com/spf13/cobra"
)

func newCompletionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "completions <bash|zsh|fish|powershell>",
		Aliases: []string{"completion"},
		GroupID: GroupConfig,
		Short:   "Generate a shell completion script",
		Example: `  todo-scan completions bash > /etc/bash_completion.d/todo-scan
  todo-scan completions zsh > "${fpath[1]}/_todo-scan"
  todo-scan completions fish > ~/.config/fish/completions/todo-scan.fish`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(a.stdout, true)
			case "zsh":
				return root.GenZshCompletion(a.stdout)
			case "fish":
				return root.GenFishCompletion(a.stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(a.stdout)
			}
			return usageErrorf("unsupported shell %q (valid: bash, zsh, fish, powershell)", args[0])
		},
	}
}
