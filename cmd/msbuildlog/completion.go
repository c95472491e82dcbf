package main

import (
	"io"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script for each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash":       func(root *cobra.Command, out io.Writer) error { return root.GenBashCompletionV2(out, true) },
	"zsh":        func(root *cobra.Command, out io.Writer) error { return root.GenZshCompletion(out) },
	"fish":       func(root *cobra.Command, out io.Writer) error { return root.GenFishCompletion(out, true) },
	"powershell": func(root *cobra.Command, out io.Writer) error { return root.GenPowerShellCompletionWithDesc(out) },
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for msbuildlog.

Bash:
  $ source <(msbuildlog completion bash)

Zsh:
  $ msbuildlog completion zsh > "${fpath[1]}/_msbuildlog"

Fish:
  $ msbuildlog completion fish > ~/.config/fish/completions/msbuildlog.fish

PowerShell:
  PS> msbuildlog completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	// Completion must work without a readable config file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
