package glitchnav

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var flagNoDescriptions bool

// completionGenerators maps a shell to its script generator. desc controls
// whether completions carry flag and command descriptions.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer, desc bool) error{
	"bash": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenBashCompletionV2(w, desc)
	},
	"zsh": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenFishCompletion(w, desc)
	},
	"powershell": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

func init() {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionGenerators[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
			return gen(rootCmd, cmd.OutOrStdout(), !flagNoDescriptions)
		},
		Example: `
# Bash
glitchnav completion bash > /etc/bash_completion.d/glitchnav

# Zsh, without descriptions
glitchnav completion zsh --no-descriptions > "${fpath[1]}/_glitchnav"

# Fish
glitchnav completion fish > ~/.config/fish/completions/glitchnav.fish
`,
	}
	cmd.Flags().BoolVar(&flagNoDescriptions, "no-descriptions", false, "omit command and flag descriptions from completions")
	rootCmd.AddCommand(cmd)
}
