package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/demos"
)

// completionCommand creates the completion command for shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sketchreveal.

  bash        source <(sketchreveal completion bash)
  zsh         sketchreveal completion zsh > "${fpath[1]}/_sketchreveal"
  fish        sketchreveal completion fish > ~/.config/fish/completions/sketchreveal.fish
  powershell  sketchreveal completion powershell | Out-String | Invoke-Expression

Completion of demo titles (demos show) reads the configured catalog.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], os.Stdout, !noDesc)
		},
	}
	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit completion descriptions")

	return cmd
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer, desc bool) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, desc)
	case "zsh":
		if desc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	case "fish":
		return root.GenFishCompletion(w, desc)
	case "powershell":
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	}
	return nil
}

// demoCompletions offers card numbers with their titles as descriptions.
func demoCompletions(cat *demos.Catalog) []string {
	out := make([]string, 0, cat.Len())
	for i, d := range cat.Demos {
		out = append(out, strconv.Itoa(i+1)+"\t"+d.Title)
	}
	return out
}
