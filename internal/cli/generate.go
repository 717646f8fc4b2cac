package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/llm"
)

// generateCommand creates the generate command, which asks the configured
// provider for a drawing.
func (c *CLI) generateCommand() *cobra.Command {
	var output, model string

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate an SVG drawing from a prompt",
		Long: `Generate sends the prompt to the configured OpenAI-compatible provider and
writes the extracted <svg> element. Credentials come from the config file or
SKETCHREVEAL_BASE_URL / SKETCHREVEAL_API_KEY (OPENAI_API_KEY also works).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Provider.Model = model
			}
			if err := cfg.Validate(true); err != nil {
				printError("Error: %s", errors.UserMessage(err))
				printNextStep("Configure a provider", "export SKETCHREVEAL_API_KEY=...")
				return err
			}
			gen, err := llm.NewClient(cfg.Provider, llm.WithLogger(loggerFromContext(cmd.Context())))
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), gen, strings.Join(args, " "), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model name (default from config, then "+llm.DefaultModel+")")

	return cmd
}

func runGenerate(ctx context.Context, gen llm.Generator, prompt, output string) error {
	if err := errors.ValidatePrompt(prompt); err != nil {
		printWarning("%s", errors.UserMessage(err))
		return err
	}

	spinner := newSpinner(ctx, "Generating...")
	spinner.Start()
	svg, err := gen.Generate(ctx, prompt)
	spinner.Stop()
	if err != nil {
		printError("Error: %s", errors.UserMessage(err))
		return err
	}

	if output == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(output, []byte(svg+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("SVG generated!")
	printFile(output)
	printNextStep("Animate it", appName+" animate "+output)
	return nil
}
