package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/config"
)

// configCommand prints the resolved configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long:  `Config prints the configuration after merging defaults, the config file and the environment. The API key is masked; the file is never written.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				printError("%v", err)
				return err
			}
			printConfig(cfg)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			fmt.Println(p)
			return nil
		},
	})
	return cmd
}

func printConfig(cfg config.Config) {
	src := cfg.Path
	if src == "" {
		src = "(defaults)"
	}
	fmt.Println(StyleTitle.Render(appName + " config"))
	printKeyValue("File", src)
	printKeyValue("Base URL", orNone(cfg.Provider.BaseURL))
	printKeyValue("API key", orNone(cfg.Provider.MaskedKey()))
	printKeyValue("Model", cfg.Provider.ModelOrDefault())
	printKeyValue("Animation", fmt.Sprintf("r=%g w=%g color=%s duration=%s mode=%d",
		cfg.Animation.Jitter, cfg.Animation.Width, cfg.Animation.Color, cfg.Animation.Duration, cfg.Animation.Mode))
	printKeyValue("Demos", orDefault(cfg.Demos, "(built-in)"))
	printKeyValue("Server", cfg.Server.Addr)
	if cfg.Server.Redis != "" {
		printKeyValue("Redis", cfg.Server.Redis+" "+channelOrDefault(cfg.Server.Channel))
	}
	if !cfg.HasProvider() {
		printNewline()
		printWarning("Generation is not configured")
		printNextStep("Set credentials", "export SKETCHREVEAL_API_KEY=...")
	}
}

func orNone(s string) string { return orDefault(s, "(none)") }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
