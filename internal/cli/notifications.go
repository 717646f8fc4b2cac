package cli

import (
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/pkg/notify"
)

// notificationsCommand tails the shared notification channel.
func (c *CLI) notificationsCommand() *cobra.Command {
	var redisAddr, channel string

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Print notifications shared by running servers",
		Long:  `Notifications subscribes to the redis pub/sub channel that serve --redis publishes on and prints every notification until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if redisAddr == "" {
				redisAddr = cfg.Server.Redis
			}
			if channel == "" {
				channel = cfg.Server.Channel
			}
			if redisAddr == "" {
				printError("No redis address configured")
				printNextStep("Pass one", appName+" notifications --redis localhost:6379")
				return errNoRedis
			}

			rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				printError("Redis unreachable at %s: %v", redisAddr, err)
				return err
			}

			printInfo("Listening on %s", StyleHighlight.Render(channelOrDefault(channel)))
			sub := notify.NewRedis(rdb, channel, loggerFromContext(ctx))
			return sub.Subscribe(ctx, newConsoleNotifier(os.Stdout))
		},
	}

	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (default from config)")
	cmd.Flags().StringVar(&channel, "channel", "", "pub/sub channel (default "+notify.DefaultChannel+")")
	return cmd
}
