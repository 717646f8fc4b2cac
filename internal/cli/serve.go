package cli

import (
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/internal/server"
	"github.com/matzehuels/sketchreveal/pkg/notify"
)

// serveCommand creates the serve command for the web front end.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisAddr, channel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front end",
		Long: `Serve runs the browser front end: the page, its JSON API and a websocket that
pushes scenes, frames and notifications. With --redis, notifications are
shared with every other instance on the same pub/sub channel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(false); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") || cfg.Server.Addr == "" {
				cfg.Server.Addr = addr
			}
			if redisAddr != "" {
				cfg.Server.Redis = redisAddr
			}
			if channel != "" {
				cfg.Server.Channel = channel
			}

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithCatalog(c.loadCatalog(cmd, cfg)),
				server.WithDefaults(cfg.Animation.Params()),
			}
			if cfg.HasProvider() {
				opts = append(opts, server.WithProvider(cfg.Provider))
			}
			if cfg.Server.Redis != "" {
				rdb := redis.NewClient(&redis.Options{Addr: cfg.Server.Redis})
				defer rdb.Close()
				if err := rdb.Ping(ctx).Err(); err != nil {
					logger.Warn("redis unreachable, notifications stay local", "addr", cfg.Server.Redis, "err", err)
				} else {
					opts = append(opts, server.WithRedis(rdb, cfg.Server.Channel))
					logger.Info("sharing notifications", "redis", cfg.Server.Redis, "channel", channelOrDefault(cfg.Server.Channel))
				}
			}

			printInfo("Open %s", StyleHighlight.Render("http://"+cfg.Server.Addr))
			return server.New(opts...).Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared notifications (host:port)")
	cmd.Flags().StringVar(&channel, "channel", "", "redis pub/sub channel (default "+notify.DefaultChannel+")")

	return cmd
}

func channelOrDefault(ch string) string {
	if ch == "" {
		return notify.DefaultChannel
	}
	return ch
}
