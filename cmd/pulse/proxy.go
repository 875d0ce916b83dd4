package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/proxy"
)

func newProxyCmd(root *rootOptions) *cobra.Command {
	var listen, upstream string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Serve the news API locally with the key injected server side",
		Long: "proxy forwards GET {path_prefix}/* to the provider's API, adding the API key " +
			"so clients never hold it. Point api.base_url at http://{listen}{path_prefix} and leave api.key empty.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			defer debuglog.Close()

			registry, err := news.NewRegistry()
			if err != nil {
				return err
			}
			provider, err := registry.Get(cfg.API.Provider)
			if err != nil {
				return err
			}
			def := provider.Definition()
			if def.RequiresKey && cfg.API.Key == "" {
				return fmt.Errorf("%s needs an API key; set PULSE_API_KEY or api.key", provider.Name())
			}

			if listen == "" {
				listen = cfg.Proxy.Listen
			}
			if upstream == "" {
				upstream = def.BaseURL
			}

			srv, err := proxy.New(proxy.Config{
				Listen:         listen,
				PathPrefix:     cfg.Proxy.PathPrefix,
				Upstream:       upstream,
				KeyParam:       def.KeyParam,
				Key:            cfg.API.Key,
				AllowedOrigins: cfg.Proxy.AllowedOrigins,
				Timeout:        cfg.API.HTTPTimeout,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pulse proxy listening on http://%s%s → %s\n", listen, cfg.Proxy.PathPrefix, srv.Upstream())
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (defaults to proxy.listen)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "upstream base URL (defaults to the provider's)")
	return cmd
}
