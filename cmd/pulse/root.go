package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/pulse/internal/config"
	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

type rootOptions struct {
	configPath string
	provider   string
	category   string
	debug      bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "pulse",
		Short:         "Daily headlines in your terminal",
		Long:          "pulse shows top headlines by category and searches global stories from a news API.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file")
	pf.StringVar(&opts.provider, "provider", "", "news provider (see `pulse providers`)")
	pf.BoolVar(&opts.debug, "debug", false, "write debug logs to the log file")

	cmd.Flags().StringVar(&opts.category, "category", "", "category to start with")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "skip startup banner")

	cmd.AddCommand(
		newHeadlinesCmd(opts),
		newSearchCmd(opts),
		newProxyCmd(opts),
		newProvidersCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig reads the config file and applies the global flag overrides.
// Logging is set up as a side effect; callers defer debuglog.Close.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.provider != "" {
		cfg.API.Provider = opts.provider
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}
	return cfg, nil
}

// newClient builds the upstream client for the configured provider. A
// missing key is only a warning: a proxy base URL needs none.
func newClient(cfg *config.Config, warn io.Writer) (*news.Client, error) {
	registry, err := news.NewRegistry()
	if err != nil {
		return nil, err
	}
	provider, err := registry.Get(cfg.API.Provider)
	if err != nil {
		return nil, err
	}

	if provider.Definition().RequiresKey && cfg.API.Key == "" && cfg.API.BaseURL == "" {
		fmt.Fprintf(warn, "warning: no API key for %s; set PULSE_API_KEY or point api.base_url at `pulse proxy`\n", provider.Name())
	}

	debuglog.Infof("provider=%s base=%s language=%s", provider.Name(), cfg.API.BaseURL, cfg.API.Language)

	return news.NewClient(provider, news.Options{
		BaseURL: cfg.API.BaseURL,
		Params: news.Params{
			Language: cfg.API.Language,
			Country:  cfg.API.Country,
			Key:      cfg.API.Key,
		},
		Timeout:   cfg.API.HTTPTimeout,
		UserAgent: cfg.API.UserAgent,
	}), nil
}

func startCategory(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Feed.DefaultCategory
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	client, err := newClient(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	ctrl := feed.NewController(client, startCategory(opts.category, cfg))
	app := tui.NewApp(cfg, ctrl, client.Provider().Categories()).WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pulse %s\n", Version)
			fmt.Fprintln(out, "Daily headlines in your terminal")
			fmt.Fprintln(out, "github.com/pders01/pulse")
		},
	}
}
