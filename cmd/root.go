package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/squad-ai/squadctl/internal/api"
	"github.com/squad-ai/squadctl/internal/auth"
	"github.com/squad-ai/squadctl/internal/config"
	"github.com/squad-ai/squadctl/internal/personality"
	"github.com/squad-ai/squadctl/internal/provider"
	"github.com/squad-ai/squadctl/internal/ratelimit"
	"github.com/squad-ai/squadctl/internal/session"
	"github.com/squad-ai/squadctl/internal/store"
)

var (
	cfgFile          string
	personalityFlag  string
	squadFlag        string
	conversationFlag string
	verbose          bool

	// Package-level version info, set by Execute().
	appVersion string
	appCommit  string
	appDate    string
)

// Execute is the main entry point called from main.go. When no commit
// was injected via ldflags it falls back to the VCS revision embedded in
// the build info.
func Execute(version, commit, date string) {
	if commit == "" {
		commit = vcsRevision()
	}
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd := &cobra.Command{
		Use:   "squadctl",
		Short: "Chat with Squad AI personalities from the terminal",
		Long:  "squadctl talks to a Squad backend (or directly to a model API) with\npersistent conversations, personalities and squads.",
		// Running squadctl with no subcommand starts chat mode.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Local .env is convenient for development; absence is fine.
			_ = godotenv.Load()

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/squadctl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&personalityFlag, "personality", "p", "friend-ai", "personality to chat with")
	rootCmd.PersistentFlags().StringVarP(&squadFlag, "squad", "s", "", "squad to chat with (overrides --personality)")
	rootCmd.PersistentFlags().StringVar(&conversationFlag, "conversation", "", "conversation id (default: derived from personality/squad)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	// Subcommands
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newPersonalitiesCmd())
	rootCmd.AddCommand(newSquadsCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// chatTarget resolves the personality/squad flags into routing ids and a
// default conversation id.
func chatTarget() (aiID, squadID, conversationID string) {
	aiID = personalityFlag
	if squadFlag != "" {
		aiID = ""
		squadID = squadFlag
	}
	conversationID = conversationFlag
	if conversationID == "" {
		if squadID != "" {
			conversationID = "squad-" + squadID
		} else {
			conversationID = "ai-" + aiID
		}
	}
	return aiID, squadID, conversationID
}

func credentialStore(cfg *config.Config) (auth.Store, error) {
	path := cfg.CredentialsPath
	if path == "" {
		p, err := auth.DefaultCredentialsPath()
		if err != nil {
			return nil, fmt.Errorf("resolve credentials path: %w", err)
		}
		path = p
	}
	return auth.NewFileStore(path)
}

func messageStore(cfg *config.Config) (store.MessageStore, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
		path = p
	}
	return store.NewSQLiteStore(path)
}

// buildProvider creates a direct-mode Provider instance from configuration.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	pc := cfg.Providers[cfg.Provider]
	if pc.APIKey == "" {
		return nil, fmt.Errorf(
			"API key not configured for provider %q.\n"+
				"Set it via LLM_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY,\n"+
				"or providers.%s.api_key in the config file", cfg.Provider, cfg.Provider)
	}
	switch cfg.Provider {
	case "anthropic":
		return provider.NewAnthropicProvider(pc.APIKey, pc.BaseURL, pc.Model, cfg.Timeout()), nil
	default:
		return provider.NewOpenAIProvider(pc.APIKey, pc.BaseURL, pc.Model, cfg.Timeout()), nil
	}
}

// buildSession assembles the full session client from configuration. The
// returned cleanup closes the message store.
func buildSession(cfg *config.Config) (*session.Client, func(), error) {
	creds, err := credentialStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := messageStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	mode := session.Mode(cfg.Mode)
	registry := personality.NewRegistry(personality.Builtins())

	var apiClient *api.Client
	var dispatcher session.Dispatcher
	if mode == session.ModeBackend {
		apiClient = api.New(cfg.Backend.BaseURL, cfg.Timeout())
		dispatcher = session.NewBackendDispatcher(apiClient)
	} else {
		p, err := buildProvider(cfg)
		if err != nil {
			msgs.Close()
			return nil, nil, err
		}
		dispatcher = session.NewDirectDispatcher(p)
	}

	client := session.NewClient(session.Options{
		Mode:        mode,
		Limiter:     ratelimit.New(cfg.RateLimit.Requests, cfg.Window()),
		Credentials: creds,
		API:         apiClient,
		Dispatcher:  dispatcher,
		Messages:    msgs,
		Builder: session.NewBuilder(mode, registry, session.Settings{
			MaxTokens:   cfg.Chat.MaxTokens,
			Temperature: cfg.Chat.Temperature,
			Language:    cfg.Chat.Language,
		}),
		HistoryLimit: cfg.Chat.HistoryLimit,
		TokenBudget:  cfg.Chat.TokenLimit,
		Logger:       slog.Default(),
	})
	return client, func() { msgs.Close() }, nil
}

// vcsRevision returns the short commit hash from embedded build info,
// or "none" when built outside a checkout.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "none"
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("squadctl %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
