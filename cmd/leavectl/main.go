package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"leavectl/internal/api"
	"leavectl/internal/config"
	"leavectl/internal/session"
	"leavectl/internal/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "leavectl",
	Short: "Client for the leave-management HR service",
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, profileCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(usersCmd, departmentsCmd)
	rootCmd.AddCommand(calendarCmd, holidaysCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(reportsCmd)

	configCmd.AddCommand(configInitCmd, configListCmd)
}

// App bundles everything a command needs: config, the API client, and the
// state stores.
type App struct {
	Cfg    config.Config
	Client *api.Client
	Stores *store.Stores
	Log    *slog.Logger
}

// newApp loads config and wires the client and stores.
func newApp() (*App, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sessions := session.NewManager(cfg.DataDir)
	client := api.New(cfg.APIBaseURL, sessions,
		api.WithLogger(log),
		api.WithTimeout(cfg.RequestTimeout),
	)
	return &App{
		Cfg:    cfg,
		Client: client,
		Stores: store.New(client, log),
		Log:    log,
	}, nil
}

// requireSession is the guard in front of authenticated commands: restore
// the session from the persisted token first, and only then fail with a
// login hint.
func (a *App) requireSession(ctx context.Context) error {
	if a.Stores.Auth.Authenticated() {
		return nil
	}
	if err := a.Stores.Auth.Restore(ctx); err != nil {
		return fmt.Errorf("not logged in (run `leavectl login`): %w", err)
	}
	return nil
}

// requireRole scopes admin/manager commands. The role may come from the
// token claim before the profile loads; the server still enforces the real
// check, so a stale hint only changes the error message.
func (a *App) requireRole(roles ...string) error {
	role := a.Stores.Auth.Role()
	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}
	return fmt.Errorf("this command requires one of the roles %v (you are %q)", roles, role)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg := config.Default()
		if err := config.Init(path, cfg); err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return err
		}
		fmt.Printf("Config file:  %s\n", path)
		fmt.Printf("API URL:      %s\n", cfg.APIBaseURL)
		fmt.Printf("Push path:    %s\n", cfg.PushPath)
		fmt.Printf("Data dir:     %s\n", cfg.DataDir)
		fmt.Printf("Download dir: %s\n", cfg.DownloadDir)
		fmt.Printf("Remember me:  %v\n", cfg.RememberMe)
		return nil
	},
}
