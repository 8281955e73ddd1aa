// Package cli implements the grimoire CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/grimoire/internal/app"
	"github.com/rcliao/grimoire/internal/config"
	"github.com/rcliao/grimoire/internal/logging"
	"github.com/rcliao/grimoire/internal/store"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	verbose    bool

	cfg    = &config.Config{}
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "Persona roleplay chat with a shared world book",
	Long: `Chat with persona-bound contacts backed by the Gemini API. Lore entries from
the world book are injected into every prompt, and a simulated forum lets
contacts and strangers post and reply. State is a single SQLite (or Postgres) blob.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path or postgres:// URL (default: $GRIMOIRE_DB or ~/.grimoire/state.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $GRIMOIRE_CONFIG or ./grimoire.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if cfg.DB != "" {
		return cfg.DB
	}
	return config.DefaultDBPath()
}

func openApp(ctx context.Context) (*app.App, error) {
	st, err := store.Open(ctx, getDBPath())
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, app.Options{
		Store:           st,
		Logger:          logger,
		FallbackAPIKey:  cfg.APIKey,
		FallbackBaseURL: cfg.BaseURL,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

func mustOpenApp(cmd *cobra.Command) *app.App {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open state", err)
	}
	return a
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// readContent takes content from the positional args, or from stdin when
// it is piped.
func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return strings.TrimSpace(string(b))
	}
	return ""
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
