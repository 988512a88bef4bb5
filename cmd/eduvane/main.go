package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"eduvane/cmd/eduvane/chat"
	"eduvane/internal/config"
	"eduvane/internal/logging"
	"eduvane/internal/orchestrator"
	"eduvane/internal/reasoning"
	"eduvane/internal/store"
	"eduvane/internal/types"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	guest     bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eduvane",
	Short: "Eduvane - educational analysis assistant",
	Long: `Eduvane grades student work, tracks learning signals over time, and
generates practice material, all through one conversational interface.

Upload a worksheet photo or paste work as text and Eduvane runs its
perception, interpretation, and diagnosis pipeline; ask for a quiz and
it streams one back.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode owns the screen; keep zap quiet there.
		if cmd.Use != "eduvane" || cmd.CalledAs() != "eduvane" {
			zcfg := zap.NewProductionConfig()
			if verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			return fmt.Errorf("failed to initialize debug logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// analyzeCmd runs a single submission through the pipeline and prints
// the events as they arrive.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze one submission without entering the chat UI",
	Long: `Runs one file (or, with --text, an inline submission) through the full
analysis pipeline and prints the result. Useful for scripting and for
inspecting pipeline behavior with --verbose.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// historyCmd lists stored submissions.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List analyzed submissions",
	RunE:  runHistory,
}

// showCmd prints one stored submission in full.
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored submission as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// configCmd manages the workspace config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workspace configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .eduvane/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath(workspace)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		redacted := *cfg
		if redacted.LLM.APIKey != "" {
			redacted.LLM.APIKey = "<set>"
		}
		out, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

// clearCmd wipes the stored history and profile.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored submissions and the user profile",
	RunE:  runClear,
}

var analyzeText string

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and environment)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory")
	rootCmd.PersistentFlags().BoolVar(&guest, "guest", false, "Guest mode: no profile or history persistence")

	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Inline text submission instead of a file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(analyzeCmd, historyCmd, showCmd, configCmd, clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// =============================================================================
// WIRING
// =============================================================================

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.DefaultPath(workspace))
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	return cfg, nil
}

// buildOrchestrator assembles the full stack: config, Gemini service,
// SQLite store (skipped for guests), orchestrator.
func buildOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	service, err := reasoning.NewGeminiService(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create reasoning service: %w", err)
	}

	var st store.Store
	if !guest {
		dbPath := cfg.Storage.DatabasePath
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(workspace, dbPath)
		}
		st, err = store.NewLocalStore(dbPath, cfg.Storage.HistoryLimit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store: %w", err)
		}
	}

	return orchestrator.New(service, st, nil), st, nil
}

func openStore() (store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbPath := cfg.Storage.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(workspace, dbPath)
	}
	return store.NewLocalStore(dbPath, cfg.Storage.HistoryLimit)
}

func runInteractiveChat() error {
	// Long-running mode: pick up logging toggles without a restart.
	if stop, err := logging.WatchConfig(); err == nil {
		defer stop()
	}

	orch, st, err := buildOrchestrator(context.Background())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}
	return chat.Run(orch, guest)
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && analyzeText == "" {
		return fmt.Errorf("provide a file argument or --text")
	}

	input := types.UnifiedInput{Text: analyzeText}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(args[0]))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		input.File = &types.FileRef{Name: filepath.Base(args[0]), MIMEType: mimeType, Data: data}
	}

	ctx := cmd.Context()
	orch, st, err := buildOrchestrator(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	for ev := range orch.ProcessInput(ctx, input, guest) {
		switch ev.Type {
		case types.EventPhaseUpdate:
			logger.Info("phase update", zap.String("phase", string(ev.Phase)))
		case types.EventStreamChunk:
			fmt.Print(ev.Text)
		case types.EventSubmissionComplete:
			out, err := json.MarshalIndent(ev.Submission, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		case types.EventFollowUp:
			fmt.Println(ev.Text)
		case types.EventError:
			return fmt.Errorf("analysis failed: %s", ev.Message)
		}
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.History()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No submissions yet.")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%-38s %-12s %-14s %-20s %s\n", item.ID, item.Date, item.Subject, item.Topic, item.ScoreLabel)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sub, err := st.GetSubmission(args[0])
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("no submission with id %s", args[0])
	}
	out, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	fmt.Print("This deletes all stored submissions and the saved profile. Continue? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted.")
		return nil
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ClearHistory(); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}
