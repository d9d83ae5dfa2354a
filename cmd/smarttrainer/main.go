package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smarttrainer/smarttrainer/internal/handler"
	appI18n "github.com/smarttrainer/smarttrainer/internal/i18n"
	"github.com/smarttrainer/smarttrainer/internal/llm"
	"github.com/smarttrainer/smarttrainer/internal/model"
	"github.com/smarttrainer/smarttrainer/internal/store"
	"github.com/smarttrainer/smarttrainer/internal/trainer"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smarttrainer",
		Short: "Training quiz platform with LLM question generation",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `smarttrainer --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addStoreFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db-driver", string(store.DriverSQLite), "Database driver (sqlite, postgres)")
	f.String("db", "smarttrainer.db", "SQLite database path or PostgreSQL URL")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	addStoreFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringSliceP("questions", "q", []string{"questions/seed_ar.json"}, "Paths to question bank JSON files (repeatable)")
	f.String("llm-url", "", "OpenAI-compatible API base URL (empty for api.openai.com)")
	f.String("llm-key", "", "API key for LLM (or set OPENAI_API_KEY)")
	f.String("llm-model", llm.DefaultModel, "LLM model name")
	f.Duration("llm-timeout", 60*time.Second, "Timeout for one question generation call")
	f.StringP("lang", "l", "ar", "Default language (ar, en)")
	f.String("base-path", "/api", "URL prefix for the API routes")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.Int64("max-upload-mb", 10, "Maximum upload size in megabytes")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export exam attempts as JSON",
		RunE:  runExport,
	}
	addStoreFlags(cmd)
	cmd.Flags().StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SMARTTRAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("smarttrainer")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/smarttrainer")
	v.AddConfigPath("/etc/smarttrainer")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func openStore(v *viper.Viper) (*store.Store, error) {
	db, err := store.New(store.Driver(v.GetString("db-driver")), v.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := openStore(v)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := trainer.New(db)
	if err := loadQuestions(cmd.Context(), svc, v.GetStringSlice("questions")); err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	count, err := db.QuestionCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	slog.Info("question bank ready", "questions", count)

	lang := model.Language(v.GetString("lang"))
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q (want ar or en)", lang)
	}
	if err := appI18n.Init(string(lang)); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	apiKey := v.GetString("llm-key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	llmClient, err := llm.New(v.GetString("llm-url"), apiKey, v.GetString("llm-model"))
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := llmClient.Ping(pingCtx); err != nil {
		slog.Warn("LLM health check failed, question generation may not work", "error", err)
	} else {
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}
	cancel()

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	h := handler.New(svc, llmClient, handler.Config{
		MaxUploadBytes:  v.GetInt64("max-upload-mb") << 20,
		LLMTimeout:      v.GetDuration("llm-timeout"),
		DefaultLanguage: lang,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: v.GetStringSlice("cors-origins"),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		ExposedHeaders: []string{"Content-Language"},
		MaxAge:         300,
	}))
	r.Use(appI18n.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	if basePath != "" {
		r.Route(basePath, h.Routes)
	} else {
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db_driver", v.GetString("db-driver"),
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"base_path", basePath,
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := openStore(v)
	if err != nil {
		return err
	}
	defer db.Close()

	export, err := db.ExportAttempts(cmd.Context())
	if err != nil {
		return fmt.Errorf("export attempts: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	slog.Info("exported attempts", "count", export.Total, "output", outPath)
	return nil
}

func loadQuestions(ctx context.Context, svc *trainer.Service, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("questions file not found, skipping", "path", path)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := svc.ImportBank(ctx, path, data); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
	}
	return nil
}
