package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/merge"
	"github.com/lexflow/chronicle/internal/model"
)

var (
	servePort  int
	serveRules string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for extraction requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(serveRules)
		if err != nil {
			return err
		}

		r := newRouter(env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "rules file (default embedded rules)")
	rootCmd.AddCommand(serveCmd)
}

// extractRequest is the synchronous extraction request body.
type extractRequest struct {
	Source string `json:"source"`
	Pages  []struct {
		Page int    `json:"page"`
		Text string `json:"text"`
	} `json:"pages"`
}

// newRouter builds the HTTP routes over an initialized pipeline.
func newRouter(env *pipelineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/v1/extract", func(w http.ResponseWriter, req *http.Request) {
		var body extractRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(body.Pages) == 0 {
			http.Error(w, `{"error":"pages is required"}`, http.StatusBadRequest)
			return
		}
		if body.Source == "" {
			body.Source = "request"
		}

		pages := make([]model.PageRecord, 0, len(body.Pages))
		for i, p := range body.Pages {
			n := p.Page
			if n <= 0 {
				n = i + 1
			}
			pages = append(pages, model.NewPageRecord(n, p.Text, false))
		}

		rows := env.Pipeline.ProcessPages(req.Context(), body.Source, pages)
		rows = merge.Dedupe(rows)
		merge.Sort(rows)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows})
	})

	return r
}
