package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/haddock21/shape-editor/internal/config"
	"github.com/haddock21/shape-editor/internal/engine"
	"github.com/haddock21/shape-editor/internal/export"
	mw "github.com/haddock21/shape-editor/internal/middleware"
	"github.com/haddock21/shape-editor/internal/session"
	"github.com/haddock21/shape-editor/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	editorOpts := engine.Options{
		Width:  cfg.ViewportWidth,
		Height: cfg.ViewportHeight,
		Style: engine.Style{
			Stroke:      cfg.DefaultLineColor,
			Fill:        cfg.DefaultFillColor,
			StrokeWidth: cfg.DefaultStrokeWidth,
		},
	}

	hub := session.NewHub()
	go hub.Run()

	exportHandler := export.NewHandler(export.Settings{
		Editor:        editorOpts,
		Padding:       cfg.ExportPadding,
		JPEGQuality:   cfg.JPEGQuality,
		MaxSceneBytes: cfg.MaxSceneBytes,
	})

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"sessions": hub.Count(),
		})
	}).Methods("GET")

	// Stateless scene endpoints
	r.HandleFunc("/scene/validate", exportHandler.Validate).Methods("POST", "OPTIONS")
	r.HandleFunc("/render", exportHandler.Render).Methods("POST", "OPTIONS")
	r.HandleFunc("/export/pdf", exportHandler.ExportPDF).Methods("POST", "OPTIONS")
	r.HandleFunc("/export/jpeg", exportHandler.ExportJPEG).Methods("POST", "OPTIONS")

	// Interactive editing session
	r.HandleFunc("/ws/session", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, editorOpts, cfg.OriginPatterns())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server", "sessions", hub.Count())
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, opts engine.Options, origins []string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sess := session.NewSession(typeid.NewSessionID(), opts)
	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, sess, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
