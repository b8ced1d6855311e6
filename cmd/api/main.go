package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"eduflow/internal/app"
	"eduflow/internal/httputil"
	"eduflow/internal/prompt"
)

const apiVersion = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	r := newRouter(deps)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("api listening", "addr", srv.Addr, "provider", deps.Config.LLMProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("api service stopped", "err", err)
	}
	if err := deps.Cache.Close(); err != nil {
		deps.Log.Warn("failed to close cache", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)

	r.Get("/", rootHandler(deps))
	r.Get("/health", healthHandler(deps))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/api/generate/direct", directHandler(deps))
	r.Post("/api/generate/upload", uploadHandler(deps))

	return r
}

func rootHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"message":   "EduFlow API",
			"version":   apiVersion,
			"provider":  deps.Config.LLMProvider,
			"endpoints": []string{"/api/generate/direct", "/api/generate/upload", "/health"},
		})
	}
}

// healthHandler reports readiness, including whether the active backend has
// a credential, without attempting any generation.
func healthHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":     "healthy",
			"provider":   deps.Config.LLMProvider,
			"configured": deps.Pipeline.Configured(),
		})
	}
}

func directHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req prompt.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		b, err := deps.Pipeline.GenerateDirect(r.Context(), req)
		if err != nil {
			httputil.WriteError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, b)
	}
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		// Optional form fields; empty values take the upload defaults.
		req := prompt.Request{
			Sujet:    r.FormValue("sujet"),
			Niveau:   r.FormValue("niveau"),
			Objectif: r.FormValue("objectif"),
		}

		b, err := deps.Pipeline.GenerateFromUpload(r.Context(), content, header.Filename, req)
		if err != nil {
			httputil.WriteError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, b)
	}
}
