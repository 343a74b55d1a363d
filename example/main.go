package main

import (
	"log/slog"
	"net/http"
	"os"

	htmldom "github.com/dpotapov/go-htmldom"
	"github.com/dpotapov/go-htmldom/shtml/dump"
)

func LoggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	h := &htmldom.Handler{
		FileSystem: os.DirFS("./example/pages"),
		Format:     dump.FormatTree,
		MaxDepth:   64,
		OnError:    nil,
		Logger:     logger,
	}

	logger.Info("Starting HTTP server", "address", "http://localhost:8080")

	err := http.ListenAndServe(":8080", LoggerMiddleware(h, logger))

	logger.Error("HTTP server error", "error", err)
}
