package pprofserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/dockwatch/internal/errors"
)

// Handle registers the pprof handlers on the given mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch a standard pprof server at ipv6 loopback address ::1 and given port.
// The server is only reachable from the local machine.
func Launch(ctx context.Context, port string, logger *slog.Logger) {
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{ //nolint:exhaustruct // rest of the fields use sane defaults
		Addr:              fmt.Sprintf("[::1]%s", port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", errors.SlogError(err))
		}
	}()
}
