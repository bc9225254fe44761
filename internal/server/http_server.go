package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/log"
)

const shutdownTimeout = 10 * time.Second

// Run serves router on addr until ctx is cancelled, SIGINT or SIGTERM
// arrives, or the listener fails. In-flight requests get shutdownTimeout to
// finish.
func Run(ctx context.Context, addr string, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errch := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errch <- srv.ListenAndServe()
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(qC)

	select {
	case s := <-qC:
		log.Info("received", s.String())
	case <-ctx.Done():
	case err := <-errch:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
