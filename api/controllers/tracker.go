package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	"github.com/angelmondragon/scrappickup-backend/internal/lifecycle"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

var streamHeartbeat = 15 * time.Second

type snapshotter interface {
	Snapshot(ctx context.Context, sess session.Session) (lifecycle.View, error)
}

type viewWatcher interface {
	Watch(ctx context.Context, sess session.Session) *lifecycle.Watch
}

// TrackerSnapshot returns the caller's current lifecycle view.
func TrackerSnapshot(svc snapshotter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracker unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Snapshot(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// TrackerStream sends every new view as a server-sent "status" event until
// the client disconnects. Comment lines keep idle proxies from closing it.
func TrackerStream(watcher viewWatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if watcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracker unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rc := http.NewResponseController(w)
		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			logg.Error(r.Context(), "tracker stream not flushable", err)
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		watch := watcher.Watch(ctx, sess)
		defer func() { <-watch.Done() }()
		defer cancel()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case view, ok := <-watch.Updates():
				if !ok {
					return
				}
				if err := writeEvent(w, "status", view); err != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "tracker stream write failed")
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
