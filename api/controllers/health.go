package controllers

import (
	"context"
	"net/http"

	"github.com/lumenpress/albumforge-backend/api/responses"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

// Pinger is the dependency health-check surface shared by the database and
// redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness. It never touches dependencies.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports whether the API can serve traffic: both the database and
// redis must answer a ping.
func Ready(dbPing, redisPing Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dbPing == nil || redisPing == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "health checks not wired"))
			return
		}
		if err := dbPing.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if err := redisPing.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
