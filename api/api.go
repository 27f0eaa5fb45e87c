// Package api serves the small read-only ops endpoints next to the bot.
package api

import (
	"net/http"

	"github.com/0xcafe-io/iz"
	"github.com/fatali-fataliyev/thriftier/internal/contextutil"
	"github.com/fatali-fataliyev/thriftier/logging"
	"github.com/rs/cors"
)

type Api struct {
	Storage  StorageInfo
	Removals PendingCounter
}

func NewApi(storage StorageInfo, removals PendingCounter) *Api {
	return &Api{
		Storage:  storage,
		Removals: removals,
	}
}

func (api *Api) HealthHandler(r *iz.Request) iz.Responder {
	resp := HealthResponse{
		Status:  "ok",
		Storage: api.Storage.GetStorageType(),
	}

	if pinger, ok := api.Storage.(Pinger); ok {
		if err := pinger.Ping(r.Context()); err != nil {
			traceID := contextutil.TraceIDFromContext(contextutil.WithTraceID(r.Context(), ""))
			logging.Logger.Errorf("[TraceID=%s] | storage ping failed in Api.HealthHandler() function | Error: %v", traceID, err)
			resp.Status = "unavailable"
			return iz.Respond().Status(503).JSON(resp)
		}
	}
	return iz.Respond().Status(200).JSON(resp)
}

func (api *Api) RemovalsHandler(r *iz.Request) iz.Responder {
	return iz.Respond().Status(200).JSON(RemovalsResponse{Pending: api.Removals.Pending()})
}

var corsConf = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{"GET", "OPTIONS"},
})

// NewHandler wires the ops routes.
func NewHandler(api *Api) http.Handler {
	server := http.NewServeMux()

	server.HandleFunc("GET /api/health", iz.Bind(api.HealthHandler))     // Liveness and storage backend
	server.HandleFunc("GET /api/removals", iz.Bind(api.RemovalsHandler)) // Removal flows awaiting a selection

	return corsConf.Handler(server)
}
