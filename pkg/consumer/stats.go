package consumer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adjust/rmq/v5"
	"github.com/smartbus/routeplanner/pkg/database"
	"github.com/smartbus/routeplanner/pkg/redis_client"
)

type StatsServerHandler struct {
	redisConnection rmq.Connection
}

func NewStatsHandler(connection rmq.Connection) *StatsServerHandler {
	return &StatsServerHandler{redisConnection: connection}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	queues, err := handler.redisConnection.GetOpenQueues()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	stats, err := handler.redisConnection.CollectStats(queues)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if !redis_client.Connected() {
		writer.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(writer, "redis disconnected")
		return
	}

	if err := redis_client.Client.Ping(request.Context()).Err(); err != nil {
		writer.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(writer, err)
		return
	}

	if !database.Connected() {
		writer.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(writer, "database disconnected")
		return
	}

	if err := database.MongoGlobalInstance.Client.Ping(context.Background(), nil); err != nil {
		writer.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(writer, err)
		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}
