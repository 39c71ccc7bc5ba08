package api

import (
	"fmt"
	"net/http"

	"netlab/internal/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Store  domain.Repository
	Secret string
}

func NewAPIServer(store domain.Repository, secret string) *Server {
	return &Server{
		Store:  store,
		Secret: secret,
	}
}

// Handler builds the full route table. Split out from Start so tests can
// mount it on httptest servers.
func (api *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", api.handleLogin)
	mux.HandleFunc("POST /api/auth/register", api.handleRegister)
	mux.Handle("GET /api/auth/me", api.AuthMiddleware(http.HandlerFunc(api.handleMe), false))
	mux.Handle("POST /api/auth/logout", api.AuthMiddleware(http.HandlerFunc(api.handleLogout), false))

	// Reads are open to any authenticated user so the palette and the
	// config form's type selector work; mutations are admin only.
	mux.Handle("GET /api/admin/device-types", api.AuthMiddleware(http.HandlerFunc(api.handleListDeviceTypes), false))
	mux.Handle("POST /api/admin/device-types", api.AuthMiddleware(http.HandlerFunc(api.handleCreateDeviceType), true))
	mux.Handle("PUT /api/admin/device-types/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleUpdateDeviceType), true))
	mux.Handle("DELETE /api/admin/device-types/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleDeleteDeviceType), true))

	mux.Handle("GET /api/admin/device-configs", api.AuthMiddleware(http.HandlerFunc(api.handleListDeviceConfigs), false))
	mux.Handle("POST /api/admin/device-configs", api.AuthMiddleware(http.HandlerFunc(api.handleCreateDeviceConfig), true))
	mux.Handle("GET /api/admin/device-configs/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleGetDeviceConfig), false))
	mux.Handle("PUT /api/admin/device-configs/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleUpdateDeviceConfig), true))
	mux.Handle("DELETE /api/admin/device-configs/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleDeleteDeviceConfig), true))

	mux.Handle("GET /api/lab/topologies", api.AuthMiddleware(http.HandlerFunc(api.handleListTopologies), false))
	mux.Handle("POST /api/lab/topologies", api.AuthMiddleware(http.HandlerFunc(api.handleCreateTopology), false))
	mux.Handle("GET /api/lab/topologies/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleGetTopologyDetail), false))
	mux.Handle("PUT /api/lab/topologies/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleUpdateTopologyMeta), false))
	mux.Handle("POST /api/lab/topologies/{id}/save", api.AuthMiddleware(http.HandlerFunc(api.handleSaveTopology), false))
	mux.Handle("DELETE /api/lab/topologies/{id}", api.AuthMiddleware(http.HandlerFunc(api.handleDeleteTopology), false))

	mux.Handle("GET /metrics", promhttp.Handler())

	return api.corsMiddleware(api.metricsMiddleware(mux))
}

func (api *Server) Start(listenAddr string) error {
	fmt.Printf("API listening on http://0.0.0.0%s\n", listenAddr)
	return http.ListenAndServe(listenAddr, api.Handler())
}
