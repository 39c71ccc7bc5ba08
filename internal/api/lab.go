package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"netlab/internal/domain"
)

type CreateTopologyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type SaveTopologyRequest struct {
	Nodes []domain.Node `json:"nodes"`
	Edges []domain.Edge `json:"edges"`
}

func (api *Server) handleListTopologies(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	topologies, err := api.Store.ListTopologies(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topologies == nil {
		topologies = []domain.Topology{}
	}
	writeJSON(w, http.StatusOK, topologies)
}

func (api *Server) handleCreateTopology(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req CreateTopologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Topology name is required")
		return
	}

	topology := &domain.Topology{
		Name:        req.Name,
		Description: req.Description,
		UserID:      claims.UserID,
	}
	if err := api.Store.CreateTopology(topology); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, topology)
}

func (api *Server) handleGetTopologyDetail(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	detail, err := api.Store.GetTopologyDetail(id, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "Topology not found")
		return
	}
	if detail.Nodes == nil {
		detail.Nodes = []domain.Node{}
	}
	if detail.Edges == nil {
		detail.Edges = []domain.Edge{}
	}

	writeJSON(w, http.StatusOK, detail)
}

func (api *Server) handleUpdateTopologyMeta(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	topology, err := api.Store.GetTopology(id, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topology == nil {
		writeError(w, http.StatusNotFound, "Topology not found")
		return
	}

	var req CreateTopologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		topology.Name = req.Name
	}
	if req.Description != nil {
		topology.Description = req.Description
	}

	if err := api.Store.UpdateTopologyMeta(topology); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, topology)
}

// handleSaveTopology replaces the whole graph of a topology with the posted
// node/edge set and responds with the persisted detail, re-keyed to the new
// instance ids.
func (api *Server) handleSaveTopology(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	topology, err := api.Store.GetTopology(id, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topology == nil {
		writeError(w, http.StatusNotFound, "Topology not found")
		return
	}

	var req SaveTopologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	for _, node := range req.Nodes {
		if node.DeviceConfigID == 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing deviceConfigId for node %s", node.ID))
			return
		}
		cfg, err := api.Store.GetDeviceConfigByID(node.DeviceConfigID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if cfg == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid deviceConfigId: %d for node %s", node.DeviceConfigID, node.ID))
			return
		}
	}

	if err := api.Store.ReplaceGraph(id, req.Nodes, req.Edges); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	detail, err := api.Store.GetTopologyDetail(id, claims.UserID)
	if err != nil || detail == nil {
		writeError(w, http.StatusInternalServerError, "Error reloading topology")
		return
	}
	if detail.Nodes == nil {
		detail.Nodes = []domain.Node{}
	}
	if detail.Edges == nil {
		detail.Edges = []domain.Edge{}
	}

	writeJSON(w, http.StatusOK, detail)
}

func (api *Server) handleDeleteTopology(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	topology, err := api.Store.GetTopology(id, claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topology == nil {
		writeError(w, http.StatusNotFound, "Topology not found")
		return
	}

	if err := api.Store.DeleteTopology(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
