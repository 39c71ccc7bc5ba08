package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"netlab/internal/domain"
)

type DeviceTypePayload struct {
	Name            string  `json:"name"`
	DefaultIconPath *string `json:"default_icon_path"`
}

type DeviceConfigPayload struct {
	Name            string  `json:"name"`
	DeviceTypeID    uint    `json:"device_type_id"`
	HostnameIP      string  `json:"hostname_ip"`
	DefaultIconPath *string `json:"default_icon_path"`
	Notes           *string `json:"notes"`
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (api *Server) handleListDeviceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := api.Store.ListDeviceTypes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if types == nil {
		types = []domain.DeviceType{}
	}
	writeJSON(w, http.StatusOK, types)
}

func (api *Server) handleCreateDeviceType(w http.ResponseWriter, r *http.Request) {
	var req DeviceTypePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Device type name is required")
		return
	}

	existing, err := api.Store.GetDeviceTypeByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Device type with this name already exists")
		return
	}

	dt := &domain.DeviceType{Name: req.Name, DefaultIconPath: req.DefaultIconPath}
	if err := api.Store.CreateDeviceType(dt); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dt)
}

func (api *Server) handleUpdateDeviceType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	dt, err := api.Store.GetDeviceTypeByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dt == nil {
		writeError(w, http.StatusNotFound, "Device type not found")
		return
	}

	var req DeviceTypePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Device type name is required")
		return
	}

	existing, err := api.Store.GetDeviceTypeByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil && existing.ID != id {
		writeError(w, http.StatusBadRequest, "Another device type with this name already exists")
		return
	}

	dt.Name = req.Name
	dt.DefaultIconPath = req.DefaultIconPath
	if err := api.Store.UpdateDeviceType(dt); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dt)
}

func (api *Server) handleDeleteDeviceType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	dt, err := api.Store.GetDeviceTypeByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dt == nil {
		writeError(w, http.StatusNotFound, "Device type not found")
		return
	}

	inUse, err := api.Store.CountConfigsForType(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if inUse > 0 {
		writeError(w, http.StatusConflict, "Cannot delete: Device type is in use by one or more device configurations.")
		return
	}

	if err := api.Store.DeleteDeviceType(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *Server) handleListDeviceConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := api.Store.ListDeviceConfigs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if configs == nil {
		configs = []domain.DeviceConfig{}
	}
	writeJSON(w, http.StatusOK, configs)
}

func (api *Server) handleGetDeviceConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	cfg, err := api.Store.GetDeviceConfigByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cfg == nil {
		writeError(w, http.StatusNotFound, "Device config not found")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

func (api *Server) handleCreateDeviceConfig(w http.ResponseWriter, r *http.Request) {
	var req DeviceConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.DeviceTypeID == 0 || req.HostnameIP == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields (name, device_type_id, hostname_ip)")
		return
	}

	deviceType, err := api.Store.GetDeviceTypeByID(req.DeviceTypeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deviceType == nil {
		writeError(w, http.StatusBadRequest, "Invalid device_type_id")
		return
	}

	existing, err := api.Store.GetDeviceConfigByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Device config with this name already exists")
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	cfg := &domain.DeviceConfig{
		Name:            req.Name,
		DeviceTypeID:    req.DeviceTypeID,
		HostnameIP:      req.HostnameIP,
		DefaultIconPath: req.DefaultIconPath,
		Notes:           req.Notes,
		CreatedByID:     claims.UserID,
	}
	if err := api.Store.CreateDeviceConfig(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	created, err := api.Store.GetDeviceConfigByID(cfg.ID)
	if err != nil || created == nil {
		writeError(w, http.StatusInternalServerError, "Error reloading device config")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (api *Server) handleUpdateDeviceConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	cfg, err := api.Store.GetDeviceConfigByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cfg == nil {
		writeError(w, http.StatusNotFound, "Device config not found")
		return
	}

	var req DeviceConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.DeviceTypeID == 0 || req.HostnameIP == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields (name, device_type_id, hostname_ip)")
		return
	}

	deviceType, err := api.Store.GetDeviceTypeByID(req.DeviceTypeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if deviceType == nil {
		writeError(w, http.StatusBadRequest, "Invalid device_type_id")
		return
	}

	existing, err := api.Store.GetDeviceConfigByName(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil && existing.ID != id {
		writeError(w, http.StatusBadRequest, "Another device config with this name already exists")
		return
	}

	cfg.Name = req.Name
	cfg.DeviceTypeID = req.DeviceTypeID
	cfg.HostnameIP = req.HostnameIP
	cfg.DefaultIconPath = req.DefaultIconPath
	cfg.Notes = req.Notes
	if err := api.Store.UpdateDeviceConfig(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := api.Store.GetDeviceConfigByID(id)
	if err != nil || updated == nil {
		writeError(w, http.StatusInternalServerError, "Error reloading device config")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (api *Server) handleDeleteDeviceConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	cfg, err := api.Store.GetDeviceConfigByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cfg == nil {
		writeError(w, http.StatusNotFound, "Device config not found")
		return
	}

	inUse, err := api.Store.CountInstancesForConfig(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if inUse > 0 {
		writeError(w, http.StatusConflict, "Cannot delete: Device configuration is used in one or more lab topologies.")
		return
	}

	if err := api.Store.DeleteDeviceConfig(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
