package domain

import "time"

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"is_admin"`
}

type DeviceType struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	DefaultIconPath *string `json:"default_icon_path"`
}

type DeviceConfig struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	DeviceTypeID    uint    `json:"device_type_id"`
	DeviceTypeName  string  `json:"device_type_name"`
	HostnameIP      string  `json:"hostname_ip"`
	DefaultIconPath *string `json:"default_icon_path"`
	Notes           *string `json:"notes"`
	CreatedByID     uint    `json:"-"`
}

type Topology struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	UserID      uint      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Node and Edge are the canonical wire shape for topology graphs. The same
// shape is used for both detail responses and save payloads; node ids are
// client-generated until a save re-keys them to persisted instance ids.
type Node struct {
	ID             string  `json:"id"`
	DeviceConfigID uint    `json:"deviceConfigId"`
	InstanceName   string  `json:"instanceName,omitempty"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	HostnameIP     string  `json:"hostnameIp,omitempty"`
	IconPath       string  `json:"iconPath,omitempty"`
}

type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type TopologyDetail struct {
	Topology
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
