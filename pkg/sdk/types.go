package sdk

import "time"

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type RegisterResponse struct {
	Msg  string `json:"msg"`
	User *User  `json:"user"`
}

type DeviceType struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	DefaultIconPath *string `json:"default_icon_path"`
}

type DeviceTypePayload struct {
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
}

type DeviceConfigPayload struct {
	Name            string  `json:"name"`
	DeviceTypeID    uint    `json:"device_type_id"`
	HostnameIP      string  `json:"hostname_ip"`
	DefaultIconPath *string `json:"default_icon_path"`
	Notes           *string `json:"notes"`
}

type Topology struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

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

type CreateTopologyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type SaveTopologyPayload struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
