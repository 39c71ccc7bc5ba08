package domain

type UserRepository interface {
	CreateUser(user *User) error
	GetUserByUsername(username string) (*User, error)
	GetUserByID(id uint) (*User, error)
	CountUsers() (int64, error)
}

type DeviceTypeRepository interface {
	ListDeviceTypes() ([]DeviceType, error)
	GetDeviceTypeByID(id uint) (*DeviceType, error)
	GetDeviceTypeByName(name string) (*DeviceType, error)
	CreateDeviceType(dt *DeviceType) error
	UpdateDeviceType(dt *DeviceType) error
	DeleteDeviceType(id uint) error
	CountConfigsForType(typeID uint) (int64, error)
}

type DeviceConfigRepository interface {
	ListDeviceConfigs() ([]DeviceConfig, error)
	GetDeviceConfigByID(id uint) (*DeviceConfig, error)
	GetDeviceConfigByName(name string) (*DeviceConfig, error)
	CreateDeviceConfig(cfg *DeviceConfig) error
	UpdateDeviceConfig(cfg *DeviceConfig) error
	DeleteDeviceConfig(id uint) error
	CountInstancesForConfig(configID uint) (int64, error)
}

type TopologyRepository interface {
	ListTopologies(userID uint) ([]Topology, error)
	GetTopology(id, userID uint) (*Topology, error)
	CreateTopology(t *Topology) error
	UpdateTopologyMeta(t *Topology) error
	DeleteTopology(id uint) error
	GetTopologyDetail(id, userID uint) (*TopologyDetail, error)
	// ReplaceGraph replaces the whole node/edge set of a topology. Client
	// node ids are re-keyed to fresh instance ids; edges whose endpoints do
	// not appear in the same payload are skipped.
	ReplaceGraph(id uint, nodes []Node, edges []Edge) error
}

type Repository interface {
	UserRepository
	DeviceTypeRepository
	DeviceConfigRepository
	TopologyRepository
}
