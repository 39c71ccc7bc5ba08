package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"netlab/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex"`
	Password string
	IsAdmin  bool
}

type DeviceType struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"uniqueIndex"`
	DefaultIconPath *string
}

type DeviceConfig struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"uniqueIndex"`
	DeviceTypeID    uint
	HostnameIP      string
	DefaultIconPath *string
	Notes           *string
	CreatedByID     uint
}

type LabTopology struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description *string
	UserID      uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LabDeviceInstance struct {
	ID             uint `gorm:"primaryKey"`
	TopologyID     uint
	DeviceConfigID uint
	InstanceName   *string
	CanvasX        float64
	CanvasY        float64
}

type LabConnection struct {
	ID               uint `gorm:"primaryKey"`
	TopologyID       uint
	SourceInstanceID uint
	TargetInstanceID uint
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(path string) (*GormStore, error) {
	newLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  gormlogger.Error,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&User{}, &DeviceType{}, &DeviceConfig{}, &LabTopology{}, &LabDeviceInstance{}, &LabConnection{})
	if err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateUser(user *domain.User) error {
	row := &User{
		Username: user.Username,
		Password: user.Password,
		IsAdmin:  user.IsAdmin,
	}
	if err := s.db.Create(row).Error; err != nil {
		return err
	}
	user.ID = row.ID
	return nil
}

func (s *GormStore) GetUserByUsername(username string) (*domain.User, error) {
	var row User
	result := s.db.First(&row, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", result.Error)
	}
	return userToDomain(&row), nil
}

func (s *GormStore) GetUserByID(id uint) (*domain.User, error) {
	var row User
	result := s.db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", result.Error)
	}
	return userToDomain(&row), nil
}

func (s *GormStore) CountUsers() (int64, error) {
	var n int64
	err := s.db.Model(&User{}).Count(&n).Error
	return n, err
}

func userToDomain(row *User) *domain.User {
	return &domain.User{
		ID:       row.ID,
		Username: row.Username,
		Password: row.Password,
		IsAdmin:  row.IsAdmin,
	}
}

func (s *GormStore) ListDeviceTypes() ([]domain.DeviceType, error) {
	var rows []DeviceType
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	var types []domain.DeviceType
	for _, row := range rows {
		types = append(types, domain.DeviceType{
			ID:              row.ID,
			Name:            row.Name,
			DefaultIconPath: row.DefaultIconPath,
		})
	}
	return types, nil
}

func (s *GormStore) GetDeviceTypeByID(id uint) (*domain.DeviceType, error) {
	var row DeviceType
	result := s.db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying device type: %w", result.Error)
	}
	return &domain.DeviceType{ID: row.ID, Name: row.Name, DefaultIconPath: row.DefaultIconPath}, nil
}

func (s *GormStore) GetDeviceTypeByName(name string) (*domain.DeviceType, error) {
	var row DeviceType
	result := s.db.First(&row, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying device type: %w", result.Error)
	}
	return &domain.DeviceType{ID: row.ID, Name: row.Name, DefaultIconPath: row.DefaultIconPath}, nil
}

func (s *GormStore) CreateDeviceType(dt *domain.DeviceType) error {
	row := &DeviceType{Name: dt.Name, DefaultIconPath: dt.DefaultIconPath}
	if err := s.db.Create(row).Error; err != nil {
		return err
	}
	dt.ID = row.ID
	return nil
}

func (s *GormStore) UpdateDeviceType(dt *domain.DeviceType) error {
	updates := map[string]interface{}{
		"name":              dt.Name,
		"default_icon_path": dt.DefaultIconPath,
	}
	return s.db.Model(&DeviceType{}).Where("id = ?", dt.ID).Updates(updates).Error
}

func (s *GormStore) DeleteDeviceType(id uint) error {
	return s.db.Delete(&DeviceType{}, "id = ?", id).Error
}

func (s *GormStore) CountConfigsForType(typeID uint) (int64, error) {
	var n int64
	err := s.db.Model(&DeviceConfig{}).Where("device_type_id = ?", typeID).Count(&n).Error
	return n, err
}

func (s *GormStore) ListDeviceConfigs() ([]domain.DeviceConfig, error) {
	var rows []DeviceConfig
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	var configs []domain.DeviceConfig
	for _, row := range rows {
		cfg, err := s.configToDomain(&row)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *cfg)
	}
	return configs, nil
}

func (s *GormStore) GetDeviceConfigByID(id uint) (*domain.DeviceConfig, error) {
	var row DeviceConfig
	result := s.db.First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying device config: %w", result.Error)
	}
	return s.configToDomain(&row)
}

func (s *GormStore) GetDeviceConfigByName(name string) (*domain.DeviceConfig, error) {
	var row DeviceConfig
	result := s.db.First(&row, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying device config: %w", result.Error)
	}
	return s.configToDomain(&row)
}

// configToDomain resolves the effective icon: the config's own icon wins,
// otherwise the device type's default applies.
func (s *GormStore) configToDomain(row *DeviceConfig) (*domain.DeviceConfig, error) {
	cfg := &domain.DeviceConfig{
		ID:              row.ID,
		Name:            row.Name,
		DeviceTypeID:    row.DeviceTypeID,
		HostnameIP:      row.HostnameIP,
		DefaultIconPath: row.DefaultIconPath,
		Notes:           row.Notes,
		CreatedByID:     row.CreatedByID,
	}

	var dt DeviceType
	result := s.db.First(&dt, "id = ?", row.DeviceTypeID)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
		cfg.DeviceTypeName = "Unknown"
		return cfg, nil
	}

	cfg.DeviceTypeName = dt.Name
	if cfg.DefaultIconPath == nil {
		cfg.DefaultIconPath = dt.DefaultIconPath
	}
	return cfg, nil
}

func (s *GormStore) CreateDeviceConfig(cfg *domain.DeviceConfig) error {
	row := &DeviceConfig{
		Name:            cfg.Name,
		DeviceTypeID:    cfg.DeviceTypeID,
		HostnameIP:      cfg.HostnameIP,
		DefaultIconPath: cfg.DefaultIconPath,
		Notes:           cfg.Notes,
		CreatedByID:     cfg.CreatedByID,
	}
	if err := s.db.Create(row).Error; err != nil {
		return err
	}
	cfg.ID = row.ID
	return nil
}

func (s *GormStore) UpdateDeviceConfig(cfg *domain.DeviceConfig) error {
	updates := map[string]interface{}{
		"name":              cfg.Name,
		"device_type_id":    cfg.DeviceTypeID,
		"hostname_ip":       cfg.HostnameIP,
		"default_icon_path": cfg.DefaultIconPath,
		"notes":             cfg.Notes,
	}
	return s.db.Model(&DeviceConfig{}).Where("id = ?", cfg.ID).Updates(updates).Error
}

func (s *GormStore) DeleteDeviceConfig(id uint) error {
	return s.db.Delete(&DeviceConfig{}, "id = ?", id).Error
}

func (s *GormStore) CountInstancesForConfig(configID uint) (int64, error) {
	var n int64
	err := s.db.Model(&LabDeviceInstance{}).Where("device_config_id = ?", configID).Count(&n).Error
	return n, err
}

func (s *GormStore) ListTopologies(userID uint) ([]domain.Topology, error) {
	var rows []LabTopology
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	var topologies []domain.Topology
	for _, row := range rows {
		topologies = append(topologies, topologyToDomain(&row))
	}
	return topologies, nil
}

func (s *GormStore) GetTopology(id, userID uint) (*domain.Topology, error) {
	var row LabTopology
	result := s.db.First(&row, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying topology: %w", result.Error)
	}
	t := topologyToDomain(&row)
	return &t, nil
}

func topologyToDomain(row *LabTopology) domain.Topology {
	return domain.Topology{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		UserID:      row.UserID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (s *GormStore) CreateTopology(t *domain.Topology) error {
	row := &LabTopology{Name: t.Name, Description: t.Description, UserID: t.UserID}
	if err := s.db.Create(row).Error; err != nil {
		return err
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	t.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *GormStore) UpdateTopologyMeta(t *domain.Topology) error {
	updates := map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
	}
	return s.db.Model(&LabTopology{}).Where("id = ?", t.ID).Updates(updates).Error
}

func (s *GormStore) DeleteTopology(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LabConnection{}, "topology_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&LabDeviceInstance{}, "topology_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&LabTopology{}, "id = ?", id).Error
	})
}

func (s *GormStore) GetTopologyDetail(id, userID uint) (*domain.TopologyDetail, error) {
	topology, err := s.GetTopology(id, userID)
	if err != nil || topology == nil {
		return nil, err
	}

	var instances []LabDeviceInstance
	if err := s.db.Where("topology_id = ?", id).Order("id").Find(&instances).Error; err != nil {
		return nil, err
	}

	detail := &domain.TopologyDetail{Topology: *topology}
	for _, inst := range instances {
		node := domain.Node{
			ID:             strconv.FormatUint(uint64(inst.ID), 10),
			DeviceConfigID: inst.DeviceConfigID,
			X:              inst.CanvasX,
			Y:              inst.CanvasY,
		}
		if inst.InstanceName != nil {
			node.InstanceName = *inst.InstanceName
		}

		cfg, err := s.GetDeviceConfigByID(inst.DeviceConfigID)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			if node.InstanceName == "" {
				node.InstanceName = cfg.Name
			}
			node.HostnameIP = cfg.HostnameIP
			if cfg.DefaultIconPath != nil {
				node.IconPath = *cfg.DefaultIconPath
			}
		}
		detail.Nodes = append(detail.Nodes, node)
	}

	var connections []LabConnection
	if err := s.db.Where("topology_id = ?", id).Order("id").Find(&connections).Error; err != nil {
		return nil, err
	}
	for _, conn := range connections {
		detail.Edges = append(detail.Edges, domain.Edge{
			ID:     strconv.FormatUint(uint64(conn.ID), 10),
			Source: strconv.FormatUint(uint64(conn.SourceInstanceID), 10),
			Target: strconv.FormatUint(uint64(conn.TargetInstanceID), 10),
		})
	}

	return detail, nil
}

func (s *GormStore) ReplaceGraph(id uint, nodes []domain.Node, edges []domain.Edge) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&LabConnection{}, "topology_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&LabDeviceInstance{}, "topology_id = ?", id).Error; err != nil {
			return err
		}

		clientToInstance := make(map[string]uint, len(nodes))
		for _, node := range nodes {
			inst := LabDeviceInstance{
				TopologyID:     id,
				DeviceConfigID: node.DeviceConfigID,
				CanvasX:        node.X,
				CanvasY:        node.Y,
			}
			if node.InstanceName != "" {
				name := node.InstanceName
				inst.InstanceName = &name
			}
			if err := tx.Create(&inst).Error; err != nil {
				return err
			}
			if node.ID != "" {
				clientToInstance[node.ID] = inst.ID
			}
		}

		for _, edge := range edges {
			source, okSource := clientToInstance[edge.Source]
			target, okTarget := clientToInstance[edge.Target]
			if !okSource || !okTarget {
				log.Printf("skipping edge %s: unmapped endpoint (source=%s target=%s)", edge.ID, edge.Source, edge.Target)
				continue
			}
			conn := LabConnection{
				TopologyID:       id,
				SourceInstanceID: source,
				TargetInstanceID: target,
			}
			if err := tx.Create(&conn).Error; err != nil {
				return err
			}
		}

		// Bump updated_at so list views reflect the save.
		return tx.Model(&LabTopology{}).Where("id = ?", id).Update("updated_at", time.Now()).Error
	})
}
