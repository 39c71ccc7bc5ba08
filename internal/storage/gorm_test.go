package storage

import (
	"path/filepath"
	"testing"

	"netlab/internal/domain"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return store
}

func seedConfig(t *testing.T, store *GormStore, typeName, configName string) *domain.DeviceConfig {
	t.Helper()
	icon := "/icons/" + typeName + ".svg"
	dt := &domain.DeviceType{Name: typeName, DefaultIconPath: &icon}
	if err := store.CreateDeviceType(dt); err != nil {
		t.Fatal(err)
	}
	cfg := &domain.DeviceConfig{Name: configName, DeviceTypeID: dt.ID, HostnameIP: "10.0.0.1"}
	if err := store.CreateDeviceConfig(cfg); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	store := newTestStore(t)
	user, err := store.GetUserByUsername("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if user != nil {
		t.Errorf("expected nil for missing user, got %+v", user)
	}
}

func TestConfigInheritsTypeIcon(t *testing.T) {
	store := newTestStore(t)
	seeded := seedConfig(t, store, "Router", "rtr-1")

	cfg, err := store.GetDeviceConfigByID(seeded.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DeviceTypeName != "Router" {
		t.Errorf("expected type name resolved, got %q", cfg.DeviceTypeName)
	}
	if cfg.DefaultIconPath == nil || *cfg.DefaultIconPath != "/icons/Router.svg" {
		t.Errorf("expected type icon inherited, got %v", cfg.DefaultIconPath)
	}
}

func TestConfigOwnIconWins(t *testing.T) {
	store := newTestStore(t)
	typeIcon := "/icons/type.svg"
	dt := &domain.DeviceType{Name: "Switch", DefaultIconPath: &typeIcon}
	if err := store.CreateDeviceType(dt); err != nil {
		t.Fatal(err)
	}
	ownIcon := "/icons/custom.svg"
	cfg := &domain.DeviceConfig{Name: "sw-1", DeviceTypeID: dt.ID, DefaultIconPath: &ownIcon}
	if err := store.CreateDeviceConfig(cfg); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetDeviceConfigByID(cfg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.DefaultIconPath == nil || *got.DefaultIconPath != ownIcon {
		t.Errorf("expected config icon to win, got %v", got.DefaultIconPath)
	}
}

func TestInUseCounts(t *testing.T) {
	store := newTestStore(t)
	cfg := seedConfig(t, store, "Router", "rtr-1")

	n, err := store.CountConfigsForType(cfg.DeviceTypeID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 config for type, got %d", n)
	}

	topology := &domain.Topology{Name: "lab", UserID: 1}
	if err := store.CreateTopology(topology); err != nil {
		t.Fatal(err)
	}
	err = store.ReplaceGraph(topology.ID, []domain.Node{
		{ID: "a", DeviceConfigID: cfg.ID},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	n, err = store.CountInstancesForConfig(cfg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 instance for config, got %d", n)
	}
}

func TestReplaceGraphMapsClientIDs(t *testing.T) {
	store := newTestStore(t)
	cfg := seedConfig(t, store, "Router", "Router1")

	topology := &domain.Topology{Name: "lab", UserID: 7}
	if err := store.CreateTopology(topology); err != nil {
		t.Fatal(err)
	}

	nodes := []domain.Node{
		{ID: "client-a", DeviceConfigID: cfg.ID, InstanceName: "rtr-a", X: 1, Y: 2},
		{ID: "client-b", DeviceConfigID: cfg.ID, X: 3, Y: 4},
	}
	edges := []domain.Edge{
		{ID: "e1", Source: "client-a", Target: "client-b"},
		{ID: "e2", Source: "client-a", Target: "ghost"},
	}
	if err := store.ReplaceGraph(topology.ID, nodes, edges); err != nil {
		t.Fatal(err)
	}

	detail, err := store.GetTopologyDetail(topology.ID, 7)
	if err != nil {
		t.Fatal(err)
	}
	if detail == nil {
		t.Fatal("expected detail")
	}
	if len(detail.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(detail.Nodes))
	}
	if len(detail.Edges) != 1 {
		t.Fatalf("expected ghost edge skipped, got %d edges", len(detail.Edges))
	}

	ids := map[string]bool{}
	for _, n := range detail.Nodes {
		if n.ID == "client-a" || n.ID == "client-b" {
			t.Errorf("client id %q leaked into persisted graph", n.ID)
		}
		ids[n.ID] = true
	}
	edge := detail.Edges[0]
	if !ids[edge.Source] || !ids[edge.Target] {
		t.Errorf("edge endpoints %q->%q not among instance ids", edge.Source, edge.Target)
	}

	if detail.Nodes[0].InstanceName != "rtr-a" {
		t.Errorf("expected instance name kept, got %q", detail.Nodes[0].InstanceName)
	}
	if detail.Nodes[1].InstanceName != "Router1" {
		t.Errorf("expected config name fallback, got %q", detail.Nodes[1].InstanceName)
	}
	if detail.Nodes[0].HostnameIP != "10.0.0.1" {
		t.Errorf("expected hostname from config, got %q", detail.Nodes[0].HostnameIP)
	}
}

func TestReplaceGraphIsWholesale(t *testing.T) {
	store := newTestStore(t)
	cfg := seedConfig(t, store, "Router", "rtr-1")

	topology := &domain.Topology{Name: "lab", UserID: 1}
	if err := store.CreateTopology(topology); err != nil {
		t.Fatal(err)
	}

	first := []domain.Node{
		{ID: "a", DeviceConfigID: cfg.ID},
		{ID: "b", DeviceConfigID: cfg.ID},
	}
	if err := store.ReplaceGraph(topology.ID, first, []domain.Edge{{ID: "e", Source: "a", Target: "b"}}); err != nil {
		t.Fatal(err)
	}

	second := []domain.Node{{ID: "c", DeviceConfigID: cfg.ID}}
	if err := store.ReplaceGraph(topology.ID, second, nil); err != nil {
		t.Fatal(err)
	}

	detail, err := store.GetTopologyDetail(topology.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Nodes) != 1 || len(detail.Edges) != 0 {
		t.Errorf("expected old graph replaced, got %d nodes %d edges", len(detail.Nodes), len(detail.Edges))
	}
}

func TestTopologiesScopedToUser(t *testing.T) {
	store := newTestStore(t)

	mine := &domain.Topology{Name: "mine", UserID: 1}
	theirs := &domain.Topology{Name: "theirs", UserID: 2}
	if err := store.CreateTopology(mine); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateTopology(theirs); err != nil {
		t.Fatal(err)
	}

	list, err := store.ListTopologies(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "mine" {
		t.Errorf("unexpected list %+v", list)
	}

	got, err := store.GetTopology(theirs.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected other user's topology to be invisible, got %+v", got)
	}
}

func TestDeleteTopologyCascades(t *testing.T) {
	store := newTestStore(t)
	cfg := seedConfig(t, store, "Router", "rtr-1")

	topology := &domain.Topology{Name: "lab", UserID: 1}
	if err := store.CreateTopology(topology); err != nil {
		t.Fatal(err)
	}
	nodes := []domain.Node{
		{ID: "a", DeviceConfigID: cfg.ID},
		{ID: "b", DeviceConfigID: cfg.ID},
	}
	if err := store.ReplaceGraph(topology.ID, nodes, []domain.Edge{{ID: "e", Source: "a", Target: "b"}}); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteTopology(topology.ID); err != nil {
		t.Fatal(err)
	}

	n, err := store.CountInstancesForConfig(cfg.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected instances removed with topology, got %d", n)
	}
}
