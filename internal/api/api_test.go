package api

import (
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"netlab/internal/storage"
	"netlab/pkg/sdk"
)

func newTestServer(t *testing.T) *sdk.Client {
	t.Helper()

	store, err := storage.NewGormStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	apiServer := NewAPIServer(store, "test-secret")
	ts := httptest.NewServer(apiServer.Handler())
	t.Cleanup(ts.Close)

	return sdk.NewClient(ts.URL)
}

// registerAndLogin creates the account and returns a logged-in client. The
// first account registered against a fresh store is the admin.
func registerAndLogin(t *testing.T, client *sdk.Client, username string) *sdk.User {
	t.Helper()
	if _, err := client.Register(username, "password123"); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	resp, err := client.Login(username, "password123")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	client.SetToken(resp.AccessToken)
	return resp.User
}

func apiError(t *testing.T, err error) *sdk.APIError {
	t.Helper()
	var apiErr *sdk.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	return apiErr
}

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	client := newTestServer(t)

	resp, err := client.Register("alice", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Msg != "User registered successfully" {
		t.Errorf("unexpected msg %q", resp.Msg)
	}
	if !resp.User.IsAdmin {
		t.Error("first registered user must be admin")
	}

	second, err := client.Register("bob", "password123")
	if err != nil {
		t.Fatal(err)
	}
	if second.User.IsAdmin {
		t.Error("second registered user must not be admin")
	}
}

func TestRegisterValidation(t *testing.T) {
	client := newTestServer(t)

	_, err := client.Register("", "")
	if msg := apiError(t, err).Msg; msg != "Username and password are required" {
		t.Errorf("unexpected msg %q", msg)
	}

	if _, err := client.Register("alice", "password123"); err != nil {
		t.Fatal(err)
	}
	_, err = client.Register("alice", "other")
	if msg := apiError(t, err).Msg; msg != "Username already exists" {
		t.Errorf("unexpected msg %q", msg)
	}
}

func TestLoginAndMe(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	user, err := client.Me()
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "alice" || !user.IsAdmin {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	client := newTestServer(t)
	if _, err := client.Register("alice", "password123"); err != nil {
		t.Fatal(err)
	}

	_, err := client.Login("alice", "wrong")
	apiErr := apiError(t, err)
	if apiErr.StatusCode != 401 {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Msg != "Invalid username or password" {
		t.Errorf("unexpected msg %q", apiErr.Msg)
	}

	// Unknown user gets the same message as a wrong password.
	_, err = client.Login("nobody", "wrong")
	if msg := apiError(t, err).Msg; msg != "Invalid username or password" {
		t.Errorf("unexpected msg %q", msg)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	client := newTestServer(t)

	_, err := client.ListDeviceTypes()
	if apiError(t, err).StatusCode != 401 {
		t.Errorf("expected 401 without a token")
	}

	client.SetToken("garbage")
	_, err = client.ListDeviceTypes()
	apiErr := apiError(t, err)
	if apiErr.StatusCode != 401 || apiErr.Msg != "Invalid or expired token" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestAdminMutationsForbiddenForNonAdmins(t *testing.T) {
	adminClient := newTestServer(t)
	registerAndLogin(t, adminClient, "alice")

	userClient := sdk.NewClient(adminClient.BaseURL())
	registerAndLogin(t, userClient, "bob")

	_, err := userClient.CreateDeviceType(sdk.DeviceTypePayload{Name: "Router"})
	apiErr := apiError(t, err)
	if apiErr.StatusCode != 403 {
		t.Errorf("expected 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Msg != "Administration rights required" {
		t.Errorf("unexpected msg %q", apiErr.Msg)
	}

	// Reads stay open to any authenticated user.
	if _, err := userClient.ListDeviceTypes(); err != nil {
		t.Errorf("list device types as non-admin: %v", err)
	}
	if _, err := userClient.ListDeviceConfigs(); err != nil {
		t.Errorf("list device configs as non-admin: %v", err)
	}
}

func TestDeviceTypeInUseRejection(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	icon := "/icons/router.svg"
	dt, err := client.CreateDeviceType(sdk.DeviceTypePayload{Name: "Router", DefaultIconPath: &icon})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := client.CreateDeviceConfig(sdk.DeviceConfigPayload{
		Name:         "Core Router",
		DeviceTypeID: dt.ID,
		HostnameIP:   "10.0.0.1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DeviceTypeName != "Router" {
		t.Errorf("expected resolved type name, got %q", cfg.DeviceTypeName)
	}
	if cfg.DefaultIconPath == nil || *cfg.DefaultIconPath != icon {
		t.Errorf("expected type icon inherited, got %v", cfg.DefaultIconPath)
	}

	err = client.DeleteDeviceType(dt.ID)
	apiErr := apiError(t, err)
	if apiErr.StatusCode != 409 {
		t.Errorf("expected 409, got %d", apiErr.StatusCode)
	}
	if apiErr.Msg != "Cannot delete: Device type is in use by one or more device configurations." {
		t.Errorf("unexpected msg %q", apiErr.Msg)
	}

	if err := client.DeleteDeviceConfig(cfg.ID); err != nil {
		t.Fatal(err)
	}
	if err := client.DeleteDeviceType(dt.ID); err != nil {
		t.Errorf("delete after configs removed: %v", err)
	}
}

func TestDeviceConfigValidation(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	_, err := client.CreateDeviceConfig(sdk.DeviceConfigPayload{Name: "Incomplete"})
	if msg := apiError(t, err).Msg; msg != "Missing required fields (name, device_type_id, hostname_ip)" {
		t.Errorf("unexpected msg %q", msg)
	}

	_, err = client.CreateDeviceConfig(sdk.DeviceConfigPayload{
		Name:         "Bad Type",
		DeviceTypeID: 999,
		HostnameIP:   "10.0.0.1",
	})
	if msg := apiError(t, err).Msg; msg != "Invalid device_type_id" {
		t.Errorf("unexpected msg %q", msg)
	}
}

func TestTopologySaveRoundTrip(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	dt, err := client.CreateDeviceType(sdk.DeviceTypePayload{Name: "Router"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := client.CreateDeviceConfig(sdk.DeviceConfigPayload{
		Name:         "Router1",
		DeviceTypeID: dt.ID,
		HostnameIP:   "10.0.0.1",
	})
	if err != nil {
		t.Fatal(err)
	}

	topology, err := client.CreateTopology(sdk.CreateTopologyRequest{Name: "Branch lab"})
	if err != nil {
		t.Fatal(err)
	}

	payload := sdk.SaveTopologyPayload{
		Nodes: []sdk.Node{
			{ID: "client-a", DeviceConfigID: cfg.ID, InstanceName: "rtr-a", X: 10, Y: 20},
			{ID: "client-b", DeviceConfigID: cfg.ID, X: 30, Y: 40},
		},
		Edges: []sdk.Edge{
			{ID: "e1", Source: "client-a", Target: "client-b"},
		},
	}
	detail, err := client.SaveTopology(topology.ID, payload)
	if err != nil {
		t.Fatal(err)
	}

	if len(detail.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(detail.Nodes))
	}
	if len(detail.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(detail.Edges))
	}
	for _, n := range detail.Nodes {
		if n.ID == "client-a" || n.ID == "client-b" {
			t.Errorf("node id %q was not re-keyed to an instance id", n.ID)
		}
		if n.HostnameIP != "10.0.0.1" {
			t.Errorf("expected hostname resolved from config, got %q", n.HostnameIP)
		}
	}
	if detail.Nodes[0].InstanceName != "rtr-a" {
		t.Errorf("expected instance name kept, got %q", detail.Nodes[0].InstanceName)
	}
	// A node saved without a name falls back to the config name.
	if detail.Nodes[1].InstanceName != "Router1" {
		t.Errorf("expected config name fallback, got %q", detail.Nodes[1].InstanceName)
	}

	edge := detail.Edges[0]
	ids := map[string]bool{detail.Nodes[0].ID: true, detail.Nodes[1].ID: true}
	if !ids[edge.Source] || !ids[edge.Target] {
		t.Errorf("edge endpoints %q->%q not among node ids", edge.Source, edge.Target)
	}

	// Positions survive the round trip.
	reloaded, err := client.GetTopologyDetail(topology.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Nodes[0].X != 10 || reloaded.Nodes[0].Y != 20 {
		t.Errorf("unexpected position (%v,%v)", reloaded.Nodes[0].X, reloaded.Nodes[0].Y)
	}
}

func TestTopologySaveValidation(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	topology, err := client.CreateTopology(sdk.CreateTopologyRequest{Name: "lab"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.SaveTopology(topology.ID, sdk.SaveTopologyPayload{
		Nodes: []sdk.Node{{ID: "n1"}},
	})
	if msg := apiError(t, err).Msg; msg != "Missing deviceConfigId for node n1" {
		t.Errorf("unexpected msg %q", msg)
	}

	_, err = client.SaveTopology(topology.ID, sdk.SaveTopologyPayload{
		Nodes: []sdk.Node{{ID: "n1", DeviceConfigID: 42}},
	})
	if msg := apiError(t, err).Msg; msg != "Invalid deviceConfigId: 42 for node n1" {
		t.Errorf("unexpected msg %q", msg)
	}
}

func TestTopologySaveSkipsUnmappedEdges(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	dt, err := client.CreateDeviceType(sdk.DeviceTypePayload{Name: "Switch"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := client.CreateDeviceConfig(sdk.DeviceConfigPayload{
		Name:         "sw-1",
		DeviceTypeID: dt.ID,
		HostnameIP:   "10.0.0.2",
	})
	if err != nil {
		t.Fatal(err)
	}
	topology, err := client.CreateTopology(sdk.CreateTopologyRequest{Name: "lab"})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := client.SaveTopology(topology.ID, sdk.SaveTopologyPayload{
		Nodes: []sdk.Node{{ID: "a", DeviceConfigID: cfg.ID}},
		Edges: []sdk.Edge{{ID: "e1", Source: "a", Target: "ghost"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Edges) != 0 {
		t.Errorf("expected edge with unknown endpoint skipped, got %d edges", len(detail.Edges))
	}
}

func TestTopologiesArePerUser(t *testing.T) {
	aliceClient := newTestServer(t)
	registerAndLogin(t, aliceClient, "alice")

	topology, err := aliceClient.CreateTopology(sdk.CreateTopologyRequest{Name: "alice lab"})
	if err != nil {
		t.Fatal(err)
	}

	bobClient := sdk.NewClient(aliceClient.BaseURL())
	registerAndLogin(t, bobClient, "bob")

	topologies, err := bobClient.ListTopologies()
	if err != nil {
		t.Fatal(err)
	}
	if len(topologies) != 0 {
		t.Errorf("expected bob to see no topologies, got %d", len(topologies))
	}

	_, err = bobClient.GetTopologyDetail(topology.ID)
	apiErr := apiError(t, err)
	if apiErr.StatusCode != 404 || apiErr.Msg != "Topology not found" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestCreateTopologyRequiresName(t *testing.T) {
	client := newTestServer(t)
	registerAndLogin(t, client, "alice")

	_, err := client.CreateTopology(sdk.CreateTopologyRequest{})
	if msg := apiError(t, err).Msg; msg != "Topology name is required" {
		t.Errorf("unexpected msg %q", msg)
	}
}
