package sdk

import "fmt"

func (c *Client) ListTopologies() ([]Topology, error) {
	var topologies []Topology
	err := c.get("/api/lab/topologies", &topologies)
	return topologies, err
}

func (c *Client) CreateTopology(req CreateTopologyRequest) (*Topology, error) {
	var topology Topology
	err := c.post("/api/lab/topologies", req, &topology)
	if err != nil {
		return nil, err
	}
	return &topology, nil
}

func (c *Client) GetTopologyDetail(id uint) (*TopologyDetail, error) {
	var detail TopologyDetail
	err := c.get(fmt.Sprintf("/api/lab/topologies/%d", id), &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SaveTopology replaces the server-side graph with the given payload and
// returns the persisted detail (node ids re-keyed by the server).
func (c *Client) SaveTopology(id uint, payload SaveTopologyPayload) (*TopologyDetail, error) {
	var detail TopologyDetail
	err := c.post(fmt.Sprintf("/api/lab/topologies/%d/save", id), payload, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) DeleteTopology(id uint) error {
	return c.delete(fmt.Sprintf("/api/lab/topologies/%d", id))
}
