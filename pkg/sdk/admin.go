package sdk

import "fmt"

func (c *Client) ListDeviceTypes() ([]DeviceType, error) {
	var types []DeviceType
	err := c.get("/api/admin/device-types", &types)
	return types, err
}

func (c *Client) CreateDeviceType(payload DeviceTypePayload) (*DeviceType, error) {
	var dt DeviceType
	err := c.post("/api/admin/device-types", payload, &dt)
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (c *Client) UpdateDeviceType(id uint, payload DeviceTypePayload) (*DeviceType, error) {
	var dt DeviceType
	err := c.put(fmt.Sprintf("/api/admin/device-types/%d", id), payload, &dt)
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (c *Client) DeleteDeviceType(id uint) error {
	return c.delete(fmt.Sprintf("/api/admin/device-types/%d", id))
}

func (c *Client) ListDeviceConfigs() ([]DeviceConfig, error) {
	var configs []DeviceConfig
	err := c.get("/api/admin/device-configs", &configs)
	return configs, err
}

func (c *Client) GetDeviceConfig(id uint) (*DeviceConfig, error) {
	var cfg DeviceConfig
	err := c.get(fmt.Sprintf("/api/admin/device-configs/%d", id), &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) CreateDeviceConfig(payload DeviceConfigPayload) (*DeviceConfig, error) {
	var cfg DeviceConfig
	err := c.post("/api/admin/device-configs", payload, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) UpdateDeviceConfig(id uint, payload DeviceConfigPayload) (*DeviceConfig, error) {
	var cfg DeviceConfig
	err := c.put(fmt.Sprintf("/api/admin/device-configs/%d", id), payload, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) DeleteDeviceConfig(id uint) error {
	return c.delete(fmt.Sprintf("/api/admin/device-configs/%d", id))
}
