package sdk

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Login(username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.post("/api/auth/login", credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(username, password string) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := c.post("/api/auth/register", credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Me() (*User, error) {
	var user User
	err := c.get("/api/auth/me", &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout() error {
	return c.post("/api/auth/logout", nil, nil)
}
