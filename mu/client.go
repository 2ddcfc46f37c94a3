package mu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gfwbrker/shadowsocks-munager/user"
	"github.com/go-resty/resty/v2"
	"github.com/go-zoox/logger"
	"github.com/goccy/go-json"
)

// Client talks to the Mu api of the panel on behalf of one node.
// It is safe for concurrent use; methods block only the calling goroutine.
type Client struct {
	cfg  Config
	base *url.URL
	http *resty.Client
}

// Traffic is the accumulated throughput of one user since the last upload.
type Traffic struct {
	UserID int   `json:"user_id"`
	U      int64 `json:"u"`
	D      int64 `json:"d"`
}

// AliveIP is one online client address reported to /api/nodes/aliveip.
type AliveIP struct {
	UserID int    `json:"user_id"`
	IP     string `json:"ip"`
}

func New(cfg *Config, opts ...*Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mu config is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("sspanel_url is required")
	}

	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid sspanel_url: %v", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid sspanel_url: %s", cfg.URL)
	}

	c := &Client{
		cfg:  *cfg,
		base: base,
		http: resty.New().SetLogger(&restyLogger{}),
	}
	if c.cfg.UA == "" {
		c.cfg.UA = DefaultUA
	}

	// later options override earlier ones field by field
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Transport != nil {
			c.http.SetTransport(opt.Transport)
		}
		if opt.Timeout > 0 {
			c.http.SetTimeout(opt.Timeout)
		}
	}

	return c, nil
}

// ListUsers fetches the users of the node in panel order.
func (c *Client) ListUsers(ctx context.Context) ([]*user.User, error) {
	req, err := c.newRequest(&requestOptions{
		Path: fmt.Sprintf("/api/users/nodes/%d", c.cfg.NodeID),
	})
	if err != nil {
		return nil, err
	}

	res, err := c.fetchData(ctx, req)
	if err != nil {
		return nil, err
	}

	var records []json.RawMessage
	if res.data != nil {
		if err := json.Unmarshal(res.data, &records); err != nil {
			return nil, fmt.Errorf("invalid user list: %v", err)
		}
	}

	users := make([]*user.User, 0, len(records))
	for i, record := range records {
		u, err := user.Decode(record)
		if err != nil {
			return nil, fmt.Errorf("invalid user at index %d: %v", i, err)
		}

		u.Plugin = user.PluginNone
		u.PluginOpts = user.PluginNone
		users = append(users, u)
	}

	logger.Debugf("[mu][users] node %d has %d users", c.cfg.NodeID, len(users))
	return users, nil
}

// GetUsers fetches the users of the node indexed by key.
func (c *Client) GetUsers(ctx context.Context, key user.Key) (map[string]*user.User, error) {
	if _, err := (&user.User{}).Key(key); err != nil {
		return nil, err
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	ret := make(map[string]*user.User, len(users))
	for _, u := range users {
		k, err := u.Key(key)
		if err != nil {
			return nil, err
		}
		ret[k] = u
	}

	return ret, nil
}

func (c *Client) PostOnlineUser(ctx context.Context, amount int) bool {
	req, err := c.newRequest(&requestOptions{
		Path:   "/api/nodes/online",
		Method: http.MethodPost,
		JSON: map[string]any{
			"node_id":     c.cfg.NodeID,
			"online_user": amount,
		},
	})
	if err != nil {
		logger.Warnf("[mu][online] failed to build request: %v", err)
		return false
	}

	return c.fetch(ctx, req)
}

// UploadThroughput reports per-user traffic and returns the panel's data field.
func (c *Client) UploadThroughput(ctx context.Context, users []Traffic) (any, error) {
	if users == nil {
		users = []Traffic{}
	}

	req, err := c.newRequest(&requestOptions{
		Path:   "/api/traffic/upload",
		Method: http.MethodPost,
		JSON: map[string]any{
			"node_id": c.cfg.NodeID,
			"data":    users,
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := c.fetchData(ctx, req)
	if err != nil {
		return nil, err
	}

	return res.envelope["data"], nil
}

// PostOnlineIP reports online client addresses. data is passed through as-is.
func (c *Client) PostOnlineIP(ctx context.Context, data any) bool {
	req, err := c.newRequest(&requestOptions{
		Path:   "/api/nodes/aliveip",
		Method: http.MethodPost,
		JSON: map[string]any{
			"node_id": c.cfg.NodeID,
			"data":    data,
		},
	})
	if err != nil {
		logger.Warnf("[mu][aliveip] failed to build request: %v", err)
		return false
	}

	return c.fetch(ctx, req)
}

// IsNodeTrafficRunOut returns the node status data, an empty list when absent.
func (c *Client) IsNodeTrafficRunOut(ctx context.Context) (any, error) {
	req, err := c.newRequest(&requestOptions{
		Path: fmt.Sprintf("/api/nodes/%d", c.cfg.NodeID),
	})
	if err != nil {
		return nil, err
	}

	res, err := c.fetchData(ctx, req)
	if err != nil {
		return nil, err
	}

	return res.dataOrEmpty(), nil
}

// GetDelay fetches delay samples for the node, sized by delay_sample.
func (c *Client) GetDelay(ctx context.Context) (any, error) {
	req, err := c.newRequest(&requestOptions{
		Path: "/mu/v2/node/delay",
		Query: url.Values{
			"sample": []string{strconv.Itoa(c.cfg.DelaySample)},
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := c.fetchData(ctx, req)
	if err != nil {
		return nil, err
	}

	return res.dataOrEmpty(), nil
}

func (c *Client) PostDelayInfo(ctx context.Context, form url.Values) bool {
	return c.postForm(ctx, "/mu/v2/node/delay_info", form)
}

// PostLoad reports node load (cpu, memory, uptime) as form fields.
func (c *Client) PostLoad(ctx context.Context, form url.Values) bool {
	return c.postForm(ctx, "/mu/v2/node/info", form)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) bool {
	if form == nil {
		form = url.Values{}
	}

	req, err := c.newRequest(&requestOptions{
		Path:   path,
		Method: http.MethodPost,
		Form:   form,
	})
	if err != nil {
		logger.Warnf("[mu][form] failed to build request for %s: %v", path, err)
		return false
	}

	return c.fetch(ctx, req)
}
