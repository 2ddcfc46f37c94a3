package mu

import (
	"net/http"
	"time"
)

// DefaultUA is sent when the config leaves ua empty.
const DefaultUA = "shadowmanager"

// Config is the static panel configuration of one node.
type Config struct {
	NodeID int    `config:"node_id" json:"node_id"`
	URL    string `config:"sspanel_url" json:"sspanel_url"`
	Token  string `config:"token" json:"token"`
	UA     string `config:"ua" json:"ua"`
	//
	DelaySample int `config:"delay_sample" json:"delay_sample"`
}

// Options tune the underlying transport. Zero values keep transport defaults.
type Options struct {
	Transport http.RoundTripper
	Timeout   time.Duration
}
