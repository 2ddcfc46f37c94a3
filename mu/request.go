package mu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-zoox/logger"
	"github.com/goccy/go-json"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded; charset=utf-8"
)

// Request is one panel call, built fresh for every operation.
type Request struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
}

type requestOptions struct {
	Path   string
	Method string
	Query  url.Values
	JSON   map[string]any
	Form   url.Values
}

func (c *Client) newRequest(opts *requestOptions) (*Request, error) {
	ref, err := url.Parse(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %v", opts.Path, err)
	}
	u := c.base.ResolveReference(ref)

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req := &Request{
		Method: method,
		Header: http.Header{},
	}
	req.Header.Set("User-Agent", c.cfg.UA)

	switch method {
	case http.MethodGet:
		query := url.Values{}
		for k, vs := range opts.Query {
			query[k] = append([]string(nil), vs...)
		}
		query.Set("token", c.cfg.Token)
		u.RawQuery = query.Encode()
	case http.MethodPost:
		if opts.Form != nil {
			form := url.Values{}
			for k, vs := range opts.Form {
				form[k] = append([]string(nil), vs...)
			}
			form.Set("token", c.cfg.Token)

			req.Header.Set("Content-Type", ContentTypeForm)
			req.Body = []byte(form.Encode())
			break
		}

		data := make(map[string]any, len(opts.JSON)+1)
		for k, v := range opts.JSON {
			data[k] = v
		}
		data["token"] = c.cfg.Token

		body, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %v", err)
		}
		req.Header.Set("Content-Type", ContentTypeJSON)
		req.Body = body
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}

	req.URL = u.String()
	return req, nil
}

// do sends req and decodes the envelope. It never interprets ret.
func (c *Client) do(ctx context.Context, req *Request) (*response, error) {
	r := c.http.R().SetContext(ctx)
	for k := range req.Header {
		r.SetHeader(k, req.Header.Get(k))
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	logger.Debugf("[mu][%s] %s", req.Method, redact(req.URL))
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", redact(req.URL), err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{
			URL:  redact(req.URL),
			Code: resp.StatusCode(),
			Body: resp.String(),
		}
	}

	return decodeResponse(resp.Body())
}

// fetch collapses every failure into false.
func (c *Client) fetch(ctx context.Context, req *Request) bool {
	res, err := c.do(ctx, req)
	if err != nil {
		logger.Warnf("[mu] exception at fetching url: %s: %v", redact(req.URL), err)
		return false
	}

	if !res.envelope.OK() {
		logger.Debugf("[mu] panel rejected %s: %v", redact(req.URL), map[string]any(res.envelope))
		return false
	}

	return true
}

// fetchData returns the decoded response or an *APIError.
func (c *Client) fetchData(ctx context.Context, req *Request) (*response, error) {
	res, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	if !res.envelope.OK() {
		return nil, &APIError{Envelope: res.envelope}
	}

	return res, nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	query := u.Query()
	if query.Get("token") == "" {
		return raw
	}
	query.Set("token", "***")
	u.RawQuery = query.Encode()
	return u.String()
}
