// Package generation talks to the hosted image/video generation API.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	DefaultImageEndpoint = "https://fal.run/fal-ai/flux/dev"
	DefaultVideoEndpoint = "https://fal.run/fal-ai/fast-svd-lcm"

	// videoFrames is the fixed clip length requested for video jobs.
	videoFrames = 25
)

// Request carries the parameters of one creative.
type Request struct {
	Prompt     string `json:"prompt"`
	Type       string `json:"type"`
	Style      string `json:"style"`
	Dimensions string `json:"dimensions"`
	Platform   string `json:"platform"`
}

// Size is the pixel size sent to the image model.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var sizes = map[string]Size{
	"1080x1080": {Width: 1024, Height: 1024},
	"1080x1920": {Width: 768, Height: 1344},
	"1200x628":  {Width: 1344, Height: 768},
	"1200x1200": {Width: 1024, Height: 1024},
	"1080x1350": {Width: 768, Height: 1024},
}

// SizeFor maps a platform dimension string to a model-supported size.
// Unknown dimensions get 1024x1024.
func SizeFor(dimensions string) Size {
	if s, ok := sizes[dimensions]; ok {
		return s
	}
	return Size{Width: 1024, Height: 1024}
}

// Outcome is a parsed response: exactly one of URL or Error is set.
type Outcome struct {
	URL   string
	Error string
}

// Generator performs one generation call. A returned error means the call
// itself failed (transport, unreadable body); API-level failures come back
// in Outcome.Error.
type Generator interface {
	Generate(ctx context.Context, key string, req Request) (Outcome, error)
}

// Client is the HTTP implementation of Generator.
type Client struct {
	http          *http.Client
	imageEndpoint string
	videoEndpoint string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithEndpoints(image, video string) Option {
	return func(c *Client) {
		if image != "" {
			c.imageEndpoint = image
		}
		if video != "" {
			c.videoEndpoint = video
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{http: &http.Client{}, imageEndpoint: DefaultImageEndpoint, videoEndpoint: DefaultVideoEndpoint}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BuildRequest returns the endpoint and JSON body for req.
func (c *Client) BuildRequest(req Request) (string, map[string]any) {
	if req.Type == "video" {
		return c.videoEndpoint, map[string]any{"prompt": req.Prompt, "num_frames": videoFrames}
	}
	prompt := req.Prompt
	if req.Style != "" {
		prompt = req.Style + " style. " + prompt
	}
	return c.imageEndpoint, map[string]any{
		"prompt":     prompt,
		"image_size": SizeFor(req.Dimensions),
		"num_images": 1,
	}
}

func (c *Client) Generate(ctx context.Context, key string, req Request) (Outcome, error) {
	endpoint, body := c.BuildRequest(req)
	payload, err := json.Marshal(body)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{}, err
	}
	httpReq.Header.Set("Authorization", "Key "+key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(raw)
}

// ParseResponse extracts the artifact URL from a generation response. The
// HTTP status is not consulted; error bodies carry a "detail" field instead.
func ParseResponse(raw []byte) (Outcome, error) {
	if !gjson.ValidBytes(raw) {
		return Outcome{}, fmt.Errorf("invalid json response body: %.120s", raw)
	}
	res := gjson.ParseBytes(raw)
	for _, path := range []string{"images.0.url", "video.url"} {
		if u := res.Get(path); u.Type == gjson.String && u.Str != "" {
			return Outcome{URL: u.Str}, nil
		}
	}
	if d := res.Get("detail"); d.Exists() && d.String() != "" {
		return Outcome{Error: d.String()}, nil
	}
	return Outcome{Error: "Unknown response format"}, nil
}
