package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Error type constants for structured error responses
const (
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeSerialization  = "serialization_failed"
	ErrorTypeInternal       = "internal_error"
)

// Compression algorithm constants for cached render payloads
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionLZ4  = "lz4"
)

// CompressionMinSize is the minimum payload size in bytes worth compressing.
// Smaller payloads are stored as-is.
const CompressionMinSize = 256

// DocumentOptions configures a single document shell render.
// All fields are optional; missing fields degrade to tag/script omission.
type DocumentOptions struct {
	// Title is the <title> text. Empty string renders an empty <title>.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Description populates <meta name="description">. Empty means no tag.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Canonical populates <link rel="canonical">. Empty means no tag.
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`

	// VisualWebsiteOptimizer controls the analytics script block.
	// Accepts false, true, or {account_id: N} on the wire.
	VisualWebsiteOptimizer Optimizer `json:"visual_website_optimizer,omitempty" yaml:"visual_website_optimizer,omitempty"`

	// Env is serialized into the environment bootstrap script.
	// Values must be JSON-serializable.
	Env map[string]interface{} `json:"env,omitempty" yaml:"env,omitempty"`
}

// HeadTag is the wire form of a head contribution supplied by page content.
// Kind is the tag name (title, meta, link, ...). Title contributions carry
// their text in Text; meta/link carry attributes in Attrs.
type HeadTag struct {
	Kind  string            `json:"kind" yaml:"kind"`
	Attrs map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Text  string            `json:"text,omitempty" yaml:"text,omitempty"`
}

// RenderRequest is the POST /render request body. The same shape is
// accepted as a YAML request file by the render CLI.
type RenderRequest struct {
	RequestID string          `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Options   DocumentOptions `json:"options" yaml:"options"`

	// Body is an opaque HTML fragment rendered inside <body> after the
	// bootstrap scripts.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// Head carries page-specific head contributions merged into the
	// default head tags. Contributed title/meta override defaults.
	Head []HeadTag `json:"head,omitempty" yaml:"head,omitempty"`
}

// RenderResponse is the JSON body returned for render errors and by the
// status endpoints. Successful renders return raw HTML instead.
type RenderResponse struct {
	RequestID  string    `json:"request_id,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ErrorType  string    `json:"error_type,omitempty"`
	HTMLSize   int       `json:"html_size,omitempty"`
	RenderTime float64   `json:"render_time,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Duration wraps time.Duration with YAML/JSON unmarshaling from
// human-readable strings ("15s", "24h").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Duration.
// Accepts both numbers (nanoseconds) and strings ("15s", "24h").
func (d *Duration) UnmarshalJSON(data []byte) error {
	var ns int64
	if err := json.Unmarshal(data, &ns); err == nil {
		*d = Duration(ns)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a number or string: %w", err)
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
