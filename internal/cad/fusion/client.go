package fusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cadkit/stlexport/internal/cad"
)

// Client talks to the host add-in's bridge over HTTP.
// It implements cad.Exporter; FetchDesign returns a snapshot implementing
// cad.Design.
//
// Design decision: the constructor validates the address but performs no
// network I/O, so a Client can be created before the host is running and
// tested against httptest servers.
type Client struct {
	// baseURL is the bridge root, e.g. "http://127.0.0.1:9301".
	baseURL string

	// httpClient is the underlying HTTP client with the request timeout.
	httpClient *http.Client
}

// NewClient creates a bridge client for the given "host:port" address.
// The timeout bounds every individual request, including export requests;
// tessellating a dense component can take tens of seconds, so pass a
// generous value.
func NewClient(address string, timeout time.Duration) (*Client, error) {
	if !isValidAddress(address) {
		return nil, ErrInvalidHostAddress
	}

	return &Client{
		baseURL: "http://" + address,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// isValidAddress checks for "host:port" with a numeric port in range.
func isValidAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}

	host, port := parts[0], parts[1]
	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}

// designPayload is the wire form of the design snapshot.
type designPayload struct {
	Name        string              `json:"name"`
	Root        string              `json:"root"`
	Components  []componentPayload  `json:"components"`
	Occurrences []occurrencePayload `json:"occurrences"`
}

// componentPayload is the wire form of one component.
type componentPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bodies int    `json:"bodies"`
}

// occurrencePayload is the wire form of one occurrence subtree.
type occurrencePayload struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Component string              `json:"component"`
	Children  []occurrencePayload `json:"children,omitempty"`
}

// exportRequest is the wire form of one export request.
type exportRequest struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Path       string `json:"path"`
	Refinement string `json:"refinement"`
	Binary     bool   `json:"binary"`
}

// errorResponse is the host's error body.
type errorResponse struct {
	Error string `json:"error"`
}

// FetchDesign retrieves a snapshot of the host's active design.
// Returns ErrNoActiveDesign when the host has no design open.
func (c *Client) FetchDesign(ctx context.Context) (cad.Design, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/design", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build design request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach host bridge: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decoding
	case http.StatusNotFound:
		return nil, ErrNoActiveDesign
	default:
		return nil, fmt.Errorf("host bridge returned %s: %s", resp.Status, readErrorMessage(resp.Body))
	}

	var payload designPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode design snapshot: %w", err)
	}

	return newSnapshot(&payload)
}

// ExportSTL implements cad.Exporter by forwarding the request to the host.
// The host writes the file at opts.Path; a non-2xx response becomes the
// per-item failure reason.
func (c *Client) ExportSTL(ctx context.Context, target cad.Exportable, opts cad.STLOptions) error {
	kind, id, err := targetRef(target)
	if err != nil {
		return err
	}

	body, err := json.Marshal(exportRequest{
		TargetKind: kind,
		TargetID:   id,
		Path:       opts.Path,
		Refinement: opts.Refinement.String(),
		Binary:     opts.Binary,
	})
	if err != nil {
		return fmt.Errorf("failed to encode export request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/export", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build export request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach host bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("host export failed (%s): %s", resp.Status, readErrorMessage(resp.Body))
	}

	return nil
}

// targetRef extracts the host-side reference from a snapshot target.
func targetRef(target cad.Exportable) (kind, id string, err error) {
	switch t := target.(type) {
	case *snapshotComponent:
		return "component", t.id, nil
	case *snapshotOccurrence:
		return "occurrence", t.id, nil
	default:
		return "", "", ErrForeignTarget
	}
}

// readErrorMessage extracts the host's error message from a response body,
// falling back to the raw body when it isn't the JSON error shape.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no error detail"
	}

	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
