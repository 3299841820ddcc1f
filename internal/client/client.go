// Package client implements the editor's Saver and Refresher collaborators
// over the inkstone document HTTP API. It translates transport outcomes into
// the editor's taxonomy: 409 becomes a conflict carrying the server's copy,
// a deleted document becomes editor.ErrDeleted, and 422 field detail becomes
// editor.FieldErrors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inkstone-app/inkstone/internal/editor"
)

const apiPrefix = "/api/v2"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// documentJSON mirrors the API's document response shape.
type documentJSON struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Text      string            `json:"text"`
	URL       string            `json:"url"`
	Tags      []string          `json:"tags"`
	Arguments []editor.Argument `json:"arguments"`
	ArchiveAt *time.Time        `json:"archive_at"`
	Modified  time.Time         `json:"modified"`
}

type errorJSON struct {
	Message string            `json:"message"`
	Kind    string            `json:"kind"`
	Fields  map[string]string `json:"fields"`
	Data    *documentJSON     `json:"data"`
}

func (d *documentJSON) revision() editor.Revision {
	return editor.Revision{
		ID:        d.ID,
		UpdatedAt: d.Modified,
		Content: editor.Content{
			Type:      editor.DocType(d.Type),
			Name:      d.Name,
			Text:      d.Text,
			URL:       d.URL,
			Tags:      d.Tags,
			Arguments: d.Arguments,
			ArchiveAt: d.ArchiveAt,
		},
	}
}

// Save implements editor.Saver. Creates POST the full payload; updates PATCH
// the minimal diff plus the optimistic-lock token.
func (c *Client) Save(ctx context.Context, req *editor.SaveRequest) editor.SaveOutcome {
	body := make(map[string]interface{}, len(req.Patch)+1)
	for k, v := range req.Patch {
		body[k] = v
	}
	method := http.MethodPatch
	path := apiPrefix + "/documents/" + req.DocID
	if req.Create {
		method = http.MethodPost
		path = apiPrefix + "/documents"
	} else if req.ExpectedUpdatedAt != nil {
		body["expected_updated_at"] = req.ExpectedUpdatedAt.Format(time.RFC3339Nano)
	}

	status, payload, err := c.do(ctx, method, path, body)
	if err != nil {
		return editor.Failed(err)
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		var doc documentJSON
		if err := json.Unmarshal(payload, &doc); err != nil {
			return editor.Failed(fmt.Errorf("decode save response: %w", err))
		}
		return editor.Saved(doc.revision())

	case status == http.StatusConflict:
		var e errorJSON
		if err := json.Unmarshal(payload, &e); err != nil || e.Data == nil {
			return editor.Failed(fmt.Errorf("conflict response missing server copy"))
		}
		return editor.Conflicted(e.Data.revision())

	case status == http.StatusNotFound:
		return editor.Failed(editor.ErrDeleted)

	case status == http.StatusUnprocessableEntity:
		var e errorJSON
		if err := json.Unmarshal(payload, &e); err == nil && len(e.Fields) > 0 {
			return editor.Failed(editor.FieldErrors(e.Fields))
		}
		return editor.Failed(fmt.Errorf("save rejected: %s", errMessage(payload)))

	default:
		return editor.Failed(fmt.Errorf("save failed: %s (%d)", errMessage(payload), status))
	}
}

// Refresh implements editor.Refresher.
func (c *Client) Refresh(ctx context.Context, id string) (*editor.Revision, error) {
	status, payload, err := c.do(ctx, http.MethodGet, apiPrefix+"/documents/"+id, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var doc documentJSON
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		rev := doc.revision()
		return &rev, nil
	case http.StatusNotFound:
		return nil, editor.ErrDeleted
	default:
		return nil, fmt.Errorf("fetch failed: %s (%d)", errMessage(payload), status)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, payload, nil
}

func errMessage(payload []byte) string {
	var e errorJSON
	if err := json.Unmarshal(payload, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return "unexpected response"
}
