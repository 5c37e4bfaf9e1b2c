package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// Collection describes where a resource's records live in a response.
// Envelope is a JMESPath expression applied when the backend wraps the array
// (for example "data" or "data.items"); a bare array is used as is.
type Collection struct {
	Path     string
	Envelope string
}

// ValidateEnvelope reports whether expr compiles.
func ValidateEnvelope(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

// GetCollection fetches a list resource and decodes its records into out,
// which must be a pointer to a slice. An envelope that selects nothing yields
// an empty collection.
func (c *Client) GetCollection(ctx context.Context, col Collection, out any) error {
	var raw any
	if err := c.Get(ctx, col.Path, &raw); err != nil {
		return err
	}
	items, err := ExtractCollection(raw, col.Envelope)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "unexpected %s response", resourceName(col.Path))
	}
	buf, err := json.Marshal(items)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "re-encode collection")
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "decode %s records", resourceName(col.Path))
	}
	return nil
}

// ExtractCollection returns the record array inside a decoded JSON document.
func ExtractCollection(doc any, envelope string) ([]any, error) {
	if arr, ok := doc.([]any); ok {
		return arr, nil
	}
	if doc == nil {
		return []any{}, nil
	}
	expr := strings.TrimSpace(envelope)
	if expr == "" {
		return nil, fmt.Errorf("expected an array, got %T", doc)
	}
	selected, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("envelope %q: %w", expr, err)
	}
	switch v := selected.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("envelope %q selected %T, not an array", expr, selected)
	}
}

// GetRecord fetches a single resource that may be wrapped by envelope.
func (c *Client) GetRecord(ctx context.Context, path, envelope string, out any) error {
	var raw any
	if err := c.Get(ctx, path, &raw); err != nil {
		return err
	}
	selected := raw
	if expr := strings.TrimSpace(envelope); expr != "" {
		if _, isObj := raw.(map[string]any); isObj {
			v, err := jmespath.Search(expr, raw)
			if err != nil {
				return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "unexpected %s response", resourceName(path))
			}
			if v != nil {
				selected = v
			}
		}
	}
	buf, err := json.Marshal(selected)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "re-encode record")
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "decode %s record", resourceName(path))
	}
	return nil
}
