package assets

import (
	"net/url"
	"strings"

	"github.com/lumenpress/albumforge-backend/pkg/config"
)

// Resolver turns stored asset references into public URLs. References are
// either CDN-relative paths or full URLs uploaded before the CDN migration;
// full URLs pass through untouched.
type Resolver struct {
	baseURL string
}

// NewResolver validates the configured base URL.
func NewResolver(cfg config.AssetsConfig) (*Resolver, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, err
	}
	return &Resolver{baseURL: base}, nil
}

// ResolveURL maps an asset reference to a servable URL. An empty reference
// resolves to "" so callers can omit the field from responses. sizeHint, when
// set, is forwarded to the CDN as a resize parameter.
func (r *Resolver) ResolveURL(assetRef, sizeHint string) string {
	ref := strings.TrimSpace(assetRef)
	if ref == "" {
		return ""
	}

	resolved := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		resolved = r.baseURL + "/" + strings.TrimLeft(ref, "/")
	}

	hint := strings.TrimSpace(sizeHint)
	if hint == "" {
		return resolved
	}

	parsed, err := url.Parse(resolved)
	if err != nil {
		return resolved
	}
	query := parsed.Query()
	query.Set("size", hint)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// ResolveOptional is ResolveURL for nullable asset columns.
func (r *Resolver) ResolveOptional(assetRef *string, sizeHint string) string {
	if assetRef == nil {
		return ""
	}
	return r.ResolveURL(*assetRef, sizeHint)
}
