package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultCatalogBaseURL = "https://api.github.com"

// CatalogClient queries the hosted content API of the fixed upstream
// catalogs. One client is constructed per run; the auth token is
// resolved lazily on first use and reused for the client's lifetime.
type CatalogClient struct {
	httpClient *http.Client
	baseURL    string

	tokenOnce sync.Once
	token     string
	resolveFn func() string
}

// CatalogOption configures a CatalogClient.
type CatalogOption func(*CatalogClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) CatalogOption {
	return func(c *CatalogClient) { c.httpClient = client }
}

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(url string) CatalogOption {
	return func(c *CatalogClient) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithTokenResolver overrides how the bearer credential is obtained.
func WithTokenResolver(fn func() string) CatalogOption {
	return func(c *CatalogClient) { c.resolveFn = fn }
}

// NewCatalogClient creates a CatalogClient with the given options.
func NewCatalogClient(opts ...CatalogOption) *CatalogClient {
	c := &CatalogClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultCatalogBaseURL,
		resolveFn:  ResolveToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// contentEntry is one entry of a contents listing or fetch.
type contentEntry struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "file" or "dir"
	Content  string `json:"content,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// ListAvailable returns the installable item descriptors for the
// kind's catalog, in catalog listing order. Descriptions start out as
// placeholders; FetchDescription fills them on demand. An empty list
// is not an error at this layer.
func (c *CatalogClient) ListAvailable(ctx context.Context, kind ResourceKind) ([]ItemDescriptor, error) {
	entries, err := c.listRoot(ctx, kind)
	if err != nil {
		return nil, err
	}

	spec := kind.spec()
	var items []ItemDescriptor
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") {
			continue
		}
		if spec.dirScoped {
			if e.Type != "dir" || spec.excludedDirs[e.Name] {
				continue
			}
		} else {
			if e.Type != "file" || !strings.HasSuffix(e.Name, spec.fileSuffix) {
				continue
			}
			if strings.EqualFold(e.Name, "README"+spec.fileSuffix) {
				continue
			}
		}
		items = append(items, ItemDescriptor{
			ID:          e.Name,
			DisplayName: e.Name,
		})
	}
	return items, nil
}

// FetchDescriptor retrieves one item's raw descriptor file: the
// SKILL.md of a skill directory, or the definition file itself for a
// subagent.
func (c *CatalogClient) FetchDescriptor(ctx context.Context, kind ResourceKind, id string) (string, error) {
	spec := kind.spec()
	itemPath := id
	if spec.dirScoped {
		itemPath = id + "/" + spec.descriptorFile
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, spec.owner, spec.repo, itemPath)
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	var entry contentEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return "", &CatalogFetchError{URL: url, Err: fmt.Errorf("parsing content response: %w", err)}
	}

	content, err := decodeContent(entry)
	if err != nil {
		return "", &CatalogFetchError{URL: url, Err: err}
	}
	return content, nil
}

// FetchDescription retrieves one item's descriptor file and extracts
// its display name and description from the leading metadata block.
// Missing metadata yields empty fields, not an error.
func (c *CatalogClient) FetchDescription(ctx context.Context, kind ResourceKind, id string) (ItemMetadata, error) {
	content, err := c.FetchDescriptor(ctx, kind, id)
	if err != nil {
		return ItemMetadata{}, err
	}
	return ParseDescriptor(content, kind), nil
}

// listRoot fetches the catalog repository's root entry listing, sorted
// by name to make the catalog order stable across API pagination
// quirks.
func (c *CatalogClient) listRoot(ctx context.Context, kind ResourceKind) ([]contentEntry, error) {
	spec := kind.spec()
	url := fmt.Sprintf("%s/repos/%s/%s/contents/", c.baseURL, spec.owner, spec.repo)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &CatalogFetchError{URL: url, Err: fmt.Errorf("parsing listing response: %w", err)}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// get performs an authenticated GET and returns the response body.
// Transport failures and non-success statuses become CatalogFetchError.
func (c *CatalogClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &CatalogFetchError{URL: url, Err: err}
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if token := c.resolveToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CatalogFetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CatalogFetchError{URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CatalogFetchError{URL: url, StatusCode: resp.StatusCode}
	}
	return body, nil
}

// resolveToken resolves the bearer credential once per client.
func (c *CatalogClient) resolveToken() string {
	c.tokenOnce.Do(func() {
		if c.resolveFn != nil {
			c.token = c.resolveFn()
		}
	})
	return c.token
}

// decodeContent returns the decoded body of a content fetch. The API
// base64-encodes bodies with embedded newlines.
func decodeContent(entry contentEntry) (string, error) {
	if entry.Encoding != "base64" {
		return entry.Content, nil
	}
	compact := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, entry.Content)
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", fmt.Errorf("decoding content: %w", err)
	}
	return string(decoded), nil
}
