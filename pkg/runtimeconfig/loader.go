package runtimeconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/architect-io/shipctl/pkg/errors"
)

// DefaultFetchTimeout bounds the configuration fetch. The application must
// not hang on startup waiting for a document that will never arrive; a slow
// fetch fails loudly instead.
const DefaultFetchTimeout = 10 * time.Second

// Loader fetches and validates the configuration document for a deployed
// application. Exactly one Load call is expected per application instance,
// gating all other startup work.
type Loader struct {
	client    *http.Client
	validator *Validator
	baseURL   string
	docPath   string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient overrides the HTTP client used for the fetch.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// WithDocumentPath overrides the document path relative to the base URL.
func WithDocumentPath(path string) LoaderOption {
	return func(l *Loader) {
		l.docPath = path
	}
}

// WithTimeout overrides the fetch timeout.
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.client.Timeout = timeout
	}
}

// NewLoader creates a loader that fetches the configuration document from
// baseURL joined with the fixed document path.
func NewLoader(baseURL string, opts ...LoaderOption) *Loader {
	l := &Loader{
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		validator: NewValidator(),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		docPath:   DefaultDocumentPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches, parses, and validates the configuration document. Any
// failure is fatal to the caller: there is no retry and no fallback to a
// default document.
func (l *Loader) Load() (*Config, error) {
	docURL := l.documentURL()

	resp, err := l.client.Get(docURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, fmt.Sprintf("failed to fetch %s", docURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeFetch,
			fmt.Sprintf("failed to fetch %s: unexpected status %d", docURL, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, fmt.Sprintf("failed to read %s", docURL), err)
	}

	return l.LoadBytes(body)
}

// LoadBytes parses and validates a raw configuration document. Used by Load
// and by offline validation of documents that have not been published yet.
func (l *Loader) LoadBytes(data []byte) (*Config, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseError("configuration document", err)
	}

	if validationErrors := l.validator.Validate(doc); len(validationErrors) > 0 {
		first := validationErrors[0]
		return nil, errors.ValidationError(
			fmt.Sprintf("%s: %s", first.Field, first.Message),
			map[string]interface{}{"field": first.Field},
		)
	}

	return transform(doc), nil
}

func (l *Loader) documentURL() string {
	return l.baseURL + "/" + strings.TrimPrefix(l.docPath, "/")
}

// ParseDocument parses and validates a configuration document without a
// Loader. Deploy-time checks use this to refuse publishing a document the
// runtime would reject.
func ParseDocument(data []byte) (*Config, error) {
	loader := &Loader{validator: NewValidator()}
	return loader.LoadBytes(data)
}
