package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrSpecDirNotFound is returned when the spec directory does not exist.
	ErrSpecDirNotFound = errors.New("spec directory not found")

	// ErrUnsupportedFormat is returned for files that are not YAML or JSON.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Options configures a Reader.
type Options struct {
	// Validate runs full OpenAPI validation on every document before accepting it.
	Validate bool
	// Timeout bounds remote fetches.
	Timeout time.Duration
}

// Reader loads raw spec documents.
type Reader struct {
	log      logger.ILogger
	client   *http.Client
	validate bool
}

// New creates a Reader.
func New(log logger.ILogger, opts Options) *Reader {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Reader{
		log:      log,
		client:   &http.Client{Timeout: timeout},
		validate: opts.Validate,
	}
}

// IsSpecFile reports whether name has a supported extension.
func IsSpecFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// ReadDir parses every spec file in dir, sorted by name.
// Files that cannot be read or parsed are returned as document errors.
func (r *Reader) ReadDir(ctx context.Context, dir string) ([]domain.Document, []domain.DocumentError, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSpecDirNotFound, dir)
		}

		return nil, nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSpecFile(entry.Name()) {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	var (
		docs []domain.Document
		errs []domain.DocumentError
	)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := r.ReadFile(ctx, filepath.Join(dir, name))
		if err != nil {
			r.log.Errorf("Skipping %s: %v", name, err)
			errs = append(errs, domain.DocumentError{Source: name, Message: err.Error()})

			continue
		}

		doc.Source = name
		docs = append(docs, doc)
	}

	r.log.Infof("Loaded %d spec file(s) from %s", len(docs), dir)

	return docs, errs, nil
}

// ReadFile parses a single local spec file.
func (r *Reader) ReadFile(ctx context.Context, filePath string) (domain.Document, error) {
	if !IsSpecFile(filePath) {
		return domain.Document{}, fmt.Errorf("%w: %s (expected .json, .yaml, or .yml)", ErrUnsupportedFormat, filepath.Ext(filePath))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	return r.parse(ctx, filepath.Base(filePath), data)
}

// ReadURL fetches and parses a remote spec document.
func (r *Reader) ReadURL(ctx context.Context, rawURL string) (domain.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.Document{}, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Document{}, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read response: %w", err)
	}

	source := path.Base(u.Path)
	if source == "." || source == "/" {
		source = u.Host
	}

	return r.parse(ctx, source, data)
}

func (r *Reader) parse(ctx context.Context, source string, data []byte) (domain.Document, error) {
	if r.validate {
		if err := validate(ctx, data); err != nil {
			return domain.Document{}, err
		}
	}

	return ParseDocument(source, data)
}

func validate(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	return nil
}
