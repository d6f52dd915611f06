package playground

import (
	"context"
	"errors"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/openapi-playground/internal/adapters/reader"
	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
	"github.com/GabrielNunesIT/openapi-playground/internal/testschema"
)

// Snapshot is one load of every configured spec source.
type Snapshot struct {
	domain.Result
	// DirMissing is set when the spec directory does not exist.
	DirMissing bool
	// Documents counts the documents that were read successfully.
	Documents int
}

// Empty reports whether no spec source was found at all.
func (s Snapshot) Empty() bool {
	return s.Documents == 0 && len(s.Errors) == 0
}

// Catalog loads and converts the spec documents of a directory and a list of URLs.
type Catalog struct {
	reader *reader.Reader
	log    logger.ILogger
	dir    string
	urls   []string
}

// NewCatalog creates a Catalog. An empty dir is skipped.
func NewCatalog(r *reader.Reader, log logger.ILogger, dir string, urls []string) *Catalog {
	return &Catalog{reader: r, log: log, dir: dir, urls: urls}
}

// Load reads every source and converts the documents into one test configuration.
// Sources are read on every call so edits on disk are picked up.
func (c *Catalog) Load(ctx context.Context) (Snapshot, error) {
	var (
		snap     Snapshot
		docs     []domain.Document
		readErrs []domain.DocumentError
	)

	if c.dir != "" {
		dirDocs, errs, err := c.reader.ReadDir(ctx, c.dir)
		switch {
		case errors.Is(err, reader.ErrSpecDirNotFound):
			c.log.Errorf("Spec directory %s not found", c.dir)
			snap.DirMissing = true
		case err != nil:
			return Snapshot{}, err
		default:
			docs = append(docs, dirDocs...)
			readErrs = append(readErrs, errs...)
		}
	}

	for _, u := range c.urls {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}

		doc, err := c.reader.ReadURL(ctx, u)
		if err != nil {
			c.log.Errorf("Skipping %s: %v", u, err)
			readErrs = append(readErrs, domain.DocumentError{Source: u, Message: err.Error()})

			continue
		}

		docs = append(docs, doc)
	}

	snap.Result = testschema.Convert(docs)
	snap.Documents = len(docs)

	for _, docErr := range snap.Errors {
		c.log.Errorf("Failed to convert %s: %s", docErr.Source, docErr.Message)
	}

	snap.Errors = append(readErrs, snap.Errors...)

	c.log.Infof("Converted %d document(s) into %d resource(s)", len(docs), len(snap.Config))

	return snap, nil
}
