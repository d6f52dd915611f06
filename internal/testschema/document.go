package testschema

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/GabrielNunesIT/openapi-playground/internal/domain"
)

// ErrMalformedDocument is returned for documents that are not a recognizable OpenAPI tree.
var ErrMalformedDocument = errors.New("malformed OpenAPI document")

const (
	titleSuffix          = " API"
	unnamedResource      = "Unnamed API"
	parentGroupExtension = "x-parent-group"
)

// ResourceName derives the resource name of a document.
func ResourceName(doc domain.Document) string {
	if title := str(field(field(doc.Root, "info"), "title")); title != "" {
		return strings.TrimSuffix(title, titleSuffix)
	}

	if doc.Source != "" {
		base := path.Base(strings.ReplaceAll(doc.Source, "\\", "/"))
		if name := strings.TrimSuffix(base, path.Ext(base)); name != "" && name != "." && name != "/" {
			return name
		}
	}

	return unnamedResource
}

// ConvertDocument converts a single document into its resource.
func ConvertDocument(doc domain.Document) (string, *domain.Resource, error) {
	if _, ok := asMapping(doc.Root); !ok {
		return "", nil, fmt.Errorf("%w: root is not a mapping", ErrMalformedDocument)
	}

	name := ResourceName(doc)
	resource := domain.NewResource()
	resource.ParentGroup = str(field(field(doc.Root, "info"), parentGroupExtension))

	pathsNode := field(doc.Root, "paths")
	if pathsNode == nil {
		return name, resource, nil
	}

	paths, ok := asMapping(pathsNode)
	if !ok {
		return "", nil, fmt.Errorf("%w: paths is not a mapping", ErrMalformedDocument)
	}

	for _, pathURL := range paths.keys() {
		pathItemNode, _ := paths.get(pathURL)

		pathItem, ok := asMapping(pathItemNode)
		if !ok {
			return "", nil, fmt.Errorf("%w: path %s is not a mapping", ErrMalformedDocument, pathURL)
		}

		for _, method := range pathItem.keys() {
			// Skip non-HTTP keys like parameters and extensions
			if !IsVerb(method) {
				continue
			}

			op, _ := pathItem.get(method)

			cfg, err := ConvertOperation(method, pathURL, op)
			if err != nil {
				return "", nil, err
			}

			resource.Actions[actionKey(method, op)] = cfg
		}
	}

	return name, resource, nil
}

// Convert converts a batch of documents into one merged test configuration.
//
// Documents are merged in order at the resource level: a later document with
// the same resource name replaces the earlier one. A document that fails to
// convert is skipped and reported in Result.Errors.
func Convert(docs []domain.Document) domain.Result {
	result := domain.Result{Config: domain.TestConfiguration{}}

	for _, doc := range docs {
		name, resource, err := convertIsolated(doc)
		if err != nil {
			result.Errors = append(result.Errors, domain.DocumentError{
				Source:  doc.Source,
				Message: err.Error(),
			})

			continue
		}

		result.Config.Merge(domain.TestConfiguration{name: resource})
	}

	return result
}

// convertIsolated keeps a panic in one document from aborting the batch.
func convertIsolated(doc domain.Document) (name string, resource *domain.Resource, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()

	return ConvertDocument(doc)
}
