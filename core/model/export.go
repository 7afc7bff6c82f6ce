package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ezoic/sparsefit/pkg/errors"
)

// DocumentSpec is the metadata header of an exported model document.
type DocumentSpec struct {
	Name          string `json:"name"`           // model name (e.g. "Lasso")
	FormatVersion string `json:"format_version"` // document format version
}

// Document is a portable JSON representation of a trained model: a
// metadata header plus model-specific parameters kept raw until the
// concrete model type decodes them.
type Document struct {
	ModelSpec DocumentSpec    `json:"model_spec"`
	Params    json.RawMessage `json:"params"`
}

// LassoParams are the parameters of a trained Lasso model.
type LassoParams struct {
	Coefficients []float64 `json:"coefficients"` // fitted weights
	Lambda       float64   `json:"lambda"`       // regularization strength
	NFeatures    int       `json:"n_features"`   // feature count
}

// LoadDocumentFromFile reads a model document from a JSON file.
func LoadDocumentFromFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadDocumentFromReader(file)
}

// LoadDocumentFromReader reads and validates a model document.
func LoadDocumentFromReader(r io.Reader) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if doc.ModelSpec.FormatVersion == "" {
		return nil, errors.NewValueError("LoadDocument", "format_version is required")
	}
	if doc.ModelSpec.FormatVersion != "1.0" {
		return nil, errors.NewValueError("LoadDocument",
			fmt.Sprintf("unsupported format version: %s", doc.ModelSpec.FormatVersion))
	}
	if doc.ModelSpec.Name == "" {
		return nil, errors.NewValueError("LoadDocument", "model name is required")
	}

	return &doc, nil
}

// LoadLassoParams decodes and validates Lasso parameters from a document.
func LoadLassoParams(doc *Document) (*LassoParams, error) {
	if doc.ModelSpec.Name != "Lasso" {
		return nil, errors.NewValueError("LoadLassoParams",
			fmt.Sprintf("expected Lasso, got %s", doc.ModelSpec.Name))
	}

	var params LassoParams
	if err := json.Unmarshal(doc.Params, &params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}

	if len(params.Coefficients) == 0 {
		return nil, errors.NewValueError("LoadLassoParams", "coefficients cannot be empty")
	}
	if params.NFeatures != len(params.Coefficients) {
		return nil, errors.NewValueError("LoadLassoParams",
			fmt.Sprintf("n_features (%d) does not match coefficients length (%d)",
				params.NFeatures, len(params.Coefficients)))
	}
	if params.Lambda < 0 {
		return nil, errors.NewValueError("LoadLassoParams", "lambda must be non-negative")
	}

	return &params, nil
}

// ExportDocument writes a model document with the given name and params.
func ExportDocument(modelName string, params interface{}, w io.Writer) error {
	doc := Document{
		ModelSpec: DocumentSpec{
			Name:          modelName,
			FormatVersion: "1.0",
		},
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	doc.Params = paramsJSON

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	return nil
}
