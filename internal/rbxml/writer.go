package rbxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// OutputExistsError is returned when the output path already exists and
// overwriting was not requested.
type OutputExistsError struct {
	Path string
}

func (e *OutputExistsError) Error() string {
	return fmt.Sprintf("output file already exists: %s (use overwrite to replace it)", e.Path)
}

// Marshal renders the document as an indented XML byte stream with the
// standard declaration header. The output is byte-identical for equal
// documents.
func Marshal(doc *Document) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal xml: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// WriteFile serializes the document to path. Unless overwrite is set, an
// existing file at path yields an *OutputExistsError and is left untouched.
//
// The write goes through a temporary file in the same directory followed by
// a rename, so a crash mid-write never leaves a truncated document behind.
func WriteFile(doc *Document, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &OutputExistsError{Path: path}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat output file: %w", err)
		}
	}

	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rkbdb2xml-*.xml")
	if err != nil {
		return fmt.Errorf("create temporary output file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close output file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set output file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace output file: %w", err)
	}
	return nil
}
