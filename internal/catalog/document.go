package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"vocabquiz/internal/models"
)

// DocumentVersion is the current catalog file format version
const DocumentVersion = 1

// Document is the JSON form of a catalog used for export and import
type Document struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Topics     []models.Topic `json:"topics"`
}

// WriteJSON encodes topics as an indented catalog document
func WriteJSON(w io.Writer, topics []models.Topic) error {
	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Topics:     topics,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a catalog document
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported catalog version %d", doc.Version)
	}
	if err := Validate(doc.Topics); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &doc, nil
}

// LoadFile reads a catalog document from disk
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	return ReadJSON(f)
}
