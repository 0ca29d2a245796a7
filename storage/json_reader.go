package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"property-insights/apperr"
	"property-insights/models"
)

// JSONReader loads a snapshot from JSON files shaped like the onboarding and
// project records of the persistence layer.
type JSONReader struct {
	ProfilesPath string
	ListingsPath string
}

// NewJSONReader creates a JSONReader over the given files.
func NewJSONReader(profilesPath, listingsPath string) *JSONReader {
	return &JSONReader{ProfilesPath: profilesPath, ListingsPath: listingsPath}
}

// Profile reads the profiles file, which holds either a single profile object
// or an array of them. An empty id selects the first profile.
func (r *JSONReader) Profile(ctx context.Context, id string) (*models.InvestorProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(r.ProfilesPath)
	if err != nil {
		return nil, err
	}

	var profiles []*models.InvestorProfile
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var p models.InvestorProfile
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("json: decode profile %q: %w", r.ProfilesPath, err)
		}
		profiles = append(profiles, &p)
	} else if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("json: decode profiles %q: %w", r.ProfilesPath, err)
	}

	for _, p := range profiles {
		if p == nil {
			continue
		}
		if id == "" || p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.NotFound(fmt.Sprintf("profile %q not found", id)).WithOp("json")
}

// Listings reads the listings file, a JSON array of project records.
func (r *JSONReader) Listings(ctx context.Context) ([]*models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(r.ListingsPath)
	if err != nil {
		return nil, err
	}

	listings := []*models.Listing{}
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("json: decode listings %q: %w", r.ListingsPath, err)
	}
	return listings, nil
}

// Close is a no-op; files are read in full on each call.
func (r *JSONReader) Close() error { return nil }

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.KindNotFound, fmt.Sprintf("snapshot file %q not found", path), err).WithOp("json")
	}
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}
	return data, nil
}
