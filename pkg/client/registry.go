package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/turtacn/MolCanon/pkg/types/chem"
	"github.com/turtacn/MolCanon/pkg/types/common"
)

// RegistryClient exposes the canonicalization and registry endpoints.
type RegistryClient struct {
	client *Client
}

// ListOptions controls pagination for List.
type ListOptions struct {
	Page     int
	PageSize int
}

// DecodeRequest is the body of the decode endpoint.
type DecodeRequest struct {
	IDCode      string `json:"idcode"`
	Coordinates string `json:"coordinates,omitempty"`
}

// Canonicalize computes the canonical identifier of a molecule without
// registering it.
func (rc *RegistryClient) Canonicalize(ctx context.Context, mol *chem.MoleculeDTO) (*chem.CanonicalResult, error) {
	if mol == nil {
		return nil, fmt.Errorf("molecule must not be nil")
	}
	var result chem.CanonicalResult
	if err := rc.client.post(ctx, "/api/v1/canonicalize", mol, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Validate checks a molecule's stereo annotations.
func (rc *RegistryClient) Validate(ctx context.Context, mol *chem.MoleculeDTO) (*chem.ValidationVerdict, error) {
	if mol == nil {
		return nil, fmt.Errorf("molecule must not be nil")
	}
	var verdict chem.ValidationVerdict
	if err := rc.client.post(ctx, "/api/v1/validate", mol, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// Register canonicalizes and stores a molecule.  Registering an already-known
// structure returns the existing entry.
func (rc *RegistryClient) Register(ctx context.Context, mol *chem.MoleculeDTO) (*chem.RegistryEntryDTO, error) {
	if mol == nil {
		return nil, fmt.Errorf("molecule must not be nil")
	}
	var entry chem.RegistryEntryDTO
	if err := rc.client.post(ctx, "/api/v1/molecules", mol, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Get fetches a registry entry by canonical identifier.
func (rc *RegistryClient) Get(ctx context.Context, idcode string) (*chem.RegistryEntryDTO, error) {
	if idcode == "" {
		return nil, fmt.Errorf("idcode must not be empty")
	}
	var entry chem.RegistryEntryDTO
	path := "/api/v1/molecules/" + url.PathEscape(idcode)
	if err := rc.client.get(ctx, path, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// List pages through registered molecules, newest first.
func (rc *RegistryClient) List(ctx context.Context, opts ListOptions) (*common.PageResponse[*chem.RegistryEntryDTO], error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", opts.PageSize))
	}
	path := "/api/v1/molecules"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var page common.PageResponse[*chem.RegistryEntryDTO]
	if err := rc.client.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Decode expands a canonical identifier back into a molecule description.
func (rc *RegistryClient) Decode(ctx context.Context, idcode, coordinates string) (*chem.MoleculeDTO, error) {
	if idcode == "" {
		return nil, fmt.Errorf("idcode must not be empty")
	}
	var mol chem.MoleculeDTO
	req := DecodeRequest{IDCode: idcode, Coordinates: coordinates}
	if err := rc.client.post(ctx, "/api/v1/decode", req, &mol); err != nil {
		return nil, err
	}
	return &mol, nil
}
