package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolCanon/pkg/types/chem"
)

func ethanol() *chem.MoleculeDTO {
	return &chem.MoleculeDTO{
		Name: "ethanol",
		Atoms: []chem.AtomDTO{
			{AtomicNo: 6},
			{AtomicNo: 6, Coord: chem.Coord{X: 1.5}},
			{AtomicNo: 8, Coord: chem.Coord{X: 3.0}},
		},
		Bonds: []chem.BondDTO{
			{Atom1: 0, Atom2: 1, Order: 1},
			{Atom1: 1, Atom2: 2, Order: 1},
		},
	}
}

func TestRegistryClient_Canonicalize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/canonicalize", r.URL.Path)

		var mol chem.MoleculeDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&mol))
		assert.Len(t, mol.Atoms, 3)

		json.NewEncoder(w).Encode(chem.CanonicalResult{IDCode: "gCaHDIeIZ"})
	})

	result, err := c.Registry().Canonicalize(context.Background(), ethanol())
	require.NoError(t, err)
	assert.Equal(t, "gCaHDIeIZ", result.IDCode)
}

func TestRegistryClient_Canonicalize_NilMolecule(t *testing.T) {
	c, err := NewClient("http://api.example.com", "key")
	require.NoError(t, err)

	_, err = c.Registry().Canonicalize(context.Background(), nil)
	assert.Error(t, err)
}

func TestRegistryClient_Validate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/validate", r.URL.Path)
		json.NewEncoder(w).Encode(chem.ValidationVerdict{Valid: true, Atom: -1, Bond: -1})
	})

	verdict, err := c.Registry().Validate(context.Background(), ethanol())
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestRegistryClient_Register(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/molecules", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(chem.RegistryEntryDTO{IDCode: "gCaHDIeIZ", AtomCount: 3})
	})

	entry, err := c.Registry().Register(context.Background(), ethanol())
	require.NoError(t, err)
	assert.Equal(t, "gCaHDIeIZ", entry.IDCode)
	assert.Equal(t, 3, entry.AtomCount)
}

func TestRegistryClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/molecules/gJPHADILuTb", r.URL.Path)
		json.NewEncoder(w).Encode(chem.RegistryEntryDTO{IDCode: "gJPHADILuTb"})
	})

	entry, err := c.Registry().Get(context.Background(), "gJPHADILuTb")
	require.NoError(t, err)
	assert.Equal(t, "gJPHADILuTb", entry.IDCode)
}

func TestRegistryClient_Get_EmptyIDCode(t *testing.T) {
	c, err := NewClient("http://api.example.com", "key")
	require.NoError(t, err)

	_, err = c.Registry().Get(context.Background(), "")
	assert.Error(t, err)
}

func TestRegistryClient_Get_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":"COMMON_003","message":"not registered"}`)
	})

	_, err := c.Registry().Get(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestRegistryClient_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/molecules", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		fmt.Fprint(w, `{"items":[{"idcode":"a"},{"idcode":"b"}],"total":12,"page":2,"page_size":10}`)
	})

	page, err := c.Registry().List(context.Background(), ListOptions{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].IDCode)
}

func TestRegistryClient_List_NoOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		fmt.Fprint(w, `{"items":[],"total":0,"page":1,"page_size":20}`)
	})

	page, err := c.Registry().List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRegistryClient_Decode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/decode", r.URL.Path)

		var req DecodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gCaHDIeIZ", req.IDCode)
		assert.Equal(t, "!Bb@", req.Coordinates)

		json.NewEncoder(w).Encode(ethanol())
	})

	mol, err := c.Registry().Decode(context.Background(), "gCaHDIeIZ", "!Bb@")
	require.NoError(t, err)
	assert.Len(t, mol.Atoms, 3)
}

func TestRegistryClient_Decode_EmptyIDCode(t *testing.T) {
	c, err := NewClient("http://api.example.com", "key")
	require.NoError(t, err)

	_, err = c.Registry().Decode(context.Background(), "", "")
	assert.Error(t, err)
}
