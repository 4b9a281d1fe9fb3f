package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pets/internal/httpapi"
	"github.com/mesh-intelligence/pets/pkg/sqlite"
	"github.com/mesh-intelligence/pets/pkg/types"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	p := sqlite.NewProvider(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}, logger)
	ts := httptest.NewServer(httpapi.NewRouter(p, logger))
	t.Cleanup(func() {
		ts.Close()
		p.Close()
	})
	return ts
}

func doReq(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createPet(t *testing.T, ts *httptest.Server, body map[string]any) string {
	t.Helper()
	resp, data := doReq(t, ts, http.MethodPost, "/pets", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return resp.Header.Get("Location")
}

func decodePets(t *testing.T, data []byte) []types.Pet {
	t.Helper()
	var pets []types.Pet
	require.NoError(t, json.Unmarshal(data, &pets))
	return pets
}

func TestHealth(t *testing.T) {
	ts := newServer(t)
	resp, data := doReq(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(data))
}

func TestListPets_Empty(t *testing.T) {
	ts := newServer(t)
	resp, data := doReq(t, ts, http.MethodGet, "/pets", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, "[]", string(data))
}

func TestCreateAndGetPet(t *testing.T) {
	ts := newServer(t)

	resp, data := doReq(t, ts, http.MethodPost, "/pets", map[string]any{
		"name": "  Milo ", "breed": "", "gender": 2, "weight": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var created struct {
		Address string    `json:"address"`
		Pet     types.Pet `json:"pet"`
	}
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, created.Address, resp.Header.Get("Location"))
	assert.Equal(t, types.ItemURI(created.Pet.ID), created.Address)
	assert.Equal(t, "Milo", created.Pet.Name)

	resp, data = doReq(t, ts, http.MethodGet, "/pets/"+strconv.FormatInt(created.Pet.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var got types.Pet
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created.Pet, got)
	assert.Equal(t, "", got.Breed)
	assert.Equal(t, types.GenderFemale, got.Gender)
	assert.Equal(t, int64(5), got.Weight)
}

func TestGetPet_Errors(t *testing.T) {
	ts := newServer(t)
	createPet(t, ts, map[string]any{"name": "Milo"})

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "non-numeric id", path: "/pets/abc", want: http.StatusBadRequest},
		{name: "negative id", path: "/pets/-1", want: http.StatusBadRequest},
		{name: "missing id", path: "/pets/999", want: http.StatusNotFound},
		{name: "unknown resource", path: "/cats/1", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doReq(t, ts, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, resp.StatusCode, string(data))
		})
	}
}

func TestCreatePet_Rejects(t *testing.T) {
	ts := newServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: "{"},
		{name: "blank name", body: map[string]any{"name": "   "}},
		{name: "unknown gender", body: map[string]any{"name": "Rex", "gender": 7}},
		{name: "negative weight", body: map[string]any{"name": "Rex", "weight": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := doReq(t, ts, http.MethodPost, "/pets", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
		})
	}

	_, data := doReq(t, ts, http.MethodGet, "/pets", nil)
	assert.Empty(t, decodePets(t, data))
}

func TestListPets_Query(t *testing.T) {
	ts := newServer(t)
	createPet(t, ts, map[string]any{"name": "Toto", "breed": "Terrier", "gender": 1, "weight": 7})
	createPet(t, ts, map[string]any{"name": "Binx", "breed": "Bombay", "gender": 1, "weight": 4})
	createPet(t, ts, map[string]any{"name": "Lassie", "breed": "Collie", "gender": 2, "weight": 25})

	t.Run("sort", func(t *testing.T) {
		resp, data := doReq(t, ts, http.MethodGet, "/pets?sort=weight+DESC", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
		pets := decodePets(t, data)
		require.Len(t, pets, 3)
		assert.Equal(t, "Lassie", pets[0].Name)
		assert.Equal(t, "Binx", pets[2].Name)
	})

	t.Run("columns", func(t *testing.T) {
		resp, data := doReq(t, ts, http.MethodGet, "/pets?columns=name&sort=name", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
		pets := decodePets(t, data)
		require.Len(t, pets, 3)
		assert.Equal(t, "Binx", pets[0].Name)
		assert.Zero(t, pets[0].ID, "id is not projected")
		assert.Empty(t, pets[0].Breed)
	})

	t.Run("gender filter", func(t *testing.T) {
		resp, data := doReq(t, ts, http.MethodGet, "/pets?gender=female", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
		pets := decodePets(t, data)
		require.Len(t, pets, 1)
		assert.Equal(t, "Lassie", pets[0].Name)
	})

	for _, path := range []string{"/pets?sort=age", "/pets?columns=colour", "/pets?gender=dragon"} {
		t.Run("bad request "+path, func(t *testing.T) {
			resp, data := doReq(t, ts, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
		})
	}
}

func TestUpdateAndDelete_ReportZeroRows(t *testing.T) {
	ts := newServer(t)
	createPet(t, ts, map[string]any{"name": "Toto", "weight": 7})

	resp, data := doReq(t, ts, http.MethodPut, "/pets/1", map[string]any{"name": "Renamed", "weight": 8})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, `{"rows":0}`, string(data))

	resp, data = doReq(t, ts, http.MethodDelete, "/pets/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, `{"rows":0}`, string(data))

	resp, data = doReq(t, ts, http.MethodDelete, "/pets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))

	_, data = doReq(t, ts, http.MethodGet, "/pets/1", nil)
	var got types.Pet
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Toto", got.Name)
	assert.Equal(t, int64(7), got.Weight)
}

func TestMetrics(t *testing.T) {
	ts := newServer(t)
	createPet(t, ts, map[string]any{"name": "Toto"})
	doReq(t, ts, http.MethodGet, "/pets", nil)
	doReq(t, ts, http.MethodGet, "/pets/abc", nil)

	resp, data := doReq(t, ts, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(data)
	assert.Contains(t, body, "pets_http_requests_total")
	assert.Contains(t, body, `status="201"`)
	assert.Contains(t, body, `status="400"`)
	assert.Contains(t, body, "pets_http_request_duration_seconds")
	assert.Contains(t, body, `pets_inserts_total{result="ok"} 1`)
}
