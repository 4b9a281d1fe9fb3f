// Package httpapi serves the pets provider over HTTP so other processes can
// read and add pets without opening the database file themselves.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mesh-intelligence/pets/pkg/types"
)

// NewRouter returns the HTTP handler for p. A nil logger uses log.Default().
func NewRouter(p types.Provider, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("http")

	m := newMetrics()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(instrument(logger, m))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.handler())

	h := &handler{provider: p, logger: logger, metrics: m}
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", h.listPets)
		pr.Post("/", h.createPet)
		pr.Get("/{petID}", h.getPet)
		pr.Put("/{petID}", h.updatePet)
		pr.Delete("/{petID}", h.deletePet)
	})
	return r
}

type handler struct {
	provider types.Provider
	logger   *log.Logger
	metrics  *metrics
}

type petRequest struct {
	Name   string `json:"name"`
	Breed  string `json:"breed"`
	Gender int64  `json:"gender"`
	Weight int64  `json:"weight"`
}

func (req petRequest) pet() types.Pet {
	p := types.Pet{
		Name:   req.Name,
		Breed:  req.Breed,
		Gender: types.Gender(req.Gender),
		Weight: req.Weight,
	}
	p.Normalize()
	return p
}

type createdResponse struct {
	Address string    `json:"address"`
	Pet     types.Pet `json:"pet"`
}

type rowsResponse struct {
	Rows int64 `json:"rows"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// itemAddress builds the content address for the id segment as sent. The
// provider decides whether it is a valid item address.
func itemAddress(r *http.Request) string {
	return types.ContentURI + "/" + chi.URLParam(r, "petID")
}

func (h *handler) listPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var projection []string
	if cols := strings.TrimSpace(q.Get("columns")); cols != "" {
		for _, c := range strings.Split(cols, ",") {
			projection = append(projection, strings.TrimSpace(c))
		}
	}

	var selection string
	var args []any
	if g := q.Get("gender"); g != "" {
		gender, err := types.ParseGender(g)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		selection = types.ColumnGender + " = ?"
		args = []any{int64(gender)}
	}

	pets, err := h.query(types.ContentURI, projection, selection, args, q.Get("sort"))
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *handler) getPet(w http.ResponseWriter, r *http.Request) {
	pets, err := h.query(itemAddress(r), nil, "", nil, "")
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	if len(pets) == 0 {
		writeError(w, http.StatusNotFound, types.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, pets[0])
}

func (h *handler) createPet(w http.ResponseWriter, r *http.Request) {
	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	pet := req.pet()
	if err := pet.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	addr, err := h.provider.Insert(types.ContentURI, pet.Values())
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	if addr == "" {
		h.metrics.inserts.WithLabelValues("failed").Inc()
		writeError(w, http.StatusInternalServerError, "Error with saving pet")
		return
	}
	h.metrics.inserts.WithLabelValues("ok").Inc()

	id, err := types.ParseID(addr)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	pet.ID = id
	w.Header().Set("Location", addr)
	writeJSON(w, http.StatusCreated, createdResponse{Address: addr, Pet: pet})
}

func (h *handler) updatePet(w http.ResponseWriter, r *http.Request) {
	var req petRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	pet := req.pet()
	if err := pet.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.provider.Update(itemAddress(r), pet.Values(), "", nil)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{Rows: n})
}

func (h *handler) deletePet(w http.ResponseWriter, r *http.Request) {
	n, err := h.provider.Delete(itemAddress(r), "", nil)
	if err != nil {
		h.writeProviderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{Rows: n})
}

// query drains a provider cursor into pets. The result is never nil so an
// empty catalog encodes as [].
func (h *handler) query(address string, projection []string, selection string, args []any, sortOrder string) ([]types.Pet, error) {
	c, err := h.provider.Query(address, projection, selection, args, sortOrder)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	pets := []types.Pet{}
	for c.Next() {
		p, err := types.ScanPet(c)
		if err != nil {
			return nil, err
		}
		pets = append(pets, *p)
	}
	return pets, c.Err()
}

func (h *handler) writeProviderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("provider failed", "err", err)
	}
	writeError(w, status, err.Error())
}

// statusFor maps provider errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrUnknownColumn),
		errors.Is(err, types.ErrInvalidSortOrder),
		errors.Is(err, types.ErrInvalidGender):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrStoreUnavailable),
		errors.Is(err, types.ErrProviderClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
