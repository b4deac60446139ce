package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bezrodnovart03/BnovAuto/internal/access"
	"github.com/bezrodnovart03/BnovAuto/internal/db"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// CompanyHandler serves the company registry.
type CompanyHandler struct {
	companies db.CompanyCollection
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewCompanyHandler creates a company handler.
func NewCompanyHandler(companies db.CompanyCollection, m *metrics.Metrics) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		metrics:   m,
		validate:  validator.New(),
	}
}

// Handle routes /api/companies requests.
func (h *CompanyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/companies"), "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case !strings.Contains(rest, "/"):
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, rest)
		case http.MethodPut:
			h.update(w, r, rest)
		case http.MethodDelete:
			h.delete(w, r, rest)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *CompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpListCompanies, access.Target{}) {
		return
	}
	companies, err := h.companies.FindCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpReadCompany, access.Target{}) {
		return
	}
	company, err := h.companies.FindCompanyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Company not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, h.metrics, access.OpWriteCompany, access.Target{}) {
		return
	}

	var company models.Company
	if !decodeBody(w, r, &company) {
		return
	}
	if err := h.validate.Struct(company); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exists, err := h.companies.ExistsCompanyByName(r.Context(), company.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		http.Error(w, "Company name already exists", http.StatusConflict)
		return
	}

	id, err := h.companies.InsertCompany(r.Context(), company)
	if err != nil {
		writeError(w, err)
		return
	}
	company.ID = id
	writeJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteCompany, access.Target{}) {
		return
	}

	var company models.Company
	if !decodeBody(w, r, &company) {
		return
	}
	if err := h.validate.Struct(company); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.companies.UpdateCompany(r.Context(), id, company); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Company not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !authorize(w, r, h.metrics, access.OpWriteCompany, access.Target{}) {
		return
	}
	if err := h.companies.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Company not found", http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
