package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/database"
	"lawdesk/internal/export"
	"lawdesk/internal/models"
)

type createConsultationRequest struct {
	RequestType     string `json:"request_type"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email,omitempty"`
	Category        string `json:"category,omitempty"`
	Message         string `json:"message,omitempty"`
	PreferredDate   string `json:"preferred_date,omitempty"` // YYYY-MM-DD
	PreferredTime   string `json:"preferred_time,omitempty"` // HH:MM
	OfficeLocation  string `json:"office_location,omitempty"`
	PreferredLawyer string `json:"preferred_lawyer,omitempty"`
}

// handleCreateConsultation is the public intake endpoint.
// POST /api/consultations
func (s *Server) handleCreateConsultation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createConsultationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := &models.Consultation{
		RequestType:     req.RequestType,
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Category:        req.Category,
		Message:         req.Message,
		PreferredTime:   req.PreferredTime,
		OfficeLocation:  req.OfficeLocation,
		PreferredLawyer: req.PreferredLawyer,
	}
	if req.PreferredDate != "" {
		date, err := time.Parse("2006-01-02", req.PreferredDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid preferred_date; expected YYYY-MM-DD")
			return
		}
		c.PreferredDate = date
	}

	if err := s.booking.Create(r.Context(), c); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// handleListConsultations lists consultations for the back office.
// GET /api/admin/consultations?status=&office=&search=&from=&to=&limit=&offset=
func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := consultationFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	consultations, err := s.booking.List(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	respondJSON(w, http.StatusOK, consultations)
}

func consultationFilterFromQuery(r *http.Request) (database.ConsultationFilter, error) {
	filter := database.ConsultationFilter{
		Status: r.URL.Query().Get("status"),
		Office: r.URL.Query().Get("office"),
		Search: r.URL.Query().Get("search"),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return filter, &invalidQueryError{"unknown status filter"}
	}
	for key, dst := range map[string]*time.Time{"from": &filter.From, "to": &filter.To} {
		if v := r.URL.Query().Get(key); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return filter, &invalidQueryError{"invalid " + key + " date; expected YYYY-MM-DD"}
			}
			*dst = t
		}
	}
	return filter, nil
}

type invalidQueryError struct{ msg string }

func (e *invalidQueryError) Error() string { return e.msg }

// handleGetConsultation returns one consultation with its message history.
// GET /api/admin/consultations/:id
func (s *Server) handleGetConsultation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.booking.Get(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	logs, err := s.db.ListMessageLogs(r.Context(), id, 50)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"consultation": c,
		"messages":     logs,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateConsultationStatus moves a consultation through its lifecycle.
// PATCH /api/admin/consultations/:id/status
func (s *Server) handleUpdateConsultationStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.booking.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// handleDeleteConsultation removes a consultation permanently.
// DELETE /api/admin/consultations/:id
func (s *Server) handleDeleteConsultation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.booking.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// handleRunAutoConfirm triggers one auto-confirm sweep on demand.
// POST /api/admin/auto-confirm/run
func (s *Server) handleRunAutoConfirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result, err := s.booking.RunAutoConfirm(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleExportConsultations streams the consultation workbook.
// GET /api/admin/export/consultations
func (s *Server) handleExportConsultations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := consultationFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = 0 // export everything matching

	consultations, err := s.booking.List(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	filename := export.ConsultationFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteConsultationReport(w, export.NewExcelizeWriter(), consultations); err != nil {
		s.logger.Error().Err(err).Msg("consultation export failed")
	}
}
