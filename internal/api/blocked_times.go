package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"lawdesk/internal/models"
)

type blockedTimeRequest struct {
	BlockType        string `json:"block_type"`
	BlockedDate      string `json:"blocked_date"` // YYYY-MM-DD
	BlockedTimeStart string `json:"blocked_time_start,omitempty"`
	BlockedTimeEnd   string `json:"blocked_time_end,omitempty"`
	OfficeLocation   string `json:"office_location,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

func (req *blockedTimeRequest) toModel(createdBy string) (*models.BlockedTime, string) {
	if !models.ValidBlockType(req.BlockType) {
		return nil, "block_type must be date or time_slot"
	}
	date, err := time.Parse("2006-01-02", req.BlockedDate)
	if err != nil {
		return nil, "invalid blocked_date; expected YYYY-MM-DD"
	}
	if req.BlockType == models.BlockTimeSlot {
		if req.BlockedTimeStart == "" || req.BlockedTimeEnd == "" {
			return nil, "time_slot blocks require blocked_time_start and blocked_time_end"
		}
		start, err := models.ParseClock(req.BlockedTimeStart)
		if err != nil {
			return nil, "invalid blocked_time_start; expected HH:MM"
		}
		end, err := models.ParseClock(req.BlockedTimeEnd)
		if err != nil {
			return nil, "invalid blocked_time_end; expected HH:MM"
		}
		if start >= end {
			return nil, "blocked_time_start must be before blocked_time_end"
		}
	}

	return &models.BlockedTime{
		BlockType:        req.BlockType,
		BlockedDate:      date,
		BlockedTimeStart: req.BlockedTimeStart,
		BlockedTimeEnd:   req.BlockedTimeEnd,
		OfficeLocation:   req.OfficeLocation,
		Reason:           req.Reason,
		CreatedBy:        createdBy,
	}, ""
}

// handleListBlockedTimes returns blocks, optionally from a date onward.
// GET /api/admin/blocked-times?from=YYYY-MM-DD
func (s *Server) handleListBlockedTimes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var from time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
			return
		}
		from = t
	}

	blocks, err := s.db.ListBlockedTimes(r.Context(), from)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if blocks == nil {
		blocks = []models.BlockedTime{}
	}
	respondJSON(w, http.StatusOK, blocks)
}

// handleCreateBlockedTime declares a new unavailable range.
// POST /api/admin/blocked-times
func (s *Server) handleCreateBlockedTime(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req blockedTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	block, msg := req.toModel(AuthUser(r))
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.db.CreateBlockedTime(r.Context(), block); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, block)
}

// handleUpdateBlockedTime overwrites an existing block.
// PATCH /api/admin/blocked-times/:id
func (s *Server) handleUpdateBlockedTime(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req blockedTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := s.db.GetBlockedTime(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	block, msg := req.toModel(existing.CreatedBy)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	block.ID = id
	block.CreatedAt = existing.CreatedAt

	if err := s.db.UpdateBlockedTime(r.Context(), block); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, block)
}

// handleDeleteBlockedTime removes a block.
// DELETE /api/admin/blocked-times/:id
func (s *Server) handleDeleteBlockedTime(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := paramID(ps)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.db.DeleteBlockedTime(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
