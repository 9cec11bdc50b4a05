package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/repository"
	"github.com/nerufirm/appneruf/internal/service"
)

// ResidentHandler 入居者一览/详情/日次记录录入
type ResidentHandler struct {
	residents service.ResidentService
	records   service.RecordService
	logger    *zap.Logger
}

func NewResidentHandler(residents service.ResidentService, records service.RecordService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{residents: residents, records: records, logger: logger}
}

// ServeHTTP 处理 /api/residents 与 /api/residents/{id}[/records]
func (h *ResidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/residents" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.list(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/residents/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.detail(w, r, id)
	case len(parts) == 2 && parts[1] == "records":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.createRecord(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ResidentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.residents.ListResidents(r.Context(), service.ListResidentsRequest{
		Search: q.Get("q"),
		All:    parseBool(q.Get("all")),
	})
	if err != nil {
		h.logger.Error("Failed to list residents", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list residents"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ResidentHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	filter, ok := service.ParseTimelineFilter(r.URL.Query().Get("category"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, Fail("unknown category"))
		return
	}

	resp, err := h.residents.GetResidentDetail(r.Context(), service.GetResidentDetailRequest{
		ResidentID: id,
		Category:   filter,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("resident not found"))
			return
		}
		h.logger.Error("Failed to get resident detail", zap.String("resident_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to get resident"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ResidentHandler) createRecord(w http.ResponseWriter, r *http.Request, id string) {
	var req service.CreateDailyRecordRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	req.ResidentID = id
	if staff, ok := StaffFromContext(r.Context()); ok {
		req.StaffID = staff.ID
	}

	resp, err := h.records.CreateDailyRecord(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecord):
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		case errors.Is(err, repository.ErrNotFound):
			writeJSON(w, http.StatusNotFound, Fail("resident not found"))
		default:
			h.logger.Error("Failed to create daily record", zap.String("resident_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to create record"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}
