package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/service"
)

// ApplicantHandler serves slot applicants under
// /api/company/{companyId}/casting/{castingId}/slot/{slotId}/applicant.
// Creation mints a global applicant record and links it to the slot;
// removal only unlinks, the record survives for other slots.
type ApplicantHandler struct {
	companies  *service.CompanyService
	castings   *service.CastingService
	applicants *service.ApplicantService
	logger     *slog.Logger
}

func NewApplicantHandler(companies *service.CompanyService, castings *service.CastingService, applicants *service.ApplicantService, logger *slog.Logger) *ApplicantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicantHandler{companies: companies, castings: castings, applicants: applicants, logger: logger}
}

type applicantPayload struct {
	ID   int64          `json:"id"`
	Data map[string]any `json:"data"`
}

func maskApplicant(a *domain.Applicant) applicantPayload {
	return applicantPayload{ID: a.ID, Data: a.Data}
}

// resolveSlot walks company, casting and slot from the path. Any missing
// link in the chain surfaces as the corresponding service error.
func (h *ApplicantHandler) resolveSlot(r *http.Request) (*domain.User, *domain.Company, *domain.CastingSlot, error) {
	actor := middleware.GetActorFromContext(r.Context())
	companyID, err := pathID(r, "companyId")
	if err != nil {
		return actor, nil, nil, err
	}
	company := h.companies.CoreGetByID(companyID)
	if company == nil {
		return actor, nil, nil, domain.NewNotFound("company not found")
	}
	castingID, err := pathID(r, "castingId")
	if err != nil {
		return actor, company, nil, err
	}
	casting, err := h.castings.GetCasting(actor, company, castingID)
	if err != nil {
		return actor, company, nil, err
	}
	slotID, err := pathID(r, "slotId")
	if err != nil {
		return actor, company, nil, err
	}
	slot, err := h.castings.GetSlot(actor, company, service.CastingRef[int64]{Casting: casting, Value: slotID})
	if err != nil {
		return actor, company, nil, err
	}
	return actor, company, slot, nil
}

// List handles GET .../applicant
func (h *ApplicantHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, company, slot, err := h.resolveSlot(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicants, err := h.applicants.ListForSlot(actor, company, slot)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]applicantPayload, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, maskApplicant(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET .../applicant/{applicantId}
func (h *ApplicantHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, company, slot, err := h.resolveSlot(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicantID, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicant, err := h.applicants.GetForSlot(actor, company, service.SlotRef[int64]{Slot: slot, Value: applicantID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskApplicant(applicant))
}

// Create handles POST .../applicant: a new global applicant record is
// created from the request body and linked to the slot in one step.
func (h *ApplicantHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, company, slot, err := h.resolveSlot(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var data map[string]any
	if err := decodeBody(r, &data); err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicant, err := h.applicants.Create(actor, company, data)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.applicants.AddToSlot(actor, company, service.SlotRef[*domain.Applicant]{Slot: slot, Value: applicant}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskApplicant(applicant))
}

// Update handles PUT .../applicant/{applicantId}. The applicant is resolved
// through the slot's membership, then the global record is updated in place.
func (h *ApplicantHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, company, slot, err := h.resolveSlot(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicantID, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicant, err := h.applicants.GetForSlot(actor, company, service.SlotRef[int64]{Slot: slot, Value: applicantID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var data map[string]any
	if err := decodeBody(r, &data); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.applicants.Update(actor, company, service.ApplicantUpdate{Applicant: applicant, Data: data})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskApplicant(updated))
}

// Delete handles DELETE .../applicant/{applicantId}: the applicant is
// unlinked from the slot but its global record is kept.
func (h *ApplicantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, company, slot, err := h.resolveSlot(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicantID, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	applicant, err := h.applicants.GetForSlot(actor, company, service.SlotRef[int64]{Slot: slot, Value: applicantID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.applicants.RemoveFromSlot(actor, company, service.SlotRef[*domain.Applicant]{Slot: slot, Value: applicant}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}
