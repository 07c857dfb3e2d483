package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/service"
)

// CastingHandler serves castings and their parent-owned roles, fields and
// slots under /api/company/{companyId}/casting.
type CastingHandler struct {
	companies *service.CompanyService
	castings  *service.CastingService
	logger    *slog.Logger
}

func NewCastingHandler(companies *service.CompanyService, castings *service.CastingService, logger *slog.Logger) *CastingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CastingHandler{companies: companies, castings: castings, logger: logger}
}

type castingPayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type rolePayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type fieldPayload struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	InputType  domain.InputType `json:"inputType"`
	IsRequired bool             `json:"isRequired"`
}

type slotPayload struct {
	ID                 int64 `json:"id"`
	NumberOfApplicants int   `json:"numberOfApplicants"`
	OpenAt             int64 `json:"openAt"`
	StartAt            int64 `json:"startAt"`
	EndAt              int64 `json:"endAt"`
}

func maskCasting(c *domain.Casting) castingPayload {
	return castingPayload{ID: c.ID, Title: c.Title}
}

func maskRole(r *domain.CastingRole) rolePayload {
	return rolePayload{ID: r.ID, Title: r.Title}
}

func maskField(f *domain.CastingField) fieldPayload {
	return fieldPayload{ID: f.ID, Title: f.Title, InputType: f.InputType, IsRequired: f.IsRequired}
}

func maskSlot(s *domain.CastingSlot) slotPayload {
	return slotPayload{
		ID:                 s.ID,
		NumberOfApplicants: s.NumberOfApplicants,
		OpenAt:             s.OpenAt,
		StartAt:            s.StartAt,
		EndAt:              s.EndAt,
	}
}

type castingRequest struct {
	Title string `json:"title"`
}

type roleRequest struct {
	Title string `json:"title"`
}

type fieldRequest struct {
	Title      string           `json:"title"`
	InputType  domain.InputType `json:"inputType"`
	IsRequired bool             `json:"isRequired"`
}

type slotRequest struct {
	NumberOfApplicants int   `json:"numberOfApplicants"`
	OpenAt             int64 `json:"openAt"`
	StartAt            int64 `json:"startAt"`
	EndAt              int64 `json:"endAt"`
}

type orderRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *CastingHandler) resolveCompany(r *http.Request) (*domain.Company, error) {
	companyID, err := pathID(r, "companyId")
	if err != nil {
		return nil, err
	}
	company := h.companies.CoreGetByID(companyID)
	if company == nil {
		return nil, domain.NewNotFound("company not found")
	}
	return company, nil
}

// resolveCasting resolves both the company and the casting within it. The
// guarded GetCasting call makes the access decision for the whole subtree.
func (h *CastingHandler) resolveCasting(r *http.Request) (*domain.User, *domain.Company, *domain.Casting, error) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		return actor, nil, nil, err
	}
	castingID, err := pathID(r, "castingId")
	if err != nil {
		return actor, company, nil, err
	}
	casting, err := h.castings.GetCasting(actor, company, castingID)
	if err != nil {
		return actor, company, nil, err
	}
	return actor, company, casting, nil
}

// ListCastings handles GET /api/company/{companyId}/casting
func (h *CastingHandler) ListCastings(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	castings, err := h.castings.ListCastings(actor, company, struct{}{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]castingPayload, 0, len(castings))
	for _, c := range castings {
		out = append(out, maskCasting(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCasting handles GET /api/company/{companyId}/casting/{castingId}
func (h *CastingHandler) GetCasting(w http.ResponseWriter, r *http.Request) {
	_, _, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskCasting(casting))
}

// CreateCasting handles POST /api/company/{companyId}/casting
func (h *CastingHandler) CreateCasting(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req castingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	casting, err := h.castings.CreateCasting(actor, company, service.CastingParams{Title: req.Title})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskCasting(casting))
}

// UpdateCasting handles PUT /api/company/{companyId}/casting/{castingId}
func (h *CastingHandler) UpdateCasting(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req castingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.castings.UpdateCasting(actor, company, service.CastingRef[service.CastingParams]{
		Casting: casting,
		Value:   service.CastingParams{Title: req.Title},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskCasting(updated))
}

// DeleteCasting handles DELETE /api/company/{companyId}/casting/{castingId}
func (h *CastingHandler) DeleteCasting(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.castings.DeleteCasting(actor, company, casting); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}

// ListRoles handles GET .../casting/{castingId}/role
func (h *CastingHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	roles, err := h.castings.ListRoles(actor, company, casting)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]rolePayload, 0, len(roles))
	for _, role := range roles {
		out = append(out, maskRole(role))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetRole handles GET .../role/{roleId}
func (h *CastingHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	roleID, err := pathID(r, "roleId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	role, err := h.castings.GetRole(actor, company, service.CastingRef[int64]{Casting: casting, Value: roleID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskRole(role))
}

// CreateRole handles POST .../role
func (h *CastingHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req roleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	role, err := h.castings.CreateRole(actor, company, service.CastingRef[service.RoleParams]{
		Casting: casting,
		Value:   service.RoleParams{Title: req.Title},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskRole(role))
}

// UpdateRole handles PUT .../role/{roleId}
func (h *CastingHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	roleID, err := pathID(r, "roleId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	role, err := h.castings.GetRole(actor, company, service.CastingRef[int64]{Casting: casting, Value: roleID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req roleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.castings.UpdateRole(actor, company, service.CastingRef[service.RoleUpdate]{
		Casting: casting,
		Value:   service.RoleUpdate{Role: role, Params: service.RoleParams{Title: req.Title}},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskRole(updated))
}

// DeleteRole handles DELETE .../role/{roleId}
func (h *CastingHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	roleID, err := pathID(r, "roleId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	role, err := h.castings.GetRole(actor, company, service.CastingRef[int64]{Casting: casting, Value: roleID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.castings.DeleteRole(actor, company, service.CastingRef[*domain.CastingRole]{Casting: casting, Value: role}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}

// ReArrangeRoles handles PUT .../role/order
func (h *CastingHandler) ReArrangeRoles(w http.ResponseWriter, r *http.Request) {
	h.reArrange(w, r, h.castings.ReArrangeRoles)
}

// ListFields handles GET .../casting/{castingId}/field
func (h *CastingHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	fields, err := h.castings.ListFields(actor, company, casting)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]fieldPayload, 0, len(fields))
	for _, f := range fields {
		out = append(out, maskField(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetField handles GET .../field/{fieldId}
func (h *CastingHandler) GetField(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	fieldID, err := pathID(r, "fieldId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	field, err := h.castings.GetField(actor, company, service.CastingRef[int64]{Casting: casting, Value: fieldID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskField(field))
}

// CreateField handles POST .../field
func (h *CastingHandler) CreateField(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	field, err := h.castings.CreateField(actor, company, service.CastingRef[service.FieldParams]{
		Casting: casting,
		Value:   service.FieldParams{Title: req.Title, InputType: req.InputType, IsRequired: req.IsRequired},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskField(field))
}

// UpdateField handles PUT .../field/{fieldId}
func (h *CastingHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	fieldID, err := pathID(r, "fieldId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	field, err := h.castings.GetField(actor, company, service.CastingRef[int64]{Casting: casting, Value: fieldID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.castings.UpdateField(actor, company, service.CastingRef[service.FieldUpdate]{
		Casting: casting,
		Value: service.FieldUpdate{
			Field:  field,
			Params: service.FieldParams{Title: req.Title, InputType: req.InputType, IsRequired: req.IsRequired},
		},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskField(updated))
}

// DeleteField handles DELETE .../field/{fieldId}
func (h *CastingHandler) DeleteField(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	fieldID, err := pathID(r, "fieldId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	field, err := h.castings.GetField(actor, company, service.CastingRef[int64]{Casting: casting, Value: fieldID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.castings.DeleteField(actor, company, service.CastingRef[*domain.CastingField]{Casting: casting, Value: field}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}

// ReArrangeFields handles PUT .../field/order
func (h *CastingHandler) ReArrangeFields(w http.ResponseWriter, r *http.Request) {
	h.reArrange(w, r, h.castings.ReArrangeFields)
}

// ListSlots handles GET .../casting/{castingId}/slot
func (h *CastingHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slots, err := h.castings.ListSlots(actor, company, casting)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]slotPayload, 0, len(slots))
	for _, s := range slots {
		out = append(out, maskSlot(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSlot handles GET .../slot/{slotId}
func (h *CastingHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slotID, err := pathID(r, "slotId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slot, err := h.castings.GetSlot(actor, company, service.CastingRef[int64]{Casting: casting, Value: slotID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskSlot(slot))
}

// CreateSlot handles POST .../slot
func (h *CastingHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req slotRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	slot, err := h.castings.CreateSlot(actor, company, service.CastingRef[service.SlotParams]{
		Casting: casting,
		Value: service.SlotParams{
			NumberOfApplicants: req.NumberOfApplicants,
			OpenAt:             req.OpenAt,
			StartAt:            req.StartAt,
			EndAt:              req.EndAt,
		},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskSlot(slot))
}

// UpdateSlot handles PUT .../slot/{slotId}
func (h *CastingHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slotID, err := pathID(r, "slotId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slot, err := h.castings.GetSlot(actor, company, service.CastingRef[int64]{Casting: casting, Value: slotID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req slotRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.castings.UpdateSlot(actor, company, service.CastingRef[service.SlotUpdate]{
		Casting: casting,
		Value: service.SlotUpdate{
			Slot: slot,
			Params: service.SlotParams{
				NumberOfApplicants: req.NumberOfApplicants,
				OpenAt:             req.OpenAt,
				StartAt:            req.StartAt,
				EndAt:              req.EndAt,
			},
		},
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskSlot(updated))
}

// DeleteSlot handles DELETE .../slot/{slotId}
func (h *CastingHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slotID, err := pathID(r, "slotId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	slot, err := h.castings.GetSlot(actor, company, service.CastingRef[int64]{Casting: casting, Value: slotID})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.castings.DeleteSlot(actor, company, service.CastingRef[*domain.CastingSlot]{Casting: casting, Value: slot}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}

// ReArrangeSlots handles PUT .../slot/order
func (h *CastingHandler) ReArrangeSlots(w http.ResponseWriter, r *http.Request) {
	h.reArrange(w, r, h.castings.ReArrangeSlots)
}

func (h *CastingHandler) reArrange(w http.ResponseWriter, r *http.Request, op func(author *domain.User, company *domain.Company, args service.CastingRef[[]int64]) (struct{}, error)) {
	actor, company, casting, err := h.resolveCasting(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req orderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := op(actor, company, service.CastingRef[[]int64]{Casting: casting, Value: req.IDs}); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody)
}
