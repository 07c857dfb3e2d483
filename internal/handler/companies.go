package handler

import (
	"log/slog"
	"net/http"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/middleware"
	"github.com/yourorg/castingdesk/internal/service"
)

// CompanyHandler serves companies and their owner and staff membership lists
type CompanyHandler struct {
	companies *service.CompanyService
	users     *service.UserService
	auditLog  *audit.Logger
	logger    *slog.Logger
}

func NewCompanyHandler(companies *service.CompanyService, users *service.UserService, auditLog *audit.Logger, logger *slog.Logger) *CompanyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompanyHandler{companies: companies, users: users, auditLog: auditLog, logger: logger}
}

type companyRequest struct {
	Title string `json:"title"`
}

type memberRequest struct {
	UserID int64 `json:"userId"`
}

// resolveCompany turns the {companyId} path value into a live record without
// deciding access; the guarded operation the handler calls next does that.
func (h *CompanyHandler) resolveCompany(r *http.Request) (*domain.Company, error) {
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

// List handles GET /api/company
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	companies, err := h.companies.List(actor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]companyPayload, 0, len(companies))
	for _, c := range companies {
		out = append(out, maskCompany(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/company/{companyId}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	companyID, err := pathID(r, "companyId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	company, err := h.companies.Get(actor, companyID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskCompany(company))
}

// Create handles POST /api/company
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	var req companyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	company, err := h.companies.Create(actor, service.CompanyParams{Title: req.Title})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "create", "company", formatID(company.ID), "success", company.Title)
	}
	writeJSON(w, http.StatusCreated, maskCompany(company))
}

// Update handles PUT /api/company/{companyId}
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req companyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	updated, err := h.companies.Update(actor, company, service.CompanyParams{Title: req.Title})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskCompany(updated))
}

// Delete handles DELETE /api/company/{companyId}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := h.companies.Delete(actor, company); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "delete", "company", formatID(company.ID), "success", "")
	}
	writeJSON(w, http.StatusOK, okBody)
}

// CreateUser handles POST /api/company/{companyId}/user: owners may mint new
// accounts for their company without service-admin tier.
func (h *CompanyHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.users.CreateCompanyUser(actor, company, service.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, maskUser(user))
}

type memberOps struct {
	list   func(author *domain.User, company *domain.Company, _ struct{}) ([]*domain.User, error)
	add    func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)
	remove func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)
}

func (h *CompanyHandler) ownerOps() memberOps {
	return memberOps{list: h.companies.ListOwners, add: h.companies.AddOwner, remove: h.companies.RemoveOwner}
}

func (h *CompanyHandler) staffOps() memberOps {
	return memberOps{list: h.companies.ListStaff, add: h.companies.AddStaff, remove: h.companies.RemoveStaff}
}

// ListOwners handles GET /api/company/{companyId}/owner
func (h *CompanyHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, h.ownerOps())
}

// AddOwner handles POST /api/company/{companyId}/owner
func (h *CompanyHandler) AddOwner(w http.ResponseWriter, r *http.Request) {
	h.addMember(w, r, h.ownerOps(), "owner")
}

// RemoveOwner handles DELETE /api/company/{companyId}/owner/{userId}
func (h *CompanyHandler) RemoveOwner(w http.ResponseWriter, r *http.Request) {
	h.removeMember(w, r, h.ownerOps(), "owner")
}

// ListStaff handles GET /api/company/{companyId}/stuff
func (h *CompanyHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	h.listMembers(w, r, h.staffOps())
}

// AddStaff handles POST /api/company/{companyId}/stuff
func (h *CompanyHandler) AddStaff(w http.ResponseWriter, r *http.Request) {
	h.addMember(w, r, h.staffOps(), "stuff")
}

// RemoveStaff handles DELETE /api/company/{companyId}/stuff/{userId}
func (h *CompanyHandler) RemoveStaff(w http.ResponseWriter, r *http.Request) {
	h.removeMember(w, r, h.staffOps(), "stuff")
}

func (h *CompanyHandler) listMembers(w http.ResponseWriter, r *http.Request, ops memberOps) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	members, err := ops.list(actor, company, struct{}{})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, maskUsers(members))
}

func (h *CompanyHandler) addMember(w http.ResponseWriter, r *http.Request, ops memberOps, resource string) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := h.users.CoreGetByID(req.UserID)
	if user == nil {
		writeError(w, h.logger, domain.NewNotFound("user not found"))
		return
	}
	if _, err := ops.add(actor, company, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "link", resource, formatID(user.ID), "success", "company "+formatID(company.ID))
	}
	writeJSON(w, http.StatusOK, okBody)
}

func (h *CompanyHandler) removeMember(w http.ResponseWriter, r *http.Request, ops memberOps, resource string) {
	actor := middleware.GetActorFromContext(r.Context())
	company, err := h.resolveCompany(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	user := h.users.CoreGetByID(userID)
	if user == nil {
		writeError(w, h.logger, domain.NewNotFound("user not found"))
		return
	}
	if _, err := ops.remove(actor, company, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if h.auditLog != nil {
		h.auditLog.LogAction(r.Context(), actorID(actor), "unlink", resource, formatID(user.ID), "success", "company "+formatID(company.ID))
	}
	writeJSON(w, http.StatusOK, okBody)
}
