package handler

import "net/http"

// Handlers bundles everything RegisterRoutes needs. Events is optional and
// only mounted when the feed is enabled.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Companies  *CompanyHandler
	Castings   *CastingHandler
	Applicants *ApplicantHandler
	Health     *HealthHandler
	Events     *EventsHandler
}

// RegisterRoutes mounts the full API surface on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /healthz", h.Health.Health)
	mux.HandleFunc("GET /readyz", h.Health.Ready)

	mux.HandleFunc("POST /api/auth/signin", h.Auth.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.Auth.SignOut)

	mux.HandleFunc("GET /api/users", h.Users.List)
	mux.HandleFunc("POST /api/users", h.Users.Create)
	mux.HandleFunc("GET /api/users/{userId}", h.Users.Get)
	mux.HandleFunc("PUT /api/users/{userId}", h.Users.Update)
	mux.HandleFunc("PUT /api/users/{userId}/password", h.Users.ChangePassword)
	mux.HandleFunc("DELETE /api/users/{userId}", h.Users.Delete)

	mux.HandleFunc("GET /api/company", h.Companies.List)
	mux.HandleFunc("POST /api/company", h.Companies.Create)
	mux.HandleFunc("GET /api/company/{companyId}", h.Companies.Get)
	mux.HandleFunc("PUT /api/company/{companyId}", h.Companies.Update)
	mux.HandleFunc("DELETE /api/company/{companyId}", h.Companies.Delete)
	mux.HandleFunc("POST /api/company/{companyId}/user", h.Companies.CreateUser)

	mux.HandleFunc("GET /api/company/{companyId}/owner", h.Companies.ListOwners)
	mux.HandleFunc("POST /api/company/{companyId}/owner", h.Companies.AddOwner)
	mux.HandleFunc("DELETE /api/company/{companyId}/owner/{userId}", h.Companies.RemoveOwner)

	mux.HandleFunc("GET /api/company/{companyId}/stuff", h.Companies.ListStaff)
	mux.HandleFunc("POST /api/company/{companyId}/stuff", h.Companies.AddStaff)
	mux.HandleFunc("DELETE /api/company/{companyId}/stuff/{userId}", h.Companies.RemoveStaff)

	mux.HandleFunc("GET /api/company/{companyId}/casting", h.Castings.ListCastings)
	mux.HandleFunc("POST /api/company/{companyId}/casting", h.Castings.CreateCasting)
	mux.HandleFunc("GET /api/company/{companyId}/casting/{castingId}", h.Castings.GetCasting)
	mux.HandleFunc("PUT /api/company/{companyId}/casting/{castingId}", h.Castings.UpdateCasting)
	mux.HandleFunc("DELETE /api/company/{companyId}/casting/{castingId}", h.Castings.DeleteCasting)

	casting := "/api/company/{companyId}/casting/{castingId}"

	mux.HandleFunc("GET "+casting+"/role", h.Castings.ListRoles)
	mux.HandleFunc("POST "+casting+"/role", h.Castings.CreateRole)
	mux.HandleFunc("PUT "+casting+"/role/order", h.Castings.ReArrangeRoles)
	mux.HandleFunc("GET "+casting+"/role/{roleId}", h.Castings.GetRole)
	mux.HandleFunc("PUT "+casting+"/role/{roleId}", h.Castings.UpdateRole)
	mux.HandleFunc("DELETE "+casting+"/role/{roleId}", h.Castings.DeleteRole)

	mux.HandleFunc("GET "+casting+"/field", h.Castings.ListFields)
	mux.HandleFunc("POST "+casting+"/field", h.Castings.CreateField)
	mux.HandleFunc("PUT "+casting+"/field/order", h.Castings.ReArrangeFields)
	mux.HandleFunc("GET "+casting+"/field/{fieldId}", h.Castings.GetField)
	mux.HandleFunc("PUT "+casting+"/field/{fieldId}", h.Castings.UpdateField)
	mux.HandleFunc("DELETE "+casting+"/field/{fieldId}", h.Castings.DeleteField)

	mux.HandleFunc("GET "+casting+"/slot", h.Castings.ListSlots)
	mux.HandleFunc("POST "+casting+"/slot", h.Castings.CreateSlot)
	mux.HandleFunc("PUT "+casting+"/slot/order", h.Castings.ReArrangeSlots)
	mux.HandleFunc("GET "+casting+"/slot/{slotId}", h.Castings.GetSlot)
	mux.HandleFunc("PUT "+casting+"/slot/{slotId}", h.Castings.UpdateSlot)
	mux.HandleFunc("DELETE "+casting+"/slot/{slotId}", h.Castings.DeleteSlot)

	slot := casting + "/slot/{slotId}"

	mux.HandleFunc("GET "+slot+"/applicant", h.Applicants.List)
	mux.HandleFunc("POST "+slot+"/applicant", h.Applicants.Create)
	mux.HandleFunc("GET "+slot+"/applicant/{applicantId}", h.Applicants.Get)
	mux.HandleFunc("PUT "+slot+"/applicant/{applicantId}", h.Applicants.Update)
	mux.HandleFunc("DELETE "+slot+"/applicant/{applicantId}", h.Applicants.Delete)

	if h.Events != nil {
		mux.Handle("GET /ws/events", h.Events)
	}
}
