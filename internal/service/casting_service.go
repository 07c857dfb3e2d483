package service

import (
	"log/slog"
	"strings"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security"
	"github.com/yourorg/castingdesk/internal/store"
)

// CastingParams are the caller-editable casting fields
type CastingParams struct {
	Title string
}

// RoleParams are the caller-editable role fields
type RoleParams struct {
	Title string
}

// FieldParams are the caller-editable field descriptor values
type FieldParams struct {
	Title      string
	InputType  domain.InputType
	IsRequired bool
}

// SlotParams are the caller-editable slot values. Timestamps are unix
// milliseconds.
type SlotParams struct {
	NumberOfApplicants int
	OpenAt             int64
	StartAt            int64
	EndAt              int64
}

// CastingRef addresses a child of a casting by identifier
type CastingRef[T any] struct {
	Casting *domain.Casting
	Value   T
}

// CastingService manages castings and their parent-owned role/field/slot
// sequences, all gated at the staff tier. Casting operations receive the
// resolved company from the guard; role/field/slot operations already carry
// their casting, so they use the company-separate guard flavor.
type CastingService struct {
	store  *store.Store
	logger *slog.Logger

	ListCastings  func(author *domain.User, company *domain.Company, _ struct{}) ([]*domain.Casting, error)
	GetCasting    func(author *domain.User, company *domain.Company, castingID int64) (*domain.Casting, error)
	CreateCasting func(author *domain.User, company *domain.Company, params CastingParams) (*domain.Casting, error)
	UpdateCasting func(author *domain.User, company *domain.Company, args CastingRef[CastingParams]) (*domain.Casting, error)
	DeleteCasting func(author *domain.User, company *domain.Company, casting *domain.Casting) (struct{}, error)

	ListRoles      func(author *domain.User, company *domain.Company, casting *domain.Casting) ([]*domain.CastingRole, error)
	GetRole        func(author *domain.User, company *domain.Company, args CastingRef[int64]) (*domain.CastingRole, error)
	CreateRole     func(author *domain.User, company *domain.Company, args CastingRef[RoleParams]) (*domain.CastingRole, error)
	UpdateRole     func(author *domain.User, company *domain.Company, args CastingRef[RoleUpdate]) (*domain.CastingRole, error)
	DeleteRole     func(author *domain.User, company *domain.Company, args CastingRef[*domain.CastingRole]) (struct{}, error)
	ReArrangeRoles func(author *domain.User, company *domain.Company, args CastingRef[[]int64]) (struct{}, error)

	ListFields      func(author *domain.User, company *domain.Company, casting *domain.Casting) ([]*domain.CastingField, error)
	GetField        func(author *domain.User, company *domain.Company, args CastingRef[int64]) (*domain.CastingField, error)
	CreateField     func(author *domain.User, company *domain.Company, args CastingRef[FieldParams]) (*domain.CastingField, error)
	UpdateField     func(author *domain.User, company *domain.Company, args CastingRef[FieldUpdate]) (*domain.CastingField, error)
	DeleteField     func(author *domain.User, company *domain.Company, args CastingRef[*domain.CastingField]) (struct{}, error)
	ReArrangeFields func(author *domain.User, company *domain.Company, args CastingRef[[]int64]) (struct{}, error)

	ListSlots      func(author *domain.User, company *domain.Company, casting *domain.Casting) ([]*domain.CastingSlot, error)
	GetSlot        func(author *domain.User, company *domain.Company, args CastingRef[int64]) (*domain.CastingSlot, error)
	CreateSlot     func(author *domain.User, company *domain.Company, args CastingRef[SlotParams]) (*domain.CastingSlot, error)
	UpdateSlot     func(author *domain.User, company *domain.Company, args CastingRef[SlotUpdate]) (*domain.CastingSlot, error)
	DeleteSlot     func(author *domain.User, company *domain.Company, args CastingRef[*domain.CastingSlot]) (struct{}, error)
	ReArrangeSlots func(author *domain.User, company *domain.Company, args CastingRef[[]int64]) (struct{}, error)
}

// RoleUpdate pairs a resolved role with its new values
type RoleUpdate struct {
	Role   *domain.CastingRole
	Params RoleParams
}

// FieldUpdate pairs a resolved field with its new values
type FieldUpdate struct {
	Field  *domain.CastingField
	Params FieldParams
}

// SlotUpdate pairs a resolved slot with its new values
type SlotUpdate struct {
	Slot   *domain.CastingSlot
	Params SlotParams
}

// NewCastingService creates a casting service with its guarded operations
// composed
func NewCastingService(st *store.Store, logger *slog.Logger) *CastingService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CastingService{store: st, logger: logger}

	const msg = "company staff tier required"

	s.ListCastings = security.StaffWithCompany(s.listCastings, msg)
	s.GetCasting = security.StaffWithCompany(s.getCasting, msg)
	s.CreateCasting = security.StaffWithCompany(s.createCasting, msg)
	s.UpdateCasting = security.StaffWithCompany(s.updateCasting, msg)
	s.DeleteCasting = security.StaffWithCompany(s.deleteCasting, msg)

	s.ListRoles = security.Staff(s.listRoles, msg)
	s.GetRole = security.Staff(s.getRole, msg)
	s.CreateRole = security.Staff(s.createRole, msg)
	s.UpdateRole = security.Staff(s.updateRole, msg)
	s.DeleteRole = security.Staff(s.deleteRole, msg)
	s.ReArrangeRoles = security.Staff(s.reArrangeRoles, msg)

	s.ListFields = security.Staff(s.listFields, msg)
	s.GetField = security.Staff(s.getField, msg)
	s.CreateField = security.Staff(s.createField, msg)
	s.UpdateField = security.Staff(s.updateField, msg)
	s.DeleteField = security.Staff(s.deleteField, msg)
	s.ReArrangeFields = security.Staff(s.reArrangeFields, msg)

	s.ListSlots = security.Staff(s.listSlots, msg)
	s.GetSlot = security.Staff(s.getSlot, msg)
	s.CreateSlot = security.Staff(s.createSlot, msg)
	s.UpdateSlot = security.Staff(s.updateSlot, msg)
	s.DeleteSlot = security.Staff(s.deleteSlot, msg)
	s.ReArrangeSlots = security.Staff(s.reArrangeSlots, msg)

	return s
}

func (s *CastingService) listCastings(company *domain.Company, _ struct{}) ([]*domain.Casting, error) {
	return s.store.Castings.Filter(company, nil), nil
}

func (s *CastingService) getCasting(company *domain.Company, castingID int64) (*domain.Casting, error) {
	casting, ok := s.store.Castings.Find(company, castingID)
	if !ok {
		return nil, domain.NewNotFound("no such casting")
	}
	return casting, nil
}

func (s *CastingService) createCasting(company *domain.Company, params CastingParams) (*domain.Casting, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	casting := s.store.Castings.Add(company, store.Patch{"Title": title})
	s.logger.Info("casting created",
		slog.Int64("company_id", company.ID),
		slog.Int64("casting_id", casting.ID),
	)
	return casting, nil
}

func (s *CastingService) updateCasting(company *domain.Company, args CastingRef[CastingParams]) (*domain.Casting, error) {
	title := strings.TrimSpace(args.Value.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	updated, ok := s.store.Castings.Update(company, args.Casting.ID, store.Patch{"Title": title})
	if !ok {
		return nil, domain.NewProcessing("casting vanished during update")
	}
	return updated, nil
}

func (s *CastingService) deleteCasting(company *domain.Company, casting *domain.Casting) (struct{}, error) {
	s.store.Castings.Remove(company, casting)
	s.logger.Info("casting deleted",
		slog.Int64("company_id", company.ID),
		slog.Int64("casting_id", casting.ID),
	)
	return struct{}{}, nil
}

func (s *CastingService) listRoles(casting *domain.Casting) ([]*domain.CastingRole, error) {
	return s.store.Roles.Filter(casting, nil), nil
}

func (s *CastingService) getRole(args CastingRef[int64]) (*domain.CastingRole, error) {
	role, ok := s.store.Roles.Find(args.Casting, args.Value)
	if !ok {
		return nil, domain.NewNotFound("no such role")
	}
	return role, nil
}

func (s *CastingService) createRole(args CastingRef[RoleParams]) (*domain.CastingRole, error) {
	title := strings.TrimSpace(args.Value.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	return s.store.Roles.Add(args.Casting, store.Patch{"Title": title}), nil
}

func (s *CastingService) updateRole(args CastingRef[RoleUpdate]) (*domain.CastingRole, error) {
	title := strings.TrimSpace(args.Value.Params.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	updated, ok := s.store.Roles.Update(args.Casting, args.Value.Role.ID, store.Patch{"Title": title})
	if !ok {
		return nil, domain.NewProcessing("role vanished during update")
	}
	return updated, nil
}

func (s *CastingService) deleteRole(args CastingRef[*domain.CastingRole]) (struct{}, error) {
	s.store.Roles.Remove(args.Casting, args.Value)
	return struct{}{}, nil
}

func (s *CastingService) reArrangeRoles(args CastingRef[[]int64]) (struct{}, error) {
	s.store.Roles.ReArrange(args.Casting, args.Value)
	return struct{}{}, nil
}

func (s *CastingService) listFields(casting *domain.Casting) ([]*domain.CastingField, error) {
	return s.store.Fields.Filter(casting, nil), nil
}

func (s *CastingService) getField(args CastingRef[int64]) (*domain.CastingField, error) {
	field, ok := s.store.Fields.Find(args.Casting, args.Value)
	if !ok {
		return nil, domain.NewNotFound("no such field")
	}
	return field, nil
}

func fieldPatch(params FieldParams) (store.Patch, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	if !domain.ValidInputType(params.InputType) {
		return nil, domain.NewInvalidParams("unknown input type")
	}
	return store.Patch{
		"Title":      title,
		"InputType":  params.InputType,
		"IsRequired": params.IsRequired,
	}, nil
}

func (s *CastingService) createField(args CastingRef[FieldParams]) (*domain.CastingField, error) {
	patch, err := fieldPatch(args.Value)
	if err != nil {
		return nil, err
	}
	return s.store.Fields.Add(args.Casting, patch), nil
}

func (s *CastingService) updateField(args CastingRef[FieldUpdate]) (*domain.CastingField, error) {
	patch, err := fieldPatch(args.Value.Params)
	if err != nil {
		return nil, err
	}
	updated, ok := s.store.Fields.Update(args.Casting, args.Value.Field.ID, patch)
	if !ok {
		return nil, domain.NewProcessing("field vanished during update")
	}
	return updated, nil
}

func (s *CastingService) deleteField(args CastingRef[*domain.CastingField]) (struct{}, error) {
	s.store.Fields.Remove(args.Casting, args.Value)
	return struct{}{}, nil
}

func (s *CastingService) reArrangeFields(args CastingRef[[]int64]) (struct{}, error) {
	s.store.Fields.ReArrange(args.Casting, args.Value)
	return struct{}{}, nil
}

func (s *CastingService) listSlots(casting *domain.Casting) ([]*domain.CastingSlot, error) {
	return s.store.Slots.Filter(casting, nil), nil
}

func (s *CastingService) getSlot(args CastingRef[int64]) (*domain.CastingSlot, error) {
	slot, ok := s.store.Slots.Find(args.Casting, args.Value)
	if !ok {
		return nil, domain.NewNotFound("no such slot")
	}
	return slot, nil
}

func slotPatch(params SlotParams) (store.Patch, error) {
	if params.NumberOfApplicants < 0 {
		return nil, domain.NewInvalidParams("capacity cannot be negative")
	}
	return store.Patch{
		"NumberOfApplicants": params.NumberOfApplicants,
		"OpenAt":             params.OpenAt,
		"StartAt":            params.StartAt,
		"EndAt":              params.EndAt,
	}, nil
}

func (s *CastingService) createSlot(args CastingRef[SlotParams]) (*domain.CastingSlot, error) {
	patch, err := slotPatch(args.Value)
	if err != nil {
		return nil, err
	}
	return s.store.Slots.Add(args.Casting, patch), nil
}

func (s *CastingService) updateSlot(args CastingRef[SlotUpdate]) (*domain.CastingSlot, error) {
	patch, err := slotPatch(args.Value.Params)
	if err != nil {
		return nil, err
	}
	updated, ok := s.store.Slots.Update(args.Casting, args.Value.Slot.ID, patch)
	if !ok {
		return nil, domain.NewProcessing("slot vanished during update")
	}
	return updated, nil
}

func (s *CastingService) deleteSlot(args CastingRef[*domain.CastingSlot]) (struct{}, error) {
	s.store.Slots.Remove(args.Casting, args.Value)
	return struct{}{}, nil
}

func (s *CastingService) reArrangeSlots(args CastingRef[[]int64]) (struct{}, error) {
	s.store.Slots.ReArrange(args.Casting, args.Value)
	return struct{}{}, nil
}
