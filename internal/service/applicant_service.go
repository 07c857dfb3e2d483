package service

import (
	"log/slog"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security"
	"github.com/yourorg/castingdesk/internal/store"
)

// SlotRef addresses a value scoped to a casting slot
type SlotRef[T any] struct {
	Slot  *domain.CastingSlot
	Value T
}

// ApplicantService manages the global applicant collection and slot
// membership. Applicant records are owned by the global collection; a slot
// only links them, so removing an applicant from a slot never destroys the
// record. All operations are staff-tier.
type ApplicantService struct {
	store  *store.Store
	logger *slog.Logger

	ListForSlot    func(author *domain.User, company *domain.Company, slot *domain.CastingSlot) ([]*domain.Applicant, error)
	GetForSlot     func(author *domain.User, company *domain.Company, args SlotRef[int64]) (*domain.Applicant, error)
	AddToSlot      func(author *domain.User, company *domain.Company, args SlotRef[*domain.Applicant]) (*domain.CastingSlot, error)
	RemoveFromSlot func(author *domain.User, company *domain.Company, args SlotRef[*domain.Applicant]) (*domain.CastingSlot, error)
	HasInSlot      func(author *domain.User, company *domain.Company, args SlotRef[*domain.Applicant]) (bool, error)
	Create         func(author *domain.User, company *domain.Company, data map[string]any) (*domain.Applicant, error)
	Update         func(author *domain.User, company *domain.Company, args ApplicantUpdate) (*domain.Applicant, error)
}

// ApplicantUpdate pairs a resolved applicant with its replacement data
type ApplicantUpdate struct {
	Applicant *domain.Applicant
	Data      map[string]any
}

// NewApplicantService creates an applicant service with its guarded
// operations composed
func NewApplicantService(st *store.Store, logger *slog.Logger) *ApplicantService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ApplicantService{store: st, logger: logger}

	const msg = "company staff tier required"

	s.ListForSlot = security.Staff(s.listForSlot, msg)
	s.GetForSlot = security.Staff(s.getForSlot, msg)
	s.AddToSlot = security.Staff(s.addToSlot, msg)
	s.RemoveFromSlot = security.Staff(s.removeFromSlot, msg)
	s.HasInSlot = security.Staff(s.hasInSlot, msg)
	s.Create = security.Staff(s.create, msg)
	s.Update = security.Staff(s.update, msg)

	return s
}

// CoreGetByID resolves an applicant from the global collection without a
// tier check; handlers use it to resolve path identifiers before the
// guarded operation runs
func (s *ApplicantService) CoreGetByID(applicantID int64) *domain.Applicant {
	applicant, ok := s.store.Applicants.Find(applicantID)
	if !ok {
		return nil
	}
	return applicant
}

func (s *ApplicantService) listForSlot(slot *domain.CastingSlot) ([]*domain.Applicant, error) {
	return s.store.SlotApplicants.Filter(slot, nil), nil
}

func (s *ApplicantService) getForSlot(args SlotRef[int64]) (*domain.Applicant, error) {
	applicant, ok := s.store.SlotApplicants.Find(args.Slot, args.Value)
	if !ok {
		return nil, domain.NewNotFound("no such applicant in slot")
	}
	return applicant, nil
}

func (s *ApplicantService) addToSlot(args SlotRef[*domain.Applicant]) (*domain.CastingSlot, error) {
	if args.Value == nil {
		return nil, domain.NewInvalidParams("applicant is required")
	}
	if !s.store.SlotApplicants.Has(args.Slot, args.Value) {
		s.store.SlotApplicants.Link(args.Slot, args.Value)
	}
	return args.Slot, nil
}

func (s *ApplicantService) removeFromSlot(args SlotRef[*domain.Applicant]) (*domain.CastingSlot, error) {
	if args.Value == nil {
		return nil, domain.NewInvalidParams("applicant is required")
	}
	s.store.SlotApplicants.Unlink(args.Slot, args.Value)
	return args.Slot, nil
}

func (s *ApplicantService) hasInSlot(args SlotRef[*domain.Applicant]) (bool, error) {
	if args.Value == nil {
		return false, nil
	}
	return s.store.SlotApplicants.Has(args.Slot, args.Value), nil
}

func (s *ApplicantService) create(data map[string]any) (*domain.Applicant, error) {
	if data == nil {
		data = map[string]any{}
	}
	applicant := s.store.Applicants.Add(store.Patch{"Data": data})
	s.logger.Info("applicant created", slog.Int64("applicant_id", applicant.ID))
	return applicant, nil
}

func (s *ApplicantService) update(args ApplicantUpdate) (*domain.Applicant, error) {
	if args.Applicant == nil {
		return nil, domain.NewInvalidParams("applicant is required")
	}
	updated, ok := s.store.Applicants.Update(args.Applicant.ID, store.Patch{"Data": args.Data})
	if !ok {
		return nil, domain.NewProcessing("applicant vanished during update")
	}
	return updated, nil
}
