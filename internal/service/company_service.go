package service

import (
	"log/slog"
	"strings"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security"
	"github.com/yourorg/castingdesk/internal/store"
)

// CompanyParams are the caller-editable company fields
type CompanyParams struct {
	Title string
}

// CompanyService manages companies and their owner/staff membership lists.
// Create and Delete are admin-tier, Update is owner-tier; membership
// management is owner-tier. List and Get apply visibility rules inline:
// admins see everything, everyone else only companies they hold at least
// staff tier in.
type CompanyService struct {
	store  *store.Store
	logger *slog.Logger

	Create func(author *domain.User, params CompanyParams) (*domain.Company, error)
	Update func(author *domain.User, company *domain.Company, params CompanyParams) (*domain.Company, error)
	Delete func(author *domain.User, company *domain.Company) (struct{}, error)

	ListOwners  func(author *domain.User, company *domain.Company, _ struct{}) ([]*domain.User, error)
	AddOwner    func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)
	RemoveOwner func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)

	ListStaff   func(author *domain.User, company *domain.Company, _ struct{}) ([]*domain.User, error)
	AddStaff    func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)
	RemoveStaff func(author *domain.User, company *domain.Company, user *domain.User) (*domain.Company, error)
}

// NewCompanyService creates a company service with its guarded operations
// composed
func NewCompanyService(st *store.Store, logger *slog.Logger) *CompanyService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CompanyService{store: st, logger: logger}

	s.Create = security.Admin(s.create, "only service admins may create companies")
	s.Update = security.OwnerWithCompany(s.update, "only company owners may update the company")
	s.Delete = security.Admin(s.delete, "only service admins may delete companies")

	s.ListOwners = security.OwnerWithCompany(s.listMembers(ownersOf), "only company owners may view owners")
	s.AddOwner = security.OwnerWithCompany(s.linkMember(st.Owners), "only company owners may add owners")
	s.RemoveOwner = security.OwnerWithCompany(s.unlinkMember(st.Owners), "only company owners may remove owners")

	s.ListStaff = security.OwnerWithCompany(s.listMembers(staffOf), "only company owners may view staff")
	s.AddStaff = security.OwnerWithCompany(s.linkMember(st.Staff), "only company owners may add staff")
	s.RemoveStaff = security.OwnerWithCompany(s.unlinkMember(st.Staff), "only company owners may remove staff")

	return s
}

// List returns the companies visible to the author: all of them for admins,
// otherwise those the author belongs to at staff tier or above
func (s *CompanyService) List(author *domain.User) ([]*domain.Company, error) {
	if author == nil {
		return nil, domain.NewForbidden("authentication required")
	}
	if security.CanManageService(author) {
		return s.store.Companies.Filter(nil), nil
	}
	return s.store.Companies.Filter(func(c *domain.Company) bool {
		return security.CanManageStaffLevel(author, c)
	}), nil
}

// Get returns one company, applying the same visibility rule as List.
// Unknown ids are NotFound even for companies the author could not see.
func (s *CompanyService) Get(author *domain.User, companyID int64) (*domain.Company, error) {
	if author == nil {
		return nil, domain.NewForbidden("authentication required")
	}
	company, ok := s.store.Companies.Find(companyID)
	if !ok {
		return nil, domain.NewNotFound("no such company")
	}
	if security.CanManageService(author) {
		return company, nil
	}
	if !security.CanManageStaffLevel(author, company) {
		return nil, domain.NewForbidden("not a member of this company")
	}
	return company, nil
}

// CoreGetByID resolves a company without authorization checks. Callers pass
// the result into guarded operations which make the access decision.
func (s *CompanyService) CoreGetByID(companyID int64) *domain.Company {
	company, ok := s.store.Companies.Find(companyID)
	if !ok {
		return nil
	}
	return company
}

func (s *CompanyService) create(params CompanyParams) (*domain.Company, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	company := s.store.Companies.Add(store.Patch{"Title": title})
	s.logger.Info("company created", slog.Int64("company_id", company.ID), slog.String("title", company.Title))
	return company, nil
}

func (s *CompanyService) update(company *domain.Company, params CompanyParams) (*domain.Company, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.NewInvalidParams("title is required")
	}
	updated, ok := s.store.Companies.Update(company.ID, store.Patch{"Title": title})
	if !ok {
		return nil, domain.NewProcessing("company vanished during update")
	}
	return updated, nil
}

func (s *CompanyService) delete(company *domain.Company) (struct{}, error) {
	s.store.Companies.Remove(company)
	s.logger.Info("company deleted", slog.Int64("company_id", company.ID))
	return struct{}{}, nil
}

func ownersOf(c *domain.Company) []*domain.User { return c.Owners }
func staffOf(c *domain.Company) []*domain.User  { return c.Staff }

func (s *CompanyService) listMembers(members func(*domain.Company) []*domain.User) security.CompanyOp[struct{}, []*domain.User] {
	return func(company *domain.Company, _ struct{}) ([]*domain.User, error) {
		seq := members(company)
		out := make([]*domain.User, len(seq))
		copy(out, seq)
		return out, nil
	}
}

func (s *CompanyService) linkMember(links *store.LinkableChild[*domain.Company, int64, *domain.User]) security.CompanyOp[*domain.User, *domain.Company] {
	return func(company *domain.Company, user *domain.User) (*domain.Company, error) {
		if user == nil {
			return nil, domain.NewInvalidParams("user is required")
		}
		if !links.Has(company, user) {
			links.Link(company, user)
		}
		return company, nil
	}
}

func (s *CompanyService) unlinkMember(links *store.LinkableChild[*domain.Company, int64, *domain.User]) security.CompanyOp[*domain.User, *domain.Company] {
	return func(company *domain.Company, user *domain.User) (*domain.Company, error) {
		if user == nil {
			return nil, domain.NewInvalidParams("user is required")
		}
		links.Unlink(company, user)
		return company, nil
	}
}
