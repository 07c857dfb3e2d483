package store

import "github.com/yourorg/castingdesk/internal/domain"

// Store is the process-wide database: one instance is constructed at startup
// and injected into every service. Collections are locked in production; the
// test constructor builds unlocked collections so fixtures can reseed state
// between cases.
type Store struct {
	Users      *Collection[int64, *domain.User]
	Companies  *Collection[int64, *domain.Company]
	Applicants *Collection[int64, *domain.Applicant]
	Sessions   *Collection[string, *domain.Session]

	// Link collections: members owned by the top-level collections above
	Owners         *LinkableChild[*domain.Company, int64, *domain.User]
	Staff          *LinkableChild[*domain.Company, int64, *domain.User]
	SlotApplicants *LinkableChild[*domain.CastingSlot, int64, *domain.Applicant]

	// Editable collections: members owned by their parent entity
	Castings *EditableChild[*domain.Company, int64, *domain.Casting]
	Roles    *EditableChild[*domain.Casting, int64, *domain.CastingRole]
	Fields   *EditableChild[*domain.Casting, int64, *domain.CastingField]
	Slots    *EditableChild[*domain.Casting, int64, *domain.CastingSlot]
}

func defaultUser() *domain.User { return &domain.User{} }

func defaultSession() *domain.Session { return &domain.Session{} }

func defaultApplicant() *domain.Applicant { return &domain.Applicant{Data: map[string]any{}} }

func defaultCompany() *domain.Company {
	return &domain.Company{
		Owners:   []*domain.User{},
		Staff:    []*domain.User{},
		Castings: []*domain.Casting{},
	}
}

func defaultCasting() *domain.Casting {
	return &domain.Casting{
		Roles:  []*domain.CastingRole{},
		Fields: []*domain.CastingField{},
		Slots:  []*domain.CastingSlot{},
	}
}

func defaultRole() *domain.CastingRole { return &domain.CastingRole{} }

func defaultField() *domain.CastingField {
	return &domain.CastingField{InputType: domain.InputText}
}

func defaultSlot() *domain.CastingSlot {
	return &domain.CastingSlot{Applicants: []*domain.Applicant{}}
}

// New creates a production store with locked collections
func New() *Store {
	return build(NewCollection[int64, *domain.User], NewCollection[int64, *domain.Company],
		NewCollection[int64, *domain.Applicant], NewCollection[string, *domain.Session])
}

// NewTestStore creates a store whose collections accept SetData. Tests only.
func NewTestStore() *Store {
	return build(NewUnlockedCollection[int64, *domain.User], NewUnlockedCollection[int64, *domain.Company],
		NewUnlockedCollection[int64, *domain.Applicant], NewUnlockedCollection[string, *domain.Session])
}

func build(
	users func(func() *domain.User, IDGenerator[int64]) *Collection[int64, *domain.User],
	companies func(func() *domain.Company, IDGenerator[int64]) *Collection[int64, *domain.Company],
	applicants func(func() *domain.Applicant, IDGenerator[int64]) *Collection[int64, *domain.Applicant],
	sessions func(func() *domain.Session, IDGenerator[string]) *Collection[string, *domain.Session],
) *Store {
	s := &Store{
		Users:      users(defaultUser, NewSequence(0)),
		Companies:  companies(defaultCompany, NewSequence(0)),
		Applicants: applicants(defaultApplicant, NewSequence(0)),
		Sessions:   sessions(defaultSession, UUIDGenerator{}),
	}

	s.Owners = NewLinkableChild[*domain.Company, int64, *domain.User](
		s.Companies, func(c *domain.Company) *[]*domain.User { return &c.Owners })
	s.Staff = NewLinkableChild[*domain.Company, int64, *domain.User](
		s.Companies, func(c *domain.Company) *[]*domain.User { return &c.Staff })
	s.SlotApplicants = NewLinkableChild[*domain.CastingSlot, int64, *domain.Applicant](
		s.Companies, func(sl *domain.CastingSlot) *[]*domain.Applicant { return &sl.Applicants })

	s.Castings = NewEditableChild[*domain.Company, int64, *domain.Casting](
		s.Companies, func(c *domain.Company) *[]*domain.Casting { return &c.Castings },
		defaultCasting, NewSequence(0))
	s.Roles = NewEditableChild[*domain.Casting, int64, *domain.CastingRole](
		s.Companies, func(c *domain.Casting) *[]*domain.CastingRole { return &c.Roles },
		defaultRole, NewSequence(0))
	s.Fields = NewEditableChild[*domain.Casting, int64, *domain.CastingField](
		s.Companies, func(c *domain.Casting) *[]*domain.CastingField { return &c.Fields },
		defaultField, NewSequence(0))
	s.Slots = NewEditableChild[*domain.Casting, int64, *domain.CastingSlot](
		s.Companies, func(c *domain.Casting) *[]*domain.CastingSlot { return &c.Slots },
		defaultSlot, NewSequence(0))

	return s
}
