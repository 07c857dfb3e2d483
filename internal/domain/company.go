package domain

// Company represents an organization owning castings.
// Owners and Staff hold borrowed references to User records; the global users
// collection remains the sole owner of the User lifecycle.
type Company struct {
	ID       int64
	Title    string
	Owners   []*User // Full company authority
	Staff    []*User // Operational authority
	Castings []*Casting
}

// EntityID returns the company's collection key
func (c *Company) EntityID() int64 { return c.ID }

// SetEntityID assigns the company's collection key
func (c *Company) SetEntityID(id int64) { c.ID = id }

// Casting represents a single casting call owned by a company.
// Roles, fields and slots are created and destroyed with the casting.
type Casting struct {
	ID     int64
	Title  string
	Roles  []*CastingRole
	Fields []*CastingField
	Slots  []*CastingSlot
}

// EntityID returns the casting's key within its company
func (c *Casting) EntityID() int64 { return c.ID }

// SetEntityID assigns the casting's key within its company
func (c *Casting) SetEntityID(id int64) { c.ID = id }

// CastingRole represents a role applicants audition for
type CastingRole struct {
	ID    int64
	Title string
}

// EntityID returns the role's key within its casting
func (r *CastingRole) EntityID() int64 { return r.ID }

// SetEntityID assigns the role's key within its casting
func (r *CastingRole) SetEntityID(id int64) { r.ID = id }

// InputType identifies the kind of input a casting field collects
type InputType string

const (
	InputText   InputType = "text"
	InputSex    InputType = "sex"
	InputNumber InputType = "number"
	InputPhone  InputType = "phone"
	InputEmail  InputType = "email"
	InputFile   InputType = "file"
	InputRole   InputType = "role"
)

// ValidInputType reports whether t is one of the known input types
func ValidInputType(t InputType) bool {
	switch t {
	case InputText, InputSex, InputNumber, InputPhone, InputEmail, InputFile, InputRole:
		return true
	}
	return false
}

// CastingField describes one input the casting collects from applicants
type CastingField struct {
	ID         int64
	Title      string
	InputType  InputType
	IsRequired bool
}

// EntityID returns the field's key within its casting
func (f *CastingField) EntityID() int64 { return f.ID }

// SetEntityID assigns the field's key within its casting
func (f *CastingField) SetEntityID(id int64) { f.ID = id }

// CastingSlot represents a scheduled audition window with limited capacity
type CastingSlot struct {
	ID                 int64
	NumberOfApplicants int
	OpenAt             int64 // Unix millis when the slot opens for sign-up
	StartAt            int64 // Unix millis when the audition window starts
	EndAt              int64 // Unix millis when the audition window ends
	Applicants         []*Applicant
}

// EntityID returns the slot's key within its casting
func (s *CastingSlot) EntityID() int64 { return s.ID }

// SetEntityID assigns the slot's key within its casting
func (s *CastingSlot) SetEntityID(id int64) { s.ID = id }

// Applicant carries a schema-free attribute bag validated upstream against
// the casting's fields
type Applicant struct {
	ID   int64
	Data map[string]any
}

// EntityID returns the applicant's collection key
func (a *Applicant) EntityID() int64 { return a.ID }

// SetEntityID assigns the applicant's collection key
func (a *Applicant) SetEntityID(id int64) { a.ID = id }
