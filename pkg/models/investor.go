package models

// InvestorCategory distinguishes the three investor schemas. Each category
// has its own scoring weight table.
type InvestorCategory string

const (
	CategoryPersonal  InvestorCategory = "personal"
	CategoryCorporate InvestorCategory = "corporate"
	CategoryPublisher InvestorCategory = "publisher"
)

// AllCategories lists the categories in scoring order.
func AllCategories() []InvestorCategory {
	return []InvestorCategory{CategoryPersonal, CategoryCorporate, CategoryPublisher}
}

// Investor is one record from the external system-of-record, associated with
// a screening document. The pipeline only reads investors; it never creates,
// mutates, or deletes them.
type Investor struct {
	ID         string           `db:"id" json:"id"` // external stable ID
	DocumentID string           `db:"document_id" json:"document_id"`
	Category   InvestorCategory `db:"category" json:"category"`

	Name        string `db:"name" json:"name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
	Address     string `db:"address" json:"address"`

	// Identity numbers: KTP/NIK, passport, tax number, depending on category.
	IdentityNumbers []string `db:"-" json:"identity_numbers"`

	BirthPlace  string `db:"birth_place" json:"birth_place"`
	BirthDate   string `db:"birth_date" json:"birth_date"`
	Nationality string `db:"nationality" json:"nationality"`

	// Personal only.
	SpouseName       string `db:"spouse_name" json:"spouse_name"`
	MotherMaidenName string `db:"mother_maiden_name" json:"mother_maiden_name"`

	// Corporate / publisher only.
	RegistrationNumbers []string `db:"-" json:"registration_numbers"` // NPWP, SIUP, NIB
	PengurusNames       []string `db:"-" json:"pengurus_names"`       // officers
	PengurusIDNumbers   []string `db:"-" json:"pengurus_id_numbers"`
	BusinessDescription string   `db:"business_description" json:"business_description"`

	// Free-text notes carried from onboarding (occupation, remarks).
	Notes []string `db:"-" json:"notes"`
}
