package scoring

import "github.com/Ramsey-B/juniper/pkg/models"

// FieldGroup names one semantic comparison group. Each category scores a
// fixed set of groups; the group score is the best token similarity between
// the investor's values and every candidate value the watchlist entity
// offers for that group.
type FieldGroup string

const (
	GroupIdentity     FieldGroup = "identity_numbers"
	GroupName         FieldGroup = "name"
	GroupPhone        FieldGroup = "phone"
	GroupBirthDate    FieldGroup = "birth_date"
	GroupAddress      FieldGroup = "address"
	GroupBirthPlace   FieldGroup = "birth_place"
	GroupSpouse       FieldGroup = "spouse_name"
	GroupMother       FieldGroup = "mother_name"
	GroupNationality  FieldGroup = "nationality"
	GroupDescriptions FieldGroup = "descriptions"
	GroupRegistration FieldGroup = "registration_numbers"
	GroupPengurus     FieldGroup = "pengurus_identity"
	GroupBusiness     FieldGroup = "business_description"
)

// groupOrder fixes the summation order of the weighted aggregate. Map
// iteration order is randomized per call, and float addition is not
// associative, so summing straight off the weight tables makes boundary
// scores (exactly at the flag threshold) differ in the last ulp between
// calls.
var groupOrder = []FieldGroup{
	GroupIdentity,
	GroupRegistration,
	GroupName,
	GroupPhone,
	GroupBirthDate,
	GroupAddress,
	GroupBirthPlace,
	GroupSpouse,
	GroupMother,
	GroupNationality,
	GroupPengurus,
	GroupBusiness,
	GroupDescriptions,
}

// Policy weight tables. Each table sums to 1.0 so an aggregated score stays
// in [0,1]; the weight-sum invariant is covered by tests.
var (
	personalWeights = map[FieldGroup]float64{
		GroupIdentity:     0.40,
		GroupName:         0.30,
		GroupPhone:        0.10,
		GroupBirthDate:    0.10,
		GroupAddress:      0.02,
		GroupBirthPlace:   0.01,
		GroupSpouse:       0.01,
		GroupMother:       0.01,
		GroupNationality:  0.01,
		GroupDescriptions: 0.04,
	}

	corporateWeights = map[FieldGroup]float64{
		GroupRegistration: 0.40,
		GroupName:         0.30,
		GroupPhone:        0.10,
		GroupPengurus:     0.10,
		GroupAddress:      0.05,
		GroupDescriptions: 0.05,
	}

	publisherWeights = map[FieldGroup]float64{
		GroupIdentity:     0.35,
		GroupName:         0.30,
		GroupPengurus:     0.10,
		GroupPhone:        0.10,
		GroupAddress:      0.05,
		GroupBusiness:     0.05,
		GroupDescriptions: 0.05,
	}
)

// WeightsFor returns the weight table for an investor category.
func WeightsFor(category models.InvestorCategory) map[FieldGroup]float64 {
	switch category {
	case models.CategoryCorporate:
		return corporateWeights
	case models.CategoryPublisher:
		return publisherWeights
	default:
		return personalWeights
	}
}
