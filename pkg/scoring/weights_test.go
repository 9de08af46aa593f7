package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/juniper/pkg/models"
)

func TestWeightTablesSumToOne(t *testing.T) {
	for _, category := range models.AllCategories() {
		t.Run(string(category), func(t *testing.T) {
			sum := 0.0
			for _, w := range WeightsFor(category) {
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestWeightsFor(t *testing.T) {
	personal := WeightsFor(models.CategoryPersonal)
	assert.Equal(t, 0.40, personal[GroupIdentity])
	assert.Equal(t, 0.30, personal[GroupName])
	assert.NotContains(t, personal, GroupRegistration)

	corporate := WeightsFor(models.CategoryCorporate)
	assert.Equal(t, 0.40, corporate[GroupRegistration])
	assert.Equal(t, 0.10, corporate[GroupPengurus])
	assert.NotContains(t, corporate, GroupBirthDate)

	publisher := WeightsFor(models.CategoryPublisher)
	assert.Equal(t, 0.35, publisher[GroupIdentity])
	assert.Equal(t, 0.05, publisher[GroupBusiness])
}
