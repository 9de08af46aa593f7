package config

import "github.com/Ramsey-B/juniper/pkg/models"

// SchemaMapping resolves the configured column overrides against the
// published DTTOT header names.
func (c Config) SchemaMapping() models.SchemaMapping {
	mapping := models.DefaultSchemaMapping()
	if c.ColumnFullName != "" {
		mapping.FullName = c.ColumnFullName
	}
	if c.ColumnDescription != "" {
		mapping.Description = c.ColumnDescription
	}
	if c.ColumnSuspectType != "" {
		mapping.SuspectType = c.ColumnSuspectType
	}
	if c.ColumnDensusCode != "" {
		mapping.DensusCode = c.ColumnDensusCode
	}
	if c.ColumnBirthPlace != "" {
		mapping.BirthPlace = c.ColumnBirthPlace
	}
	if c.ColumnBirthDate != "" {
		mapping.BirthDate = c.ColumnBirthDate
	}
	if c.ColumnNationality != "" {
		mapping.Nationality = c.ColumnNationality
	}
	if c.ColumnAddress != "" {
		mapping.Address = c.ColumnAddress
	}
	return mapping
}
