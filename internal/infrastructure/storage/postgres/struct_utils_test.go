package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/entity"
	"motordesk/internal/core/id"
)

type MockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	cat := MockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_PointerAndIgnoredFields(t *testing.T) {
	type withIgnored struct {
		Code  string `db:"code"`
		Skip  string `db:"-"`
		NoTag string
	}

	m := StructToMap(&withIgnored{Code: "X", Skip: "s", NoTag: "n"})
	assert.Equal(t, "X", m["code"])
	assert.Len(t, m, 1)
}
