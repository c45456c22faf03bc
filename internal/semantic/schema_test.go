package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONAcceptsCanonicalPayload(t *testing.T) {
	payload, err := orderView(t).Marshal()
	require.NoError(t, err)

	assert.Empty(t, ValidateJSON(payload))
}

func TestValidateJSONAcceptsOptionalSections(t *testing.T) {
	payload := `{
		"base_table": "jaffle.raw_orders",
		"dimensions": [{"name": "store_id", "expr": "store_id"}],
		"metrics": [{"name": "order_count", "expr": "count(*)"}],
		"filters": ["order_total > 0"],
		"joins": [{"table": "raw_items", "on": "raw_orders.id = raw_items.order_id"}]
	}`

	assert.Empty(t, ValidateJSON(payload))
}

func TestValidateJSONRejectsMalformedJSON(t *testing.T) {
	errs := ValidateJSON(`{"base_table": `)

	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeSyntax, errs[0].Code)
}

func TestValidateJSONRejectsMissingBaseTable(t *testing.T) {
	errs := ValidateJSON(`{"dimensions": [], "metrics": []}`)

	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Field == "base_table" {
			found = true
			assert.Equal(t, ErrCodeSchema, e.Code)
		}
	}
	assert.True(t, found, "expected a violation for base_table, got %v", errs)
}

func TestValidateJSONRejectsUnknownField(t *testing.T) {
	errs := ValidateJSON(`{
		"base_table": "orders",
		"dimensions": [],
		"metrics": [],
		"materialize": true
	}`)

	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Field == "materialize" {
			found = true
			assert.Contains(t, e.Message, "not allowed")
		}
	}
	assert.True(t, found, "expected a violation for materialize, got %v", errs)
}

func TestValidateJSONRejectsEmptyMemberName(t *testing.T) {
	errs := ValidateJSON(`{
		"base_table": "orders",
		"dimensions": [{"name": "", "expr": "store_id"}],
		"metrics": []
	}`)

	require.NotEmpty(t, errs)
	assert.Equal(t, ErrCodeSchema, errs[0].Code)
}

func TestValidateJSONItemizesMultipleViolations(t *testing.T) {
	errs := ValidateJSON(`{
		"base_table": "",
		"dimensions": [{"name": "", "expr": ""}],
		"metrics": [],
		"bogus": 1
	}`)

	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "base_table", Message: "incomplete value", Code: ErrCodeSchema}

	assert.Equal(t, "[E002] base_table: incomplete value", err.Error())
}
