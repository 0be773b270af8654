package verification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJamaicaID(t *testing.T) {
	t.Run("full extraction renames every field", func(t *testing.T) {
		got := ExtractJamaicaID(map[string]any{
			"document_number": "198503140001",
			"first_name":      "Jane",
			"middle_name":     "Ann",
			"last_name":       "Doe",
			"date_of_birth":   "1985-03-14",
			"address":         "12 Hope Road, Kingston 6",
			"parish":          "St. Andrew",
			"gender":          "F",
			"expiration_date": "2031-03-14",
		})

		assert.Equal(t, JamaicaID{
			IDNumber:    "198503140001",
			FirstName:   "Jane",
			MiddleName:  "Ann",
			LastName:    "Doe",
			DateOfBirth: "1985-03-14",
			Address:     "12 Hope Road, Kingston 6",
			Parish:      "St. Andrew",
			Gender:      "F",
			ExpiryDate:  "2031-03-14",
		}, got)
	})

	t.Run("missing and non-string fields stay empty", func(t *testing.T) {
		got := ExtractJamaicaID(map[string]any{
			"first_name":      "Jane",
			"document_number": 12345,
			"unrelated_key":   "ignored",
		})

		assert.Equal(t, "Jane", got.FirstName)
		assert.Empty(t, got.IDNumber)
		assert.Empty(t, got.LastName)
		assert.Empty(t, got.Parish)
	})

	t.Run("json key names are the downstream contract", func(t *testing.T) {
		raw, err := json.Marshal(ExtractJamaicaID(map[string]any{"parish": "Portland"}))
		require.NoError(t, err)

		var asMap map[string]any
		require.NoError(t, json.Unmarshal(raw, &asMap))
		for _, key := range []string{
			"idNumber", "firstName", "middleName", "lastName",
			"dateOfBirth", "address", "parish", "gender", "expiryDate",
		} {
			_, ok := asMap[key]
			assert.True(t, ok, "key %q must be present", key)
		}
		assert.Equal(t, "Portland", asMap["parish"])
	})
}
