package verification

// JamaicaID is the internal shape for fields extracted off a Jamaican
// national ID. Key names are load-bearing: registration and credential
// minting read them verbatim from extracted data.
type JamaicaID struct {
	IDNumber    string `json:"idNumber"`
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
	Parish      string `json:"parish"`
	Gender      string `json:"gender"`
	ExpiryDate  string `json:"expiryDate"`
}

// jamaicaFieldMap renames the provider's document-extraction keys to ours.
// Pure rename/reshape; values pass through untouched.
var jamaicaFieldMap = map[string]string{
	"document_number": "idNumber",
	"first_name":      "firstName",
	"middle_name":     "middleName",
	"last_name":       "lastName",
	"date_of_birth":   "dateOfBirth",
	"address":         "address",
	"parish":          "parish",
	"gender":          "gender",
	"expiration_date": "expiryDate",
}

// ExtractJamaicaID maps provider-extracted document data into the internal
// Jamaica-ID shape. Missing and non-string provider values leave the target
// field empty.
func ExtractJamaicaID(extracted map[string]any) JamaicaID {
	fields := map[string]string{}
	for providerKey, internalKey := range jamaicaFieldMap {
		if val, ok := extracted[providerKey].(string); ok {
			fields[internalKey] = val
		}
	}
	return JamaicaID{
		IDNumber:    fields["idNumber"],
		FirstName:   fields["firstName"],
		MiddleName:  fields["middleName"],
		LastName:    fields["lastName"],
		DateOfBirth: fields["dateOfBirth"],
		Address:     fields["address"],
		Parish:      fields["parish"],
		Gender:      fields["gender"],
		ExpiryDate:  fields["expiryDate"],
	}
}
