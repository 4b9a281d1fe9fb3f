package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Table and column names for the single pets table.
const (
	TableName = "pets"

	ColumnID     = "id"
	ColumnName   = "name"
	ColumnBreed  = "breed"
	ColumnGender = "gender"
	ColumnWeight = "weight"
)

// Columns lists every column of the pets table in schema order.
var Columns = []string{
	ColumnID,
	ColumnName,
	ColumnBreed,
	ColumnGender,
	ColumnWeight,
}

// IsColumn reports whether name is a declared column of the pets table.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Content addressing. A collection address is ContentURI; an item address is
// ContentURI followed by "/<id>".
const (
	Scheme    = "content"
	Authority = "com.example.android.pets"
	PathPets  = "pets"

	BaseURI    = Scheme + "://" + Authority
	ContentURI = BaseURI + "/" + PathPets

	// ItemTemplate matches a single pet; "#" stands for a decimal id.
	ItemTemplate = ContentURI + "/#"
)

// Type descriptors for the two address shapes. Provider.Type does not
// currently return them.
const (
	ContentListType = "vnd.android.cursor.dir/" + Authority + "/" + PathPets
	ContentItemType = "vnd.android.cursor.item/" + Authority + "/" + PathPets
)

// ItemURI returns the item address for the pet with the given id.
func ItemURI(id int64) string {
	return ContentURI + "/" + strconv.FormatInt(id, 10)
}

// ParseID returns the trailing numeric id of an item address.
// Returns ErrInvalidAddress if the last path segment is not a non-negative
// integer.
func ParseID(address string) (int64, error) {
	i := strings.LastIndex(address, "/")
	if i < 0 || i == len(address)-1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	seg := address[i+1:]
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
		}
	}
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return id, nil
}

// Gender is the enumerated value stored in the gender column. The store does
// not enforce the range; callers validate with Valid.
type Gender int64

// Gender codes.
const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
)

// genderLabels maps each valid code to its human-readable label.
var genderLabels = map[Gender]string{
	GenderUnknown: "Unknown",
	GenderMale:    "Male",
	GenderFemale:  "Female",
}

// Genders lists the valid gender codes in ascending order.
var Genders = []Gender{GenderUnknown, GenderMale, GenderFemale}

// Valid reports whether g is one of the three enumerated codes.
func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

// String returns the label for g, or the numeric code for invalid values.
func (g Gender) String() string {
	if l, ok := genderLabels[g]; ok {
		return l
	}
	return strconv.FormatInt(int64(g), 10)
}

// ParseGender accepts a label (case-insensitive) or a numeric code.
// Returns ErrInvalidGender for anything outside the enumeration.
func ParseGender(s string) (Gender, error) {
	s = strings.TrimSpace(s)
	for _, g := range Genders {
		if strings.EqualFold(s, genderLabels[g]) {
			return g, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || !Gender(n).Valid() {
		return GenderUnknown, fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
	return Gender(n), nil
}
