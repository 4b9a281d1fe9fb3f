package types

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UnknownBreed is shown in place of an empty breed. It is never stored.
const UnknownBreed = "Unknown Breed"

// Pet is one row of the pets table.
type Pet struct {
	ID     int64  `json:"id"`                       // Assigned by the store on insert, never reused.
	Name   string `json:"name" validate:"required"` // Required by editors, not by the store.
	Breed  string `json:"breed"`                    // May be empty.
	Gender Gender `json:"gender" validate:"gender"` // One of the Gender codes.
	Weight int64  `json:"weight" validate:"gte=0"`  // Non-negative, defaults to 0.
}

// petValidator checks the validate tags on Pet. The "gender" tag accepts
// the enumerated codes only.
var petValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return Gender(fl.Field().Int()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}()

// Values returns the insertable columns of p. The id is left out because the
// store assigns it.
func (p *Pet) Values() Values {
	return Values{
		ColumnName:   p.Name,
		ColumnBreed:  p.Breed,
		ColumnGender: int64(p.Gender),
		ColumnWeight: p.Weight,
	}
}

// Normalize trims the text fields the way the editor does before saving.
func (p *Pet) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Breed = strings.TrimSpace(p.Breed)
}

// Validate checks the fields an editor must enforce before Insert or Update.
// A name of only whitespace counts as missing.
func (p *Pet) Validate() error {
	c := *p
	c.Normalize()
	err := petValidator.Struct(&c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Name":
		return ErrInvalidName
	case "Gender":
		return fmt.Errorf("%w: %d", ErrInvalidGender, int64(p.Gender))
	case "Weight":
		return fmt.Errorf("%w: %d", ErrInvalidWeight, p.Weight)
	default:
		return err
	}
}

// DisplayBreed returns the breed for list display, substituting UnknownBreed
// when it is empty.
func (p *Pet) DisplayBreed() string {
	if p.Breed == "" {
		return UnknownBreed
	}
	return p.Breed
}

// ScanPet reads the current row of c into a Pet, locating each column by
// name. Columns missing from the projection keep their zero value; a NULL
// breed reads as "".
func ScanPet(c Cursor) (*Pet, error) {
	cols := c.Columns()
	dest := make([]any, len(cols))

	var (
		p      Pet
		name   sql.NullString
		breed  sql.NullString
		gender sql.NullInt64
		weight sql.NullInt64
	)
	for i, col := range cols {
		switch col {
		case ColumnID:
			dest[i] = &p.ID
		case ColumnName:
			dest[i] = &name
		case ColumnBreed:
			dest[i] = &breed
		case ColumnGender:
			dest[i] = &gender
		case ColumnWeight:
			dest[i] = &weight
		default:
			var discard any
			dest[i] = &discard
		}
	}
	if err := c.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning pet: %w", err)
	}
	p.Name = name.String
	p.Breed = breed.String
	p.Gender = Gender(gender.Int64)
	p.Weight = weight.Int64
	return &p, nil
}
