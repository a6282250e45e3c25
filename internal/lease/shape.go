// Package lease turns fedresurs.ru message details into spreadsheet records.
//
// A detail is classified once into a Shape, and each Shape has its own
// extraction function. Extraction fills fields in column order and stops at
// the first missing required value, so a failed extraction still returns the
// fields set before the gap.
package lease

import (
	"errors"
	"fmt"

	"fedlease/internal/fedresurs"
)

// Shape is the layout of a message detail
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeLocked
	ShapeCompanyLessee
	ShapeIndividualLessee
)

func (s Shape) String() string {
	switch s {
	case ShapeLocked:
		return "locked"
	case ShapeCompanyLessee:
		return "company_lessee"
	case ShapeIndividualLessee:
		return "individual_lessee"
	default:
		return "unknown"
	}
}

// ErrUnrecognizedShape is wrapped by every ShapeError
var ErrUnrecognizedShape = errors.New("unrecognized message structure")

// ShapeError reports the first required value a message lacked or held in
// an unreadable form
type ShapeError struct {
	Number string
	Field  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("message %s: %s is missing or malformed", e.Number, e.Field)
}

func (e *ShapeError) Unwrap() error {
	return ErrUnrecognizedShape
}

// Classify decides the shape of d. A lockReason key wins over any content,
// readable or not.
func Classify(d *fedresurs.MessageDetail) Shape {
	shape, _ := classify(d)
	return shape
}

// classify also returns the decoded content of the lessee shapes
func classify(d *fedresurs.MessageDetail) (Shape, *fedresurs.Content) {
	if d == nil {
		return ShapeUnknown, nil
	}
	if d.Locked {
		return ShapeLocked, nil
	}

	c, err := d.Content()
	switch {
	case err != nil || c == nil || len(c.LesseeGroups) == 0:
		return ShapeUnknown, nil
	case c.LesseeGroups[0].Key == fedresurs.LesseeCompaniesKey:
		return ShapeCompanyLessee, c
	default:
		return ShapeIndividualLessee, c
	}
}
