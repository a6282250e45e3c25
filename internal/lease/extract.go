package lease

import (
	"fmt"
	"strings"

	"fedlease/internal/config"
	"fedlease/internal/fedresurs"
	"fedlease/pkg/contracts/domain"
)

// Extract classifies d and maps it to a Record. detailURL is quoted in the
// placeholder of locked messages. On a *ShapeError the returned record holds
// the fields populated before the missing or malformed value.
func Extract(d *fedresurs.MessageDetail, detailURL string) (Shape, domain.Record, error) {
	shape, content := classify(d)

	var (
		rec domain.Record
		err error
	)
	switch shape {
	case ShapeLocked:
		err = extractLocked(d, detailURL, &rec)
	case ShapeCompanyLessee:
		err = extractContent(d, content, &rec, companyLessee)
	case ShapeIndividualLessee:
		err = extractContent(d, content, &rec, individualLessee)
	default:
		err = &ShapeError{Number: number(d), Field: "content.lessees*"}
	}
	return shape, rec, err
}

func extractLocked(d *fedresurs.MessageDetail, detailURL string, rec *domain.Record) error {
	f := filler{number: number(d)}

	// unreadable sections fail on their first field below
	annulment, _ := d.Child("annulmentMessageInfo")
	publisher, _ := d.Child("publisher")

	if !f.date(&rec.Date, annulment, "datePublish", "annulmentMessageInfo.datePublish") ||
		!f.text(&rec.PayerINN, publisher, "inn", "publisher.inn") ||
		!f.text(&rec.PayerOGRN, publisher, "ogrn", "publisher.ogrn") {
		return f.err
	}
	rec.Contract = domain.Value(fmt.Sprintf(config.BlockedMessageFormat, detailURL))
	return nil
}

// lesseeFiller sets the three lessee columns from the first group member
type lesseeFiller func(f *filler, rec *domain.Record, p fedresurs.Object) bool

func companyLessee(f *filler, rec *domain.Record, p fedresurs.Object) bool {
	return f.text(&rec.Lessee, p, "fullName", "lessee.fullName") &&
		f.text(&rec.LesseeINN, p, "inn", "lessee.inn") &&
		f.text(&rec.LesseeOGRN, p, "ogrn", "lessee.ogrn")
}

func individualLessee(f *filler, rec *domain.Record, p fedresurs.Object) bool {
	if !f.text(&rec.Lessee, p, "fio", "lessee.fio") || !f.text(&rec.LesseeINN, p, "inn", "lessee.inn") {
		return false
	}
	rec.LesseeOGRN = domain.Value(orDefault(p, "ogrnip"))
	return true
}

func extractContent(d *fedresurs.MessageDetail, c *fedresurs.Content, rec *domain.Record, lessee lesseeFiller) error {
	f := filler{number: number(d)}

	if !f.date(&rec.Date, d.Object, "datePublish", "datePublish") {
		return f.err
	}
	lessor, ok := f.first(c.Object, "lessorsCompanies", "content.lessorsCompanies")
	if !ok {
		return f.err
	}

	if !f.text(&rec.PayerINN, lessor, "inn", "lessor.inn") ||
		!f.text(&rec.PayerOGRN, lessor, "ogrn", "lessor.ogrn") {
		return f.err
	}

	contractNo, ok := f.need(c.Object, "contractNumber", "content.contractNumber")
	if !ok {
		return f.err
	}
	contractDate, ok := f.need(c.Object, "contractDate", "content.contractDate")
	if !ok {
		return f.err
	}
	rec.Contract = domain.Value(fmt.Sprintf(config.ContractFormat, contractNo, datePart(contractDate)))

	start, ok := f.need(c.Object, "startDate", "content.startDate")
	if !ok {
		return f.err
	}
	end, ok := f.need(c.Object, "endDate", "content.endDate")
	if !ok {
		return f.err
	}
	rec.LeaseTerm = domain.Value(fmt.Sprintf(config.LeaseTermFormat, datePart(start), datePart(end)))

	// a member that is not an object fails on its first field
	member, _ := fedresurs.DecodeObject(c.LesseeGroups[0].Members[0])
	if !f.text(&rec.Lessor, lessor, "fullName", "lessor.fullName") ||
		!lessee(&f, rec, member) {
		return f.err
	}

	s, ok := f.first(c.Object, "subjects", "content.subjects")
	if !ok {
		return f.err
	}
	rec.SubjectID = domain.Value(orDefault(s, "subjectId"))
	rec.Classification = domain.Value(fmt.Sprintf(config.ClassificationFormat,
		orDefault(s, "classifierCode"), orDefault(s, "classifierName")))
	rec.Description = domain.Value(orDefault(s, "description"))
	return nil
}

// filler records the first missing or malformed field of a message
type filler struct {
	number string
	err    error
}

func (f *filler) fail(field string) bool {
	f.err = &ShapeError{Number: f.number, Field: field}
	return false
}

func (f *filler) need(o fedresurs.Object, key, field string) (string, bool) {
	v, err := o.Text(key)
	if err != nil || v == nil {
		return "", f.fail(field)
	}
	return string(*v), true
}

func (f *filler) text(dst **string, o fedresurs.Object, key, field string) bool {
	s, ok := f.need(o, key, field)
	if ok {
		*dst = domain.Value(s)
	}
	return ok
}

func (f *filler) date(dst **string, o fedresurs.Object, key, field string) bool {
	s, ok := f.need(o, key, field)
	if ok {
		*dst = domain.Value(datePart(s))
	}
	return ok
}

// first reads the first item of a non-empty list of objects
func (f *filler) first(o fedresurs.Object, key, field string) (fedresurs.Object, bool) {
	items, err := o.List(key)
	if err != nil || len(items) == 0 {
		return fedresurs.Object{}, f.fail(field)
	}
	item, err := fedresurs.DecodeObject(items[0])
	if err != nil {
		return fedresurs.Object{}, f.fail(field)
	}
	return item, true
}

// datePart drops the time of a registry timestamp
func datePart(ts string) string {
	d, _, _ := strings.Cut(ts, "T")
	return d
}

// orDefault reads an optional value; absent and malformed values both give
// the placeholder
func orDefault(o fedresurs.Object, key string) string {
	if v, err := o.Text(key); err == nil && v != nil {
		return string(*v)
	}
	return config.NotSpecified
}

func number(d *fedresurs.MessageDetail) string {
	if d == nil {
		return ""
	}
	return string(d.Number)
}
