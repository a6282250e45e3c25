package domain

// CompanyToken identifies a company inside the registry (the "guid" field of a
// company search hit).
type CompanyToken string

// MessageToken identifies one disclosure message.
type MessageToken string

// RecordColumns are the spreadsheet headers, in the same order as the fields
// of Record.
var RecordColumns = []string{
	"Дата",
	"ИНН",
	"ОГРН",
	"Договор",
	"Срок финансовой аренды",
	"Лизингодатель",
	"Лизингополучатель",
	"ИНН лизингополучателя",
	"ОГРН лизингополучателя",
	"Идентификатор",
	"Классификация",
	"Описание",
}

// Record is one normalized lease notice. A nil field means the value is absent.
type Record struct {
	Date           *string `json:"date"`
	PayerINN       *string `json:"payer_inn"`
	PayerOGRN      *string `json:"payer_ogrn"`
	Contract       *string `json:"contract"`
	LeaseTerm      *string `json:"lease_term"`
	Lessor         *string `json:"lessor"`
	Lessee         *string `json:"lessee"`
	LesseeINN      *string `json:"lessee_inn"`
	LesseeOGRN     *string `json:"lessee_ogrn"`
	SubjectID      *string `json:"subject_id"`
	Classification *string `json:"classification"`
	Description    *string `json:"description"`
}

// Values returns the record fields in RecordColumns order.
func (r Record) Values() []*string {
	return []*string{
		r.Date,
		r.PayerINN,
		r.PayerOGRN,
		r.Contract,
		r.LeaseTerm,
		r.Lessor,
		r.Lessee,
		r.LesseeINN,
		r.LesseeOGRN,
		r.SubjectID,
		r.Classification,
		r.Description,
	}
}

// Populated counts the fields that carry a value.
func (r Record) Populated() int {
	n := 0
	for _, v := range r.Values() {
		if v != nil {
			n++
		}
	}
	return n
}

// Strings returns the record as a spreadsheet row; absent values become "".
func (r Record) Strings() []string {
	vals := r.Values()
	row := make([]string, len(vals))
	for i, v := range vals {
		if v != nil {
			row[i] = *v
		}
	}
	return row
}

// Value returns a pointer to a copy of s.
func Value(s string) *string {
	return &s
}
