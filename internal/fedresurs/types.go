package fedresurs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a JSON scalar read as a string. Numbers keep their literal form.
type Text string

// UnmarshalJSON accepts JSON strings and numbers
func (t *Text) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*t = Text(n)
	return nil
}

// Get returns the value and whether it was present. Safe on a nil receiver.
func (t *Text) Get() (string, bool) {
	if t == nil {
		return "", false
	}
	return string(*t), true
}

// companyPage is the company search response
type companyPage struct {
	PageData []struct {
		GUID string `json:"guid"`
	} `json:"pageData"`
}

// Publication is one entry of a company's publication listing
type Publication struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
}

// publicationPage is the publication listing response. PageData is a pointer
// so a body without the field can be told apart from an empty page.
type publicationPage struct {
	PageData *[]Publication `json:"pageData"`
}

// Object is a JSON object whose values are decoded on demand, so a value of
// the wrong type only fails the lookup that reads it. Keys keep document order.
// The zero Object is empty.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

// DecodeObject reads raw as an object. Absent, null and non-object values are
// errors.
func DecodeObject(raw json.RawMessage) (Object, error) {
	var o Object
	if err := o.UnmarshalJSON(raw); err != nil {
		return Object{}, err
	}
	return o, nil
}

// UnmarshalJSON splits the object into raw values without decoding them
func (o *Object) UnmarshalJSON(b []byte) error {
	keys, values, err := objectFields(b)
	if err != nil {
		return err
	}
	o.keys = keys
	o.values = make(map[string]json.RawMessage, len(keys))
	for i, key := range keys {
		if _, dup := o.values[key]; !dup {
			o.values[key] = values[i]
		}
	}
	return nil
}

// Keys returns the keys in document order
func (o Object) Keys() []string {
	return o.keys
}

// Has reports whether key is present, whatever its value
func (o Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Text reads a string or number. An absent or null value gives (nil, nil).
func (o Object) Text(key string) (*Text, error) {
	raw, ok := o.values[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var t Text
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// Child reads a nested object
func (o Object) Child(key string) (Object, error) {
	raw, ok := o.values[key]
	if !ok || isNull(raw) {
		return Object{}, fmt.Errorf("%s is absent", key)
	}
	child, err := DecodeObject(raw)
	if err != nil {
		return Object{}, fmt.Errorf("%s: %w", key, err)
	}
	return child, nil
}

// List reads an array, leaving its items undecoded
func (o Object) List(key string) ([]json.RawMessage, error) {
	raw, ok := o.values[key]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%s is absent", key)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return items, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}

// LesseeGroup is one non-empty "lessees*" list of a message content. Members
// are decoded when read.
type LesseeGroup struct {
	Key     string
	Members []json.RawMessage
}

// LesseeCompaniesKey is the group holding legal-entity lessees
const LesseeCompaniesKey = "lesseesCompanies"

const lesseePrefix = "lessees"

// Content is the body of a lease notice
type Content struct {
	Object

	// LesseeGroups keeps the non-empty lessee lists in document order
	LesseeGroups []LesseeGroup
}

// UnmarshalJSON keeps the fields raw and collects every "lessees*" list that
// is a non-empty array
func (c *Content) UnmarshalJSON(b []byte) error {
	var o Object
	if err := o.UnmarshalJSON(b); err != nil {
		return err
	}

	c.Object = o
	c.LesseeGroups = nil
	for _, key := range o.Keys() {
		if !strings.HasPrefix(key, lesseePrefix) {
			continue
		}
		members, err := o.List(key)
		if err != nil || len(members) == 0 {
			continue
		}
		c.LesseeGroups = append(c.LesseeGroups, LesseeGroup{Key: key, Members: members})
	}
	return nil
}

// MessageDetail is the message detail response. Only the body has to be an
// object; every field is read on demand.
type MessageDetail struct {
	Object

	// Number is empty when the body has no readable number
	Number Text

	// Locked is set when the body carries a lockReason key, whatever its value
	Locked bool
}

// UnmarshalJSON splits the detail and reads the number and the lock marker
func (m *MessageDetail) UnmarshalJSON(b []byte) error {
	var o Object
	if err := o.UnmarshalJSON(b); err != nil {
		return err
	}

	*m = MessageDetail{Object: o, Locked: o.Has("lockReason")}
	if n, err := o.Text("number"); err == nil && n != nil {
		m.Number = *n
	}
	return nil
}

// Content decodes the "content" object. A body without content gives
// (nil, nil).
func (m *MessageDetail) Content() (*Content, error) {
	raw, ok := m.values["content"]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return &c, nil
}

// objectFields returns the keys and raw values of a JSON object in document order
func objectFields(b []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var (
		keys   []string
		values []json.RawMessage
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	return keys, values, nil
}
