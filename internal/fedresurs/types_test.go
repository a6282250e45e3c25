package fedresurs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	var v struct {
		A Text  `json:"a"`
		B Text  `json:"b"`
		C *Text `json:"c"`
		D *Text `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":42,"c":null}`), &v))
	assert.Equal(t, Text("x"), v.A)
	assert.Equal(t, Text("42"), v.B)

	_, ok := v.C.Get()
	assert.False(t, ok)
	_, ok = v.D.Get()
	assert.False(t, ok)

	assert.Error(t, json.Unmarshal([]byte(`{"a":{"nested":true}}`), &v))
}

func TestContent_LesseeGroupsKeepDocumentOrder(t *testing.T) {
	raw := `{
		"lesseesIndividualEntrepreneurs": [{"fio": "ИП Петров", "inn": "1", "ogrnip": "3"}],
		"lesseesCompanies": [{"fullName": "ООО Ромашка", "inn": "2", "ogrn": "4"}],
		"lesseesEmpty": [],
		"lesseesBroken": "n/a"
	}`

	var c Content
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.Len(t, c.LesseeGroups, 2)
	assert.Equal(t, "lesseesIndividualEntrepreneurs", c.LesseeGroups[0].Key)
	assert.Equal(t, LesseeCompaniesKey, c.LesseeGroups[1].Key)
}

func TestContent_GroupKeptWhenMemberIsMalformed(t *testing.T) {
	raw := `{"lesseesIndividualPersons": [{"fio": "Иванов", "inn": "1", "ogrnip": false}, 7]}`

	var c Content
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	require.Len(t, c.LesseeGroups, 1)
	assert.Len(t, c.LesseeGroups[0].Members, 2)

	member, err := DecodeObject(c.LesseeGroups[0].Members[0])
	require.NoError(t, err)
	fio, err := member.Text("fio")
	require.NoError(t, err)
	assert.Equal(t, Text("Иванов"), *fio)

	_, err = member.Text("ogrnip")
	assert.Error(t, err)

	_, err = DecodeObject(c.LesseeGroups[0].Members[1])
	assert.Error(t, err)
}

func TestMessageDetail_LockReasonPresence(t *testing.T) {
	var m MessageDetail
	require.NoError(t, json.Unmarshal([]byte(`{"number":"1","lockReason":null}`), &m))
	assert.True(t, m.Locked)

	var n MessageDetail
	require.NoError(t, json.Unmarshal([]byte(`{"number":"1"}`), &n))
	assert.False(t, n.Locked)
}

func TestMessageDetail_MalformedFieldsStayLocal(t *testing.T) {
	raw := `{
		"number": 77,
		"lockReason": "Аннулировано",
		"content": "n/a",
		"datePublish": {"unexpected": true},
		"publisher": {"inn": "7700000002", "ogrn": "1027700000002"}
	}`

	var m MessageDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.True(t, m.Locked)
	assert.Equal(t, Text("77"), m.Number)

	_, err := m.Content()
	assert.Error(t, err)
	_, err = m.Text("datePublish")
	assert.Error(t, err)

	publisher, err := m.Child("publisher")
	require.NoError(t, err)
	inn, err := publisher.Text("inn")
	require.NoError(t, err)
	assert.Equal(t, Text("7700000002"), *inn)

	// only a body that is not an object fails as a whole
	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &m))
}

func TestMessageDetail_UnreadableNumber(t *testing.T) {
	var m MessageDetail
	require.NoError(t, json.Unmarshal([]byte(`{"number":{"v":1},"content":null}`), &m))
	assert.Empty(t, m.Number)

	c, err := m.Content()
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestObject(t *testing.T) {
	o, err := DecodeObject(json.RawMessage(`{"s":"x","n":5,"z":null,"list":[{"a":1},2],"obj":{"k":"v"},"bad":true}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "n", "z", "list", "obj", "bad"}, o.Keys())
	assert.True(t, o.Has("z"))
	assert.False(t, o.Has("missing"))

	v, err := o.Text("n")
	require.NoError(t, err)
	assert.Equal(t, Text("5"), *v)

	v, err = o.Text("z")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = o.Text("missing")
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = o.Text("bad")
	assert.Error(t, err)

	items, err := o.List("list")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	_, err = o.List("obj")
	assert.Error(t, err)
	_, err = o.List("missing")
	assert.Error(t, err)

	child, err := o.Child("obj")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, child.Keys())
	_, err = o.Child("s")
	assert.Error(t, err)

	var zero Object
	v, err = zero.Text("any")
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = DecodeObject(nil)
	assert.Error(t, err)
}

func TestObjectFields(t *testing.T) {
	keys, values, err := objectFields([]byte(`{"b":1,"a":{"x":[1,2]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys)
	assert.JSONEq(t, `{"x":[1,2]}`, string(values[1]))

	_, _, err = objectFields([]byte(`[1]`))
	assert.Error(t, err)
}
