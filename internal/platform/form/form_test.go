package form

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name  string
	Email string
	Phone string
	CPF   string
}

func contactSchema() *Schema[*contact] {
	return NewSchema[*contact]().
		Field("name", "Nome", func(c *contact) string { return c.Name }, Required()).
		Field("email", "E-mail", func(c *contact) string { return c.Email }, Required(), Email()).
		Field("phone", "Telefone", func(c *contact) string { return c.Phone }, Required(), Phone()).
		Field("cpf", "CPF", func(c *contact) string { return c.CPF }, Digits(11))
}

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"1199999", "(11) 99999"},
		{"11999998", "(11) 99999-8"},
		{"1133334444", "(11) 3333-4444"},
		{"11999998888", "(11) 99999-8888"},
		{"(11) 99999-8888", "(11) 99999-8888"},
		{"119999988881234", "(11) 99999-8888"},
		{"abc", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaskPhone(c.in), "MaskPhone(%q)", c.in)
	}
}

func TestMaskPhone_Idempotent(t *testing.T) {
	for _, raw := range []string{"11999998888", "1133334444", "119"} {
		once := MaskPhone(raw)
		assert.Equal(t, once, MaskPhone(once))
	}
}

func TestMaskCPF(t *testing.T) {
	assert.Equal(t, "123.456.789-09", MaskCPF("12345678909"))
	assert.Equal(t, "123", MaskCPF("1.2.3"))
}

func TestValidate_AllValid(t *testing.T) {
	c := &contact{Name: "Ana", Email: "ana@lab.com.br", Phone: "(11) 99999-8888"}
	assert.Empty(t, contactSchema().Validate(c, FailFast))
	assert.Empty(t, contactSchema().Validate(c, Aggregate))
}

func TestValidate_FailFastReportsFirstFieldOnly(t *testing.T) {
	c := &contact{Email: "not-an-email"}
	errs := contactSchema().Validate(c, FailFast)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
	assert.Contains(t, errs[0].Message, "Nome")
}

func TestValidate_AggregateReportsEveryField(t *testing.T) {
	c := &contact{Email: "not-an-email", CPF: "123"}
	errs := contactSchema().Validate(c, Aggregate)
	require.Len(t, errs, 4)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field, errs[3].Field}
	assert.Equal(t, []string{"name", "email", "phone", "cpf"}, fields)
}

func TestValidate_EachMissingRequiredFieldBlocks(t *testing.T) {
	valid := contact{Name: "Ana", Email: "ana@lab.com.br", Phone: "11999998888"}
	for _, field := range []string{"name", "email", "phone"} {
		c := valid
		switch field {
		case "name":
			c.Name = ""
		case "email":
			c.Email = ""
		case "phone":
			c.Phone = ""
		}
		errs := contactSchema().Validate(&c, FailFast)
		require.Len(t, errs, 1, field)
		assert.Equal(t, field, errs[0].Field)
	}
}

func TestEmailRule(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"a+b@b.com.br", true},
		{"", true},
		{"a@", false},
		{"@b.com", false},
		{"a@b", false},
		{"a b@c.com", false},
	}
	rule := Email()
	for _, c := range cases {
		assert.Equal(t, c.want, rule("E-mail", c.in) == "", "email=%q", c.in)
	}
}

func TestRules(t *testing.T) {
	assert.NotEmpty(t, Required()("Nome", "   "))
	assert.Empty(t, Positive()("Volume", "5"))
	assert.NotEmpty(t, Positive()("Volume", "0"))
	assert.NotEmpty(t, Positive()("Volume", "x"))
	assert.Empty(t, OneOf("a", "b")("Tipo", "b"))
	assert.NotEmpty(t, OneOf("a", "b")("Tipo", "c"))
	assert.Empty(t, OneOf("a", "b")("Tipo", ""))
	assert.Empty(t, Date()("Nascimento", "1990-05-01"))
	assert.NotEmpty(t, Date()("Nascimento", "01/05/1990"))
	assert.NotEmpty(t, Date()("Nascimento", "2999-01-01"))
	assert.Empty(t, Phone()("Telefone", "1133334444"))
	assert.NotEmpty(t, Phone()("Telefone", "3333-4444"))
	assert.NotEmpty(t, MaxLen(3)("Sigla", "ABCD"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("aggregate")
	require.NoError(t, err)
	assert.Equal(t, Aggregate, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, FailFast, m)

	_, err = ParseMode("loose")
	assert.Error(t, err)
}

func TestErrors_First(t *testing.T) {
	var errs Errors
	_, ok := errs.First()
	assert.False(t, ok)

	errs = Errors{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}
	first, ok := errs.First()
	require.True(t, ok)
	assert.Equal(t, "a", first.Field)
	assert.Equal(t, "x; y", errs.Error())
}

func TestSchema_Check(t *testing.T) {
	type span struct{ From, To int }
	s := NewSchema[span]().
		Field("from", "Início", func(v span) string { return itoa(v.From) }, Positive()).
		Check("to", "Fim", func(v span) string {
			if v.To < v.From {
				return "O fim deve ser posterior ao início"
			}
			return ""
		})

	assert.Empty(t, s.Validate(span{From: 1, To: 3}, FailFast))

	errs := s.Validate(span{From: 5, To: 2}, Aggregate)
	require.Len(t, errs, 1)
	assert.Equal(t, "to", errs[0].Field)
	assert.Equal(t, "O fim deve ser posterior ao início", errs[0].Message)
	assert.Equal(t, []string{"from", "to"}, s.Fields())
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
