package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"ana@pata.cl", "  Ana.Perez+1@Example.COM ", "x_y@sub.domain.org"}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "sin-arroba", "a@b@c.cl", "@pata.cl", "ana@pata", "ana@pata.c", "añа@pata.cl"}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@pata.cl", NormalizeEmail("  ANA@Pata.CL "))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("perrito123"))
	assert.Error(t, ValidatePassword("abc1"))
	assert.Error(t, ValidatePassword("solamenteletras"))
	assert.Error(t, ValidatePassword("1234567890"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+56 9 1234 5678"))
	assert.NoError(t, ValidatePhone("(2) 2345-6789"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("12ab"))
	assert.NoError(t, ValidateOptionalPhone(""))
}

func TestValidateCoordinates(t *testing.T) {
	lat, lng := -33.45, -70.66
	bad := 120.0

	assert.NoError(t, ValidateCoordinates(nil, nil))
	assert.NoError(t, ValidateCoordinates(&lat, &lng))
	assert.Error(t, ValidateCoordinates(&lat, nil))
	assert.Error(t, ValidateCoordinates(&bad, &lng))
	assert.Error(t, ValidateCoordinates(&lat, &[]float64{-200}[0]))
}

func TestValidateExternalLink(t *testing.T) {
	assert.NoError(t, ValidateExternalLink(""))
	assert.NoError(t, ValidateExternalLink("https://fundacion.cl"))
	assert.Error(t, ValidateExternalLink("ftp://fundacion.cl"))
	assert.Error(t, ValidateExternalLink("https://"))
}

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterTags(v))

	type input struct {
		RUT  string `validate:"required,rut"`
		Type string `validate:"required,publication_type"`
	}

	assert.NoError(t, v.Struct(input{RUT: "12.345.678-5", Type: "lost"}))

	err := v.Struct(input{RUT: "12.345.678-9", Type: "adoption"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "rut", verrs[0].Tag())

	err = v.Struct(input{RUT: "12.345.678-5", Type: "found"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "publication_type", verrs[0].Tag())
}
