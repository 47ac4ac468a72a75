package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type payload struct {
		Name  string `json:"display_name" validate:"required,notblank"`
	}

	tests := []struct {
		name    string
		in      payload
		wantErr map[string]string
	}{
		{name: "valid", in: payload{Name: "Neo"}},
		{name: "required", in: payload{}, wantErr: map[string]string{"display_name": "this field is required"}},
		{name: "blank", in: payload{Name: " \t "}, wantErr: map[string]string{"display_name": "this field cannot be blank"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)

			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}
