package game

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kidspro/kidspro/core"
)

var (
	positionTypeTag  = "positiontype"
	positionTypeText = "position type must be 1 (road), 2 (target) or 3 (rock)"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(positionTypeTag, positionTypeValidation)
	core.RegisterCustomTranslation(validate, translator, positionTypeTag, positionTypeText)
}

// positionTypeValidation checks that a detail cell has a known role
func positionTypeValidation(fl validator.FieldLevel) bool {
	switch fl.Field().Int() {
	case PositionRoad, PositionTarget, PositionRock:
		return true
	}
	return false
}
