package plant

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func initValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// NewPlant is the input of Registry.Add.
type NewPlant struct {
	Name                  string `validate:"notblank"`
	Species               string
	WateringFrequencyDays int `validate:"gt=0"`
	ImageRef              string
}

// messages is keyed by "Field.tag" of the failed rule.
var messages = map[string]string{
	"Name.notblank":            "Informe o nome da planta",
	"WateringFrequencyDays.gt": "A frequência de rega deve ser maior que zero",
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	return fe.Error()
}

func (in NewPlant) normalized() NewPlant {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	in.ImageRef = strings.TrimSpace(in.ImageRef)
	return in
}

// Validate checks the input and returns a *ValidationError for the first
// offending field.
func (in NewPlant) Validate() error {
	initValidator()
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: message(fe)}
	}
	return &ValidationError{Message: err.Error()}
}
