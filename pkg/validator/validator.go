package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			message := getFieldErrorMessage(fieldError)
			messages = append(messages, message)
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s е задължително поле", field)
	case "email":
		return fmt.Sprintf("%s трябва да е валиден имейл адрес", field)
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s трябва да е поне %s символа", field, fe.Param())
		}
		return fmt.Sprintf("%s трябва да е поне %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s може да е най-много %s символа", field, fe.Param())
		}
		return fmt.Sprintf("%s може да е най-много %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s трябва да е валиден адрес", field)
	case "oneof":
		return fmt.Sprintf("%s има невалидна стойност", field)
	default:
		return fmt.Sprintf("%s е невалидно", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Name":            "Името",
		"Email":           "Имейлът",
		"Password":        "Паролата",
		"NewPassword":     "Новата парола",
		"CurrentPassword": "Текущата парола",
		"Title":           "Названието",
		"City":            "Градът",
		"Date":            "Датата",
		"Slug":            "Адресът (slug)",
		"Type":            "Типът",
		"TicketURL":       "Линкът за билети",
		"Website":         "Уебсайтът",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
