// Package validate runs struct-tag validation and renders failures as the
// field messages the blog clients display.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jbest-eyes/core/internal/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("hexrgb", func(fl validator.FieldLevel) bool {
			return isHexColor(fl.Field().String())
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// isHexColor reports whether s is a #RGB or #RRGGBB color.
func isHexColor(s string) bool { return hexColorPattern.MatchString(s) }

// Struct validates v and returns an apperr validation error listing every
// failing field, or nil. Messages come from the "label" and "msg" tags.
func Struct(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		label, custom := fieldTags(rt, fe.StructField())
		fields = append(fields, apperr.FieldError{
			Path: fe.Field(),
			Msg:  message(fe, label, custom),
		})
	}
	return apperr.Validation(fields...)
}

func fieldTags(rt reflect.Type, name string) (label string, custom map[string]string) {
	label = name
	if rt.Kind() != reflect.Struct {
		return label, nil
	}
	sf, ok := rt.FieldByName(name)
	if !ok {
		return label, nil
	}
	if l := sf.Tag.Get("label"); l != "" {
		label = l
	}
	if raw := sf.Tag.Get("msg"); raw != "" {
		custom = map[string]string{}
		for _, pair := range strings.Split(raw, ";") {
			k, v, found := strings.Cut(pair, "=")
			if found {
				custom[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}
	return label, custom
}

func message(fe validator.FieldError, label string, custom map[string]string) string {
	if m, ok := custom[fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s cannot be more than %s characters", label, fe.Param())
	case "hexrgb":
		return label + " must be a valid hex color code"
	case "objectid":
		return "Invalid " + strings.ToLower(label) + " ID"
	}
	return fmt.Sprintf("%s is invalid", label)
}
