package service

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"Yatube/internal/pkg"

	"github.com/go-playground/validator/v10"
)

const maxImageSize = 10 << 20

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// PostForm is the input of create and edit. A nil GroupID means no group;
// a nil Image keeps whatever image the post already has.
type PostForm struct {
	Text    string       `json:"text" validate:"required"`
	GroupID *uint64      `json:"group"`
	Image   *ImageUpload `json:"image" validate:"omitempty"`
}

type ImageUpload struct {
	Filename    string    `json:"filename" validate:"required"`
	ContentType string    `json:"content_type" validate:"required,startswith=image/"`
	Size        int64     `json:"size" validate:"gt=0,lte=10485760"`
	Reader      io.Reader `json:"-"`
}

type CommentForm struct {
	Text string `json:"text" validate:"required"`
}

type GroupForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// validateForm runs the struct tags and folds failures into a *pkg.ValidationError
// keyed by the top-level form field.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Field()
		if parts := strings.Split(fe.Namespace(), "."); len(parts) > 1 {
			key = parts[1]
		}
		if _, seen := fields[key]; !seen {
			fields[key] = fieldMessage(fe)
		}
	}
	return &pkg.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "slug":
		return "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	case "startswith":
		return "upload a valid image"
	case "gt", "lte":
		return fmt.Sprintf("image size must be between 1 byte and %d bytes", maxImageSize)
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
