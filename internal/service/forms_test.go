package service

import (
	"strings"
	"testing"

	"Yatube/internal/pkg"
)

func TestValidateFormFieldMap(t *testing.T) {
	cases := []struct {
		name   string
		form   any
		fields []string
	}{
		{"empty post", &PostForm{}, []string{"text"}},
		{"valid post", &PostForm{Text: "ok"}, nil},
		{"empty comment", &CommentForm{}, []string{"text"}},
		{"empty group", &GroupForm{}, []string{"title", "slug"}},
		{"bad slug", &GroupForm{Title: "Cats", Slug: "no spaces"}, []string{"slug"}},
		{"long title", &GroupForm{Title: strings.Repeat("t", 201), Slug: "ok"}, []string{"title"}},
		{"oversized image", &PostForm{Text: "ok", Image: &ImageUpload{Filename: "a.png", ContentType: "image/png", Size: maxImageSize + 1}}, []string{"image"}},
		{"valid group", &GroupForm{Title: "Cats", Slug: "cats_2-x"}, nil},
	}
	for _, tc := range cases {
		err := validateForm(tc.form)
		if tc.fields == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		ve, ok := pkg.AsValidation(err)
		if !ok {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if len(ve.Fields) != len(tc.fields) {
			t.Fatalf("%s: expected fields %v, got %v", tc.name, tc.fields, ve.Fields)
		}
		for _, f := range tc.fields {
			if ve.Fields[f] == "" {
				t.Fatalf("%s: missing message for %s in %v", tc.name, f, ve.Fields)
			}
		}
	}
}
