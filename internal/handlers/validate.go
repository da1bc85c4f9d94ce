// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

// chapterField extracts the index and field of a chapter error namespace
// such as "audiobookForm.Chapters[2].FileURL".
var chapterField = regexp.MustCompile(`Chapters\[(\d+)\]\.(\w+)$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the form field name so errors map straight onto inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldLabels are the human names used in validation messages.
var fieldLabels = map[string]string{
	"name":             "Name",
	"slug":             "Slug",
	"description":      "Description",
	"parent_id":        "Parent",
	"sort_order":       "Sort order",
	"title":            "Title",
	"author_name":      "Author",
	"isbn":             "ISBN",
	"language":         "Language",
	"publication_date": "Publication date",
	"cover_image_url":  "Cover image",
	"sample_url":       "Sample",
}

// validateForm runs struct validation and returns one message per form
// field. A nil map means the input is valid. Chapter errors are collapsed
// under the "chapters" key, first failure wins.
func validateForm(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key, msg := fieldMessage(fe)
		if _, seen := out[key]; !seen {
			out[key] = msg
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) (string, string) {
	if m := chapterField.FindStringSubmatch(fe.StructNamespace()); m != nil {
		var idx int
		fmt.Sscan(m[1], &idx) //nolint:errcheck // digits only
		part := "title"
		if m[2] == "FileURL" {
			part = "audio file"
		}
		return "chapters", fmt.Sprintf("Chapter %d: %s", idx+1, ruleMessage(part, fe))
	}

	key := fe.Field()
	label, ok := fieldLabels[key]
	if !ok {
		label = key
	}
	return key, label + " " + ruleMessage("", fe)
}

// ruleMessage phrases a failed rule. subject prefixes messages that read
// better with a noun, as in "audio file is required".
func ruleMessage(subject string, fe validator.FieldError) string {
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "max":
		msg = fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be %s or greater", fe.Param())
	case "uuid":
		msg = "is not a valid category"
	case "url", "http_url":
		msg = "must be a valid URL"
	case "datetime":
		msg = "must be a date (YYYY-MM-DD)"
	default:
		msg = "is invalid"
	}
	if subject != "" {
		return subject + " " + msg
	}
	return msg
}
