package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("baseurl", isBaseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to register baseurl validation: %w", err)
	}
	if err := validate.RegisterTranslation("baseurl", trans, func(ut ut.Translator) error {
		return ut.Add("baseurl", "{0} must be an http or https URL without a path", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("baseurl", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register baseurl translation: %w", err)
	}

	return validate, trans, nil
}

// isBaseURL accepts an absolute http(s) URL, optionally with a language placeholder in the host.
func isBaseURL(fl validator.FieldLevel) bool {
	raw := strings.ReplaceAll(fl.Field().String(), LanguagePlaceholder, "xx")
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && strings.Trim(u.Path, "/") == ""
}
