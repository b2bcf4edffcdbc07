package verification

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/paycrest/bridge-wallet/types"
)

var (
	ssnRegex = regexp.MustCompile(`^\d{3}-?\d{2}-?\d{4}$`)
	einRegex = regexp.MustCompile(`^\d{2}-?\d{7}$`)

	validate = newValidator()
)

// FieldErrors maps a field path (json names, dotted for nested fields) to a message
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidationContext narrows validation to what the form currently shows
type ValidationContext struct {
	RequestedFields types.RequestedFieldSet
	Documents       types.DocumentSet
	StepSubmitted   bool
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "us_ssn", func(fl validator.FieldLevel) bool {
		return ssnRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "us_ein", func(fl validator.FieldLevel) bool {
		return einRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "percent", func(fl validator.FieldLevel) bool {
		pct, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && pct >= 0 && pct <= 100
	})
	mustRegister(v, "birthdate", func(fl validator.FieldLevel) bool {
		date, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil && date.Before(time.Now())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "us_ssn":
		return "must be a valid SSN (123-45-6789)"
	case "us_ein":
		return "must be a valid EIN (12-3456789)"
	case "percent":
		return "must be a number between 0 and 100"
	case "birthdate":
		return "must be a past date (YYYY-MM-DD)"
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func structErrors(draft interface{}) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(draft)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		// drop the root struct name from the namespace
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		errs[path] = message(fe)
	}
	return errs
}

// requireUploads adds an error for every visible upload the draft does not carry
func requireUploads(errs FieldErrors, step types.KybStep, uploads map[types.DocumentKind]string, vc ValidationContext, optional func(types.DocumentKind) bool) {
	for _, kind := range DocumentBatch(step) {
		if optional != nil && optional(kind) {
			continue
		}
		if !UploadVisible(kind, vc.Documents, vc.StepSubmitted) {
			continue
		}
		if strings.TrimSpace(uploads[kind]) == "" {
			errs[string(kind)] = "document is required"
		}
	}
}

// onlyRequested keeps the errors of requested fields when a correction was requested
func onlyRequested(errs FieldErrors, requested types.RequestedFieldSet) FieldErrors {
	if len(requested) == 0 {
		return errs
	}
	out := FieldErrors{}
	for path, msg := range errs {
		for _, r := range requested {
			r = strings.TrimPrefix(r, controlPersonPrefix)
			r = strings.TrimPrefix(r, physicalAddressPrefix)
			if r == path || leafOf(r) == leafOf(path) {
				out[path] = msg
				break
			}
		}
	}
	return out
}

func leafOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func nilIfEmpty(errs FieldErrors) FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateKyc checks the individual KYC form
func ValidateKyc(d types.KycDraft, vc ValidationContext) FieldErrors {
	return nilIfEmpty(onlyRequested(structErrors(d), vc.RequestedFields))
}

// ValidateControlPerson checks the control person page including its ID uploads
func ValidateControlPerson(d types.ControlPersonDraft, vc ValidationContext) FieldErrors {
	errs := structErrors(d)
	requireUploads(errs, types.KybStepControlPerson, map[types.DocumentKind]string{
		types.DocumentIDFront: d.IDFront,
		types.DocumentIDBack:  d.IDBack,
	}, vc, nil)
	return nilIfEmpty(onlyRequested(errs, vc.RequestedFields))
}

// ValidateBusinessDocuments checks the business page. The 501(c)(3) letter
// is only asked of nonprofits.
func ValidateBusinessDocuments(d types.BusinessDocumentsDraft, vc ValidationContext) FieldErrors {
	errs := structErrors(d)
	requireUploads(errs, types.KybStepBusinessDocuments, d.Documents, vc, func(kind types.DocumentKind) bool {
		return kind == types.DocumentDeterminationLetter501c3 && !strings.EqualFold(d.BusinessType, "nonprofit")
	})
	return nilIfEmpty(onlyRequested(errs, vc.RequestedFields))
}
