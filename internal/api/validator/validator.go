package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Behyna/bank-webhooks/internal/metrics"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	CodeRequired         = "required"
	CodeInvalidType      = "invalid_type"
	CodeInvalidString    = "invalid_string"
	CodeInvalidDate      = "invalid_date"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeTooSmall         = "too_small"
	CodeTooBig           = "too_big"
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeInvalidJSON      = "invalid_json"
)

// FieldError describes one failed constraint. Field is the JSON name of the
// offending key, empty when the body as a whole is rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type IXValidator interface {
	ValidateStructured(body []byte) (StructuredPayload, []FieldError)
	ValidateFreeText(body []byte) (FreeTextPayload, []FieldError)
	ValidateSubscription(body []byte) (SubscriptionRequest, []FieldError)
	Validate(data interface{}) []FieldError
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		_ = validate.RegisterValidation(key, function)
	}

	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &XValidator{validator: validate, metrics: metrics}
}

func NewValidate() *validator.Validate {
	return validator.New()
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindObject
)

type fieldSpec map[string]fieldKind

var structuredFields = fieldSpec{
	"source":     kindString,
	"timestamp":  kindString,
	"sourceFrom": kindString,
	"sourceTo":   kindString,
	"event":      kindString,
	"message":    kindString,
	"amount":     kindNumber,
	"currency":   kindString,
	"webhookId":  kindString,
	"metadata":   kindObject,
}

var freeTextFields = fieldSpec{
	"message":   kindString,
	"timestamp": kindString,
	"phone":     kindString,
	"contact":   kindString,
	"webhookId": kindString,
}

var subscriptionFields = fieldSpec{
	"userId": kindString,
}

func (x XValidator) ValidateStructured(body []byte) (StructuredPayload, []FieldError) {
	var payload StructuredPayload

	values, present, errs := decodeObject(body, structuredFields, true)
	if values == nil {
		return payload, x.record(errs)
	}

	payload.Source = stringValue(values, "source")
	payload.Timestamp = stringValue(values, "timestamp")
	payload.SourceFrom = stringValue(values, "sourceFrom")
	payload.SourceTo = stringValue(values, "sourceTo")
	payload.Event = stringValue(values, "event")
	payload.Message = stringValue(values, "message")
	payload.WebhookID = stringValue(values, "webhookId")

	payload.Currency = model.DefaultCurrency
	if present["currency"] {
		payload.Currency = stringValue(values, "currency")
	}

	if m, ok := values["metadata"].(map[string]any); ok {
		payload.Metadata = m
	}

	if n, ok := values["amount"].(json.Number); ok {
		amount, err := decimal.NewFromString(n.String())
		if err != nil {
			errs = append(errs, FieldError{Field: "amount", Message: "amount must be a finite number", Code: CodeInvalidType})
		} else {
			payload.Amount = amount
		}
	} else if !present["amount"] {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is required", Code: CodeRequired})
	}

	errs = mergeErrors(errs, x.Validate(payload))
	if len(errs) > 0 {
		return StructuredPayload{}, x.record(errs)
	}

	payload.OccurredAt, _ = ParseTimestamp(payload.Timestamp)

	return payload, nil
}

func (x XValidator) ValidateFreeText(body []byte) (FreeTextPayload, []FieldError) {
	var payload FreeTextPayload

	values, _, errs := decodeObject(body, freeTextFields, false)
	if values == nil {
		return payload, x.record(errs)
	}

	payload.Message = stringValue(values, "message")
	payload.Timestamp = stringValue(values, "timestamp")
	payload.Phone = stringValue(values, "phone")
	payload.Contact = stringValue(values, "contact")
	payload.WebhookID = stringValue(values, "webhookId")

	errs = mergeErrors(errs, x.Validate(payload))
	if len(errs) > 0 {
		return FreeTextPayload{}, x.record(errs)
	}

	payload.OccurredAt, _ = ParseTimestamp(payload.Timestamp)

	return payload, nil
}

func (x XValidator) ValidateSubscription(body []byte) (SubscriptionRequest, []FieldError) {
	var req SubscriptionRequest

	values, _, errs := decodeObject(body, subscriptionFields, true)
	if values == nil {
		return req, x.record(errs)
	}

	req.UserID = stringValue(values, "userId")

	errs = mergeErrors(errs, x.Validate(req))
	if len(errs) > 0 {
		return SubscriptionRequest{}, x.record(errs)
	}

	return req, nil
}

func (x XValidator) Validate(data interface{}) []FieldError {
	var validationErrors []FieldError

	errs := x.validator.Struct(data)
	if errs == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(errs, &fieldErrs) {
		return []FieldError{{Message: errs.Error(), Code: CodeInvalidType}}
	}

	for _, err := range fieldErrs {
		validationErrors = append(validationErrors, translate(err))
	}

	return validationErrors
}

// RawWebhookID returns the webhookId of a body that failed validation, so error
// responses can still be correlated. It is empty unless the key holds a string
// that satisfies the webhook ID format.
func RawWebhookID(body []byte) string {
	var raw struct {
		WebhookID any `json:"webhookId"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}

	id, ok := raw.WebhookID.(string)
	if !ok || len(id) > 255 || !webhookIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func (x XValidator) record(errs []FieldError) []FieldError {
	if x.metrics != nil {
		for _, err := range errs {
			x.metrics.RecordValidationError(err.Field, err.Code)
		}
	}
	return errs
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrs
	}
	return ok
}

func translate(err validator.FieldError) FieldError {
	field := err.Field()
	fe := FieldError{Field: field}

	switch err.Tag() {
	case "required", "required_without":
		fe.Code = CodeRequired
		fe.Message = fmt.Sprintf("%s is required", field)
	case "max":
		fe.Code = CodeTooBig
		fe.Message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "min":
		fe.Code = CodeTooSmall
		fe.Message = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "oneof":
		fe.Code = CodeInvalidEnumValue
		fe.Message = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(err.Param(), " ", ", "))
	case ISO8601Tag:
		fe.Code = CodeInvalidDate
		fe.Message = fmt.Sprintf("%s must be an ISO-8601 datetime with a timezone", field)
	case AmountPositiveTag:
		fe.Code = CodeTooSmall
		fe.Message = fmt.Sprintf("%s must be greater than 0", field)
	case AmountMaxTag:
		fe.Code = CodeTooBig
		fe.Message = fmt.Sprintf("%s must be at most %s", field, MaxAmount.String())
	case AmountScaleTag:
		fe.Code = CodeInvalidType
		fe.Message = fmt.Sprintf("%s must have at most 2 decimal places", field)
	case SourceSlugTag:
		fe.Code = CodeInvalidString
		fe.Message = fmt.Sprintf("%s may only contain lowercase letters, digits, '-' and '_'", field)
	case WebhookIDTag:
		fe.Code = CodeInvalidString
		fe.Message = fmt.Sprintf("%s may only contain letters, digits, '-' and '_'", field)
	case CurrencyCodeTag:
		fe.Code = CodeInvalidString
		fe.Message = fmt.Sprintf("%s must be 3 uppercase letters", field)
	case SourceAddressTag:
		fe.Code = CodeInvalidString
		fe.Message = fmt.Sprintf("%s must be an email, a +<10-15 digits> phone or a webhook identifier", field)
	default:
		fe.Code = CodeInvalidString
		fe.Message = fmt.Sprintf("%s failed on %s", field, err.Tag())
	}

	return fe
}

// decodeObject decodes body as a JSON object and type-checks the declared keys.
// It returns nil values when the body cannot be used at all. Keys that failed
// the type check are dropped from values so tag validation only sees their
// zero value, and their tag errors are filtered out later by mergeErrors.
func decodeObject(body []byte, spec fieldSpec, strict bool) (map[string]any, map[string]bool, []FieldError) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, []FieldError{{Message: "request body is not valid JSON", Code: CodeInvalidJSON}}
	}
	if dec.More() {
		return nil, nil, []FieldError{{Message: "request body must contain a single JSON object", Code: CodeInvalidJSON}}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, []FieldError{{Message: "request body must be a JSON object", Code: CodeInvalidType}}
	}

	var errs []FieldError
	values := make(map[string]any, len(obj))
	present := make(map[string]bool, len(obj))

	var unknown []string
	for key, value := range obj {
		kind, declared := spec[key]
		if !declared {
			if strict {
				unknown = append(unknown, key)
			}
			continue
		}

		present[key] = true
		if !hasKind(value, kind) {
			errs = append(errs, FieldError{
				Field:   key,
				Message: fmt.Sprintf("%s must be a %s", key, kindName(kind)),
				Code:    CodeInvalidType,
			})
			continue
		}
		values[key] = value
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, FieldError{
			Message: fmt.Sprintf("unrecognized keys: %s", strings.Join(unknown, ", ")),
			Code:    CodeUnrecognizedKeys,
		})
	}

	return values, present, errs
}

func hasKind(value any, kind fieldKind) bool {
	switch kind {
	case kindString:
		_, ok := value.(string)
		return ok
	case kindNumber:
		_, ok := value.(json.Number)
		return ok
	case kindObject:
		_, ok := value.(map[string]any)
		return ok
	}
	return false
}

func kindName(kind fieldKind) string {
	switch kind {
	case kindNumber:
		return "number"
	case kindObject:
		return "object"
	default:
		return "string"
	}
}

func stringValue(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}

// mergeErrors appends tag errors for fields that have not already been
// reported by the type check.
func mergeErrors(typeErrs, tagErrs []FieldError) []FieldError {
	reported := make(map[string]bool, len(typeErrs))
	for _, e := range typeErrs {
		if e.Field != "" {
			reported[e.Field] = true
		}
	}

	merged := typeErrs
	for _, e := range tagErrs {
		if reported[e.Field] {
			continue
		}
		merged = append(merged, e)
	}
	return merged
}
