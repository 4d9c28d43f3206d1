package validator

import (
	"reflect"
	"regexp"
	"time"

	"github.com/Behyna/bank-webhooks/internal/address"
	"github.com/Behyna/bank-webhooks/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	sourceSlugRegex   = `^[a-z0-9_-]+$`
	webhookIDRegex    = `^[A-Za-z0-9_-]+$`
	currencyCodeRegex = `^[A-Z]{3}$`
)

const (
	SourceSlugTag     = "source_slug"
	SourceAddressTag  = "source_address"
	WebhookIDTag      = "webhook_id"
	CurrencyCodeTag   = "currency_code"
	ISO8601Tag        = "iso8601"
	AmountPositiveTag = "amount_positive"
	AmountMaxTag      = "amount_max"
	AmountScaleTag    = "amount_scale"
)

// MaxAmount is the largest accepted transaction amount.
var MaxAmount = model.MaxAmount

var (
	sourceSlugPattern   = regexp.MustCompile(sourceSlugRegex)
	webhookIDPattern    = regexp.MustCompile(webhookIDRegex)
	currencyCodePattern = regexp.MustCompile(currencyCodeRegex)
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	SourceSlugTag:     ValidateSourceSlug,
	SourceAddressTag:  ValidateSourceAddress,
	WebhookIDTag:      ValidateWebhookID,
	CurrencyCodeTag:   ValidateCurrencyCode,
	ISO8601Tag:        ValidateISO8601,
	AmountPositiveTag: ValidateAmountPositive,
	AmountMaxTag:      ValidateAmountMax,
	AmountScaleTag:    ValidateAmountScale,
}

func ValidateSourceSlug(fl validator.FieldLevel) bool {
	return sourceSlugPattern.MatchString(fl.Field().String())
}

func ValidateSourceAddress(fl validator.FieldLevel) bool {
	return address.Valid(fl.Field().String())
}

func ValidateWebhookID(fl validator.FieldLevel) bool {
	return webhookIDPattern.MatchString(fl.Field().String())
}

func ValidateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodePattern.MatchString(fl.Field().String())
}

func ValidateISO8601(fl validator.FieldLevel) bool {
	_, err := ParseTimestamp(fl.Field().String())
	return err == nil
}

func ValidateAmountPositive(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	return err == nil && amount.IsPositive()
}

func ValidateAmountMax(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	return err == nil && amount.LessThanOrEqual(MaxAmount)
}

// ValidateAmountScale rejects amounts the amount column would round.
// Trailing zeros do not count, so 10.500 is accepted.
func ValidateAmountScale(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	return err == nil && amount.Equal(amount.Truncate(model.AmountScale))
}

// ParseTimestamp accepts RFC 3339 datetimes with optional fractional seconds.
// A zone designator (Z or an offset) is required.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}

// decimalValue lets tag validations see a decimal.Decimal as its string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}
