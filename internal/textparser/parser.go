// Package textparser extracts transfer details from the fixed Bancolombia
// "Recibiste una transferencia" notification. Anything that does not match the
// template is rejected, never guessed at.
package textparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Behyna/bank-webhooks/internal/model"
)

// Bank is the provider recorded for transactions read from the template.
const Bank = "bancolombia"

var transferPattern = regexp.MustCompile(
	`^Bancolombia: Recibiste una transferencia por \$(\d{1,3}(?:,\d{3})*|\d+)(\.\d{1,2})? ` +
		`de ([A-Za-zÁÉÍÓÚÜÑáéíóúüñ ]+?) en tu cuenta \*\*(\d+), ` +
		`el (\d{2})/(\d{2})/(\d{4}) a las (\d{2}):(\d{2})$`)

const (
	groupAmount = iota + 1
	groupCents
	groupSender
	groupAccount
	groupDay
	groupMonth
	groupYear
	groupHour
	groupMinute
)

// Result is the outcome of Parse. When Success is false only ErrorReason is set.
type Result struct {
	Success     bool
	Amount      decimal.Decimal
	SenderName  string
	Account     string
	Date        time.Time
	Time        string
	ErrorReason string
}

// Parse matches raw against the transfer template. It is pure and never panics.
func Parse(raw string) Result {
	message := strings.TrimSpace(raw)
	if message == "" {
		return failure("message is empty")
	}

	m := transferPattern.FindStringSubmatch(message)
	if m == nil {
		return failure("message does not match the bank transfer notification format")
	}

	amount, err := parseAmount(m[groupAmount], m[groupCents])
	if err != nil {
		return failure(err.Error())
	}

	date, err := parseDate(m[groupDay], m[groupMonth], m[groupYear])
	if err != nil {
		return failure(err.Error())
	}

	clock, err := parseClock(m[groupHour], m[groupMinute])
	if err != nil {
		return failure(err.Error())
	}

	sender := strings.Join(strings.Fields(m[groupSender]), " ")
	if sender == "" {
		return failure("sender name is empty")
	}

	return Result{
		Success:    true,
		Amount:     amount,
		SenderName: sender,
		Account:    m[groupAccount],
		Date:       date,
		Time:       clock,
	}
}

func failure(reason string) Result {
	return Result{Success: false, ErrorReason: reason}
}

func parseAmount(integral, cents string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(integral, ",", "") + cents)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", integral+cents)
	}

	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be greater than zero")
	}

	if amount.GreaterThan(model.MaxAmount) {
		return decimal.Decimal{}, fmt.Errorf("amount %s exceeds the maximum of %s", amount.String(), model.MaxAmount.String())
	}

	return amount, nil
}

// parseDate rejects dates time.Date would silently normalize, such as 31/02.
func parseDate(dd, mm, yyyy string) (time.Time, error) {
	day, _ := strconv.Atoi(dd)
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yyyy)

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %s/%s/%s", dd, mm, yyyy)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date %s/%s/%s", dd, mm, yyyy)
	}

	return date, nil
}

func parseClock(hh, mm string) (string, error) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)

	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("invalid time %s:%s", hh, mm)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
