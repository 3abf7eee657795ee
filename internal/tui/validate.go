package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/markusmobius/go-dateparser"

	"github.com/trackboard/trackboard/internal/timemask"
	"github.com/trackboard/trackboard/internal/trackboard"
)

const dateLayout = "2006-01-02"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

type todayKey struct{}

// getValidator returns the shared validator with the record tags
// registered: racetime accepts a complete MM:SS.mmm time, recorddate a
// YYYY-MM-DD date between the start of pre-season and the day carried in
// the validation context.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterValidation("racetime", func(fl validator.FieldLevel) bool {
			return timemask.Complete(fl.Field().String())
		})
		validate.RegisterValidationCtx("recorddate", func(ctx context.Context, fl validator.FieldLevel) bool {
			d := fl.Field().String()
			if _, err := time.Parse(dateLayout, d); err != nil {
				return false
			}
			today, _ := ctx.Value(todayKey{}).(string)
			return d >= trackboard.EarliestRecordDate && (today == "" || d <= today)
		})
	})
	return validate
}

// recordSubmission is what the record form checks before it hands a record
// back to the caller.
type recordSubmission struct {
	Record      string `validate:"required,racetime"`
	Date        string `validate:"required,recorddate"`
	Player      string `validate:"max=64"`
	Video       string `validate:"omitempty,url"`
	Region      string `validate:"omitempty,ne=ALL"`
	ControlType string `validate:"omitempty,max=64"`
}

var fieldMessages = map[string]string{
	"Record.required": "record is required",
	"Record.racetime": "record should follow pattern " + timemask.Pattern,
	"Date.required":   "date is required",
	"Player.max":      "player name is too long",
	"Video.url":       "video must be a link",
	"Region.ne":       "pick a country",
	"ControlType.max": "control type is too long",
}

// validateSubmission returns a message per failing field, keyed by the
// struct field name, or nil when s is valid.
func validateSubmission(s recordSubmission, today time.Time) map[string]string {
	ctx := context.WithValue(context.Background(), todayKey{}, today.Format(dateLayout))
	err := getValidator().StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Field() + "." + fe.Tag()
		msg, ok := fieldMessages[key]
		if !ok && key == "Date.recorddate" {
			msg = fmt.Sprintf("date must be between %s and %s", trackboard.EarliestRecordDate, today.Format(dateLayout))
		} else if !ok {
			msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
		}
		out[fe.Field()] = msg
	}
	return out
}

// parseDate reads a record date. ISO dates are taken as they are; anything
// else ("yesterday", "3 days ago", "12 March 2024") goes through the
// natural language parser relative to now. Unparseable input is returned
// unchanged so the validator reports it.
func parseDate(input string, now time.Time) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, input); err == nil {
		return input
	}
	cfg := &dateparser.Configuration{CurrentTime: now}
	d, err := dateparser.Parse(cfg, input)
	if err != nil || d.Time.IsZero() {
		return input
	}
	return d.Time.Format(dateLayout)
}
