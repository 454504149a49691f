package validator

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"

	"occupancy/dto"
	"occupancy/errors"
	"occupancy/models"
)

var (
	once     sync.Once
	validate *playground.Validate
)

func instance() *playground.Validate {
	once.Do(func() {
		validate = playground.New(playground.WithRequiredStructEnabled())
	})
	return validate
}

// Struct runs the validate tags of v and maps failures to an AppError.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "invalid request", err)
	}
	fe := fieldErrs[0]
	code := errors.ErrCodeValidation
	if fe.Tag() == "required" {
		code = errors.ErrCodeRequiredField
	}
	return errors.NewAppError(code, describe(fe), errors.ErrInvalidInput)
}

func describe(fe playground.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// ValidateCommitStay checks the request shape. Duration rules that depend on
// the room's current status are enforced when the command runs.
func ValidateCommitStay(req *dto.CommitStayRequest) error {
	return Struct(req)
}

func ValidateReserve(req *dto.ReserveRequest) error {
	return Struct(req)
}

func ValidateRoomQuery(q *dto.RoomQuery) error {
	return Struct(q)
}

// ParseRoomID parses a path id.
func ParseRoomID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, errors.NewAppError(errors.ErrCodeInvalidRoomID, fmt.Sprintf("invalid room id %q", raw), errors.ErrInvalidFormat)
	}
	return id, nil
}

// ParseProperty accepts an empty value (all properties) or a known property id.
func ParseProperty(raw string) (models.PropertyID, error) {
	p := models.PropertyID(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" || p.Valid() {
		return p, nil
	}
	return "", errors.NewAppError(errors.ErrCodeInvalidProperty, fmt.Sprintf("unknown property %q", raw), errors.ErrInvalidInput)
}
