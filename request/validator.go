package request

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/linlinbupt123-crypto/hdwallet_service/domain"
)

const (
	LocationBody  = "body"
	LocationQuery = "query"
)

var (
	mnemonicWhitelist = regexp.MustCompile(`^[A-Za-z0-9_#@.]+$`)

	registerOnce sync.Once
)

// Engine returns gin's validator with the mnemonic checks registered. The
// same engine backs binding:"..." tags, so it is shared by ShouldBind and
// the Validate methods.
func Engine() *validator.Validate {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		panic("request: gin binding validator is not go-playground/validator")
	}
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, ModeBIP39, func(fl validator.FieldLevel) bool {
			return domain.ValidateMnemonic(fl.Field().String()) == nil
		})
		mustRegister(v, ModeWhitelist, func(fl validator.FieldLevel) bool {
			return mnemonicWhitelist.MatchString(fl.Field().String())
		})
	})
	return v
}

// RegisterValidators installs the custom tags on gin's engine. It must run
// before the first request is bound so field names come from json tags.
func RegisterValidators() {
	Engine()
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("request: register %s validator: %v", tag, err))
	}
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// FieldErrors turns a bind or validation error into the list returned under
// "error". param names the field reported when err does not carry one, such
// as a missing body or a Var check.
func FieldErrors(err error, location, param string) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = param + " is required"
		}
		return []FieldError{{Location: location, Param: param, Msg: msg}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if name == "" {
			name = param
		}
		out = append(out, FieldError{
			Location: location,
			Param:    name,
			Msg:      message(name, fe.Tag()),
		})
	}
	return out
}

func message(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case ModeBIP39:
		return "mnemonic must be a valid 12 to 24 word BIP39 phrase"
	case ModeWhitelist:
		return "Send your 24 characters long mnemonic words"
	default:
		return field + " is invalid"
	}
}
