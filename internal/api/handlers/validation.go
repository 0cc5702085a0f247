package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// RegisterValidators 在 gin 的驗證器上使用 json 欄位名稱並註冊 notblank 規則
func RegisterValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		validatorsErr = v.RegisterValidation("notblank", notBlank)
	})
	return validatorsErr
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// notBlank 去除空白後不可為空
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validationMessage 將驗證錯誤轉成回應訊息
func validationMessage(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			if e.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, e.Param()))
			}
		case "max":
			if e.Kind() == reflect.String {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, e.Param()))
			}
		case "eqfield":
			messages = append(messages, fmt.Sprintf("%s must match %s", field, strings.ToLower(e.Param())))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", ")))
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must match format %s", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}
