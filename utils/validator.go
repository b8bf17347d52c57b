package utils

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则，重复调用无副作用
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 错误信息中使用 JSON 字段名
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("objectid", validateObjectID); err != nil {
			Logger.Error().Err(err).Msg("注册 objectid 校验失败")
		}
	})
}

// validateObjectID 字段必须是合法的 ObjectID
func validateObjectID(fl validator.FieldLevel) bool {
	_, ok := ParseObjectID(fl.Field().String())
	return ok
}
