package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"go-gin-gallery/internal/domain"
	mdw "go-gin-gallery/internal/transport/http/middleware"
	resp "go-gin-gallery/internal/transport/http/response"
)

// AErr 统一错误对象（配合 resp.Fail）
type AErr struct {
	Code    int
	Msg     string
	Details any
	Err     error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return resp.CodeMsgMap[e.Code]
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Fields 字段级 400
func Fields(fields map[string][]string) error {
	return &AErr{Code: resp.CodeBadRequest, Details: fields}
}

// toAErr 领域错误 → HTTP 错误
func toAErr(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &AErr{Code: resp.CodeBadRequest, Details: ve.Fields}
	case errors.Is(err, domain.ErrNotFound):
		return &AErr{Code: resp.CodeNotFound, Msg: "Not found."}
	case errors.Is(err, domain.ErrUnauthorized):
		return &AErr{Code: resp.CodeUnauthorized, Msg: "Authentication credentials were not provided."}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &AErr{Code: resp.CodeBadRequest, Details: map[string][]string{
			domain.NonFieldKey: {"Unable to authenticate with provided credentials."},
		}}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return &AErr{Code: resp.CodeBadRequest, Details: map[string][]string{
			"email": {"user with this email already exists."},
		}}
	case errors.As(err, new(*http.MaxBytesError)):
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large"}
	case errors.Is(err, context.DeadlineExceeded):
		return &AErr{Code: resp.CodeTimeout, Err: err}
	}
	return &AErr{Code: resp.CodeServerError, Err: err}
}

// Abort 写错误信封；5xx 记日志且不把内部错误透给客户端
func Abort(c *gin.Context, l *zap.Logger, err error) {
	ae := toAErr(err)
	msg := ae.Msg
	if ae.Code >= 500 {
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		if ae.Err != nil {
			_ = c.Error(ae.Err)
		}
	} else if msg == "" && ae.Details == nil && ae.Err != nil {
		msg = ae.Err.Error()
	}
	c.AbortWithStatusJSON(resp.Status(ae.Code), resp.Fail(ae.Code, msg, ae.Details))
}

func init() {
	// 校验错误的字段名用 json tag
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	}
}

// bindError 把 binding 错误翻译成字段级 400
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return Fields(fields)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := strings.SplitN(typeErr.Field, ".", 2)[0]
		return Fields(map[string][]string{field: {"Incorrect type. Expected " + typeErr.Type.String() + "."}})
	}
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return Fields(map[string][]string{domain.NonFieldKey: {"JSON parse error - " + synErr.Error()}})
	}
	return Fields(map[string][]string{domain.NonFieldKey: {err.Error()}})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	}
	return "Invalid value."
}
