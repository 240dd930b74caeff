package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "growthcli/internal/errors"
	"growthcli/internal/pipeline"
)

// DefaultMaxBodySize bounds decoded request bodies
const DefaultMaxBodySize = 8 << 20

// Validator decodes JSON request bodies and validates them against struct tags
type Validator struct {
	validate    *validator.Validate
	logger      *slog.Logger
	maxBodySize int64
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator(logger *slog.Logger, maxBodySize int64) *Validator {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	v := validator.New()
	_ = v.RegisterValidation("measurement", isMeasurement)
	_ = v.RegisterValidation("output_mode", isOutputMode)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate:    v,
		logger:      logger.With(slog.String("component", "validator")),
		maxBodySize: maxBodySize,
	}
}

// Decode reads the JSON body of r into dst and validates it. The returned error is
// an *apierrors.APIError ready for the error handler.
func (v *Validator) Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Request body is required")
	}

	r.Body = http.MaxBytesReader(w, r.Body, v.maxBodySize)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apierrors.PayloadTooLarge(v.maxBodySize)
		case errors.Is(err, io.EOF):
			return apierrors.New(http.StatusBadRequest, apierrors.CodeInvalidRequest, "Request body is required")
		default:
			v.logger.DebugContext(r.Context(), "request body rejected", slog.String("error", err.Error()))
			return apierrors.InvalidRequestWithError(err)
		}
	}

	return v.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fieldPath(fe),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

// fieldPath drops the top-level struct name from the namespace, so nested
// fields read as "subjects[2].sex"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatValidationError(fe validator.FieldError) string {
	field := fieldPath(fe)
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s items", field, param)
	case "max":
		return fmt.Sprintf("%s must contain at most %s items", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "measurement":
		return fmt.Sprintf("%s must be weight or height", field)
	case "output_mode":
		return fmt.Sprintf("%s must be zscore or percentile", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func isMeasurement(fl validator.FieldLevel) bool {
	_, err := pipeline.ParseMeasurement(fl.Field().String())
	return err == nil
}

func isOutputMode(fl validator.FieldLevel) bool {
	_, err := pipeline.ParseOutputMode(fl.Field().String())
	return err == nil
}

// ContentTypeValidator ensures requests with a body declare an allowed content type
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			render.Status(r, http.StatusUnsupportedMediaType)
			render.JSON(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported content type",
				map[string]interface{}{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}
