package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

const (
	maxBatchSize = 100
	maxBodyBytes = 1 << 20
)

// validate is shared by every handler. It is safe for concurrent use.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("modlabel", validateModuleLabel)
}

// validateModuleLabel rejects control characters in module labels and queries.
func validateModuleLabel(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

type selectRequest struct {
	Module           string `json:"module" validate:"required,max=256,modlabel"`
	AutoDependencies *bool  `json:"auto_dependencies"`
}

type dependenciesRequest struct {
	Module string     `json:"module" validate:"omitempty,max=256,modlabel"`
	Depth  *int       `json:"depth" validate:"omitempty,gte=0"`
	Mode   *view.Mode `json:"mode"`
}

type egoRequest struct {
	Module string `json:"module" validate:"omitempty,max=256,modlabel"`
	Radius *int   `json:"radius" validate:"omitempty,gte=0"`
}

type searchRequest struct {
	Query string `json:"query" validate:"max=256,modlabel"`
}

type backRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

type batchQuery struct {
	Module string     `json:"module" validate:"required,max=256,modlabel"`
	Depth  *int       `json:"depth" validate:"omitempty,gte=0"`
	Mode   *view.Mode `json:"mode"`
}

// decode reads a JSON body into the struct pointed to by dst and validates
// it. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return check(validate.Struct(dst))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON: %s", err)
	}
	return nil
}

// check flattens validator errors into one readable message.
func check(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
