package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/naka-gawa/repodash/internal/domain"
)

// Top-N bounds offered to users.
const (
	MinTopN     = 5
	MaxTopN     = 50
	DefaultTopN = 10
)

// DistributionParams selects a language distribution over the groups of a metric.
type DistributionParams struct {
	Dataset  string `json:"dataset" validate:"required"`
	Metric   string `json:"metric" validate:"required"`
	Language string `json:"language"`
}

// TrendParams selects the yearly creation trend of a language.
type TrendParams struct {
	Dataset  string `json:"dataset" validate:"required"`
	Language string `json:"language"`
}

// CorrelationParams selects the stars vs forks correlation of a dataset.
type CorrelationParams struct {
	Dataset string `json:"dataset" validate:"required"`
}

// TopParams selects the N repositories with the largest metric value.
type TopParams struct {
	Dataset string `json:"dataset" validate:"required"`
	Metric  string `json:"metric" validate:"required"`
	N       int    `json:"n" validate:"min=5,max=50"`
}

type paramValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *paramValidator
)

// validatorService returns the shared validator with english messages that
// use json field names.
func validatorService() *paramValidator {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &paramValidator{validate: v, trans: trans}
	})
	return vSvc
}

// validateParams checks p against its struct tags and folds every failure
// into a single ErrInvalidParams error.
func validateParams(p any) error {
	svc := validatorService()
	err := svc.validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, msg := range verrs.Translate(svc.trans) {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", domain.ErrInvalidParams, strings.Join(msgs, "; "))
}
