package handlers

import (
	"sync"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", isoDate)
	})
}

// isoDate accepts "2006-01-02" with an optional ISO time suffix.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	d, err := domain.ParseDate(s)
	return err == nil && !d.IsZero()
}
