package api

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request types.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("[API] binding validator is not go-playground/validator, custom tags unavailable")
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			log.Printf("[API] failed to register notblank validator: %v", err)
		}
	})
}
