// Package domain defines the value types exchanged between the generation
// core, the framework ranker and the visualization validator.
package domain

import (
	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())
