package providers

import (
	"fmt"

	"github.com/gookit/validate"
	"chronicle/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	if cv.conf.Chronicle.MinEvents > 0 && cv.conf.Chronicle.MaxEvents > 0 &&
		cv.conf.Chronicle.MinEvents > cv.conf.Chronicle.MaxEvents {
		return fmt.Errorf("invalid configuration: chronicle.minEvents exceeds maxEvents")
	}
	return nil
}
