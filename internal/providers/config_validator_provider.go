package providers

import (
	"errors"
	"github.com/gookit/validate"
	"livepoll/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.StopOnError = false
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Archive.Enabled && cv.conf.Archive.Dir == "" {
		return errors.New("archive.dir is required when archive is enabled")
	}
	return nil
}
