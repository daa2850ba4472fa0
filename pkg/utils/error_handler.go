package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorHandler logs err with message and returns it wrapped. A nil err yields nil.
func ErrorHandler(logger logrus.FieldLogger, err error, message string) error {
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error(message)
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}
