package util

import "errors"

var (
	ErrNegativeMax         = errors.New("max value should be greater than or equal to zero")
	ErrNoCourses           = errors.New("no courses to enroll users in")
	ErrScoreNotFound       = errors.New("score not found")
	ErrUnsupportedDriver   = errors.New("unsupported database driver")
	ErrUnsupportedStorage  = errors.New("unsupported storage type")
	ErrUnsupportedExporter = errors.New("unsupported tracing exporter")
)
