// Package config holds the settings of a sort run.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxMemorySize is the number of records per run used when none is
// configured.
const DefaultMaxMemorySize = 10000

var ErrInvalid = errors.New("invalid configuration")

// Config is the configuration of one sort. Zero values mean "use the
// default" except for the two paths, which are required.
type Config struct {
	InputPath     string `yaml:"input" validate:"required"`
	OutputPath    string `yaml:"output" validate:"required"`
	MaxMemorySize int    `yaml:"max_memory_size" validate:"gte=1"`
	MaxRunBytes   uint64 `yaml:"max_run_bytes"`
	TempDir       string `yaml:"temp_dir"`
	CompressRuns  bool   `yaml:"compress_runs"`
	MetricsFile   string `yaml:"metrics_file"`
	LogLevel      string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	S3            S3     `yaml:"s3"`
}

type S3 struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	Profile         string `yaml:"profile"`
	AccessKeyID     string `yaml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// Default returns a configuration with every optional setting at its
// default.
func Default() Config {
	return Config{
		MaxMemorySize: DefaultMaxMemorySize,
		LogLevel:      "info",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// ParseMaxMemorySize parses a positive record count.
func ParseMaxMemorySize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("max memory size %q is not a number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("max memory size must be positive, got %d", n)
	}
	return n, nil
}
