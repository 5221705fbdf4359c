package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageLength   = 4000
	MaxCompanionName   = 40
	MaxMemoryKeyLength = 60
	MaxMemoryValue     = 500
	MinLevel           = 0
	MaxLevel           = 100
	DefaultToneLevel   = 20
	DefaultImportance  = 50
)

func ValidateChatMessage(userID, companionID, message string) error {
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if err := requireID("companionId", companionID); err != nil {
		return err
	}
	return validateLength("message", message, 1, MaxMessageLength)
}

func ValidateCompanionName(name string) error {
	return validateLength("name", name, 1, MaxCompanionName)
}

func ValidateMemory(companionID, key, value string, importance *int) error {
	if err := requireID("companionId", companionID); err != nil {
		return err
	}
	if err := validateLength("key", key, 1, MaxMemoryKeyLength); err != nil {
		return err
	}
	if err := validateLength("value", value, 1, MaxMemoryValue); err != nil {
		return err
	}
	if importance != nil {
		return ValidateLevel("importance", *importance)
	}
	return nil
}

// ValidateLevel checks a 0..100 scale such as tone or importance.
func ValidateLevel(field string, v int) error {
	if v < MinLevel || v > MaxLevel {
		return fmt.Errorf("%w: %s must be within [%d,%d], got %d", ErrValidation, field, MinLevel, MaxLevel, v)
	}
	return nil
}

func requireID(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func validateLength(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if n > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, max)
	}
	return nil
}
