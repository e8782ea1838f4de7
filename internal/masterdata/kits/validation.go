package kits

import (
	"errors"
	"strings"
)

func (s *Service) validate(k Kit) error {
	if strings.TrimSpace(k.Name) == "" {
		return errors.New("kit name is required")
	}
	if k.Price < 0 {
		return errors.New("kit price cannot be negative")
	}
	return nil
}
