package products

import (
	"errors"
	"strings"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if strings.TrimSpace(p.Unit) == "" {
		return errors.New("unit of measure is required")
	}
	if p.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}
