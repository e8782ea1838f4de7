package menutypes

import (
	"errors"
	"strings"
)

func (s *Service) validate(mt MenuType) error {
	if strings.TrimSpace(mt.Name) == "" {
		return errors.New("menu type name is required")
	}
	return nil
}
