package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/brizzai/restexec/internal/logger"
	"github.com/brizzai/restexec/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Adjuster provides route filtering, description overrides and extra
// headers based on YAML configuration
type Adjuster struct {
	adjustments *models.RouteAdjustments
}

// NewAdjuster creates a new Adjuster instance
func NewAdjuster() *Adjuster {
	return &Adjuster{
		adjustments: &models.RouteAdjustments{},
	}
}

// Load loads adjustments from a YAML file. A missing file leaves every route selected.
func (a *Adjuster) Load(filePath string) error {
	if filePath == "" {
		logger.Debug("No adjustments file provided")
		return nil
	}

	logger.Info("Loading adjustments from file", zap.String("file", filePath))
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Adjustments file not found", zap.String("file", filePath))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read adjustments file: %w", err)
	}

	var adjustments models.RouteAdjustments
	if err := yaml.Unmarshal(data, &adjustments); err != nil {
		return fmt.Errorf("failed to parse adjustments file: %w", err)
	}

	a.adjustments = &adjustments
	return nil
}

// Selected reports whether the route/method pair should be exposed.
// Without any selection every route is selected.
func (a *Adjuster) Selected(route, method string) bool {
	if a.adjustments == nil || len(a.adjustments.Routes) == 0 {
		return true
	}

	for _, selection := range a.adjustments.Routes {
		if selection.Path != route {
			continue
		}
		for _, m := range selection.Methods {
			if strings.EqualFold(m, method) {
				return true
			}
		}
		return false
	}
	return false
}

// GetDescription returns the updated description for a route/method if it exists
func (a *Adjuster) GetDescription(route, method, originalDesc string) string {
	if a.adjustments == nil {
		return originalDesc
	}

	for _, desc := range a.adjustments.Descriptions {
		if desc.Path != route {
			continue
		}
		for _, update := range desc.Updates {
			if strings.EqualFold(update.Method, method) {
				return update.NewDescription
			}
		}
		break
	}
	return originalDesc
}

// GetHeaders returns the extra headers configured for a route/method.
// Method specific entries win over path-wide ones.
func (a *Adjuster) GetHeaders(route, method string) map[string]string {
	if a.adjustments == nil {
		return nil
	}

	var headers map[string]string
	apply := func(src map[string]string) {
		if headers == nil {
			headers = make(map[string]string, len(src))
		}
		for k, v := range src {
			headers[k] = v
		}
	}
	for _, entry := range a.adjustments.Headers {
		if entry.Path == route && entry.Method == "" {
			apply(entry.Headers)
		}
	}
	for _, entry := range a.adjustments.Headers {
		if entry.Path == route && entry.Method != "" && strings.EqualFold(entry.Method, method) {
			apply(entry.Headers)
		}
	}
	return headers
}
