package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-dose-core/internal/domain"
)

var ErrInvalidCatalog = errors.New("invalid plan catalog")

// file is the on-disk shape:
//
//	plans:
//	  free:
//	    reminders_limit: 3
//	  premium:
//	    reminders_limit: -1
type file struct {
	Plans map[string]map[string]int `yaml:"plans"`
}

// Load returns the built-in catalog when path is empty.
func Load(path string) (domain.PlanCatalog, error) {
	if path == "" {
		return domain.DefaultPlanCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.PlanCatalog{}, fmt.Errorf("failed to read plan catalog %s: %w", path, err)
	}

	c, err := Parse(raw)
	if err != nil {
		return domain.PlanCatalog{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("plan catalog loaded",
		"path", path,
	)

	return c, nil
}

// Parse rejects unknown plans, unknown features and unknown top-level keys so that a typo cannot
// silently hand out free-tier limits.
func Parse(raw []byte) (domain.PlanCatalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return domain.PlanCatalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	plans := make(map[domain.Plan]domain.Limits, len(f.Plans))

	for name, features := range f.Plans {
		plan := domain.ParsePlan(name)
		if string(plan) != name {
			return domain.PlanCatalog{}, fmt.Errorf("%w: unknown plan %q", ErrInvalidCatalog, name)
		}

		limits := make(domain.Limits, len(features))

		for key, v := range features {
			feature, err := domain.NewFeatureKey(key)
			if err != nil {
				return domain.PlanCatalog{}, fmt.Errorf("%w: plan %s: %v", ErrInvalidCatalog, name, err)
			}

			limits[feature] = v
		}

		plans[plan] = limits
	}

	c, err := domain.NewPlanCatalog(plans)
	if err != nil {
		return domain.PlanCatalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	return c, nil
}
