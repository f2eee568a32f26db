package memory

import (
	"context"
	"fmt"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/repository"
)

type templateRepository struct {
	templates []domain.GearTemplate
}

// NewTemplateRepository holds a fixed set of gear presets. Templates are
// read-only once loaded.
func NewTemplateRepository(templates []domain.GearTemplate) repository.TemplateRepository {
	r := &templateRepository{}
	for _, t := range templates {
		r.templates = append(r.templates, domain.GearTemplate{
			Name:   t.Name,
			Models: append([]string(nil), t.Models...),
		})
	}
	return r
}

func (r *templateRepository) List(ctx context.Context) ([]domain.GearTemplate, error) {
	out := make([]domain.GearTemplate, len(r.templates))
	for i, t := range r.templates {
		out[i] = domain.GearTemplate{Name: t.Name, Models: append([]string(nil), t.Models...)}
	}
	return out, nil
}

func (r *templateRepository) GetByName(ctx context.Context, name string) (*domain.GearTemplate, error) {
	for _, t := range r.templates {
		if t.Name == name {
			return &domain.GearTemplate{Name: t.Name, Models: append([]string(nil), t.Models...)}, nil
		}
	}
	return nil, fmt.Errorf("%w: template %q", domain.ErrNotFound, name)
}
