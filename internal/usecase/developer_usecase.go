package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/projectpulse/projectpulse/internal/audit"
	"github.com/projectpulse/projectpulse/internal/domain"
	"github.com/projectpulse/projectpulse/internal/ports"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// DeveloperRequest represents the request to create or update a developer
type DeveloperRequest struct {
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills []string `json:"skills"`
}

// Validate checks the field-level business rules for developers.
func (r DeveloperRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
	)
}

// developerPage is the cached shape of one listing page.
type developerPage struct {
	Developers []*domain.Developer `json:"developers"`
	Total      int                 `json:"total"`
}

// DeveloperUseCase handles developer business logic.
type DeveloperUseCase struct {
	mutationPipeline
	developers ports.DeveloperRepository
}

// NewDeveloperUseCase creates a new developer use case.
func NewDeveloperUseCase(developers ports.DeveloperRepository, cache ports.EntityCache, recorder *audit.Recorder, log *logrus.Logger) *DeveloperUseCase {
	return &DeveloperUseCase{
		mutationPipeline: mutationPipeline{cache: cache, recorder: recorder, log: log},
		developers:       developers,
	}
}

// GetDeveloper retrieves a developer by ID through the cache.
func (uc *DeveloperUseCase) GetDeveloper(ctx context.Context, id string) (*domain.Developer, error) {
	if id == "" {
		return nil, domain.NewValidationError("developer id is required")
	}

	data, err := uc.cache.GetEntity(ctx, domain.KindDeveloper, id, func(ctx context.Context) ([]byte, error) {
		developer, err := uc.developers.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(developer)
	})
	if err != nil {
		return nil, err
	}

	var developer domain.Developer
	if err := json.Unmarshal(data, &developer); err != nil {
		return nil, fmt.Errorf("failed to decode cached developer: %w", err)
	}
	return &developer, nil
}

// ListDevelopers retrieves one page of developers with the total count.
func (uc *DeveloperUseCase) ListDevelopers(ctx context.Context, page, pageSize int) ([]*domain.Developer, int, error) {
	page, pageSize = normalizePage(page, pageSize)

	view := fmt.Sprintf("page:%d:%d", page, pageSize)
	data, err := uc.cache.GetList(ctx, domain.KindDeveloper, view, func(ctx context.Context) ([]byte, error) {
		developers, total, err := uc.developers.FindAll(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		return json.Marshal(developerPage{Developers: developers, Total: total})
	})
	if err != nil {
		return nil, 0, err
	}

	var result developerPage
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cached developer page: %w", err)
	}
	return result.Developers, result.Total, nil
}

// CreateDeveloper validates and persists a new developer. The email must not
// already be registered.
func (uc *DeveloperUseCase) CreateDeveloper(ctx context.Context, req DeveloperRequest, actor string) (*domain.Developer, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	taken, err := uc.developers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check developer email: %w", err)
	}
	if taken {
		return nil, domain.NewValidationError("email already in use")
	}

	developer := domain.NewDeveloper(req.Name, req.Email, req.Skills)
	if err := uc.developers.Create(ctx, developer); err != nil {
		return nil, fmt.Errorf("failed to create developer: %w", err)
	}

	uc.completeCreate(ctx, domain.KindDeveloper, developer.ID, actor, developer)
	return developer, nil
}

// UpdateDeveloper validates and persists changes to an existing developer.
func (uc *DeveloperUseCase) UpdateDeveloper(ctx context.Context, id string, req DeveloperRequest, actor string) (*domain.Developer, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	developer, err := uc.developers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	developer.Apply(req.Name, req.Email, req.Skills)
	if err := uc.developers.Update(ctx, developer); err != nil {
		return nil, fmt.Errorf("failed to update developer: %w", err)
	}

	uc.completeUpdate(ctx, domain.KindDeveloper, developer.ID, actor, developer)
	return developer, nil
}

// DeleteDeveloper removes a developer.
func (uc *DeveloperUseCase) DeleteDeveloper(ctx context.Context, id string, actor string) error {
	if id == "" {
		return domain.NewValidationError("developer id is required")
	}

	if _, err := uc.developers.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.developers.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete developer: %w", err)
	}

	uc.completeDelete(ctx, domain.KindDeveloper, id, actor)
	return nil
}

// GetTopDevelopers lists the developers with the most assigned tasks.
func (uc *DeveloperUseCase) GetTopDevelopers(ctx context.Context, limit int) ([]*domain.Developer, error) {
	if limit <= 0 {
		limit = 5
	}
	developers, err := uc.developers.FindTopByTaskCount(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top developers: %w", err)
	}
	return developers, nil
}
