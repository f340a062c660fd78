package service

import (
	"time"

	"github.com/google/uuid"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/depreciation"
	"crudefi-api/internal/model"
	"crudefi-api/internal/repository"
)

// AssetService adds the depreciation schedule to plain asset CRUD.
type AssetService struct {
	*CrudService[model.Asset, *model.Asset]
}

type AssetSchedule struct {
	Asset    *model.Asset        `json:"asset"`
	Method   depreciation.Method `json:"method"`
	Schedule []depreciation.Year `json:"schedule"`
}

func NewAssetService(repo repository.CrudRepository[model.Asset]) *AssetService {
	crud := NewCrudService[model.Asset, *model.Asset](repo, "asset", Hooks[model.Asset]{
		Prepare: func(a *model.Asset, _ bool, _ Actor) error {
			if a.DepreciationMethod == "" {
				a.DepreciationMethod = depreciation.StraightLine
			}
			if _, err := depreciation.Schedule(a.DepreciationInput()); err != nil {
				return apperror.Wrap(apperror.KindValidation, err)
			}
			a.FillBookValue(time.Now())
			return nil
		},
	}, nil)
	return &AssetService{CrudService: crud}
}

func (s *AssetService) Schedule(id uuid.UUID) (*AssetSchedule, error) {
	asset, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	in := asset.DepreciationInput()
	years, err := depreciation.Schedule(in)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, err)
	}
	return &AssetSchedule{Asset: asset, Method: in.Method, Schedule: years}, nil
}
