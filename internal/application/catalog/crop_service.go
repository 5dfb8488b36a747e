package catalog

import (
	"context"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CropService handles crop CRUD.
// A crop and the stock resource tracking it are created, renamed and
// removed together.
type CropService struct {
	cropRepo catalog.CropRepository
	txScope  reconciliation.TransactionScope
	logger   *zap.Logger
}

// NewCropService creates a new CropService
func NewCropService(cropRepo catalog.CropRepository, txScope reconciliation.TransactionScope) *CropService {
	return &CropService{
		cropRepo: cropRepo,
		txScope:  txScope,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *CropService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("crop")
	}
}

// Create creates a crop with an empty stock
func (s *CropService) Create(ctx context.Context, req CreateCropRequest) (*CropResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop", "create")
	defer span.End()

	crop, err := catalog.NewCrop(req.Name, req.Description, req.Location, req.NumberHectares, req.StockUnit)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, crop.Name, nil); err != nil {
		return nil, err
	}
	resource, err := crop.NewStockResource()
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if err := repos.CropRepo().Save(ctx, crop); err != nil {
			return err
		}
		return repos.ResourceRepo().Save(ctx, resource)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "crop create rejected", err)
		return nil, err
	}

	s.logger.Info("crop created", zap.String("crop_id", crop.ID.String()), zap.String("stock_unit", string(crop.StockUnit)))
	resp := ToCropResponse(crop)
	return &resp, nil
}

// Update changes a crop's descriptive fields and keeps its stock name in step
func (s *CropService) Update(ctx context.Context, id uuid.UUID, req UpdateCropRequest) (*CropResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	if err := s.ensureNameFree(ctx, req.Name, &id); err != nil {
		return nil, err
	}

	var crop *catalog.Crop
	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var err error
		crop, err = repos.CropRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := crop.Update(req.Name, req.Description, req.Location, req.NumberHectares, req.StockUnit); err != nil {
			return err
		}
		if err := repos.CropRepo().Save(ctx, crop); err != nil {
			return err
		}
		return renameResource(ctx, repos, crop.ID, crop.Name)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "crop update rejected", err, zap.String("crop_id", id.String()))
		return nil, err
	}

	s.logger.Info("crop updated", zap.String("crop_id", crop.ID.String()), zap.Int("version", crop.Version))
	resp := ToCropResponse(crop)
	return &resp, nil
}

// Delete soft-deletes a crop and its stock resource.
// Later reversals of harvests and sales of the crop skip its stock.
func (s *CropService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "crop", "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if _, err := repos.CropRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := repos.CropRepo().Delete(ctx, id); err != nil {
			return err
		}
		return repos.ResourceRepo().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "crop removal rejected", err, zap.String("crop_id", id.String()))
		return err
	}

	s.logger.Info("crop removed", zap.String("crop_id", id.String()))
	return nil
}

// GetByID retrieves a crop
func (s *CropService) GetByID(ctx context.Context, id uuid.UUID) (*CropResponse, error) {
	crop, err := s.cropRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCropResponse(crop)
	return &resp, nil
}

// List retrieves a page of crops
func (s *CropService) List(ctx context.Context, filter CatalogListFilter) (*shared.Paginated[CropResponse], error) {
	domainFilter := filter.toDomain()
	crops, total, err := s.cropRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]CropResponse, len(crops))
	for i := range crops {
		items[i] = ToCropResponse(&crops[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *CropService) ensureNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.cropRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Crop with this name already exists")
	}
	return nil
}

// renameResource copies a catalog name onto the stock resource with the same id.
// The row lock keeps the rename from racing a concurrent ledger adjustment.
func renameResource(ctx context.Context, repos reconciliation.TransactionalRepositories, id uuid.UUID, name string) error {
	resource, err := repos.ResourceRepo().FindByIDForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if resource.Name == name {
		return nil
	}
	resource.Rename(name)
	return repos.ResourceRepo().Save(ctx, resource)
}
