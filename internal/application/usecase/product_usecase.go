package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// ProductUseCase aplica reglas de negocio para el catálogo de productos.
// La cantidad solo se fija al crear; después cambia únicamente vía el libro de movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	invalidator inventory.StatsInvalidator
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. invalidator puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, invalidator inventory.StatsInvalidator) *ProductUseCase {
	return &ProductUseCase{repo: repo, invalidator: invalidator, now: time.Now}
}

// Create crea un producto con su existencia inicial. MinStock por defecto 10.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	reference := strings.TrimSpace(in.Reference)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if reference == "" {
		return nil, domain.NewValidationError("reference", "es requerida")
	}
	if in.Quantity < 0 || in.Quantity > entity.MaxQuantity {
		return nil, domain.NewValidationError("quantity", "fuera de rango")
	}
	minStock := entity.DefaultMinStock
	if in.MinStock != nil {
		if *in.MinStock < 0 || *in.MinStock > entity.MaxQuantity {
			return nil, domain.NewValidationError("min_stock", "fuera de rango")
		}
		minStock = *in.MinStock
	}
	unitPrice := decimal.Zero
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
		}
		unitPrice = *in.UnitPrice
	}

	now := uc.now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Name:             name,
		ConventionalName: in.ConventionalName,
		Reference:        reference,
		Barcode:          in.Barcode,
		Quantity:         in.Quantity,
		MinStock:         minStock,
		Category:         in.Category,
		Brand:            in.Brand,
		Warehouse:        in.Warehouse,
		Image:            in.Image,
		UnitPrice:        unitPrice,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, domain.WrapStore("crear producto", err)
	}
	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update modifica solo los campos enviados. La cantidad no es editable aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Reference != nil {
		if strings.TrimSpace(*in.Reference) == "" {
			return nil, domain.NewValidationError("reference", "no puede quedar vacía")
		}
		product.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 || *in.MinStock > entity.MaxQuantity {
			return nil, domain.NewValidationError("min_stock", "fuera de rango")
		}
		product.MinStock = *in.MinStock
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.ConventionalName != nil {
		product.ConventionalName = *in.ConventionalName
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Warehouse != nil {
		product.Warehouse = *in.Warehouse
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, domain.WrapStore("actualizar producto", err)
	}
	uc.invalidate(ctx)
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.WrapStore("listar productos", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock productos en o por debajo de su umbral, los más críticos primero.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, domain.WrapStore("listar stock bajo", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina el producto y su historial (movimientos, ventas y devoluciones).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.WrapStore("eliminar producto", err)
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("obtener producto", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return product, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx)
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		ConventionalName: p.ConventionalName,
		Reference:        p.Reference,
		Barcode:          p.Barcode,
		Quantity:         p.Quantity,
		MinStock:         p.MinStock,
		LowStock:         p.IsLowStock(),
		Category:         p.Category,
		Brand:            p.Brand,
		Warehouse:        p.Warehouse,
		Image:            p.Image,
		UnitPrice:        p.UnitPrice,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
