// Package report arma los reportes descargables del inventario.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// StockLine una fila del reporte de existencias.
type StockLine struct {
	Reference string
	Name      string
	Warehouse string
	Quantity  int
	MinStock  int
	LowStock  bool
	UnitPrice decimal.Decimal
	Value     decimal.Decimal // Quantity × UnitPrice
}

// StockReport datos del reporte de existencias.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Lines       []StockLine
	Totals      repository.InventoryTotals
}

// StockPDFGenerator puerto de salida que dibuja el reporte.
type StockPDFGenerator interface {
	GenerateStockPDF(ctx context.Context, rep *StockReport) ([]byte, error)
}

// StockReportUseCase genera el PDF de existencias con todos los productos.
type StockReportUseCase struct {
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	generator     StockPDFGenerator
	title         string
	now           func() time.Time
}

// NewStockReportUseCase construye el caso de uso. title encabeza el documento.
func NewStockReportUseCase(
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
	generator StockPDFGenerator,
	title string,
) *StockReportUseCase {
	return &StockReportUseCase{
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		generator:     generator,
		title:         title,
		now:           time.Now,
	}
}

// Build arma los datos del reporte: productos por referencia y totales del catálogo.
func (uc *StockReportUseCase) Build(ctx context.Context) (*StockReport, error) {
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, domain.WrapStore("reporte: productos", err)
	}
	totals, err := uc.analyticsRepo.GetInventoryTotals(ctx)
	if err != nil {
		return nil, domain.WrapStore("reporte: totales", err)
	}
	rep := &StockReport{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		Lines:       make([]StockLine, 0, len(products)),
		Totals:      totals,
	}
	sortByReference(products)
	for _, p := range products {
		rep.Lines = append(rep.Lines, toStockLine(p))
	}
	return rep, nil
}

// StockPDF devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *StockReportUseCase) StockPDF(ctx context.Context) ([]byte, string, error) {
	rep, err := uc.Build(ctx)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStockPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return pdf, "stock_" + rep.GeneratedAt.Format("2006-01-02") + ".pdf", nil
}

func toStockLine(p *entity.Product) StockLine {
	return StockLine{
		Reference: p.Reference,
		Name:      p.Name,
		Warehouse: p.Warehouse,
		Quantity:  p.Quantity,
		MinStock:  p.MinStock,
		LowStock:  p.IsLowStock(),
		UnitPrice: p.UnitPrice,
		Value:     p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))),
	}
}

func sortByReference(products []*entity.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].Reference < products[j].Reference })
}
