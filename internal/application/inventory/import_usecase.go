package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ImportRecord una fila cruda de hoja de cálculo: encabezado → valor.
type ImportRecord map[string]string

// ImportResult conteo de productos creados, actualizados y filas omitidas.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// importRow fila ya validada.
type importRow struct {
	product     entity.Product
	hasQuantity bool
}

// ImportBatch inserta o actualiza productos por referencia en una sola transacción.
//
// Una fila se omite si no tiene nombre ni referencia, o si un campo numérico está mal
// formado o es negativo. Sin referencia se sintetiza IMP-<unixmillis>-<índice>. Una
// referencia existente se refresca (campos descriptivos y cantidad, sin movimiento);
// dos filas con la misma referencia dejan un solo producto con los valores de la última.
// Una falla del almacenamiento revierte toda la importación.
func (uc *LedgerUseCase) ImportBatch(ctx context.Context, records []ImportRecord) (*ImportResult, error) {
	now := uc.now()
	result := &ImportResult{}

	rows := make([]importRow, 0, len(records))
	for i, record := range records {
		row, ok := parseImportRecord(record, i, now.UnixMilli())
		if !ok {
			result.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return result, nil
	}

	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		result.Created, result.Updated = 0, 0
		for _, row := range rows {
			existing, err := repos.Products.GetByReference(ctx, row.product.Reference)
			if err != nil {
				return err
			}
			if existing == nil {
				p := row.product
				p.ID = uuid.New().String()
				p.CreatedAt = now
				p.UpdatedAt = now
				if err := repos.Products.Create(ctx, &p); err != nil {
					return err
				}
				result.Created++
				continue
			}

			p := row.product
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = now
			if err := repos.Products.Update(ctx, &p); err != nil {
				return err
			}
			if row.hasQuantity && p.Quantity != existing.Quantity {
				if err := repos.Products.UpdateQuantity(ctx, p.ID, p.Quantity); err != nil {
					return err
				}
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		err = domain.WrapStore("importar productos", err)
		uc.log.Error().Err(err).Int("rows", len(records)).Msg("importación revertida")
		return nil, err
	}

	uc.afterCommit(ctx)
	uc.log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("importación de productos confirmada")
	return result, nil
}

// parseImportRecord valida una fila; ok=false si debe omitirse.
func parseImportRecord(record ImportRecord, index int, runMillis int64) (importRow, bool) {
	fields := resolveFields(record)
	name := fields[fieldName]
	reference := fields[fieldReference]
	if name == "" && reference == "" {
		return importRow{}, false
	}
	if reference == "" {
		reference = fmt.Sprintf("IMP-%d-%d", runMillis, index)
	}
	if name == "" {
		name = reference
	}

	row := importRow{product: entity.Product{
		Name:             name,
		ConventionalName: fields[fieldConventionalName],
		Reference:        reference,
		Barcode:          fields[fieldBarcode],
		MinStock:         entity.DefaultMinStock,
		Category:         fields[fieldCategory],
		Brand:            fields[fieldBrand],
		Warehouse:        fields[fieldWarehouse],
		Image:            fields[fieldImage],
		UnitPrice:        decimal.Zero,
	}}

	if raw, ok := fields[fieldQuantity]; ok {
		qty, ok := parseNonNegativeInt(raw)
		if !ok {
			return importRow{}, false
		}
		row.product.Quantity = qty
		row.hasQuantity = true
	}
	if raw, ok := fields[fieldMinStock]; ok {
		minStock, ok := parseNonNegativeInt(raw)
		if !ok {
			return importRow{}, false
		}
		row.product.MinStock = minStock
	}
	if raw, ok := fields[fieldUnitPrice]; ok {
		price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil || price.IsNegative() {
			return importRow{}, false
		}
		row.product.UnitPrice = price
	}
	return row, true
}

// parseNonNegativeInt acepta "12" y también "12.0" (celdas numéricas de hoja de cálculo).
// Valores por encima de entity.MaxQuantity se rechazan.
func parseNonNegativeInt(raw string) (int, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil || d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(entity.MaxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
