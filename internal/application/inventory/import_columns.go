package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Campos de producto reconocidos en una fila importada.
const (
	fieldName             = "name"
	fieldConventionalName = "conventional_name"
	fieldReference        = "reference"
	fieldBarcode          = "barcode"
	fieldQuantity         = "quantity"
	fieldMinStock         = "min_stock"
	fieldCategory         = "category"
	fieldBrand            = "brand"
	fieldWarehouse        = "warehouse"
	fieldImage            = "image"
	fieldUnitPrice        = "unit_price"
)

// headerAliases encabezados normalizados (sin acentos, minúsculas, sin separadores) → campo.
var headerAliases = map[string]string{
	"name": fieldName, "realname": fieldName, "nom": fieldName, "nombre": fieldName,
	"designation": fieldName, "produit": fieldName, "product": fieldName, "productname": fieldName,

	"conventionalname": fieldConventionalName, "nomconventionnel": fieldConventionalName,
	"alias": fieldConventionalName, "nombreconvencional": fieldConventionalName,

	"reference": fieldReference, "ref": fieldReference, "referencia": fieldReference,
	"sku": fieldReference, "code": fieldReference,

	"barcode": fieldBarcode, "codebarres": fieldBarcode, "codebarre": fieldBarcode,
	"codigodebarras": fieldBarcode, "ean": fieldBarcode,

	"quantity": fieldQuantity, "quantite": fieldQuantity, "qty": fieldQuantity,
	"cantidad": fieldQuantity, "stock": fieldQuantity,

	"minstock": fieldMinStock, "stockmin": fieldMinStock, "stockminimum": fieldMinStock,
	"stockminimo": fieldMinStock, "seuil": fieldMinStock,

	"category": fieldCategory, "categorie": fieldCategory, "categoria": fieldCategory,
	"brand": fieldBrand, "marque": fieldBrand, "marca": fieldBrand,
	"warehouse": fieldWarehouse, "entrepot": fieldWarehouse, "bodega": fieldWarehouse,
	"emplacement": fieldWarehouse, "location": fieldWarehouse,
	"image": fieldImage, "photo": fieldImage, "imagen": fieldImage,
	"unitprice": fieldUnitPrice, "price": fieldUnitPrice, "prix": fieldUnitPrice,
	"prixunitaire": fieldUnitPrice, "precio": fieldUnitPrice,
}

// normalizeHeader quita acentos, pasa a minúsculas y elimina espacios, guiones y guiones bajos:
// "Référence" → "reference", "Stock Min" → "stockmin".
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.TrimSpace(h))
	if err != nil {
		s = h
	}
	s = cases.Lower(language.Und).String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' || r == '.' {
			return -1
		}
		return r
	}, s)
}

// resolveFields traduce una fila con encabezados arbitrarios a campos conocidos.
// Si dos columnas apuntan al mismo campo gana la primera no vacía en orden alfabético de encabezado.
func resolveFields(record ImportRecord) map[string]string {
	out := make(map[string]string, len(record))
	for _, header := range sortedKeys(map[string]string(record)) {
		field, ok := headerAliases[normalizeHeader(header)]
		if !ok {
			continue
		}
		value := strings.TrimSpace(record[header])
		if value == "" {
			continue
		}
		if _, seen := out[field]; !seen {
			out[field] = value
		}
	}
	return out
}
