package importer

import (
	"strconv"
	"strings"
	"time"
)

// Field is a logical column of the import layout.
type Field string

const (
	FieldCode        Field = "code"
	FieldAccount     Field = "account"
	FieldDescription Field = "description"
	FieldBrand       Field = "brand"
	FieldModel       Field = "model"
	FieldSerial      Field = "serial"
	FieldPercentage  Field = "percentage"
	FieldCost        Field = "cost"
)

// aliases lists, per field, the header names accepted for it in priority
// order. Keys are matched exactly, accents and case included.
var aliases = []struct {
	field   Field
	headers []string
}{
	{FieldCode, []string{"Código del Activo", "CODIGO PRODUCTO"}},
	{FieldAccount, []string{"Cuenta Contable", "CTA ACTIVO"}},
	{FieldDescription, []string{"Descripción", "NOMBRE ACTIVO"}},
	{FieldBrand, []string{"Marca", "MARCA"}},
	{FieldModel, []string{"Modelo", "MODELO"}},
	{FieldSerial, []string{"N° Serie/Placa", "SERIE"}},
	{FieldPercentage, []string{"PORCT DEPRE", "% Depreciación"}},
	{FieldCost, []string{"COSTO", "Valor Histórico"}},
}

// Aliases returns the accepted headers of f, highest priority first.
func Aliases(f Field) []string {
	for _, a := range aliases {
		if a.field == f {
			return append([]string(nil), a.headers...)
		}
	}
	return nil
}

// Resolve returns the first non-empty value among the aliases of f.
// Empty means absent, nil, "", false or 0.
func (r Row) Resolve(f Field) interface{} {
	for _, h := range Aliases(f) {
		v, ok := r[h]
		if !ok || isEmpty(v) {
			continue
		}
		return v
	}
	return nil
}

// Text resolves f and renders it as trimmed text.
func (r Row) Text(f Field) string {
	return cellText(r.Resolve(f))
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	}
	return false
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return ""
}
