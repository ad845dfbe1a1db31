// Package excel genera reportes XLSX descargables desde el panel.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/catalog"
)

// Exporter arma archivos XLSX en memoria.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportInventoryLevels genera el reporte de inventario con retenciones.
func (e *Exporter) ExportInventoryLevels(levels []entity.InventoryLevel) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"SKU", "Producto", "Categoría", "Existencia", "Retenido", "Disponible"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, l := range levels {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.SKU)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), l.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.CategoryName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), l.OnHand.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), l.Held.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), l.Available.InexactFloat64())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: generar reporte de inventario: %w", err)
	}
	return buf, nil
}

// ExportSales genera el historial de ventas del rango pedido.
func (e *Exporter) ExportSales(sales []*entity.Sale) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"Número", "Fecha", "Estado", "Método de pago", "Subtotal", "Impuesto", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, s := range sales {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.Number)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), label(catalog.PaymentMethodLabels, s.PaymentMethod))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.Subtotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.TaxTotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.Total.InexactFloat64())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: generar historial de ventas: %w", err)
	}
	return buf, nil
}

// ExportAdjustments genera el historial de ajustes de inventario.
func (e *Exporter) ExportAdjustments(adjustments []repository.AdjustmentRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	headers := []string{"Fecha", "Producto", "SKU", "Sucursal", "Tipo", "Motivo", "Cambio", "Antes", "Después", "Usuario"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, a := range adjustments {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), a.ProductSKU)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.LocationName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), label(catalog.AdjustmentTypeLabels, a.Type))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), a.Reason)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), a.QuantityChange.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), a.QuantityBefore.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), a.QuantityAfter.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), a.CreatedByName)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: generar historial de ajustes: %w", err)
	}
	return buf, nil
}

// label traduce el valor interno a su etiqueta de reporte; si no hay
// etiqueta registrada sale el valor crudo.
func label(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}
