package infra

// pdf.go: withdrawal receipt ("comprobante de salida") using go-pdf/fpdf.
// A4 portrait, single page:
//   - Title and receipt id
//   - Product name and code
//   - Quantity, reason label and free-text description
//   - Timestamp and the user who registered it ("Sistema" when none)

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"inventario/internal/dto"

	"github.com/go-pdf/fpdf"
)

// RenderComprobanteSalida writes the receipt PDF for one withdrawal to w.
// It only uses the fields in datos; nothing is read from storage.
func RenderComprobanteSalida(w io.Writer, datos *dto.ComprobanteSalida) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(false, 20)
	pdf.AddPage()
	// Core fonts are cp1252; translate accented labels (Garantía, Donación…).
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, tr("Comprobante de Salida de Producto"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, tr("N° "+datos.SalidaID), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.Line(20, pdf.GetY(), pageW-20, pdf.GetY())
	pdf.Ln(6)

	// ── Detail rows ──────────────────────────────────────────────────────────
	labelW := contentW * 0.30
	valueW := contentW - labelW
	fila := func(label, valor string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(labelW, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(valueW, 8, tr(valor), "", 1, "L", false, 0, "")
	}
	fila("Producto:", datos.ProductoNombre)
	fila("Código:", datos.ProductoCodigo)
	fila("Cantidad:", fmt.Sprintf("%d", datos.Cantidad))
	fila("Motivo:", datos.Motivo)
	fila("Fecha:", datos.Fecha)
	fila("Registrado por:", datos.Usuario)

	if datos.Descripcion != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 8, tr("Descripción:"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(contentW, 6, tr(datos.Descripcion), "", "L", false)
	}

	// ── Signature ────────────────────────────────────────────────────────────
	pdf.Ln(30)
	firmaW := contentW / 2
	pdf.SetX(20 + (contentW-firmaW)/2)
	pdf.CellFormat(firmaW, 6, tr("Firma"), "T", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// GuardarComprobanteSalida writes the receipt to storagePath/salida_{id}.pdf
// (directory created if needed) and returns the file path.
func GuardarComprobanteSalida(datos *dto.ComprobanteSalida, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("salida_%s.pdf", datos.SalidaID))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderComprobanteSalida(f, datos); err != nil {
		f.Close()
		return "", fmt.Errorf("pdf: render: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
