// Package barcode valida códigos de barras de producto (EAN/UPC) según
// el algoritmo de dígito de verificación GS1 (módulo 10, pesos 1-3).
package barcode

import (
	"fmt"
	"unicode"
)

// Longitudes aceptadas: EAN-8, UPC-A (12) y EAN-13.
// Un UPC-A equivale a un EAN-13 con cero inicial; se validan por longitud.
const (
	LenEAN8  = 8
	LenUPCA  = 12
	LenEAN13 = 13
)

// Validate valida que el código de barras (con o sin espacios/guiones) tenga
// una longitud GS1 aceptada y un dígito de verificación correcto.
func Validate(code string) error {
	digits := extractDigits(code)
	switch len(digits) {
	case LenEAN8, LenUPCA, LenEAN13:
	case 0:
		return fmt.Errorf("barcode: código vacío")
	default:
		return fmt.Errorf("barcode: longitud inválida %d, se esperan %d, %d o %d dígitos", len(digits), LenEAN8, LenUPCA, LenEAN13)
	}
	expected := checkDigit(digits[:len(digits)-1])
	if digits[len(digits)-1] != expected {
		return fmt.Errorf("barcode: dígito de verificación inválido: esperado %c, recibido %c", expected, digits[len(digits)-1])
	}
	return nil
}

// ComputeCheckDigit calcula el dígito de verificación para un cuerpo de
// código de barras (7, 11 o 12 dígitos). Útil al generar códigos internos.
func ComputeCheckDigit(body string) (byte, error) {
	digits := extractDigits(body)
	switch len(digits) {
	case LenEAN8 - 1, LenUPCA - 1, LenEAN13 - 1:
	default:
		return 0, fmt.Errorf("barcode: el cuerpo debe tener %d, %d o %d dígitos, se encontraron %d", LenEAN8-1, LenUPCA-1, LenEAN13-1, len(digits))
	}
	return checkDigit(digits), nil
}

// checkDigit aplica módulo 10 GS1: pesos 3 y 1 alternados de derecha a izquierda,
// empezando con 3 en la posición inmediatamente anterior al dígito de control.
func checkDigit(body []byte) byte {
	var sum int
	weight := 3
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	return byte('0' + (10-sum%10)%10)
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
