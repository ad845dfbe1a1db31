// seed genera el script SQL con los datos de demostración: un comercio con
// sus tres módulos activos, usuarios de cada rol, dos sucursales, catálogo de
// productos con código de barras interno y la carga inicial de inventario
// (ajustes de recepción más existencias).
//
// Uso: go run ./cmd/seed [password]
// Por defecto la contraseña de los usuarios demo es "verdepos".
// Escribe: internal/infrastructure/postgres/migrations/002_seed_demo.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcastano/VerdePOS-api/pkg/barcode"
)

// seedNamespace raíz de los UUID deterministas: resembrar produce los mismos
// ids y los ON CONFLICT hacen el script idempotente.
const seedNamespace = "verdepos:seed:"

func seedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seedNamespace+name)).String()
}

type demoUser struct {
	key, email, name, role string
}

type demoLocation struct {
	key, code, name, address string
}

type demoProduct struct {
	key, sku, name, category, unit string
	price, cost, taxRate           string
	minStock                       string
	eanBody                        string // 12 dígitos, el dígito de control se calcula
}

type demoStock struct {
	product, location string
	qty, unitCost     string
}

func main() {
	password := "verdepos"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar hash de contraseña: %v\n", err)
		os.Exit(1)
	}

	vendorID := seedID("vendor")
	users := []demoUser{
		{key: "user:admin", email: "admin@verdepos.local", name: "Ana Admin", role: "admin"},
		{key: "user:manager", email: "gerente@verdepos.local", name: "Gloria Gerente", role: "manager"},
		{key: "user:budtender", email: "caja@verdepos.local", name: "Bruno Budtender", role: "budtender"},
	}
	adminID := seedID(users[0].key)

	locations := []demoLocation{
		{key: "location:MAIN", code: "MAIN", name: "Sucursal Principal", address: "Av. Central 100"},
		{key: "location:NORTE", code: "NORTE", name: "Sucursal Norte", address: "Calle 45 #12"},
	}

	categories := []string{"Flores", "Comestibles", "Concentrados", "Accesorios"}

	products := []demoProduct{
		{key: "product:FLOR-001", sku: "FLOR-001", name: "Blue Dream 3.5g", category: "Flores",
			unit: "8th", price: "35.00", cost: "21.00", taxRate: "15.00", minStock: "10", eanBody: "200000000001"},
		{key: "product:FLOR-002", sku: "FLOR-002", name: "OG Kush 1g", category: "Flores",
			unit: "g", price: "12.00", cost: "7.20", taxRate: "15.00", minStock: "25", eanBody: "200000000002"},
		{key: "product:COM-001", sku: "COM-001", name: "Gomitas 100mg", category: "Comestibles",
			unit: "ea", price: "18.00", cost: "9.50", taxRate: "15.00", minStock: "12", eanBody: "200000000003"},
		{key: "product:COM-002", sku: "COM-002", name: "Chocolate 50mg", category: "Comestibles",
			unit: "ea", price: "15.00", cost: "8.00", taxRate: "15.00", minStock: "12", eanBody: "200000000004"},
		{key: "product:CON-001", sku: "CON-001", name: "Cartucho Vape 0.5g", category: "Concentrados",
			unit: "ea", price: "40.00", cost: "24.00", taxRate: "15.00", minStock: "8", eanBody: "200000000005"},
		{key: "product:ACC-001", sku: "ACC-001", name: "Grinder Metálico", category: "Accesorios",
			unit: "ea", price: "25.00", cost: "11.00", taxRate: "8.00", minStock: "5", eanBody: "200000000006"},
	}

	stocks := []demoStock{
		{product: "product:FLOR-001", location: "location:MAIN", qty: "100", unitCost: "21.00"},
		{product: "product:FLOR-002", location: "location:MAIN", qty: "250", unitCost: "7.20"},
		{product: "product:COM-001", location: "location:MAIN", qty: "80", unitCost: "9.50"},
		{product: "product:COM-002", location: "location:MAIN", qty: "60", unitCost: "8.00"},
		{product: "product:CON-001", location: "location:MAIN", qty: "45", unitCost: "24.00"},
		{product: "product:ACC-001", location: "location:MAIN", qty: "30", unitCost: "11.00"},
		{product: "product:FLOR-001", location: "location:NORTE", qty: "40", unitCost: "21.00"},
		{product: "product:COM-001", location: "location:NORTE", qty: "35", unitCost: "9.50"},
		{product: "product:CON-001", location: "location:NORTE", qty: "20", unitCost: "24.00"},
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_demo.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Datos de demostración VerdePOS\n")
	out.WriteString("-- Generado con: go run ./cmd/seed\n\n")

	// 1. Comercio y módulos
	out.WriteString("-- 1. Comercio demo con los tres módulos activos\n")
	fmt.Fprintf(out, "INSERT INTO vendors (id, name, license_number, address, phone, email, status)\n")
	fmt.Fprintf(out, "VALUES ('%s', 'VerdePOS Demo', 'LIC-2024-0001', 'Av. Central 100', '555-0100', 'demo@verdepos.local', 'active')\n", vendorID)
	out.WriteString("ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, status = 'active';\n\n")

	for _, m := range []string{"audits", "transfers", "processors"} {
		fmt.Fprintf(out, "INSERT INTO vendor_modules (id, vendor_id, module_name, is_active, activated_at)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', true, now())\n", seedID("module:"+m), vendorID, m)
		out.WriteString("ON CONFLICT (vendor_id, module_name) DO UPDATE SET is_active = true, activated_at = now(), updated_at = now();\n")
	}
	out.WriteString("\n")

	// 2. Usuarios: uno por rol, misma contraseña
	out.WriteString("-- 2. Usuarios demo (resembrar restablece la contraseña)\n")
	for _, u := range users {
		fmt.Fprintf(out, "INSERT INTO users (id, vendor_id, email, password_hash, name, role, status)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', 'active')\n",
			seedID(u.key), vendorID, u.email, string(hash), escapeSQL(u.name), u.role)
		out.WriteString("ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, status = 'active', updated_at = now();\n")
	}
	out.WriteString("\n")

	// 3. Sucursales
	out.WriteString("-- 3. Sucursales\n")
	for _, l := range locations {
		fmt.Fprintf(out, "INSERT INTO locations (id, vendor_id, code, name, address, active)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', '%s', true)\n",
			seedID(l.key), vendorID, l.code, escapeSQL(l.name), escapeSQL(l.address))
		out.WriteString("ON CONFLICT (vendor_id, code) DO UPDATE SET name = EXCLUDED.name, updated_at = now();\n")
	}
	out.WriteString("\n")

	// 4. Catálogo
	out.WriteString("-- 4. Categorías y productos\n")
	for _, c := range categories {
		fmt.Fprintf(out, "INSERT INTO categories (id, vendor_id, name)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s')\n", seedID("category:"+c), vendorID, escapeSQL(c))
		out.WriteString("ON CONFLICT (vendor_id, name) DO NOTHING;\n")
	}
	out.WriteString("\n")

	for _, p := range products {
		check, err := barcode.ComputeCheckDigit(p.eanBody)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Código de barras de %s: %v\n", p.sku, err)
			os.Exit(1)
		}
		ean := p.eanBody + string(check)
		fmt.Fprintf(out, "INSERT INTO products (id, vendor_id, category_id, sku, barcode, name, unit, price, cost, tax_rate, min_stock, status)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', %s, %s, %s, %s, 'active')\n",
			seedID(p.key), vendorID, seedID("category:"+p.category), p.sku, ean,
			escapeSQL(p.name), p.unit, p.price, p.cost, p.taxRate, p.minStock)
		out.WriteString("ON CONFLICT (vendor_id, sku) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, updated_at = now();\n")
	}
	out.WriteString("\n")

	// 5. Carga inicial: un ajuste de recepción por producto/sucursal y su existencia.
	// El stock no se pisa al resembrar para no deshacer ventas de prueba.
	out.WriteString("-- 5. Inventario inicial (recepciones + existencias)\n")
	for _, s := range stocks {
		fmt.Fprintf(out, "INSERT INTO inventory_adjustments (id, vendor_id, location_id, product_id, type, quantity_change, quantity_before, quantity_after, reason, unit_cost, created_by)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', '%s', '%s', 'receiving', %s, 0, %s, 'Carga inicial de inventario', %s, '%s')\n",
			seedID("adjustment:"+s.product+":"+s.location), vendorID,
			seedID(s.location), seedID(s.product), s.qty, s.qty, s.unitCost, adminID)
		out.WriteString("ON CONFLICT (id) DO NOTHING;\n")
		fmt.Fprintf(out, "INSERT INTO stock (product_id, location_id, quantity)\n")
		fmt.Fprintf(out, "VALUES ('%s', '%s', %s)\n", seedID(s.product), seedID(s.location), s.qty)
		out.WriteString("ON CONFLICT (product_id, location_id) DO NOTHING;\n")
	}

	fmt.Printf("Generado %s: %d usuarios, %d sucursales, %d productos, %d recepciones\n",
		outPath, len(users), len(locations), len(products), len(stocks))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
