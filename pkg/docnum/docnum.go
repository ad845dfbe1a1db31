// Package docnum genera números de documento legibles (ventas, traslados)
// a partir de IDs snowflake: únicos por nodo, ordenables por tiempo y sin
// coordinar secuencias en la base de datos.
package docnum

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Generator produce números de documento con prefijo. Seguro para uso
// concurrente; cada instancia del servicio debe usar un nodo distinto.
type Generator struct {
	node *snowflake.Node
}

// New construye un generador para el nodo indicado (0-1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("docnum: crear nodo %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next devuelve el siguiente número con el prefijo dado, por ejemplo
// "POS-K3J9X2Q1L".
func (g *Generator) Next(prefix string) string {
	return prefix + "-" + strings.ToUpper(g.node.Generate().Base36())
}
