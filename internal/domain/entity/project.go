package entity

import "time"

// Project representa un proyecto de producción (ensamble para un cliente).
// El núcleo de inventario solo lee BoardsOrdered como multiplicador por defecto
// del BOM; el resto del ciclo de vida del proyecto vive en otros módulos.
type Project struct {
	ID            string
	Name          string
	CustomerName  string
	BoardsOrdered int // tarjetas pedidas por el cliente
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
