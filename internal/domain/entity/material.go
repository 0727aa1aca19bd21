package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima clasificada en una categoría.
// En este servicio es un modelo de lectura: se usa para los chequeos de dependencia al eliminar.
type Material struct {
	ID            string
	InstitutionID int
	CategoryID    string
	Code          string
	Name          string
	UnitMeasure   string
	Stock         decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
