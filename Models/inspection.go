package Models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Checklist categories as stored on item rows. The mobile wizard uses the
// thematic set; older clients still submit the screen-numbered set.
const (
	CategoryMotor      = "MOTOR"
	CategoryEletrico   = "ELETRICO"
	CategoryLimpeza    = "LIMPEZA"
	CategoryFerramenta = "FERRAMENTA"
	CategoryPneu       = "PNEU"

	CategoryParte1 = "PARTE1"
	CategoryParte2 = "PARTE2"
	CategoryParte3 = "PARTE3"
	CategoryParte4 = "PARTE4"
	CategoryParte5 = "PARTE5"
)

// Inspection statuses
const (
	InspectionInProgress = "em_andamento"
	InspectionFinalized  = "finalizada"
)

// NormalizePlate trims and upper-cases a license plate. Every read/write
// boundary that groups or dedups by plate goes through this.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// Inspection is one vehicle visit. Created once by the first wizard screen;
// item, photo and tire rows are attached by the later screens.
type Inspection struct {
	gorm.Model
	Plate          string    `json:"plate" gorm:"index;not null"`
	VehicleTypeID  uint      `json:"vehicle_type_id"`
	UserID         uint      `json:"user_id"`
	Odometer       int       `json:"odometro"`
	FuelLevel      string    `json:"nivel_combustivel"` // bucketed string, never numeric
	DataRealizacao time.Time `json:"data_realizacao" gorm:"index"`
	Status         string    `json:"status"`
	InspectionItems []InspectionItem  `json:"itens,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
	Photos          []InspectionPhoto `json:"fotos,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
	TireReadings    []TireReading     `json:"pneus,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
}

func (i *Inspection) BeforeSave(tx *gorm.DB) error {
	i.Plate = NormalizePlate(i.Plate)
	return nil
}

// InspectionItem is one checked item on one visit. Rows are append-only:
// resubmitting a screen inserts duplicates, which the aggregator merges.
type InspectionItem struct {
	gorm.Model
	InspectionID uint    `json:"inspection_id" gorm:"index;not null"`
	Category     string  `json:"categoria" gorm:"index"`
	Item         string  `json:"item"`
	Status       string  `json:"status"`
	PhotoRef     string  `json:"foto,omitempty"`
	TirePressure float64 `json:"pressao,omitempty"`
	Note         string  `json:"observacao,omitempty" gorm:"type:text"`
}

func (InspectionItem) TableName() string {
	return "inspection_items"
}

// InspectionPhoto stores file references only. Binary payloads never travel
// through the aggregation path; photos are served by an on-demand lookup.
type InspectionPhoto struct {
	gorm.Model
	InspectionID  uint   `json:"inspection_id" gorm:"index;not null"`
	Screen        string `json:"tela"`
	FilePath      string `json:"-"`
	ThumbnailPath string `json:"-"`
	FileName      string `json:"arquivo"`
}

// TireReading is one tire pressure measurement on one visit.
type TireReading struct {
	gorm.Model
	InspectionID uint    `json:"inspection_id" gorm:"index;not null"`
	Position     string  `json:"posicao"` // e.g. "dianteiro_esquerdo", "estepe"
	Pressure     float64 `json:"pressao"`
	Status       string  `json:"status"`
}
