package persistence

import (
	"time"

	"github.com/panellens/backend/internal/domain"
	"github.com/shopspring/decimal"
)

type shipmentModel struct {
	ID          uint            `gorm:"primaryKey"`
	Year        int             `gorm:"not null;index:idx_shipments_period"`
	Quarter     int             `gorm:"not null;index:idx_shipments_period"`
	Brand       string          `gorm:"not null;index"`
	Application string          `gorm:"not null;index"`
	SizeInches  float64         `gorm:"not null"`
	PanelMaker  string          `gorm:"not null;index"`
	Technology  string          `gorm:"not null;default:''"`
	UnitsK      decimal.Decimal `gorm:"type:text;not null"`
}

func (shipmentModel) TableName() string {
	return "shipments"
}

func newShipmentModel(s domain.Shipment) shipmentModel {
	return shipmentModel{
		ID:          s.ID,
		Year:        s.Year,
		Quarter:     s.Quarter,
		Brand:       s.Brand,
		Application: s.Application,
		SizeInches:  s.SizeInches,
		PanelMaker:  s.PanelMaker,
		Technology:  s.Technology,
		UnitsK:      s.UnitsK,
	}
}

func (m shipmentModel) toDomain() domain.Shipment {
	return domain.Shipment{
		ID:          m.ID,
		Year:        m.Year,
		Quarter:     m.Quarter,
		Brand:       m.Brand,
		Application: m.Application,
		SizeInches:  m.SizeInches,
		PanelMaker:  m.PanelMaker,
		Technology:  m.Technology,
		UnitsK:      m.UnitsK,
	}
}

type userModel struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string {
	return "users"
}
