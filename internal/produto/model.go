// internal/produto/model.go
package produto

import "time"

// Produto é o cadastro mestre usado pela exportação: fornece o peso bruto
// unitário para o cálculo do veículo e os códigos SKU/EAN copiados para a
// planilha.
type Produto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Codigo        string  `gorm:"size:30;not null;uniqueIndex" json:"codigo"`
	Nome          string  `gorm:"size:255" json:"nome"`
	SKU           string  `gorm:"size:30" json:"sku"`
	EAN           string  `gorm:"size:20" json:"ean"`
	UnidadeMedida string  `gorm:"size:20" json:"unidadeMedida"`
	PesoBruto     float64 `gorm:"not null;default:0" json:"pesoBruto"` // kg por unidade
}
