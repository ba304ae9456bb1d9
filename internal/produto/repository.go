// internal/produto/repository.go
package produto

import (
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Salvar cria ou atualiza o produto pelo código.
func (r *Repository) Salvar(p *Produto) error {
	var existente Produto
	err := r.DB.Where("codigo = ?", p.Codigo).First(&existente).Error
	if err == nil {
		existente.Nome = p.Nome
		existente.SKU = p.SKU
		existente.EAN = p.EAN
		existente.UnidadeMedida = p.UnidadeMedida
		existente.PesoBruto = p.PesoBruto
		return r.DB.Save(&existente).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.Create(p).Error
}

// BuscarPorCodigo devolve o produto ou nil quando não cadastrado.
func (r *Repository) BuscarPorCodigo(codigo string) (*Produto, error) {
	var p Produto
	err := r.DB.Where("codigo = ?", codigo).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll devolve todos os produtos cadastrados.
func (r *Repository) ListAll() ([]Produto, error) {
	var produtos []Produto
	err := r.DB.Order("codigo").Find(&produtos).Error
	return produtos, err
}
