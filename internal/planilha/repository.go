// internal/planilha/repository.go
package planilha

import (
	"errors"

	"github.com/SistemaFretes/api-agendamento/internal/utils"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// SubstituirTudo apaga a carga anterior e grava as linhas novas em uma única
// transação. A planilha modelo é sempre recarregada por inteiro.
func (r *Repository) SubstituirTudo(linhas []PlanilhaModeloSendas) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&PlanilhaModeloSendas{}).Error; err != nil {
			return err
		}
		if len(linhas) == 0 {
			return nil
		}
		return tx.Create(&linhas).Error
	})
}

// BuscarLinha procura a linha específica de (filial, pedido, produto) com
// saldo disponível. O pedido é comparado pelo prefixo antes do sufixo de
// filial que o portal às vezes anexa.
func (r *Repository) BuscarLinha(destino, pedidoCliente, codigoProduto string) (*PlanilhaModeloSendas, error) {
	var linhas []PlanilhaModeloSendas
	err := r.DB.
		Where("destino = ? AND codigo_produto_cliente = ? AND saldo_disponivel > 0", destino, codigoProduto).
		Order("id").
		Find(&linhas).Error
	if err != nil {
		return nil, err
	}

	prefixo := utils.PrefixoPedido(pedidoCliente)
	for i := range linhas {
		if utils.PrefixoPedido(linhas[i].CodigoPedidoCliente) == prefixo {
			return &linhas[i], nil
		}
	}
	return nil, nil
}

// ListarPorDestino devolve todas as linhas da filial com saldo disponível.
func (r *Repository) ListarPorDestino(destino string) ([]PlanilhaModeloSendas, error) {
	var linhas []PlanilhaModeloSendas
	err := r.DB.
		Where("destino = ? AND saldo_disponivel > 0", destino).
		Order("codigo_pedido_cliente, codigo_produto_cliente").
		Find(&linhas).Error
	return linhas, err
}

// QualquerLinhaDoDestino devolve uma linha qualquer da filial, usada pela
// exportação para preencher colunas estruturais quando o item não casa.
func (r *Repository) QualquerLinhaDoDestino(destino string) (*PlanilhaModeloSendas, error) {
	var linha PlanilhaModeloSendas
	err := r.DB.
		Where("destino = ?", destino).
		Order("id").
		First(&linha).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &linha, nil
}

// NomeDestinoPorPedido devolve o destino de alguma linha que contenha o
// pedido informado — usado como dica de fallback na resolução de filial.
func (r *Repository) NomeDestinoPorPedido(pedidoCliente string) (string, error) {
	prefixo := utils.PrefixoPedido(pedidoCliente)

	var linhas []PlanilhaModeloSendas
	if err := r.DB.Order("id").Find(&linhas).Error; err != nil {
		return "", err
	}
	for i := range linhas {
		if utils.PrefixoPedido(linhas[i].CodigoPedidoCliente) == prefixo {
			return linhas[i].Destino, nil
		}
	}
	return "", nil
}

// Listar devolve toda a carga atual.
func (r *Repository) Listar() ([]PlanilhaModeloSendas, error) {
	var linhas []PlanilhaModeloSendas
	err := r.DB.Order("destino, codigo_pedido_cliente").Find(&linhas).Error
	return linhas, err
}
