// internal/fila/model.go
package fila

import (
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/models"
)

// FilaAgendamentoSendas é um item aguardando inclusão em uma planilha de
// agendamento do portal. A chave natural (tipo origem, documento origem,
// produto, pedido cliente) com status pendente garante que re-enfileirar a
// mesma mudança atualiza o item existente em vez de duplicar.
type FilaAgendamentoSendas struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	TipoOrigem      string  `gorm:"size:30;not null;index:idx_fila_chave_natural" json:"tipoOrigem"`
	DocumentoOrigem string  `gorm:"size:60;not null;index:idx_fila_chave_natural" json:"documentoOrigem"`
	CNPJ            string  `gorm:"size:20;not null;index" json:"cnpj"`
	NumPedido       string  `gorm:"size:30" json:"numPedido"`
	PedidoCliente   string  `gorm:"size:30;not null;index:idx_fila_chave_natural" json:"pedidoCliente"`
	CodProduto      string  `gorm:"size:30;not null;index:idx_fila_chave_natural" json:"codProduto"`
	NomeProduto     string  `gorm:"size:255" json:"nomeProduto"`
	Quantidade      float64 `gorm:"not null" json:"quantidade"`

	DataExpedicao   time.Time `json:"dataExpedicao"`
	DataAgendamento time.Time `gorm:"index" json:"dataAgendamento"`

	Protocolo string `gorm:"size:40;index" json:"protocolo"`

	// pendente | processado | erro
	Status       string     `gorm:"size:15;not null;default:pendente;index" json:"status"`
	ProcessadoEm *time.Time `json:"processadoEm,omitempty"`
}

func (FilaAgendamentoSendas) TableName() string {
	return "fila_agendamento_sendas"
}

// Lote agrupa itens pendentes de um mesmo (CNPJ, data de agendamento). O
// protocolo do lote é o do primeiro item encontrado; todos os itens recebem o
// mesmo protocolo no momento do enfileiramento.
type Lote struct {
	CNPJ            string                  `json:"cnpj"`
	DataAgendamento time.Time               `json:"dataAgendamento"`
	Protocolo       string                  `json:"protocolo"`
	Itens           []FilaAgendamentoSendas `json:"itens"`
}

// Pendente informa se o item ainda aguarda exportação.
func (f *FilaAgendamentoSendas) Pendente() bool {
	return f.Status == models.StatusPendente
}
