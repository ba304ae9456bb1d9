// internal/planilha/model.go
package planilha

import "time"

// PlanilhaModeloSendas espelha uma linha da "planilha modelo" baixada do
// portal. É a fonte da verdade para o saldo disponível a agendar por
// (filial, pedido do cliente, produto). A carga substitui a tabela inteira —
// não há atualização incremental nem histórico.
type PlanilhaModeloSendas struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Destino              string  `gorm:"size:255;index" json:"destino"`
	CodigoPedidoCliente  string  `gorm:"size:30;index" json:"codigoPedidoCliente"`
	CodigoProdutoCliente string  `gorm:"size:30;index" json:"codigoProdutoCliente"`
	DescricaoItem        string  `gorm:"size:255" json:"descricaoItem"`
	QuantidadeTotal      float64 `json:"quantidadeTotal"`
	SaldoDisponivel      float64 `json:"saldoDisponivel"`
	UnidadeMedida        string  `gorm:"size:20" json:"unidadeMedida"`
}

func (PlanilhaModeloSendas) TableName() string {
	return "planilha_modelo_sendas"
}
