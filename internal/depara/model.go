// internal/depara/model.go
package depara

import "time"

// ProdutoDeParaSendas traduz o código interno de produto para o código usado
// pelo portal. O escopo por CNPJ é opcional: um mapeamento sem CNPJ vale para
// qualquer cliente.
type ProdutoDeParaSendas struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CNPJ            string `gorm:"size:20;index:idx_depara_produto,unique" json:"cnpj"`
	CodigoNosso     string `gorm:"size:30;not null;index:idx_depara_produto,unique" json:"codigoNosso"`
	DescricaoNossa  string `gorm:"size:255" json:"descricaoNossa"`
	CodigoSendas    string `gorm:"size:30;not null" json:"codigoSendas"`
	DescricaoSendas string `gorm:"size:255" json:"descricaoSendas"`

	// Desativação lógica; mapeamentos nunca são removidos fisicamente
	Ativo bool `gorm:"not null;default:true" json:"ativo"`
}

func (ProdutoDeParaSendas) TableName() string {
	return "produto_depara_sendas"
}

// FilialDeParaSendas traduz o CNPJ de uma filial para o código de filial do
// portal. NumeroFilial guarda o prefixo numérico normalizado do código, usado
// no fallback quando o portal reformata o rótulo da filial entre exportações.
type FilialDeParaSendas struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CNPJ         string `gorm:"size:20;not null;index:idx_depara_filial,unique" json:"cnpj"`
	NomeFilial   string `gorm:"size:255" json:"nomeFilial"`
	CodigoSendas string `gorm:"size:255;not null;index:idx_depara_filial,unique" json:"codigoSendas"`
	NumeroFilial string `gorm:"size:10;index" json:"numeroFilial"`

	Ativo bool `gorm:"not null;default:true" json:"ativo"`
}

func (FilialDeParaSendas) TableName() string {
	return "filial_depara_sendas"
}
