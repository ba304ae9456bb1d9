// internal/fila/repository.go
package fila

import (
	"errors"
	"fmt"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/models"
	"gorm.io/gorm"
)

// ErrConflitoConcorrencia indica que outra exportação processou parte dos
// itens entre a leitura e a marcação — a atualização condicionada por status
// afetou menos linhas do que o esperado.
var ErrConflitoConcorrencia = errors.New("itens da fila já processados por outra exportação")

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Enfileirar insere um item pendente ou, se já existir item pendente com a
// mesma chave natural, atualiza quantidade, datas e protocolo no lugar.
// Chamadas repetidas para a mesma mudança lógica são idempotentes.
func (r *Repository) Enfileirar(item *FilaAgendamentoSendas) (*FilaAgendamentoSendas, error) {
	var existente FilaAgendamentoSendas
	err := r.DB.
		Where("tipo_origem = ? AND documento_origem = ? AND cod_produto = ? AND pedido_cliente = ? AND status = ?",
			item.TipoOrigem, item.DocumentoOrigem, item.CodProduto, item.PedidoCliente, models.StatusPendente).
		First(&existente).Error

	if err == nil {
		existente.Quantidade = item.Quantidade
		existente.DataExpedicao = item.DataExpedicao
		existente.DataAgendamento = item.DataAgendamento
		existente.Protocolo = item.Protocolo
		existente.NomeProduto = item.NomeProduto
		existente.NumPedido = item.NumPedido
		existente.CNPJ = item.CNPJ
		if err := r.DB.Save(&existente).Error; err != nil {
			return nil, err
		}
		return &existente, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item.Status = models.StatusPendente
	if err := r.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListarPendentes devolve todos os itens pendentes, mais antigos primeiro.
func (r *Repository) ListarPendentes() ([]FilaAgendamentoSendas, error) {
	var itens []FilaAgendamentoSendas
	err := r.DB.
		Where("status = ?", models.StatusPendente).
		Order("cnpj, data_agendamento, id").
		Find(&itens).Error
	return itens, err
}

// ListarLotesPendentes agrupa os itens pendentes em lotes por
// (CNPJ, data de agendamento). O protocolo do lote vem do primeiro item.
func (r *Repository) ListarLotesPendentes() ([]Lote, error) {
	itens, err := r.ListarPendentes()
	if err != nil {
		return nil, err
	}

	var lotes []Lote
	indice := make(map[string]int)
	for _, item := range itens {
		chave := fmt.Sprintf("%s|%s", item.CNPJ, item.DataAgendamento.Format("2006-01-02"))
		i, ok := indice[chave]
		if !ok {
			lotes = append(lotes, Lote{
				CNPJ:            item.CNPJ,
				DataAgendamento: item.DataAgendamento,
				Protocolo:       item.Protocolo,
			})
			i = len(lotes) - 1
			indice[chave] = i
		}
		lotes[i].Itens = append(lotes[i].Itens, item)
	}
	return lotes, nil
}

// ListarPendentesPorProtocolo devolve os itens pendentes de um protocolo.
func (r *Repository) ListarPendentesPorProtocolo(protocolo string) ([]FilaAgendamentoSendas, error) {
	var itens []FilaAgendamentoSendas
	err := r.DB.
		Where("status = ? AND protocolo = ?", models.StatusPendente, protocolo).
		Order("cnpj, data_agendamento, id").
		Find(&itens).Error
	return itens, err
}

// MarcarProcessados transiciona para processado todos os pendentes do grupo
// (CNPJ, data de agendamento). Somente a exportação chama este método:
// processado significa "saiu em uma planilha baixada", não "foi despachado".
func (r *Repository) MarcarProcessados(cnpj string, dataAgendamento time.Time) (int64, error) {
	agora := time.Now()
	res := r.DB.Model(&FilaAgendamentoSendas{}).
		Where("cnpj = ? AND data_agendamento = ? AND status = ?", cnpj, dataAgendamento, models.StatusPendente).
		Updates(map[string]interface{}{
			"status":        models.StatusProcessado,
			"processado_em": agora,
		})
	return res.RowsAffected, res.Error
}

// MarcarProcessadosPorIDs flipa os itens informados de pendente para
// processado. A cláusula de status na condição funciona como verificação
// otimista: se outra exportação concorrente já processou algum dos IDs,
// RowsAffected fica menor que o esperado e a operação é desfeita.
func (r *Repository) MarcarProcessadosPorIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	agora := time.Now()

	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&FilaAgendamentoSendas{}).
			Where("id IN ? AND status = ?", ids, models.StatusPendente).
			Updates(map[string]interface{}{
				"status":        models.StatusProcessado,
				"processado_em": agora,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrConflitoConcorrencia
		}
		return nil
	})
}

// LimparProcessados remove itens processados há mais dias que a retenção.
func (r *Repository) LimparProcessados(retencaoDias int) (int64, error) {
	limite := time.Now().AddDate(0, 0, -retencaoDias)
	res := r.DB.
		Where("status = ? AND processado_em < ?", models.StatusProcessado, limite).
		Delete(&FilaAgendamentoSendas{})
	return res.RowsAffected, res.Error
}

// ContarPendentes devolve o total de itens aguardando exportação.
func (r *Repository) ContarPendentes() (int64, error) {
	var total int64
	err := r.DB.Model(&FilaAgendamentoSendas{}).
		Where("status = ?", models.StatusPendente).
		Count(&total).Error
	return total, err
}
