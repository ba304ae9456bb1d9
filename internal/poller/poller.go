// internal/poller/poller.go
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/comparacao"
	"github.com/SistemaFretes/api-agendamento/internal/fila"
	"github.com/SistemaFretes/api-agendamento/pkg/infra"
	"github.com/SistemaFretes/api-agendamento/pkg/metrics"
)

// Poller forma lotes pendentes em intervalo fixo e roda a comparação como
// pré-checagem de prontidão. Ele nunca marca itens como processados: essa
// autoridade é exclusiva do endpoint de exportação, porque processado
// significa "saiu em uma planilha baixada", não "foi despachado em segundo
// plano".
//
// Falhas de banco em ciclos consecutivos esticam a espera exponencialmente
// até dez vezes o intervalo; o primeiro ciclo bem-sucedido volta à cadência
// normal.
type Poller struct {
	filaRepo   *fila.Repository
	comparador *comparacao.Service
	intervalo  time.Duration
	backoff    *infra.Backoff
}

func New(filaRepo *fila.Repository, comparador *comparacao.Service, intervalo time.Duration) *Poller {
	return &Poller{
		filaRepo:   filaRepo,
		comparador: comparador,
		intervalo:  intervalo,
		backoff:    infra.NewBackoff(intervalo, 10*intervalo, 2),
	}
}

// Run executa ciclos até o contexto ser cancelado.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(p.intervalo)
	defer timer.Stop()

	slog.Info("poller de lotes iniciado", "intervalo", p.intervalo)
	for {
		select {
		case <-ctx.Done():
			slog.Info("poller de lotes encerrado")
			return
		case <-timer.C:
			if err := p.ciclo(); err != nil {
				espera := p.backoff.Proximo()
				slog.Warn("poller: banco indisponível, esticando a espera", "erro", err, "proxima_tentativa", espera)
				timer.Reset(espera)
				continue
			}
			p.backoff.Zerar()
			timer.Reset(p.intervalo)
		}
	}
}

func (p *Poller) ciclo() error {
	metrics.CiclosPoller.Inc()

	lotes, err := p.filaRepo.ListarLotesPendentes()
	if err != nil {
		metrics.ErrosPoller.Inc()
		slog.Error("poller: erro ao listar lotes pendentes", "erro", err)
		return err
	}

	pendentes, err := p.filaRepo.ContarPendentes()
	if err != nil {
		metrics.ErrosPoller.Inc()
		slog.Error("poller: erro ao contar itens pendentes", "erro", err)
		return err
	}
	metrics.ItensPendentes.Set(float64(pendentes))

	for _, lote := range lotes {
		solicitacoes := make([]comparacao.Solicitacao, 0, len(lote.Itens))
		for _, item := range lote.Itens {
			solicitacoes = append(solicitacoes, comparacao.Solicitacao{
				CNPJ:            item.CNPJ,
				PedidoCliente:   item.PedidoCliente,
				CodProduto:      item.CodProduto,
				Quantidade:      item.Quantidade,
				DataAgendamento: item.DataAgendamento,
			})
		}

		resultados, err := p.comparador.Comparar(solicitacoes)
		if err != nil {
			metrics.ErrosPoller.Inc()
			slog.Error("poller: erro na pré-checagem do lote", "protocolo", lote.Protocolo, "erro", err)
			continue
		}

		resultado := resultados[lote.CNPJ]
		if resultado == nil {
			continue
		}
		if resultado.Erro != "" {
			slog.Warn("poller: lote bloqueado por de-para", "protocolo", lote.Protocolo, "erro", resultado.Erro)
			continue
		}
		slog.Info("poller: lote pronto para exportação",
			"protocolo", lote.Protocolo,
			"itens", len(lote.Itens),
			"match_100", resultado.TodosTemMatch100,
		)
	}
	return nil
}
