package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItensEnfileirados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fila_sendas_itens_enfileirados_total",
		Help: "Itens adicionados (ou atualizados) na fila de agendamento",
	})

	ItensProcessados = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fila_sendas_itens_processados_total",
		Help: "Itens da fila marcados como processados pela exportação",
	})

	ItensPendentes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fila_sendas_itens_pendentes",
		Help: "Itens pendentes na fila de agendamento (último ciclo do poller)",
	})

	Exportacoes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exportacao_sendas_total",
		Help: "Exportações de planilha por resultado",
	}, []string{"status"})

	CiclosPoller = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poller_sendas_ciclos_total",
		Help: "Ciclos executados pelo poller de lotes",
	})

	ErrosPoller = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poller_sendas_erros_total",
		Help: "Ciclos do poller encerrados com erro",
	})
)
