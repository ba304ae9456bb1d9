package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/SistemaFretes/api-agendamento/internal/comparacao"
	"github.com/SistemaFretes/api-agendamento/internal/config"
	"github.com/SistemaFretes/api-agendamento/internal/depara"
	"github.com/SistemaFretes/api-agendamento/internal/exportacao"
	"github.com/SistemaFretes/api-agendamento/internal/fila"
	"github.com/SistemaFretes/api-agendamento/internal/notificacao"
	"github.com/SistemaFretes/api-agendamento/internal/planilha"
	"github.com/SistemaFretes/api-agendamento/internal/poller"
	"github.com/SistemaFretes/api-agendamento/internal/produto"
	"github.com/SistemaFretes/api-agendamento/internal/utils/db"
	"github.com/SistemaFretes/api-agendamento/pkg/infra"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg)
	slog.SetDefault(logger)

	database, err := db.GetDB(cfg)
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := database.AutoMigrate(
		&fila.FilaAgendamentoSendas{},
		&depara.ProdutoDeParaSendas{},
		&depara.FilialDeParaSendas{},
		&planilha.PlanilhaModeloSendas{},
		&produto.Produto{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Repositórios e serviços compartilhados
	filaRepo := fila.NewRepository(database)
	deparaRepo := depara.NewRepository(database)
	planilhaRepo := planilha.NewRepository(database)
	produtoRepo := produto.NewRepository(database)
	deparaCache := depara.NewCache(deparaRepo)
	webhook := notificacao.NewWebhook(cfg.WebhookAlertaURL)

	comparacaoService := comparacao.NewService(deparaCache, planilhaRepo)
	exportacaoService := exportacao.NewService(filaRepo, planilhaRepo, produtoRepo, deparaCache, webhook, cfg.RazaoSocial)

	// Handlers
	filaHandler := fila.NewHandler(database, cfg.RetencaoFilaDias)
	deparaHandler := depara.NewHandler(database, deparaCache)
	planilhaHandler := planilha.NewHandler(database)
	produtoHandler := produto.NewHandler(database)
	comparacaoHandler := comparacao.NewHandler(comparacaoService)
	exportacaoHandler := exportacao.NewHandler(exportacaoService)

	// Router
	r := mux.NewRouter()

	// Rotas da fila de agendamento
	r.HandleFunc("/fila/sendas", filaHandler.Adicionar).Methods("POST")
	r.HandleFunc("/fila/sendas", filaHandler.ListarPendentes).Methods("GET")
	r.HandleFunc("/fila/sendas/processar", filaHandler.MarcarLote).Methods("POST")
	r.HandleFunc("/fila/sendas/limpeza", filaHandler.Limpeza).Methods("POST")

	// Rotas de de-para
	r.HandleFunc("/depara/produtos/importar", deparaHandler.ImportarProdutos).Methods("POST")
	r.HandleFunc("/depara/produtos", deparaHandler.ListarProdutos).Methods("GET")
	r.HandleFunc("/depara/produtos/{id}", deparaHandler.DesativarProduto).Methods("DELETE")
	r.HandleFunc("/depara/filiais/importar", deparaHandler.ImportarFiliais).Methods("POST")
	r.HandleFunc("/depara/filiais", deparaHandler.ListarFiliais).Methods("GET")

	// Rotas da planilha modelo
	r.HandleFunc("/planilha-modelo/importar", planilhaHandler.Importar).Methods("POST")
	r.HandleFunc("/planilha-modelo", planilhaHandler.Listar).Methods("GET")

	// Rotas do cadastro de produtos
	r.HandleFunc("/produtos", produtoHandler.Salvar).Methods("POST")
	r.HandleFunc("/produtos", produtoHandler.Listar).Methods("GET")

	// Comparação e exportação
	r.HandleFunc("/comparacao/sendas", comparacaoHandler.Comparar).Methods("POST")
	r.HandleFunc("/exportacao/sendas", exportacaoHandler.Exportar).Methods("POST")

	// Métricas
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Poller de lotes em segundo plano
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.PollerHabilitado {
		p := poller.New(filaRepo, comparacaoService, cfg.PollerIntervalo)
		go p.Run(ctx)
	}

	handler := cors.AllowAll().Handler(r)

	// Inicia servidor
	slog.Info("servidor iniciado", "porta", cfg.Porta)
	log.Fatal(http.ListenAndServe(":"+cfg.Porta, handler))
}
