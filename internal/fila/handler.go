// internal/fila/handler.go
package fila

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/models"
	"github.com/SistemaFretes/api-agendamento/internal/protocolo"
	"github.com/SistemaFretes/api-agendamento/pkg/metrics"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB           *gorm.DB
	Repository   *Repository
	RetencaoDias int
}

func NewHandler(db *gorm.DB, retencaoDias int) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(db),
		RetencaoDias: retencaoDias,
	}
}

type adicionarItemRequest struct {
	TipoOrigem      string  `json:"tipo_origem"`
	DocumentoOrigem string  `json:"documento_origem"`
	CNPJ            string  `json:"cnpj"`
	NumPedido       string  `json:"num_pedido"`
	PedidoCliente   string  `json:"pedido_cliente"`
	CodProduto      string  `json:"cod_produto"`
	NomeProduto     string  `json:"nome_produto"`
	Quantidade      float64 `json:"quantidade"`
	DataExpedicao   string  `json:"data_expedicao"`   // YYYY-MM-DD
	DataAgendamento string  `json:"data_agendamento"` // YYYY-MM-DD
}

// Adicionar trata POST /fila/sendas
func (h *Handler) Adicionar(w http.ResponseWriter, r *http.Request) {
	var req adicionarItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.CNPJ) == "" || strings.TrimSpace(req.CodProduto) == "" {
		http.Error(w, "Os campos 'cnpj' e 'cod_produto' são obrigatórios", http.StatusBadRequest)
		return
	}
	if req.Quantidade <= 0 {
		http.Error(w, "O campo 'quantidade' deve ser maior que zero", http.StatusBadRequest)
		return
	}

	dataAgendamento, err := time.Parse("2006-01-02", req.DataAgendamento)
	if err != nil {
		http.Error(w, "Campo 'data_agendamento' inválido (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	var dataExpedicao time.Time
	if req.DataExpedicao != "" {
		dataExpedicao, err = time.Parse("2006-01-02", req.DataExpedicao)
		if err != nil {
			http.Error(w, "Campo 'data_expedicao' inválido (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
	}

	token, err := protocolo.GerarProtocolo(req.CNPJ, dataAgendamento, time.Now())
	if err != nil {
		http.Error(w, "CNPJ inválido para geração de protocolo: "+token, http.StatusBadRequest)
		return
	}

	tipoOrigem := req.TipoOrigem
	if tipoOrigem == "" {
		tipoOrigem = models.OrigemPedido
	}

	item := &FilaAgendamentoSendas{
		TipoOrigem:      tipoOrigem,
		DocumentoOrigem: req.DocumentoOrigem,
		CNPJ:            req.CNPJ,
		NumPedido:       req.NumPedido,
		PedidoCliente:   req.PedidoCliente,
		CodProduto:      req.CodProduto,
		NomeProduto:     req.NomeProduto,
		Quantidade:      req.Quantidade,
		DataExpedicao:   dataExpedicao,
		DataAgendamento: dataAgendamento,
		Protocolo:       token,
	}

	salvo, err := h.Repository.Enfileirar(item)
	if err != nil {
		http.Error(w, "Erro ao adicionar item à fila", http.StatusInternalServerError)
		return
	}
	metrics.ItensEnfileirados.Inc()
	slog.Info("item enfileirado", "protocolo", salvo.Protocolo, "produto", salvo.CodProduto)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(salvo)
}

// ListarPendentes trata GET /fila/sendas
func (h *Handler) ListarPendentes(w http.ResponseWriter, r *http.Request) {
	lotes, err := h.Repository.ListarLotesPendentes()
	if err != nil {
		http.Error(w, "Erro ao listar a fila", http.StatusInternalServerError)
		return
	}
	if lotes == nil {
		lotes = []Lote{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lotes)
}

type marcarLoteRequest struct {
	CNPJ            string `json:"cnpj"`
	DataAgendamento string `json:"data_agendamento"` // YYYY-MM-DD
}

// MarcarLote trata POST /fila/sendas/processar. Marca como processado o lote
// inteiro de (CNPJ, data de agendamento) — usado quando o agendamento foi
// feito direto no portal e a planilha não precisa ser gerada por aqui.
func (h *Handler) MarcarLote(w http.ResponseWriter, r *http.Request) {
	var req marcarLoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CNPJ) == "" {
		http.Error(w, "O campo 'cnpj' é obrigatório", http.StatusBadRequest)
		return
	}
	dataAgendamento, err := time.Parse("2006-01-02", req.DataAgendamento)
	if err != nil {
		http.Error(w, "Campo 'data_agendamento' inválido (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	processados, err := h.Repository.MarcarProcessados(req.CNPJ, dataAgendamento)
	if err != nil {
		http.Error(w, "Erro ao marcar lote como processado", http.StatusInternalServerError)
		return
	}
	metrics.ItensProcessados.Add(float64(processados))
	slog.Info("lote marcado como processado manualmente", "cnpj", req.CNPJ, "itens", processados)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int64{"processados": processados})
}

// Limpeza trata POST /fila/sendas/limpeza
func (h *Handler) Limpeza(w http.ResponseWriter, r *http.Request) {
	removidos, err := h.Repository.LimparProcessados(h.RetencaoDias)
	if err != nil {
		http.Error(w, "Erro ao limpar itens processados", http.StatusInternalServerError)
		return
	}
	slog.Info("limpeza da fila executada", "removidos", removidos, "retencao_dias", h.RetencaoDias)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"removidos":     removidos,
		"retencao_dias": h.RetencaoDias,
	})
}
