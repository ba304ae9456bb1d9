// internal/comparacao/handler.go
package comparacao

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler expõe o serviço de comparação
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

type linhaRequest struct {
	CNPJ            string  `json:"cnpj"`
	PedidoCliente   string  `json:"pedido_cliente"`
	CodProduto      string  `json:"cod_produto"`
	Quantidade      float64 `json:"quantidade"`
	DataAgendamento string  `json:"data_agendamento"` // YYYY-MM-DD
}

// Comparar trata POST /comparacao/sendas
func (h *Handler) Comparar(w http.ResponseWriter, r *http.Request) {
	var reqs []linhaRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if len(reqs) == 0 {
		http.Error(w, "Nenhuma linha para comparar", http.StatusBadRequest)
		return
	}

	solicitacoes := make([]Solicitacao, 0, len(reqs))
	for _, req := range reqs {
		var dataAgendamento time.Time
		if req.DataAgendamento != "" {
			var err error
			dataAgendamento, err = time.Parse("2006-01-02", req.DataAgendamento)
			if err != nil {
				http.Error(w, "Campo 'data_agendamento' inválido (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
		}
		solicitacoes = append(solicitacoes, Solicitacao{
			CNPJ:            req.CNPJ,
			PedidoCliente:   req.PedidoCliente,
			CodProduto:      req.CodProduto,
			Quantidade:      req.Quantidade,
			DataAgendamento: dataAgendamento,
		})
	}

	resultados, err := h.Service.Comparar(solicitacoes)
	if err != nil {
		http.Error(w, "Erro ao comparar com a planilha modelo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultados)
}
