// internal/exportacao/handler.go
package exportacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Handler expõe o serviço de exportação
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// Exportar trata POST /exportacao/sendas. Aceita o query param opcional
// 'protocolo'; sem ele, exporta todos os itens pendentes.
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	protocolo := r.URL.Query().Get("protocolo")

	buf, mensagem, err := h.Service.Exportar(protocolo)
	if errors.Is(err, ErrFilialDeParaAusente) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"erro": err.Error()})
		return
	}
	if err != nil {
		http.Error(w, "Erro ao gerar a planilha de agendamento", http.StatusInternalServerError)
		return
	}
	if buf == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"erro": mensagem})
		return
	}

	nome := "agendamento_sendas_" + time.Now().Format("20060102_150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+nome)
	_, _ = w.Write(buf.Bytes())
}
