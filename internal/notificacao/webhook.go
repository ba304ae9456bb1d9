package notificacao

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Webhook envia alertas operacionais para o canal do time de cadastro.
// Com URL vazia os alertas são apenas logados.
type Webhook struct {
	URL string
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url}
}

// AlertarFilialAusente avisa que uma exportação foi bloqueada por falta de
// de-para de filial. Envio fire-and-forget: falha de entrega não interrompe
// o fluxo que disparou o alerta.
func (wh *Webhook) AlertarFilialAusente(cnpj string) {
	if wh.URL == "" {
		slog.Warn("alerta de de-para ausente (webhook desabilitado)", "cnpj", cnpj)
		return
	}

	payload := map[string]string{
		"mensagem": "Alerta: exportação de agendamento bloqueada por de-para de filial ausente",
		"cnpj":     cnpj,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(wh.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		slog.Error("erro ao enviar webhook de alerta", "erro", err)
		return
	}
	defer resp.Body.Close()
}
