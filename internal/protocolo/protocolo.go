// internal/protocolo/protocolo.go
package protocolo

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/models"
)

// ErrCNPJInvalido indica que não foi possível extrair o trecho de 4 dígitos
// do CNPJ usado na composição do protocolo.
var ErrCNPJInvalido = errors.New("cnpj curto demais para gerar protocolo")

// GerarProtocolo monta o token de lote usado para agrupar itens da fila em uma
// única planilha: AG_<4 dígitos do CNPJ>_<data agendamento>_<data geração>.
//
// O trecho do CNPJ é sempre a fatia [-7:-3] da string crua — para o formato
// "06.057.223/0233-54" isso corresponde ao número da filial ("0233"). O mesmo
// par (cnpj, data de agendamento) gerado no mesmo dia produz o mesmo
// protocolo; a colisão é proposital e serve para acumular itens no lote.
func GerarProtocolo(cnpj string, dataAgendamento, hoje time.Time) (string, error) {
	runes := []rune(cnpj)
	if len(runes) < 7 {
		token := fmt.Sprintf("AG_ERRO_%s", hoje.Format("02012006150405"))
		slog.Error("cnpj inválido ao gerar protocolo", "cnpj", cnpj, "token", token)
		return token, ErrCNPJInvalido
	}

	trecho := string(runes[len(runes)-7 : len(runes)-3])

	return fmt.Sprintf("AG_%s_%s_%s",
		trecho,
		dataAgendamento.Format(models.FormatoDataProtocolo),
		hoje.Format(models.FormatoDataProtocolo),
	), nil
}
