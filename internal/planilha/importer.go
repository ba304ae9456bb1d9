// internal/planilha/importer.go
package planilha

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LinhaCabecalho é o índice (base zero) da linha de cabeçalho na planilha
// modelo do portal; as três primeiras linhas carregam logotipo e instruções.
const LinhaCabecalho = 3

// Rótulos de coluna esperados na planilha modelo.
const (
	ColDestino        = "Unidade de destino"
	ColPedidoCliente  = "Código do pedido Cliente"
	ColProdutoCliente = "Código do produto Cliente"
	ColDescricao      = "Descrição do item"
	ColQtdTotal       = "Quantidade total"
	ColSaldo          = "Saldo disponível"
	ColUnidade        = "Unidade de medida"
)

var colunasEsperadas = []string{
	ColDestino,
	ColPedidoCliente,
	ColProdutoCliente,
	ColDescricao,
	ColQtdTotal,
	ColSaldo,
	ColUnidade,
}

// RelatorioSchema lista as divergências entre o cabeçalho recebido e o
// esperado. Colunas faltantes abortam a importação antes de qualquer linha
// ser processada — melhor falhar aqui do que descobrir célula em branco na
// exportação.
type RelatorioSchema struct {
	Faltantes   []string `json:"faltantes"`
	Inesperadas []string `json:"inesperadas"`
}

func (rel *RelatorioSchema) Valido() bool {
	return len(rel.Faltantes) == 0
}

// ErrSchemaInvalido acompanha um RelatorioSchema com colunas faltantes.
var ErrSchemaInvalido = errors.New("planilha modelo com colunas faltantes")

// Importer lê a planilha modelo do portal e recarrega o espelho relacional.
type Importer struct {
	Repository *Repository
}

func NewImporter(repo *Repository) *Importer {
	return &Importer{Repository: repo}
}

// Importar valida o cabeçalho e substitui a carga. Devolve o relatório de
// schema em qualquer caso; com colunas faltantes o erro é ErrSchemaInvalido e
// nada é gravado.
func (imp *Importer) Importar(arquivo io.Reader) (int, *RelatorioSchema, error) {
	f, err := excelize.OpenReader(arquivo)
	if err != nil {
		return 0, nil, fmt.Errorf("abrindo planilha: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, nil, errors.New("planilha vazia")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, nil, fmt.Errorf("lendo linhas: %w", err)
	}
	if len(rows) <= LinhaCabecalho {
		return 0, nil, errors.New("planilha sem linha de cabeçalho")
	}

	colunas, relatorio := mapearCabecalho(rows[LinhaCabecalho])
	if !relatorio.Valido() {
		return 0, relatorio, ErrSchemaInvalido
	}

	var linhas []PlanilhaModeloSendas
	for _, row := range rows[LinhaCabecalho+1:] {
		valor := func(rotulo string) string {
			col, ok := colunas[rotulo]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		destino := valor(ColDestino)
		pedido := valor(ColPedidoCliente)
		if destino == "" && pedido == "" {
			continue // linha em branco ao fim da planilha
		}

		linhas = append(linhas, PlanilhaModeloSendas{
			Destino:              destino,
			CodigoPedidoCliente:  pedido,
			CodigoProdutoCliente: valor(ColProdutoCliente),
			DescricaoItem:        valor(ColDescricao),
			QuantidadeTotal:      parseFloat(valor(ColQtdTotal)),
			SaldoDisponivel:      parseFloat(valor(ColSaldo)),
			UnidadeMedida:        valor(ColUnidade),
		})
	}

	if err := imp.Repository.SubstituirTudo(linhas); err != nil {
		return 0, relatorio, err
	}
	return len(linhas), relatorio, nil
}

func mapearCabecalho(header []string) (map[string]int, *RelatorioSchema) {
	colunas := make(map[string]int)
	relatorio := &RelatorioSchema{Faltantes: []string{}, Inesperadas: []string{}}

	esperadas := make(map[string]bool, len(colunasEsperadas))
	for _, rotulo := range colunasEsperadas {
		esperadas[rotulo] = true
	}

	for i, celula := range header {
		rotulo := strings.TrimSpace(celula)
		if rotulo == "" {
			continue
		}
		if esperadas[rotulo] {
			colunas[rotulo] = i
		} else {
			relatorio.Inesperadas = append(relatorio.Inesperadas, rotulo)
		}
	}

	for _, rotulo := range colunasEsperadas {
		if _, ok := colunas[rotulo]; !ok {
			relatorio.Faltantes = append(relatorio.Faltantes, rotulo)
		}
	}
	return colunas, relatorio
}

// parseFloat aceita tanto ponto quanto vírgula decimal, como o portal exporta.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	virgula := strings.LastIndex(s, ",")
	ponto := strings.LastIndex(s, ".")
	if virgula > ponto {
		// Formato brasileiro: "1.234,5" -> "1234.5"
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	} else if virgula >= 0 {
		// Vírgula como separador de milhar: "1,234.5" -> "1234.5"
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
