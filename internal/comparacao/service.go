// internal/comparacao/service.go
package comparacao

import (
	"errors"
	"log/slog"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/depara"
	"github.com/SistemaFretes/api-agendamento/internal/planilha"
)

// Resultado por linha solicitada.
const (
	MatchExato         = "exato"
	MatchNaoEncontrado = "nao_encontrado"
)

// Solicitacao é uma linha que o usuário quer agendar.
type Solicitacao struct {
	CNPJ            string    `json:"cnpj"`
	PedidoCliente   string    `json:"pedido_cliente"`
	CodProduto      string    `json:"cod_produto"`
	Quantidade      float64   `json:"quantidade"`
	DataAgendamento time.Time `json:"data_agendamento"`
}

// Linha é o veredito de uma solicitação contra a planilha modelo.
type Linha struct {
	Solicitacao   Solicitacao                    `json:"solicitacao"`
	CodigoSendas  string                         `json:"codigoSendas"`
	Match         string                         `json:"match"` // exato | nao_encontrado
	PodeAgendar   bool                           `json:"podeAgendar"`
	LinhaPlanilha *planilha.PlanilhaModeloSendas `json:"linhaPlanilha,omitempty"`
}

// Alternativa é uma linha da filial oferecida quando nem tudo casou. Quando
// corresponde a uma linha solicitada, Solicitada aponta o índice dela para o
// pré-preenchimento da tela.
type Alternativa struct {
	Linha       planilha.PlanilhaModeloSendas `json:"linha"`
	Solicitada  bool                          `json:"solicitada"`
	IndiceLinha int                           `json:"indiceLinha"` // -1 quando é alternativa pura
}

// Resultado agrupa o veredito de todas as linhas de um CNPJ.
type Resultado struct {
	CodigoFilial       string        `json:"codigoFilial"`
	Linhas             []Linha       `json:"linhas"`
	AlternativasFilial []Alternativa `json:"alternativasFilial,omitempty"`
	TodosTemMatch100   bool          `json:"todosTemMatch100"`
	Erro               string        `json:"erro,omitempty"`
}

// Service compara solicitações de agendamento com a planilha modelo. A falha
// de de-para de filial aborta apenas o grupo daquele CNPJ; os demais seguem.
type Service struct {
	cache        *depara.Cache
	planilhaRepo *planilha.Repository
}

func NewService(cache *depara.Cache, planilhaRepo *planilha.Repository) *Service {
	return &Service{cache: cache, planilhaRepo: planilhaRepo}
}

// Comparar agrupa as solicitações por CNPJ e resolve cada grupo.
func (s *Service) Comparar(solicitacoes []Solicitacao) (map[string]*Resultado, error) {
	grupos := make(map[string][]Solicitacao)
	var ordem []string
	for _, sol := range solicitacoes {
		if _, ok := grupos[sol.CNPJ]; !ok {
			ordem = append(ordem, sol.CNPJ)
		}
		grupos[sol.CNPJ] = append(grupos[sol.CNPJ], sol)
	}

	resultados := make(map[string]*Resultado, len(grupos))
	for _, cnpj := range ordem {
		resultado, err := s.compararGrupo(cnpj, grupos[cnpj])
		if err != nil {
			return nil, err
		}
		resultados[cnpj] = resultado
	}
	return resultados, nil
}

func (s *Service) compararGrupo(cnpj string, grupo []Solicitacao) (*Resultado, error) {
	// O destino da primeira linha solicitada serve de dica para o fallback
	// de filial: o rótulo na planilha do portal nem sempre bate com o nosso
	nomeFallback, err := s.planilhaRepo.NomeDestinoPorPedido(grupo[0].PedidoCliente)
	if err != nil {
		return nil, err
	}

	codigoFilial, err := s.cache.BuscarCodigoFilial(cnpj, nomeFallback)
	if errors.Is(err, depara.ErrFilialNaoEncontrada) {
		slog.Warn("comparação abortada para o grupo: de-para de filial ausente", "cnpj", cnpj)
		return &Resultado{
			Erro: "de-para de filial não encontrado para o CNPJ " + cnpj,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	resultado := &Resultado{CodigoFilial: codigoFilial, TodosTemMatch100: true}

	for _, sol := range grupo {
		codigoSendas, err := s.cache.BuscarCodigoProduto(cnpj, sol.CodProduto)
		if err != nil {
			return nil, err
		}
		if codigoSendas == "" {
			// O portal tolera código desconhecido; segue com o interno
			codigoSendas = sol.CodProduto
		}

		linhaPlanilha, err := s.planilhaRepo.BuscarLinha(codigoFilial, sol.PedidoCliente, codigoSendas)
		if err != nil {
			return nil, err
		}

		linha := Linha{
			Solicitacao:  sol,
			CodigoSendas: codigoSendas,
			PodeAgendar:  true,
		}
		if linhaPlanilha != nil {
			linha.Match = MatchExato
			linha.LinhaPlanilha = linhaPlanilha
		} else {
			// Não casar é aviso, não rejeição: o portal aceita linhas que
			// não consegue verificar
			linha.Match = MatchNaoEncontrado
			resultado.TodosTemMatch100 = false
		}
		resultado.Linhas = append(resultado.Linhas, linha)
	}

	if !resultado.TodosTemMatch100 {
		alternativas, err := s.listarAlternativas(codigoFilial, resultado.Linhas)
		if err != nil {
			return nil, err
		}
		resultado.AlternativasFilial = alternativas
	}
	return resultado, nil
}

// listarAlternativas devolve todas as linhas da filial com saldo, anotando
// quais correspondem a linhas solicitadas e quais são alternativas puras.
func (s *Service) listarAlternativas(codigoFilial string, linhas []Linha) ([]Alternativa, error) {
	disponiveis, err := s.planilhaRepo.ListarPorDestino(codigoFilial)
	if err != nil {
		return nil, err
	}

	alternativas := make([]Alternativa, 0, len(disponiveis))
	for _, disp := range disponiveis {
		alt := Alternativa{Linha: disp, IndiceLinha: -1}
		for i, l := range linhas {
			if l.LinhaPlanilha != nil && l.LinhaPlanilha.ID == disp.ID {
				alt.Solicitada = true
				alt.IndiceLinha = i
				break
			}
		}
		alternativas = append(alternativas, alt)
	}
	return alternativas, nil
}
