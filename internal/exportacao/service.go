// internal/exportacao/service.go
package exportacao

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SistemaFretes/api-agendamento/internal/depara"
	"github.com/SistemaFretes/api-agendamento/internal/fila"
	"github.com/SistemaFretes/api-agendamento/internal/models"
	"github.com/SistemaFretes/api-agendamento/internal/planilha"
	"github.com/SistemaFretes/api-agendamento/internal/produto"
	"github.com/SistemaFretes/api-agendamento/pkg/metrics"
	"github.com/xuri/excelize/v2"
)

// ErrFilialDeParaAusente aborta a exportação inteira: a planilha é montada
// por filial e um grupo sem resolução quebraria a consistência das linhas já
// escritas no mesmo arquivo.
var ErrFilialDeParaAusente = errors.New("de-para de filial ausente para exportação")

// Cabeçalho fixo de 22 colunas exigido pelo portal; a última coluna carrega o
// protocolo do lote.
var cabecalhoExportacao = []string{
	"Demanda",
	"Razão Social",
	"CNPJ",
	"Unidade de destino",
	"Código do pedido Cliente",
	"Código do produto Cliente",
	"Descrição do item",
	"Código SKU",
	"Código EAN",
	"Quantidade total",
	"Saldo disponível",
	"Quantidade a agendar",
	"Unidade de medida",
	"Peso bruto total (kg)",
	"Tipo de origem",
	"Documento de origem",
	"Pedido interno",
	"Data de expedição",
	"Data de agendamento",
	"Tipo de carga",
	"Característica do veículo",
	"Observação/Fornecedor",
}

// Notificador avisa o time de cadastro quando um de-para está bloqueando a
// exportação. Implementado pelo webhook de alertas; pode ser nil.
type Notificador interface {
	AlertarFilialAusente(cnpj string)
}

// Service regenera a planilha de agendamento do portal a partir da fila.
// Marcar itens como processados é atribuição exclusiva deste serviço, e só
// depois do arquivo pronto: processado significa "saiu em uma planilha que o
// usuário baixou".
type Service struct {
	filaRepo     *fila.Repository
	planilhaRepo *planilha.Repository
	produtoRepo  *produto.Repository
	cache        *depara.Cache
	notificador  Notificador
	razaoSocial  string
}

func NewService(filaRepo *fila.Repository, planilhaRepo *planilha.Repository, produtoRepo *produto.Repository, cache *depara.Cache, notificador Notificador, razaoSocial string) *Service {
	return &Service{
		filaRepo:     filaRepo,
		planilhaRepo: planilhaRepo,
		produtoRepo:  produtoRepo,
		cache:        cache,
		notificador:  notificador,
		razaoSocial:  razaoSocial,
	}
}

// Exportar monta a planilha do protocolo informado, ou de todos os itens
// pendentes quando protocolo é vazio. Devolve o arquivo, uma mensagem para o
// usuário e o erro.
func (s *Service) Exportar(protocolo string) (*bytes.Buffer, string, error) {
	var itens []fila.FilaAgendamentoSendas
	var err error
	if protocolo != "" {
		itens, err = s.filaRepo.ListarPendentesPorProtocolo(protocolo)
	} else {
		itens, err = s.filaRepo.ListarPendentes()
	}
	if err != nil {
		metrics.Exportacoes.WithLabelValues("erro").Inc()
		return nil, "", err
	}
	if len(itens) == 0 {
		metrics.Exportacoes.WithLabelValues("vazio").Inc()
		return nil, "Nenhum item pendente para exportar", nil
	}

	grupos, ordem := agruparPorProtocolo(itens)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, rotulo := range cabecalhoExportacao {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, rotulo)
	}

	linhaAtual := 2
	var exportados []uint
	for demanda, proto := range ordem {
		grupo := grupos[proto]

		linhaAtual, err = s.escreverGrupo(f, sheet, linhaAtual, demanda+1, proto, grupo)
		if err != nil {
			metrics.Exportacoes.WithLabelValues("erro").Inc()
			return nil, "", err
		}
		for _, item := range grupo {
			exportados = append(exportados, item.ID)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		metrics.Exportacoes.WithLabelValues("erro").Inc()
		return nil, "", err
	}

	// Só agora, com o arquivo pronto, os itens saem de pendente
	if err := s.filaRepo.MarcarProcessadosPorIDs(exportados); err != nil {
		metrics.Exportacoes.WithLabelValues("erro").Inc()
		return nil, "", err
	}
	metrics.ItensProcessados.Add(float64(len(exportados)))
	metrics.Exportacoes.WithLabelValues("sucesso").Inc()
	slog.Info("exportação concluída", "itens", len(exportados), "protocolos", len(ordem))

	return buf, fmt.Sprintf("%d itens exportados em %d protocolos", len(exportados), len(ordem)), nil
}

// escreverGrupo escreve todas as linhas de um protocolo e devolve a próxima
// linha livre da planilha.
func (s *Service) escreverGrupo(f *excelize.File, sheet string, linha, demanda int, protocolo string, grupo []fila.FilaAgendamentoSendas) (int, error) {
	cnpj := grupo[0].CNPJ

	nomeFallback, err := s.planilhaRepo.NomeDestinoPorPedido(grupo[0].PedidoCliente)
	if err != nil {
		return linha, err
	}
	codigoFilial, err := s.cache.BuscarCodigoFilial(cnpj, nomeFallback)
	if errors.Is(err, depara.ErrFilialNaoEncontrada) {
		if s.notificador != nil {
			s.notificador.AlertarFilialAusente(cnpj)
		}
		slog.Error("exportação abortada: de-para de filial ausente", "cnpj", cnpj, "protocolo", protocolo)
		return linha, fmt.Errorf("%w: CNPJ %s", ErrFilialDeParaAusente, cnpj)
	}
	if err != nil {
		return linha, err
	}

	pesoTotal, err := s.pesoTotalDoGrupo(grupo)
	if err != nil {
		return linha, err
	}
	veiculo := EscolherVeiculo(pesoTotal)

	for _, item := range grupo {
		codigoSendas, err := s.cache.BuscarCodigoProduto(cnpj, item.CodProduto)
		if err != nil {
			return linha, err
		}
		if codigoSendas == "" {
			codigoSendas = item.CodProduto
		}

		// Linha específica do espelho; qualquer linha da filial serve de
		// fallback para manter as colunas estruturais preenchidas
		linhaModelo, err := s.planilhaRepo.BuscarLinha(codigoFilial, item.PedidoCliente, codigoSendas)
		if err != nil {
			return linha, err
		}
		if linhaModelo == nil {
			linhaModelo, err = s.planilhaRepo.QualquerLinhaDoDestino(codigoFilial)
			if err != nil {
				return linha, err
			}
		}

		cadastro, err := s.produtoRepo.BuscarPorCodigo(item.CodProduto)
		if err != nil {
			return linha, err
		}

		if err := s.escreverLinha(f, sheet, linha, demanda, codigoFilial, veiculo, protocolo, pesoTotal, item, codigoSendas, linhaModelo, cadastro); err != nil {
			return linha, err
		}
		linha++
	}
	return linha, nil
}

func (s *Service) escreverLinha(f *excelize.File, sheet string, linha, demanda int, codigoFilial, veiculo, protocolo string, pesoTotal float64, item fila.FilaAgendamentoSendas, codigoSendas string, linhaModelo *planilha.PlanilhaModeloSendas, cadastro *produto.Produto) error {
	set := func(col int, valor interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, linha)
		_ = f.SetCellValue(sheet, cell, valor)
	}

	var descricao, unidade string
	var qtdTotal, saldo float64
	if linhaModelo != nil {
		descricao = linhaModelo.DescricaoItem
		unidade = linhaModelo.UnidadeMedida
		qtdTotal = linhaModelo.QuantidadeTotal
		saldo = linhaModelo.SaldoDisponivel
	}
	var sku, ean string
	if cadastro != nil {
		sku = cadastro.SKU
		ean = cadastro.EAN
		if descricao == "" {
			descricao = cadastro.Nome
		}
		if unidade == "" {
			unidade = cadastro.UnidadeMedida
		}
	}
	if descricao == "" {
		descricao = item.NomeProduto
	}

	var dataExpedicao string
	if !item.DataExpedicao.IsZero() {
		dataExpedicao = item.DataExpedicao.Format(models.FormatoDataBR)
	}

	set(1, demanda)
	set(2, s.razaoSocial)
	set(3, item.CNPJ)
	set(4, codigoFilial)
	set(5, item.PedidoCliente)
	set(6, codigoSendas)
	set(7, descricao)
	set(8, sku)
	set(9, ean)
	set(10, qtdTotal)
	set(11, saldo)
	set(12, item.Quantidade)
	set(13, unidade)
	set(14, pesoTotal)
	set(15, item.TipoOrigem)
	set(16, item.DocumentoOrigem)
	set(17, item.NumPedido)
	set(18, dataExpedicao)
	set(19, item.DataAgendamento.Format(models.FormatoDataBR))
	set(20, "Paletizada")
	set(21, veiculo)
	set(22, protocolo)
	return nil
}

func (s *Service) pesoTotalDoGrupo(grupo []fila.FilaAgendamentoSendas) (float64, error) {
	var total float64
	for _, item := range grupo {
		p, err := s.produtoRepo.BuscarPorCodigo(item.CodProduto)
		if err != nil {
			return 0, err
		}
		if p != nil {
			total += item.Quantidade * p.PesoBruto
		}
	}
	return total, nil
}

// agruparPorProtocolo preserva a ordem em que os protocolos aparecem na
// fila; a sequência de Demanda é numerada nessa ordem.
func agruparPorProtocolo(itens []fila.FilaAgendamentoSendas) (map[string][]fila.FilaAgendamentoSendas, []string) {
	grupos := make(map[string][]fila.FilaAgendamentoSendas)
	var ordem []string
	for _, item := range itens {
		if _, ok := grupos[item.Protocolo]; !ok {
			ordem = append(ordem, item.Protocolo)
		}
		grupos[item.Protocolo] = append(grupos[item.Protocolo], item)
	}
	return grupos, ordem
}
