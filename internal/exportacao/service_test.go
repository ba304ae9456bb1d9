package exportacao

import (
	"errors"
	"testing"
	"time"

	"github.com/SistemaFretes/api-agendamento/internal/depara"
	"github.com/SistemaFretes/api-agendamento/internal/fila"
	"github.com/SistemaFretes/api-agendamento/internal/models"
	"github.com/SistemaFretes/api-agendamento/internal/planilha"
	"github.com/SistemaFretes/api-agendamento/internal/produto"
	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type alertaFake struct {
	cnpjs []string
}

func (a *alertaFake) AlertarFilialAusente(cnpj string) {
	a.cnpjs = append(a.cnpjs, cnpj)
}

type ambiente struct {
	db       *gorm.DB
	svc      *Service
	filaRepo *fila.Repository
	alertas  *alertaFake
}

func setupAmbiente(t *testing.T) *ambiente {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	if err := db.AutoMigrate(
		&fila.FilaAgendamentoSendas{},
		&depara.ProdutoDeParaSendas{},
		&depara.FilialDeParaSendas{},
		&planilha.PlanilhaModeloSendas{},
		&produto.Produto{},
	); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	filaRepo := fila.NewRepository(db)
	deparaRepo := depara.NewRepository(db)
	alertas := &alertaFake{}
	svc := NewService(
		filaRepo,
		planilha.NewRepository(db),
		produto.NewRepository(db),
		depara.NewCache(deparaRepo),
		alertas,
		"FRIGORIFICO NACOM LTDA",
	)
	return &ambiente{db: db, svc: svc, filaRepo: filaRepo, alertas: alertas}
}

func (a *ambiente) comFilial(t *testing.T, cnpj, codigo string) {
	t.Helper()
	if err := depara.NewRepository(a.db).SalvarFilial(&depara.FilialDeParaSendas{
		CNPJ:         cnpj,
		CodigoSendas: codigo,
	}); err != nil {
		t.Fatalf("SalvarFilial: %v", err)
	}
}

func (a *ambiente) comProduto(t *testing.T, codigo string, pesoBruto float64) {
	t.Helper()
	if err := produto.NewRepository(a.db).Salvar(&produto.Produto{
		Codigo:    codigo,
		Nome:      "PRODUTO " + codigo,
		SKU:       "SKU-" + codigo,
		EAN:       "789" + codigo,
		PesoBruto: pesoBruto,
	}); err != nil {
		t.Fatalf("Salvar produto: %v", err)
	}
}

func (a *ambiente) comItemNaFila(t *testing.T, cnpj, pedido, codProduto string, qtd float64, protocolo string) *fila.FilaAgendamentoSendas {
	t.Helper()
	item, err := a.filaRepo.Enfileirar(&fila.FilaAgendamentoSendas{
		TipoOrigem:      "separacao",
		DocumentoOrigem: "LOTE-" + pedido,
		CNPJ:            cnpj,
		PedidoCliente:   pedido,
		CodProduto:      codProduto,
		Quantidade:      qtd,
		DataAgendamento: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Protocolo:       protocolo,
	})
	if err != nil {
		t.Fatalf("Enfileirar: %v", err)
	}
	return item
}

func TestEscolherVeiculo(t *testing.T) {
	casos := []struct {
		pesoKg float64
		want   string
	}{
		{100, "Utilitário"},
		{800, "Utilitário"},
		{1999, "Caminhão VUC 3/4"},
		{2000, "Caminhão VUC 3/4"}, // limite inclusivo
		{2001, "Caminhão Toco 7T"},
		{12000, "Caminhão Truck 12T"},
		{25000, "Caminhão (3 eixos) 25T"},
		{25001, "Caminhão (4 eixos) 31T"},
		{99999, "Caminhão (4 eixos) 31T"}, // faixa final sem teto
	}
	for _, c := range casos {
		if got := EscolherVeiculo(c.pesoKg); got != c.want {
			t.Errorf("EscolherVeiculo(%v) = %q, want %q", c.pesoKg, got, c.want)
		}
	}
}

func TestExportar_GeraPlanilhaEMarcaProcessados(t *testing.T) {
	amb := setupAmbiente(t)
	amb.comFilial(t, "06.057.223/0233-54", "010 SAO BERNARDO")
	amb.comProduto(t, "P1", 10) // 10 kg por unidade

	item := amb.comItemNaFila(t, "06.057.223/0233-54", "4520019", "P1", 5, "AG_0233_10012025_05012025")

	buf, mensagem, err := amb.svc.Exportar("")
	if err != nil {
		t.Fatalf("Exportar() error = %v", err)
	}
	if buf == nil {
		t.Fatalf("buffer nulo, mensagem: %q", mensagem)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("abrindo planilha exportada: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("lendo planilha exportada: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("linhas na planilha = %d, want 2 (cabeçalho + item)", len(rows))
	}
	if len(rows[0]) != 22 {
		t.Errorf("colunas no cabeçalho = %d, want 22", len(rows[0]))
	}
	if rows[0][21] != "Observação/Fornecedor" {
		t.Errorf("última coluna = %q", rows[0][21])
	}

	linha := rows[1]
	if linha[0] != "1" {
		t.Errorf("Demanda = %q, want 1", linha[0])
	}
	if linha[3] != "010 SAO BERNARDO" {
		t.Errorf("Unidade de destino = %q", linha[3])
	}
	// 5 un × 10 kg = 50 kg -> Utilitário
	if linha[20] != "Utilitário" {
		t.Errorf("Característica do veículo = %q, want Utilitário", linha[20])
	}
	if linha[18] != "10/01/2025" {
		t.Errorf("Data de agendamento = %q, want 10/01/2025", linha[18])
	}
	if linha[21] != "AG_0233_10012025_05012025" {
		t.Errorf("protocolo na última coluna = %q", linha[21])
	}

	// Item precisa ter saído de pendente
	var depois fila.FilaAgendamentoSendas
	if err := amb.db.First(&depois, item.ID).Error; err != nil {
		t.Fatalf("buscando item: %v", err)
	}
	if depois.Status != models.StatusProcessado {
		t.Errorf("status = %q, want processado", depois.Status)
	}
	if depois.ProcessadoEm == nil {
		t.Error("ProcessadoEm não preenchido")
	}
}

func TestExportar_DemandaPorProtocolo(t *testing.T) {
	amb := setupAmbiente(t)
	amb.comFilial(t, "06.057.223/0233-54", "010 SAO BERNARDO")
	amb.comFilial(t, "91.222.333/0104-01", "005 OSASCO")

	amb.comItemNaFila(t, "06.057.223/0233-54", "100", "P1", 1, "AG_0233_10012025_05012025")
	amb.comItemNaFila(t, "06.057.223/0233-54", "101", "P2", 1, "AG_0233_10012025_05012025")
	amb.comItemNaFila(t, "91.222.333/0104-01", "200", "P3", 1, "AG_0104_10012025_05012025")

	buf, _, err := amb.svc.Exportar("")
	if err != nil {
		t.Fatalf("Exportar() error = %v", err)
	}

	f, _ := excelize.OpenReader(buf)
	defer f.Close()
	rows, _ := f.GetRows(f.GetSheetName(0))
	if len(rows) != 4 {
		t.Fatalf("linhas = %d, want 4", len(rows))
	}

	// Todas as linhas de um protocolo compartilham a mesma Demanda
	if rows[1][0] != "1" || rows[2][0] != "1" {
		t.Errorf("Demanda do primeiro protocolo = %q/%q, want 1/1", rows[1][0], rows[2][0])
	}
	if rows[3][0] != "2" {
		t.Errorf("Demanda do segundo protocolo = %q, want 2", rows[3][0])
	}
}

func TestExportar_FilialSemDeParaAbortaTudo(t *testing.T) {
	amb := setupAmbiente(t)
	amb.comFilial(t, "06.057.223/0233-54", "010 SAO BERNARDO")

	a := amb.comItemNaFila(t, "06.057.223/0233-54", "100", "P1", 1, "AG_0233_10012025_05012025")
	b := amb.comItemNaFila(t, "99.999.999/0001-99", "200", "P2", 1, "AG_0001_10012025_05012025")

	buf, _, err := amb.svc.Exportar("")
	if !errors.Is(err, ErrFilialDeParaAusente) {
		t.Fatalf("error = %v, want ErrFilialDeParaAusente", err)
	}
	if buf != nil {
		t.Error("não deveria produzir arquivo parcial")
	}

	// Nenhum item pode ter sido marcado, nem os do grupo que resolveria
	for _, id := range []uint{a.ID, b.ID} {
		var item fila.FilaAgendamentoSendas
		if err := amb.db.First(&item, id).Error; err != nil {
			t.Fatalf("buscando item %d: %v", id, err)
		}
		if item.Status != models.StatusPendente {
			t.Errorf("item %d status = %q, want pendente", id, item.Status)
		}
	}

	if len(amb.alertas.cnpjs) != 1 || amb.alertas.cnpjs[0] != "99.999.999/0001-99" {
		t.Errorf("alertas = %v, want [99.999.999/0001-99]", amb.alertas.cnpjs)
	}
}

func TestExportar_FilaVazia(t *testing.T) {
	amb := setupAmbiente(t)

	buf, mensagem, err := amb.svc.Exportar("")
	if err != nil {
		t.Fatalf("Exportar() error = %v", err)
	}
	if buf != nil {
		t.Error("não deveria produzir arquivo com a fila vazia")
	}
	if mensagem != "Nenhum item pendente para exportar" {
		t.Errorf("mensagem = %q", mensagem)
	}
}

func TestExportar_SomenteOProtocoloPedido(t *testing.T) {
	amb := setupAmbiente(t)
	amb.comFilial(t, "06.057.223/0233-54", "010 SAO BERNARDO")
	amb.comFilial(t, "91.222.333/0104-01", "005 OSASCO")

	amb.comItemNaFila(t, "06.057.223/0233-54", "100", "P1", 1, "AG_0233_10012025_05012025")
	outro := amb.comItemNaFila(t, "91.222.333/0104-01", "200", "P2", 1, "AG_0104_10012025_05012025")

	buf, _, err := amb.svc.Exportar("AG_0233_10012025_05012025")
	if err != nil {
		t.Fatalf("Exportar() error = %v", err)
	}

	f, _ := excelize.OpenReader(buf)
	defer f.Close()
	rows, _ := f.GetRows(f.GetSheetName(0))
	if len(rows) != 2 {
		t.Fatalf("linhas = %d, want 2", len(rows))
	}

	// O outro protocolo permanece pendente
	var item fila.FilaAgendamentoSendas
	if err := amb.db.First(&item, outro.ID).Error; err != nil {
		t.Fatalf("buscando item: %v", err)
	}
	if item.Status != models.StatusPendente {
		t.Errorf("status = %q, want pendente", item.Status)
	}
}
