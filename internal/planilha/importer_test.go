package planilha

import (
	"bytes"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrindo sqlite em memória: %v", err)
	}
	if err := db.AutoMigrate(&PlanilhaModeloSendas{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

// montarPlanilha gera um .xlsx em memória com o cabeçalho na linha 4 (índice
// 3), como o portal exporta, e as linhas de dados em seguida.
func montarPlanilha(t *testing.T, cabecalho []string, dados [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	_ = f.SetCellValue(sheet, "A1", "Agendamento de Entregas")

	for i, rotulo := range cabecalho {
		cell, _ := excelize.CoordinatesToCellName(i+1, LinhaCabecalho+1)
		_ = f.SetCellValue(sheet, cell, rotulo)
	}
	for r, row := range dados {
		for c, valor := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, LinhaCabecalho+2+r)
			_ = f.SetCellValue(sheet, cell, valor)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("gerando planilha de teste: %v", err)
	}
	return buf
}

func cabecalhoCompleto() []string {
	return []string{
		ColDestino, ColPedidoCliente, ColProdutoCliente,
		ColDescricao, ColQtdTotal, ColSaldo, ColUnidade,
	}
}

func TestImportar_CargaCompleta(t *testing.T) {
	db := setupDB(t)
	imp := NewImporter(NewRepository(db))

	buf := montarPlanilha(t, cabecalhoCompleto(), [][]interface{}{
		{"010 SAO BERNARDO", "4520019", "SND-1", "ARROZ 5KG", 100, 40, "CX"},
		{"010 SAO BERNARDO", "4520020", "SND-2", "FEIJAO 1KG", 50, 0, "CX"},
	})

	total, relatorio, err := imp.Importar(buf)
	if err != nil {
		t.Fatalf("Importar() error = %v", err)
	}
	if total != 2 {
		t.Errorf("linhas importadas = %d, want 2", total)
	}
	if !relatorio.Valido() {
		t.Errorf("relatório inválido: %+v", relatorio)
	}

	linha, err := imp.Repository.BuscarLinha("010 SAO BERNARDO", "4520019", "SND-1")
	if err != nil {
		t.Fatalf("BuscarLinha() error = %v", err)
	}
	if linha == nil {
		t.Fatal("linha não encontrada após importação")
	}
	if linha.SaldoDisponivel != 40 {
		t.Errorf("SaldoDisponivel = %v, want 40", linha.SaldoDisponivel)
	}
}

func TestImportar_SubstituiCargaAnterior(t *testing.T) {
	db := setupDB(t)
	imp := NewImporter(NewRepository(db))

	buf := montarPlanilha(t, cabecalhoCompleto(), [][]interface{}{
		{"010 SAO BERNARDO", "111", "SND-1", "A", 10, 10, "CX"},
	})
	if _, _, err := imp.Importar(buf); err != nil {
		t.Fatalf("primeira importação: %v", err)
	}

	buf = montarPlanilha(t, cabecalhoCompleto(), [][]interface{}{
		{"005 OSASCO", "222", "SND-2", "B", 20, 20, "CX"},
	})
	if _, _, err := imp.Importar(buf); err != nil {
		t.Fatalf("segunda importação: %v", err)
	}

	linhas, err := imp.Repository.Listar()
	if err != nil {
		t.Fatalf("Listar() error = %v", err)
	}
	if len(linhas) != 1 {
		t.Fatalf("linhas após recarga = %d, want 1", len(linhas))
	}
	if linhas[0].Destino != "005 OSASCO" {
		t.Errorf("Destino = %q, want 005 OSASCO", linhas[0].Destino)
	}
}

func TestImportar_ColunaFaltante(t *testing.T) {
	db := setupDB(t)
	imp := NewImporter(NewRepository(db))

	// Sem a coluna de saldo, com uma coluna desconhecida no lugar
	cabecalho := []string{
		ColDestino, ColPedidoCliente, ColProdutoCliente,
		ColDescricao, ColQtdTotal, "Coluna Nova", ColUnidade,
	}
	buf := montarPlanilha(t, cabecalho, [][]interface{}{
		{"010 SAO BERNARDO", "111", "SND-1", "A", 10, 10, "CX"},
	})

	_, relatorio, err := imp.Importar(buf)
	if !errors.Is(err, ErrSchemaInvalido) {
		t.Fatalf("error = %v, want ErrSchemaInvalido", err)
	}
	if len(relatorio.Faltantes) != 1 || relatorio.Faltantes[0] != ColSaldo {
		t.Errorf("Faltantes = %v, want [%q]", relatorio.Faltantes, ColSaldo)
	}
	if len(relatorio.Inesperadas) != 1 || relatorio.Inesperadas[0] != "Coluna Nova" {
		t.Errorf("Inesperadas = %v", relatorio.Inesperadas)
	}

	// Nada pode ter sido gravado
	linhas, _ := imp.Repository.Listar()
	if len(linhas) != 0 {
		t.Errorf("linhas gravadas = %d, want 0", len(linhas))
	}
}

func TestImportar_PedidoComSufixoDeFilial(t *testing.T) {
	db := setupDB(t)
	imp := NewImporter(NewRepository(db))

	buf := montarPlanilha(t, cabecalhoCompleto(), [][]interface{}{
		{"010 SAO BERNARDO", "4520019-1", "SND-1", "ARROZ 5KG", 100, 40, "CX"},
	})
	if _, _, err := imp.Importar(buf); err != nil {
		t.Fatalf("Importar() error = %v", err)
	}

	// Pedido solicitado sem o sufixo ainda precisa casar
	linha, err := imp.Repository.BuscarLinha("010 SAO BERNARDO", "4520019", "SND-1")
	if err != nil {
		t.Fatalf("BuscarLinha() error = %v", err)
	}
	if linha == nil {
		t.Fatal("linha com sufixo de filial não casou pelo prefixo")
	}
}

func TestParseFloat(t *testing.T) {
	casos := []struct {
		entrada string
		want    float64
	}{
		{"", 0},
		{"10", 10},
		{"10.5", 10.5},
		{"1.234,5", 1234.5},
		{"1,234.5", 1234.5},
		{"40,00", 40},
		{"abc", 0},
	}
	for _, c := range casos {
		if got := parseFloat(c.entrada); got != c.want {
			t.Errorf("parseFloat(%q) = %v, want %v", c.entrada, got, c.want)
		}
	}
}
