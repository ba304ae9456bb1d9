// internal/depara/handler.go
package depara

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Handler encapsula DB, repository e o cache compartilhado de consultas
type Handler struct {
	DB         *gorm.DB
	Repository *Repository
	Cache      *Cache
}

func NewHandler(db *gorm.DB, cache *Cache) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(db),
		Cache:      cache,
	}
}

type resultadoImportacao struct {
	Importados int      `json:"importados"`
	Ignorados  int      `json:"ignorados"`
	Erros      []string `json:"erros,omitempty"`
}

// ImportarProdutos trata POST /depara/produtos/importar.
// Espera um .xlsx com as colunas: CNPJ | Código Nosso | Descrição Nossa |
// Código Sendas | Descrição Sendas (cabeçalho na primeira linha).
func (h *Handler) ImportarProdutos(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.lerLinhasDoUpload(w, r)
	if !ok {
		return
	}

	resultado := resultadoImportacao{Erros: []string{}}
	for i, row := range rows {
		if i == 0 {
			continue // cabeçalho
		}
		valor := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		codigoNosso := valor(1)
		codigoSendas := valor(3)
		if codigoNosso == "" || codigoSendas == "" {
			resultado.Ignorados++
			continue
		}
		p := &ProdutoDeParaSendas{
			CNPJ:            valor(0),
			CodigoNosso:     codigoNosso,
			DescricaoNossa:  valor(2),
			CodigoSendas:    codigoSendas,
			DescricaoSendas: valor(4),
		}
		if err := h.Repository.SalvarProduto(p); err != nil {
			resultado.Erros = append(resultado.Erros, "linha "+strconv.Itoa(i+1)+": "+err.Error())
			continue
		}
		resultado.Importados++
	}

	h.Cache.Invalidar()
	slog.Info("de-para de produtos importado", "importados", resultado.Importados, "ignorados", resultado.Ignorados)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultado)
}

// ImportarFiliais trata POST /depara/filiais/importar.
// Espera um .xlsx com as colunas: CNPJ | Nome Filial | Código Sendas.
func (h *Handler) ImportarFiliais(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.lerLinhasDoUpload(w, r)
	if !ok {
		return
	}

	resultado := resultadoImportacao{Erros: []string{}}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		valor := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}
		cnpj := valor(0)
		codigoSendas := valor(2)
		if cnpj == "" || codigoSendas == "" {
			resultado.Ignorados++
			continue
		}
		f := &FilialDeParaSendas{
			CNPJ:         cnpj,
			NomeFilial:   valor(1),
			CodigoSendas: codigoSendas,
		}
		if err := h.Repository.SalvarFilial(f); err != nil {
			resultado.Erros = append(resultado.Erros, "linha "+strconv.Itoa(i+1)+": "+err.Error())
			continue
		}
		resultado.Importados++
	}

	h.Cache.Invalidar()
	slog.Info("de-para de filiais importado", "importados", resultado.Importados, "ignorados", resultado.Ignorados)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultado)
}

// DesativarProduto trata DELETE /depara/produtos/{id} (remoção lógica).
func (h *Handler) DesativarProduto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Identificador inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repository.DesativarProduto(uint(id)); err != nil {
		http.Error(w, "Erro ao desativar de-para de produto", http.StatusInternalServerError)
		return
	}
	h.Cache.Invalidar()
	slog.Info("de-para de produto desativado", "id", id)

	w.WriteHeader(http.StatusNoContent)
}

// ListarProdutos trata GET /depara/produtos
func (h *Handler) ListarProdutos(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarProdutos()
	if err != nil {
		http.Error(w, "Erro ao listar de-para de produtos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// ListarFiliais trata GET /depara/filiais
func (h *Handler) ListarFiliais(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarFiliais()
	if err != nil {
		http.Error(w, "Erro ao listar de-para de filiais", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

func (h *Handler) lerLinhasDoUpload(w http.ResponseWriter, r *http.Request) ([][]string, bool) {
	file, _, err := r.FormFile("arquivo")
	if err != nil {
		http.Error(w, "Arquivo não enviado (campo 'arquivo')", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Erro ao abrir planilha: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		http.Error(w, "Planilha vazia", http.StatusBadRequest)
		return nil, false
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		http.Error(w, "Erro ao ler linhas da planilha", http.StatusBadRequest)
		return nil, false
	}
	return rows, true
}
