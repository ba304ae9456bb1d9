// internal/planilha/handler.go
package planilha

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"
)

// Handler encapsula DB, repository e importer
type Handler struct {
	DB         *gorm.DB
	Repository *Repository
	Importer   *Importer
}

func NewHandler(db *gorm.DB) *Handler {
	repo := NewRepository(db)
	return &Handler{
		DB:         db,
		Repository: repo,
		Importer:   NewImporter(repo),
	}
}

// Importar trata POST /planilha-modelo/importar (multipart, campo 'arquivo')
func (h *Handler) Importar(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("arquivo")
	if err != nil {
		http.Error(w, "Arquivo não enviado (campo 'arquivo')", http.StatusBadRequest)
		return
	}
	defer file.Close()

	total, relatorio, err := h.Importer.Importar(file)
	if errors.Is(err, ErrSchemaInvalido) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"erro":   "planilha modelo com colunas faltantes",
			"schema": relatorio,
		})
		return
	}
	if err != nil {
		http.Error(w, "Erro ao importar planilha modelo: "+err.Error(), http.StatusBadRequest)
		return
	}

	slog.Info("planilha modelo importada", "linhas", total)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"linhas": total,
		"schema": relatorio,
	})
}

// Listar trata GET /planilha-modelo
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	linhas, err := h.Repository.Listar()
	if err != nil {
		http.Error(w, "Erro ao listar planilha modelo", http.StatusInternalServerError)
		return
	}
	if linhas == nil {
		linhas = []PlanilhaModeloSendas{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(linhas)
}
