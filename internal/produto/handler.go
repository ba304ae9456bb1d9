// internal/produto/handler.go
package produto

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(db),
	}
}

// Salvar trata POST /produtos (cria ou atualiza pelo código)
func (h *Handler) Salvar(w http.ResponseWriter, r *http.Request) {
	var p Produto
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(p.Codigo) == "" {
		http.Error(w, "O campo 'codigo' é obrigatório", http.StatusBadRequest)
		return
	}
	if p.PesoBruto < 0 {
		http.Error(w, "O campo 'pesoBruto' não pode ser negativo", http.StatusBadRequest)
		return
	}

	if err := h.Repository.Salvar(&p); err != nil {
		http.Error(w, "Erro ao salvar produto", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// Listar trata GET /produtos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.Repository.ListAll()
	if err != nil {
		http.Error(w, "Erro ao listar produtos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(produtos)
}
