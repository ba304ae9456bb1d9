// internal/depara/repository.go
package depara

import (
	"errors"

	"github.com/SistemaFretes/api-agendamento/internal/utils"
	"gorm.io/gorm"
)

// ErrFilialNaoEncontrada indica que nenhum de-para de filial cobre o CNPJ,
// nem pelo caminho exato nem pelo fallback por prefixo numérico.
var ErrFilialNaoEncontrada = errors.New("de-para de filial não encontrado")

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// BuscarCodigoFilial resolve o CNPJ para o código de filial do portal.
//
// Caminho principal: comparação exata contra o CNPJ armazenado, formatado ou
// só dígitos. Fallback (apenas com nomeFallback preenchido): compara os
// dígitos do nome recebido com o prefixo numérico de cada código de filial
// cadastrado — o prefixo é o único token estável quando o portal trunca ou
// reformata o rótulo entre exportações. Primeira coincidência vence.
func (r *Repository) BuscarCodigoFilial(cnpj, nomeFallback string) (string, error) {
	var filial FilialDeParaSendas
	err := r.DB.
		Where("ativo = ? AND cnpj = ?", true, cnpj).
		First(&filial).Error
	if err == nil {
		return filial.CodigoSendas, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var filiais []FilialDeParaSendas
	if err := r.DB.Where("ativo = ?", true).Order("id").Find(&filiais).Error; err != nil {
		return "", err
	}

	// Comparação por dígitos: cobre CNPJ formatado de um lado e limpo do outro
	digitosCNPJ := utils.SomenteDigitos(cnpj)
	if digitosCNPJ != "" {
		for _, f := range filiais {
			if utils.SomenteDigitos(f.CNPJ) == digitosCNPJ {
				return f.CodigoSendas, nil
			}
		}
	}

	if nomeFallback == "" {
		return "", ErrFilialNaoEncontrada
	}

	digitosNome := utils.SomenteDigitos(nomeFallback)
	if digitosNome == "" {
		return "", ErrFilialNaoEncontrada
	}
	for _, f := range filiais {
		prefixo := utils.SomenteDigitos(utils.PrefixoNumerico(f.CodigoSendas))
		if prefixo != "" && prefixo == digitosNome {
			return f.CodigoSendas, nil
		}
	}
	return "", ErrFilialNaoEncontrada
}

// BuscarCodigoProduto resolve o código interno para o código do portal,
// preferindo o mapeamento com escopo do CNPJ e caindo para o sem escopo.
// Devolve "" quando não há mapeamento; o chamador decide o que fazer (a
// comparação e a exportação usam o código interno inalterado nesse caso).
func (r *Repository) BuscarCodigoProduto(cnpj, codigoNosso string) (string, error) {
	var p ProdutoDeParaSendas
	err := r.DB.
		Where("ativo = ? AND codigo_nosso = ? AND cnpj = ?", true, codigoNosso, cnpj).
		First(&p).Error
	if err == nil {
		return p.CodigoSendas, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	err = r.DB.
		Where("ativo = ? AND codigo_nosso = ? AND (cnpj = '' OR cnpj IS NULL)", true, codigoNosso).
		First(&p).Error
	if err == nil {
		return p.CodigoSendas, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return "", err
}

// SalvarProduto cria ou atualiza o mapeamento de produto pela chave
// (cnpj, codigo_nosso). Importações em massa reaproveitam linhas existentes.
func (r *Repository) SalvarProduto(p *ProdutoDeParaSendas) error {
	var existente ProdutoDeParaSendas
	err := r.DB.
		Where("cnpj = ? AND codigo_nosso = ?", p.CNPJ, p.CodigoNosso).
		First(&existente).Error
	if err == nil {
		existente.CodigoSendas = p.CodigoSendas
		existente.DescricaoNossa = p.DescricaoNossa
		existente.DescricaoSendas = p.DescricaoSendas
		existente.Ativo = true
		return r.DB.Save(&existente).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	p.Ativo = true
	return r.DB.Create(p).Error
}

// SalvarFilial cria ou atualiza o mapeamento de filial pela chave
// (cnpj, codigo_sendas), normalizando o prefixo numérico.
func (r *Repository) SalvarFilial(f *FilialDeParaSendas) error {
	f.NumeroFilial = utils.SomenteDigitos(utils.PrefixoNumerico(f.CodigoSendas))

	var existente FilialDeParaSendas
	err := r.DB.
		Where("cnpj = ? AND codigo_sendas = ?", f.CNPJ, f.CodigoSendas).
		First(&existente).Error
	if err == nil {
		existente.NomeFilial = f.NomeFilial
		existente.NumeroFilial = f.NumeroFilial
		existente.Ativo = true
		return r.DB.Save(&existente).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	f.Ativo = true
	return r.DB.Create(f).Error
}

// DesativarProduto faz a remoção lógica de um mapeamento de produto.
func (r *Repository) DesativarProduto(id uint) error {
	return r.DB.Model(&ProdutoDeParaSendas{}).
		Where("id = ?", id).
		Update("ativo", false).Error
}

// ListarProdutos devolve os mapeamentos de produto ativos.
func (r *Repository) ListarProdutos() ([]ProdutoDeParaSendas, error) {
	var lista []ProdutoDeParaSendas
	err := r.DB.Where("ativo = ?", true).Order("codigo_nosso").Find(&lista).Error
	return lista, err
}

// ListarFiliais devolve os mapeamentos de filial ativos.
func (r *Repository) ListarFiliais() ([]FilialDeParaSendas, error) {
	var lista []FilialDeParaSendas
	err := r.DB.Where("ativo = ?", true).Order("numero_filial").Find(&lista).Error
	return lista, err
}
