// internal/depara/cache.go
package depara

import "sync"

// Cache é um read-through sobre o repositório de de-para, compartilhado pelos
// serviços de comparação e exportação. As entradas vivem até Invalidar(), que
// os handlers de importação chamam após cada carga — o ponto de invalidação é
// explícito em vez de reconstruir dicionários a cada requisição.
type Cache struct {
	repo *Repository

	mu       sync.RWMutex
	filiais  map[string]string // cnpj|nomeFallback -> codigo
	produtos map[string]string // cnpj|codigoNosso -> codigo
}

func NewCache(repo *Repository) *Cache {
	return &Cache{
		repo:     repo,
		filiais:  make(map[string]string),
		produtos: make(map[string]string),
	}
}

// BuscarCodigoFilial consulta o cache e, em caso de falta, o repositório.
// Erros de "não encontrado" não são cacheados: um de-para recém-importado
// deve resolver na chamada seguinte sem depender de invalidação.
func (c *Cache) BuscarCodigoFilial(cnpj, nomeFallback string) (string, error) {
	chave := cnpj + "|" + nomeFallback

	c.mu.RLock()
	codigo, ok := c.filiais[chave]
	c.mu.RUnlock()
	if ok {
		return codigo, nil
	}

	codigo, err := c.repo.BuscarCodigoFilial(cnpj, nomeFallback)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.filiais[chave] = codigo
	c.mu.Unlock()
	return codigo, nil
}

// BuscarCodigoProduto consulta o cache e, em caso de falta, o repositório.
// O resultado vazio (sem mapeamento) é cacheado: é um resultado válido.
func (c *Cache) BuscarCodigoProduto(cnpj, codigoNosso string) (string, error) {
	chave := cnpj + "|" + codigoNosso

	c.mu.RLock()
	codigo, ok := c.produtos[chave]
	c.mu.RUnlock()
	if ok {
		return codigo, nil
	}

	codigo, err := c.repo.BuscarCodigoProduto(cnpj, codigoNosso)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.produtos[chave] = codigo
	c.mu.Unlock()
	return codigo, nil
}

// Invalidar descarta todas as entradas. Deve ser chamado após importar
// qualquer planilha de de-para.
func (c *Cache) Invalidar() {
	c.mu.Lock()
	c.filiais = make(map[string]string)
	c.produtos = make(map[string]string)
	c.mu.Unlock()
}
