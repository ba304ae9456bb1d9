package utils

import "strings"

// SomenteDigitos remove tudo que não for dígito da string informada.
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PrefixoNumerico retorna os dígitos iniciais da string, parando no primeiro
// caractere que não for dígito. Ex.: "010 SAO BERNARDO" -> "010".
func PrefixoNumerico(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

// PrefixoPedido devolve o código do pedido do cliente sem o sufixo de filial.
// O portal às vezes anexa "-<filial>" ao código: "4520019-1" -> "4520019".
func PrefixoPedido(pedido string) string {
	pedido = strings.TrimSpace(pedido)
	if idx := strings.Index(pedido, "-"); idx >= 0 {
		return pedido[:idx]
	}
	return pedido
}
