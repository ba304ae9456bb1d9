// internal/exportacao/veiculo.go
package exportacao

// FaixaVeiculo relaciona um rótulo de veículo do portal ao peso máximo que
// ele comporta. A tabela é percorrida em ordem crescente; o limite é
// inclusivo e a última faixa não tem teto.
type FaixaVeiculo struct {
	Rotulo    string
	PesoMaxKg float64 // 0 = sem teto (faixa final)
}

var faixasVeiculo = []FaixaVeiculo{
	{"Utilitário", 800},
	{"Caminhão VUC 3/4", 2000},
	{"Caminhão Toco 7T", 7000},
	{"Caminhão Truck 12T", 12000},
	{"Caminhão (3 eixos) 25T", 25000},
	{"Caminhão (4 eixos) 31T", 0},
}

// EscolherVeiculo devolve o rótulo da primeira faixa cujo peso máximo
// comporta o peso total do protocolo.
func EscolherVeiculo(pesoTotalKg float64) string {
	for _, faixa := range faixasVeiculo {
		if faixa.PesoMaxKg > 0 && pesoTotalKg <= faixa.PesoMaxKg {
			return faixa.Rotulo
		}
	}
	return faixasVeiculo[len(faixasVeiculo)-1].Rotulo
}
