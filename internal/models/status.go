// models/status.go
package models

// Convenção de status textual para itens da fila de agendamento
const (
	StatusPendente   = "pendente"
	StatusProcessado = "processado"
	StatusErro       = "erro"
)

// Tipos de origem aceitos ao enfileirar um item para agendamento
const (
	OrigemPedido    = "pedido"
	OrigemSeparacao = "separacao"
	OrigemNF        = "nf"
)

// FormatoDataBR é o formato de data usado nas planilhas do portal (DD/MM/YYYY).
const FormatoDataBR = "02/01/2006"

// FormatoDataProtocolo é o formato compacto usado dentro do protocolo (ddmmyyyy).
const FormatoDataProtocolo = "02012006"
