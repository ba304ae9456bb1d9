package infra

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff calcula esperas exponenciais com jitter para laços de polling.
// Proximo() devolve a espera vigente (com ±20% de jitter) e dobra a base até
// o teto; Zerar() volta ao mínimo após um ciclo bem-sucedido.
type Backoff struct {
	mu     sync.Mutex
	minimo time.Duration
	maximo time.Duration
	fator  float64
	atual  time.Duration
}

func NewBackoff(minimo, maximo time.Duration, fator float64) *Backoff {
	return &Backoff{
		minimo: minimo,
		maximo: maximo,
		fator:  fator,
		atual:  minimo,
	}
}

func (b *Backoff) Proximo() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	jitter := time.Duration((rand.Float64()*0.4 - 0.2) * float64(b.atual))
	espera := b.atual + jitter
	if espera < b.minimo {
		espera = b.minimo
	}

	b.atual = time.Duration(float64(b.atual) * b.fator)
	if b.atual > b.maximo {
		b.atual = b.maximo
	}
	return espera
}

func (b *Backoff) Zerar() {
	b.mu.Lock()
	b.atual = b.minimo
	b.mu.Unlock()
}
