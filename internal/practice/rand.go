package practice

import "math/rand/v2"

type randSource struct{}

func (randSource) IntN(n int) int { return rand.IntN(n) }
