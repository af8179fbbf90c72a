package core

import "math/rand"

// FactSource supplies facts for /fact. Tests inject a deterministic
// source.
type FactSource interface {
	Fact() string
}

// FactList picks a random entry from a fixed list.
type FactList []string

var _ FactSource = (FactList)(nil)

func (l FactList) Fact() string {
	if len(l) == 0 {
		return "There are no facts."
	}
	return l[rand.Intn(len(l))]
}

var defaultFacts = FactList{
	"Honey never spoils.",
	"Octopuses have three hearts.",
	"A group of flamingos is called a flamboyance.",
	"Bananas are berries, but strawberries are not.",
	"The Eiffel Tower grows about 15 cm taller in summer.",
	"Wombat droppings are cube-shaped.",
	"A day on Venus is longer than its year.",
	"Sharks existed before trees.",
}
