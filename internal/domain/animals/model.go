package animals

import "time"

// LastActivityNone es el valor inicial de LastActivity antes de que
// algún evento referencie al animal.
const LastActivityNone = "not monitored yet"

// AnimalType define los tipos soportados por el monitoreo.
// @Enum Dog, Cat, Bird, Goat
type AnimalType string

const (
	TypeDog  AnimalType = "Dog"
	TypeCat  AnimalType = "Cat"
	TypeBird AnimalType = "Bird"
	TypeGoat AnimalType = "Goat"
)

// Animal es el perfil de un animal monitoreado.
// LastActivity la sobreescribe el último evento asociado (last-write-wins);
// los animales no se borran en este diseño.
type Animal struct {
	ID   string
	Name string
	Type string // AnimalType u otro valor libre
	Age  int

	LastActivity string

	CreatedAt time.Time
	UpdatedAt time.Time
}
