package animals

import "time"

// Species define las especies soportadas.
// @Enum ball_python, corn_snake, boa_constrictor, king_snake, leopard_gecko, crested_gecko, bearded_dragon, blue_tongue_skink, other
type Species string

const (
	SpeciesBallPython      Species = "ball_python"
	SpeciesCornSnake       Species = "corn_snake"
	SpeciesBoaConstrictor  Species = "boa_constrictor"
	SpeciesKingSnake       Species = "king_snake"
	SpeciesLeopardGecko    Species = "leopard_gecko"
	SpeciesCrestedGecko    Species = "crested_gecko"
	SpeciesBeardedDragon   Species = "bearded_dragon"
	SpeciesBlueTongueSkink Species = "blue_tongue_skink"
	SpeciesOther           Species = "other"
)

// Sex define el sexo del animal.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Animal representa el perfil básico de un animal registrado en el sistema.
type Animal struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Morph   string // variante de color/patrón, texto libre
	Sex     Sex

	HatchDate  *time.Time
	AcquiredAt *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
