package event

// Categoria is the promotional category of an event
type Categoria string

const (
	CategoriaItaliaEstero Categoria = "Iniziative promozionali in Italia e all'estero"
	CategoriaInLoco       Categoria = "Iniziative promozionali in loco"
)

// AllCategorie returns the categories in display order
func AllCategorie() []Categoria {
	return []Categoria{CategoriaItaliaEstero, CategoriaInLoco}
}

// IsValid checks if the category is a known value
func (c Categoria) IsValid() bool {
	switch c {
	case CategoriaItaliaEstero, CategoriaInLoco:
		return true
	}
	return false
}

// Display returns the human-readable label
func (c Categoria) Display() string {
	return string(c)
}

// Office is the bureau that runs an event
type Office string

const (
	OfficeBelgrado  Office = "Belgrado"
	OfficePodgorica Office = "Podgorica"
)

// PreferredOffice is listed ahead of every other office when sorting by office
const PreferredOffice = OfficeBelgrado

// AllOffices returns the offices in display order
func AllOffices() []Office {
	return []Office{OfficeBelgrado, OfficePodgorica}
}

// IsValid checks if the office is a known value
func (o Office) IsValid() bool {
	switch o {
	case OfficeBelgrado, OfficePodgorica:
		return true
	}
	return false
}

// Display returns the human-readable label
func (o Office) Display() string {
	return string(o)
}

// Paese is the country where an event takes place
type Paese string

const (
	PaeseItalia     Paese = "Italia"
	PaeseSerbia     Paese = "Serbia"
	PaeseMontenegro Paese = "Montenegro"
)

// AllPaesi returns the countries in display order
func AllPaesi() []Paese {
	return []Paese{PaeseItalia, PaeseSerbia, PaeseMontenegro}
}

// IsValid checks if the country is a known value
func (p Paese) IsValid() bool {
	switch p {
	case PaeseItalia, PaeseSerbia, PaeseMontenegro:
		return true
	}
	return false
}

// Display returns the human-readable label
func (p Paese) Display() string {
	return string(p)
}

// Choice is a value/label pair rendered in select inputs
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CategoriaChoices returns the category select options
func CategoriaChoices() []Choice {
	out := make([]Choice, 0, 2)
	for _, c := range AllCategorie() {
		out = append(out, Choice{Value: string(c), Label: c.Display()})
	}
	return out
}

// OfficeChoices returns the office select options
func OfficeChoices() []Choice {
	out := make([]Choice, 0, 2)
	for _, o := range AllOffices() {
		out = append(out, Choice{Value: string(o), Label: o.Display()})
	}
	return out
}

// PaeseChoices returns the country select options
func PaeseChoices() []Choice {
	out := make([]Choice, 0, 3)
	for _, p := range AllPaesi() {
		out = append(out, Choice{Value: string(p), Label: p.Display()})
	}
	return out
}
