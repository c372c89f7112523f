package event

import (
	"strings"
	"unicode/utf8"

	"github.com/eventi/backend/internal/domain/shared"
)

// MaxSettoreNomeLength bounds the sector name column
const MaxSettoreNomeLength = 255

// Settore is a business sector an event is classified under.
// Names are unique.
type Settore struct {
	ID   int64
	Nome string
}

// NewSettore creates a sector after trimming and validating its name
func NewSettore(nome string) (*Settore, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, shared.NewDomainError("INVALID_SETTORE", "Il nome del settore è obbligatorio.")
	}
	if utf8.RuneCountInString(nome) > MaxSettoreNomeLength {
		return nil, shared.NewDomainError("INVALID_SETTORE", "Il nome del settore è troppo lungo.")
	}
	return &Settore{Nome: nome}, nil
}

// String returns the sector name
func (s Settore) String() string {
	return s.Nome
}

// DefaultSettori is the sector list seeded by the initial migrations
var DefaultSettori = []string{
	"Macchine agricole",
	"Occhialeria",
	"Calzature",
	"Agroalimentare",
	"Climatizzazione",
	"Cosmetica",
	"Editoria",
	"Vino",
	"Arredamento",
	"Macchine lavorazione legno",
	"Economia circolare",
	"Tessile",
	"Florovivaistico",
	"Macchine per calzature",
	"Alimentare",
	"Arredamento contract",
	"Metalmeccanica",
	"Macchine agricole e alimentari",
	"Metalmeccanico",
	"Mobili / Arredo",
	"Fitness",
	"Florovivaismo",
	"Gioielleria",
	"Food & Wine",
	"Marmo",
	"Plastica",
	"Officine, componentistica",
	"Plurisettoriale",
	"Turismo",
	"Nautico",
}
