package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sirenecole_backend/internals/features/programmations/model"
)

// Encodage compact des programmations a destination du firmware:
// [version][nb sonneries] puis 3 octets par sonnerie (heure, minute,
// bitmask des jours, bit j = jour j, 0=dimanche). Le champ version permet
// de faire evoluer le format sans casser les sirenes deployees.

const VersionEncodage = 1

/* ===================== Erreurs ===================== */

var (
	ErrHoraireInvalide       = errors.New("heure ou minute hors bornes")
	ErrJoursVides            = errors.New("une sonnerie doit viser au moins un jour")
	ErrJourInvalide          = errors.New("jour hors bornes (0-6 attendu)")
	ErrJourDuplique          = errors.New("jour duplique dans une sonnerie")
	ErrHoraireDuplique       = errors.New("sonnerie dupliquee (meme heure, minute et jours)")
	ErrTropDeSonneries       = errors.New("plus de 255 sonneries, hors format compact")
	ErrFenetreInvalide       = errors.New("date de fin anterieure a la date de debut")
	ErrFenetreHorsAbonnement = errors.New("fenetre de programmation hors de celle de l'abonnement")
)

// Sonnerie est l'evenement logique manipule par l'encodeur, independant
// de la representation en base.
type Sonnerie struct {
	Heure  int
	Minute int
	Jours  []int
}

func (s Sonnerie) masqueJours() byte {
	var mask byte
	for _, j := range s.Jours {
		mask |= 1 << uint(j)
	}
	return mask
}

// Canonicalize valide, trie et normalise un jeu de sonneries. Le resultat
// est identique quel que soit l'ordre d'entree: tri par (heure*60+minute)
// puis par masque de jours, jours tries a l'interieur de chaque sonnerie.
func Canonicalize(sonneries []Sonnerie) ([]Sonnerie, error) {
	if len(sonneries) > 255 {
		return nil, ErrTropDeSonneries
	}
	out := make([]Sonnerie, 0, len(sonneries))
	signatures := make(map[string]struct{}, len(sonneries))

	for _, s := range sonneries {
		if s.Heure < 0 || s.Heure > 23 || s.Minute < 0 || s.Minute > 59 {
			return nil, fmt.Errorf("%w: %02d:%02d", ErrHoraireInvalide, s.Heure, s.Minute)
		}
		if len(s.Jours) == 0 {
			return nil, ErrJoursVides
		}

		jours := append([]int(nil), s.Jours...)
		sort.Ints(jours)
		vus := make(map[int]struct{}, len(jours))
		for _, j := range jours {
			if j < 0 || j > 6 {
				return nil, fmt.Errorf("%w: %d", ErrJourInvalide, j)
			}
			if _, dup := vus[j]; dup {
				return nil, fmt.Errorf("%w: jour %d a %02d:%02d", ErrJourDuplique, j, s.Heure, s.Minute)
			}
			vus[j] = struct{}{}
		}

		canon := Sonnerie{Heure: s.Heure, Minute: s.Minute, Jours: jours}
		sig := fmt.Sprintf("%02d:%02d#%08b", canon.Heure, canon.Minute, canon.masqueJours())
		if _, dup := signatures[sig]; dup {
			return nil, fmt.Errorf("%w: %02d:%02d", ErrHoraireDuplique, s.Heure, s.Minute)
		}
		signatures[sig] = struct{}{}
		out = append(out, canon)
	}

	sort.Slice(out, func(i, j int) bool {
		mi := out[i].Heure*60 + out[i].Minute
		mj := out[j].Heure*60 + out[j].Minute
		if mi != mj {
			return mi < mj
		}
		return out[i].masqueJours() < out[j].masqueJours()
	})
	return out, nil
}

// ValidateWindow verifie que la fenetre de la programmation est un
// sous-ensemble de celle de l'abonnement.
func ValidateWindow(debut, fin, aboDebut, aboFin time.Time) error {
	if fin.Before(debut) {
		return ErrFenetreInvalide
	}
	if debut.Before(aboDebut) || fin.After(aboFin) {
		return ErrFenetreHorsAbonnement
	}
	return nil
}

// ResolveHoliday applique une derogation datee si elle existe, sinon
// retourne la politique de base de la programmation.
func ResolveHoliday(date string, baseInclus bool, overrides []model.JourFerieOverride) bool {
	for _, o := range overrides {
		if o.Date == date {
			return o.Action == model.JourFerieInclure
		}
	}
	return baseInclus
}

// Encode serialise un jeu canonique au format compact versionne.
// Deterministe: meme jeu logique => memes octets.
func Encode(canonique []Sonnerie) []byte {
	out := make([]byte, 0, 2+3*len(canonique))
	out = append(out, VersionEncodage, byte(len(canonique)))
	for _, s := range canonique {
		out = append(out, byte(s.Heure), byte(s.Minute), s.masqueJours())
	}
	return out
}

// FormatClair produit l'encodage canonique lisible persiste a cote du
// chiffre, pour le diagnostic operateur.
func FormatClair(canonique []Sonnerie) string {
	parts := make([]string, 0, len(canonique))
	for _, s := range canonique {
		jours := make([]string, len(s.Jours))
		for i, j := range s.Jours {
			jours[i] = fmt.Sprintf("%d", j)
		}
		parts = append(parts, fmt.Sprintf("%02d:%02d@%s", s.Heure, s.Minute, strings.Join(jours, ",")))
	}
	return fmt.Sprintf("v%d;%s", VersionEncodage, strings.Join(parts, ";"))
}
