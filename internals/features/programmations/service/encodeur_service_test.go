package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sirenecole_backend/internals/features/programmations/model"
)

func TestCanonicalizeTrieEtNormalise(t *testing.T) {
	entree := []Sonnerie{
		{Heure: 12, Minute: 30, Jours: []int{5, 1}},
		{Heure: 8, Minute: 0, Jours: []int{3, 1, 2}},
		{Heure: 8, Minute: 0, Jours: []int{4}},
	}

	canon, err := Canonicalize(entree)
	require.NoError(t, err)
	require.Len(t, canon, 3)

	// tri par minute du jour, puis masque de jours
	assert.Equal(t, Sonnerie{Heure: 8, Minute: 0, Jours: []int{1, 2, 3}}, canon[0])
	assert.Equal(t, Sonnerie{Heure: 8, Minute: 0, Jours: []int{4}}, canon[1])
	assert.Equal(t, Sonnerie{Heure: 12, Minute: 30, Jours: []int{1, 5}}, canon[2])
}

func TestCanonicalizeDeterministe(t *testing.T) {
	a := []Sonnerie{
		{Heure: 16, Minute: 45, Jours: []int{5}},
		{Heure: 8, Minute: 0, Jours: []int{2, 1}},
	}
	b := []Sonnerie{
		{Heure: 8, Minute: 0, Jours: []int{1, 2}},
		{Heure: 16, Minute: 45, Jours: []int{5}},
	}

	canonA, err := Canonicalize(a)
	require.NoError(t, err)
	canonB, err := Canonicalize(b)
	require.NoError(t, err)

	assert.Equal(t, canonA, canonB)
	assert.Equal(t, Encode(canonA), Encode(canonB))
	assert.Equal(t, FormatClair(canonA), FormatClair(canonB))
}

func TestCanonicalizeRejets(t *testing.T) {
	cas := []struct {
		nom     string
		entree  []Sonnerie
		attendu error
	}{
		{"heure hors bornes", []Sonnerie{{Heure: 24, Minute: 0, Jours: []int{1}}}, ErrHoraireInvalide},
		{"minute hors bornes", []Sonnerie{{Heure: 8, Minute: 60, Jours: []int{1}}}, ErrHoraireInvalide},
		{"heure negative", []Sonnerie{{Heure: -1, Minute: 0, Jours: []int{1}}}, ErrHoraireInvalide},
		{"aucun jour", []Sonnerie{{Heure: 8, Minute: 0, Jours: nil}}, ErrJoursVides},
		{"jour hors bornes", []Sonnerie{{Heure: 8, Minute: 0, Jours: []int{7}}}, ErrJourInvalide},
		{"jour duplique", []Sonnerie{{Heure: 8, Minute: 0, Jours: []int{1, 1}}}, ErrJourDuplique},
		{
			"sonnerie dupliquee malgre l'ordre des jours",
			[]Sonnerie{
				{Heure: 8, Minute: 0, Jours: []int{1, 2}},
				{Heure: 8, Minute: 0, Jours: []int{2, 1}},
			},
			ErrHoraireDuplique,
		},
	}

	for _, c := range cas {
		t.Run(c.nom, func(t *testing.T) {
			_, err := Canonicalize(c.entree)
			assert.ErrorIs(t, err, c.attendu)
		})
	}
}

func TestCanonicalizePlafondFormatCompact(t *testing.T) {
	trop := make([]Sonnerie, 256)
	for i := range trop {
		trop[i] = Sonnerie{Heure: i / 60 % 24, Minute: i % 60, Jours: []int{1}}
	}
	_, err := Canonicalize(trop)
	assert.ErrorIs(t, err, ErrTropDeSonneries)
}

func TestEncodeFormatCompact(t *testing.T) {
	canon, err := Canonicalize([]Sonnerie{
		{Heure: 8, Minute: 0, Jours: []int{1, 2, 3, 4, 5}},
		{Heure: 16, Minute: 45, Jours: []int{1}},
	})
	require.NoError(t, err)

	octets := Encode(canon)
	require.Len(t, octets, 2+3*2)

	assert.Equal(t, byte(VersionEncodage), octets[0])
	assert.Equal(t, byte(2), octets[1])

	// 08:00 lundi-vendredi: bits 1 a 5
	assert.Equal(t, []byte{8, 0, 0b00111110}, octets[2:5])
	// 16:45 lundi
	assert.Equal(t, []byte{16, 45, 0b00000010}, octets[5:8])
}

func TestFormatClair(t *testing.T) {
	canon, err := Canonicalize([]Sonnerie{
		{Heure: 16, Minute: 45, Jours: []int{5}},
		{Heure: 8, Minute: 0, Jours: []int{3, 1, 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "v1;08:00@1,2,3;16:45@5", FormatClair(canon))
}

func TestValidateWindow(t *testing.T) {
	jour := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}
	aboDebut := jour("2025-09-01")
	aboFin := jour("2026-06-30")

	assert.NoError(t, ValidateWindow(jour("2025-09-01"), jour("2026-06-30"), aboDebut, aboFin))
	assert.NoError(t, ValidateWindow(jour("2025-10-01"), jour("2025-12-20"), aboDebut, aboFin))

	assert.ErrorIs(t, ValidateWindow(jour("2025-12-20"), jour("2025-10-01"), aboDebut, aboFin), ErrFenetreInvalide)
	assert.ErrorIs(t, ValidateWindow(jour("2025-08-31"), jour("2026-06-30"), aboDebut, aboFin), ErrFenetreHorsAbonnement)
	assert.ErrorIs(t, ValidateWindow(jour("2025-09-01"), jour("2026-07-01"), aboDebut, aboFin), ErrFenetreHorsAbonnement)
}

func TestResolveHoliday(t *testing.T) {
	overrides := []model.JourFerieOverride{
		{Date: "2025-05-01", Action: model.JourFerieInclure},
		{Date: "2025-12-25", Action: model.JourFerieExclure},
	}

	// derogation prioritaire sur la politique de base
	assert.True(t, ResolveHoliday("2025-05-01", false, overrides))
	assert.False(t, ResolveHoliday("2025-12-25", true, overrides))

	// sans derogation, politique de base
	assert.False(t, ResolveHoliday("2025-11-11", false, overrides))
	assert.True(t, ResolveHoliday("2025-11-11", true, overrides))

	// sans aucune derogation
	assert.True(t, ResolveHoliday("2025-05-01", true, nil))
}
