package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sirenecole_backend/internals/features/programmations/model"
)

func TestSonneriesEffectivesJourOrdinaire(t *testing.T) {
	sonneries := []Sonnerie{
		{Heure: 8, Minute: 0, Jours: []int{1, 2, 3, 4, 5}},
		{Heure: 10, Minute: 15, Jours: []int{3}},
		{Heure: 9, Minute: 0, Jours: []int{6}},
	}

	// lundi 6 octobre 2025
	lundi := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	out := SonneriesEffectives(sonneries, lundi, false, false, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, 8, out[0].Heure)

	// mercredi: la sonnerie hebdomadaire plus celle du mercredi
	mercredi := time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)
	out = SonneriesEffectives(sonneries, mercredi, false, false, nil)
	assert.Len(t, out, 2)

	// dimanche: rien
	dimanche := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, SonneriesEffectives(sonneries, dimanche, false, false, nil))
}

func TestSonneriesEffectivesJourFerie(t *testing.T) {
	sonneries := []Sonnerie{
		{Heure: 8, Minute: 0, Jours: []int{1, 2, 3, 4, 5}},
	}
	// jeudi 1er mai 2025
	premierMai := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// politique de base: silence les jours feries
	assert.Empty(t, SonneriesEffectives(sonneries, premierMai, true, false, nil))

	// derogation datee: la sonnerie est reactivee ce jour-la
	overrides := []model.JourFerieOverride{{Date: "2025-05-01", Action: model.JourFerieInclure}}
	out := SonneriesEffectives(sonneries, premierMai, true, false, overrides)
	assert.Len(t, out, 1)

	// derogation d'exclusion malgre une base incluante
	overrides = []model.JourFerieOverride{{Date: "2025-05-01", Action: model.JourFerieExclure}}
	assert.Empty(t, SonneriesEffectives(sonneries, premierMai, true, true, overrides))

	// ferie mais base incluante sans derogation
	out = SonneriesEffectives(sonneries, premierMai, true, true, nil)
	assert.Len(t, out, 1)
}

func TestOverridesDe(t *testing.T) {
	p := &model.ProgrammationModel{}

	// colonne vide: aucune derogation
	out, err := OverridesDe(p)
	require.NoError(t, err)
	assert.Nil(t, out)

	p.ProgrammationJoursFeries = datatypes.JSON([]byte(`[{"date":"2025-05-01","action":"include"}]`))
	out, err = OverridesDe(p)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-05-01", out[0].Date)
	assert.Equal(t, model.JourFerieInclure, out[0].Action)

	p.ProgrammationJoursFeries = datatypes.JSON([]byte(`{pas du json`))
	_, err = OverridesDe(p)
	assert.Error(t, err)
}
