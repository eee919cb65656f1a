package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeutTransiter(t *testing.T) {
	tous := []StatutAbonnement{StatutEnAttente, StatutActif, StatutSuspendu, StatutExpire}

	autorisees := map[StatutAbonnement][]StatutAbonnement{
		StatutEnAttente: {StatutActif, StatutExpire},
		StatutActif:     {StatutSuspendu, StatutExpire},
		StatutSuspendu:  {StatutActif, StatutExpire},
		StatutExpire:    {},
	}

	for _, de := range tous {
		for _, vers := range tous {
			attendu := false
			for _, ok := range autorisees[de] {
				if vers == ok {
					attendu = true
				}
			}
			assert.Equal(t, attendu, PeutTransiter(de, vers), "%s -> %s", de, vers)
		}
	}
}

func TestPeutTransiterStatutInconnu(t *testing.T) {
	assert.False(t, PeutTransiter(StatutAbonnement("inconnu"), StatutActif))
	assert.False(t, PeutTransiter(StatutActif, StatutActif))
}

func TestEstTerminal(t *testing.T) {
	assert.True(t, StatutExpire.EstTerminal())
	assert.False(t, StatutActif.EstTerminal())
	assert.False(t, StatutSuspendu.EstTerminal())
	assert.False(t, StatutEnAttente.EstTerminal())
}

func TestEstValide(t *testing.T) {
	assert.True(t, StatutEnAttente.EstValide())
	assert.True(t, StatutExpire.EstValide())
	assert.False(t, StatutAbonnement("").EstValide())
	assert.False(t, StatutAbonnement("annule").EstValide())
}

func TestCouvreDate(t *testing.T) {
	debut := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	abo := AbonnementModel{AbonnementDateDebut: debut, AbonnementDateFin: fin}

	// bornes incluses
	assert.True(t, abo.CouvreDate(debut))
	assert.True(t, abo.CouvreDate(fin))
	assert.True(t, abo.CouvreDate(debut.AddDate(0, 3, 0)))

	// une seconde hors fenetre suffit
	assert.False(t, abo.CouvreDate(debut.Add(-time.Second)))
	assert.False(t, abo.CouvreDate(fin.Add(time.Second)))
}
