package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sirenecole_backend/internals/features/provisioning/repository"
	tokenService "sirenecole_backend/internals/features/tokens/service"
)

/* ===================== Fakes ===================== */

type fakeDepot struct {
	config    *repository.ConfigSirene
	configErr error

	prog    *repository.ProgrammationActive
	progErr error

	connexions []string
}

func (f *fakeDepot) ChargerConfig(numeroSerie string, now time.Time) (*repository.ConfigSirene, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeDepot) ProgrammationCourante(numeroSerie string, now time.Time) (*repository.ProgrammationActive, error) {
	if f.progErr != nil {
		return nil, f.progErr
	}
	return f.prog, nil
}

func (f *fakeDepot) MarquerConnexion(numeroSerie string, now time.Time) error {
	f.connexions = append(f.connexions, numeroSerie)
	return nil
}

type fakeVerifieur struct {
	err error
}

func (f *fakeVerifieur) Verifier(presente, numeroSerie string, now time.Time) error {
	return f.err
}

func newTestApp(depot repository.Depot, verifieur repository.VerifieurToken) *fiber.App {
	app := fiber.New()
	ctrl := NewProvisioningController(depot, verifieur)
	ctrl.Now = func() time.Time {
		return time.Date(2025, 10, 6, 8, 0, 0, 0, time.UTC)
	}
	app.Get("/api/sirenes/config/:numero_serie", ctrl.Config)
	app.Get("/api/sirenes/:numero_serie/programmation", ctrl.Programmation)
	return app
}

func decodeEnveloppe(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

/* ===================== Bootstrap ===================== */

func TestConfigOK(t *testing.T) {
	depot := &fakeDepot{
		config: &repository.ConfigSirene{
			NumeroSerie:   "SIR-2025-0001",
			EcoleNom:      "Ecole Jules Ferry",
			SiteNom:       "Site principal",
			TokenChiffre:  "blob-chiffre",
			TokenExpireLe: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	app := newTestApp(depot, &fakeVerifieur{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/sirenes/config/SIR-2025-0001", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnveloppe(t, resp)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "SIR-2025-0001", data["numero_serie"])
	assert.Equal(t, "blob-chiffre", data["token"])
}

func TestConfigRefus(t *testing.T) {
	cas := []struct {
		nom string
		err error
	}{
		{"sirene inconnue", repository.ErrSireneInconnue},
		{"abonnement inactif", repository.ErrAbonnementInactif},
		{"token absent", repository.ErrTokenAbsent},
	}
	for _, c := range cas {
		t.Run(c.nom, func(t *testing.T) {
			app := newTestApp(&fakeDepot{configErr: c.err}, &fakeVerifieur{})
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/sirenes/config/SIR-X", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		})
	}
}

/* ===================== Programmation ===================== */

func requeteProgrammation(token string) *http.Request {
	req := httptest.NewRequest(fiber.MethodGet, "/api/sirenes/SIR-2025-0001/programmation", nil)
	if token != "" {
		req.Header.Set(HeaderToken, token)
	}
	return req
}

func TestProgrammationOK(t *testing.T) {
	genere := time.Date(2025, 10, 1, 7, 30, 0, 0, time.UTC)
	depot := &fakeDepot{
		prog: &repository.ProgrammationActive{
			ProgrammationID: uuid.New(),
			Nom:             "Annee 2025-2026",
			Chiffre:         "payload-chiffre",
			Version:         1,
			GenereLe:        genere,
		},
	}
	app := newTestApp(depot, &fakeVerifieur{})

	resp, err := app.Test(requeteProgrammation("token-valide"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnveloppe(t, resp)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "payload-chiffre", data["chiffre"])
	assert.Equal(t, float64(1), data["version"])

	// la derniere connexion est tracee
	assert.Equal(t, []string{"SIR-2025-0001"}, depot.connexions)
}

func TestProgrammationSansToken(t *testing.T) {
	depot := &fakeDepot{}
	app := newTestApp(depot, &fakeVerifieur{})

	resp, err := app.Test(requeteProgrammation(""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, depot.connexions)
}

func TestProgrammationTokenRefuse(t *testing.T) {
	cas := []struct {
		nom string
		err error
	}{
		{"token corrompu", tokenService.ErrTokenCorrompu},
		{"token invalide", tokenService.ErrTokenInvalide},
		{"token expire", tokenService.ErrTokenExpire},
		{"token absent en base", tokenService.ErrTokenAbsent},
		{"abonnement inactif", tokenService.ErrAbonnementInactif},
	}
	for _, c := range cas {
		t.Run(c.nom, func(t *testing.T) {
			depot := &fakeDepot{}
			app := newTestApp(depot, &fakeVerifieur{err: c.err})

			resp, err := app.Test(requeteProgrammation("token-quelconque"))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Empty(t, depot.connexions)
		})
	}
}

func TestProgrammationAbsente(t *testing.T) {
	depot := &fakeDepot{progErr: repository.ErrProgrammationAbsente}
	app := newTestApp(depot, &fakeVerifieur{})

	resp, err := app.Test(requeteProgrammation("token-valide"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Empty(t, depot.connexions)
}
