package httpapi

import (
	"testing"

	"eldercare-data/internal/service"

	"github.com/stretchr/testify/require"
)

func TestRosterExportImportRoundTrip(t *testing.T) {
	attendants := []*service.AttendantInfo{
		{
			Name:  "João Souza",
			Email: "joao@example.com",
			Phone: "+5511987654321",
			AttendantData: &service.AttendantProfile{
				CPF:              "123.456.789-01",
				Birthday:         "1990-05-12",
				RegistroConselho: "COREN-12345",
				NivelExperiencia: "pleno",
				Formacao:         "Enfermagem",
				FunctionName:     "Enfermeiro",
				TeamNames:        []string{"Equipe Norte", "Equipe Sul"},
				Specialties:      []string{"Geriatria"},
			},
		},
		{
			Name:          "Ana Lima",
			Phone:         "+5511912345678",
			AttendantData: &service.AttendantProfile{CPF: "987.654.321-09"},
		},
	}

	data, err := GenerateRosterExport(attendants)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	reqs, err := ParseRosterImport(data)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	first := reqs[0]
	require.Equal(t, "João Souza", first.Name)
	require.Equal(t, "joao@example.com", first.Email)
	require.Equal(t, "+5511987654321", first.Phone)
	require.Equal(t, "123.456.789-01", first.AttendantData.CPF)
	require.Equal(t, "1990-05-12", first.AttendantData.Birthday)
	require.Equal(t, "pleno", first.AttendantData.NivelExperiencia)
	require.Equal(t, "Enfermeiro", first.AttendantData.FunctionName)
	require.Equal(t, []string{"Equipe Norte", "Equipe Sul"}, first.AttendantData.TeamNames)
	require.Equal(t, []string{"Geriatria"}, first.AttendantData.Specialties)

	second := reqs[1]
	require.Equal(t, "Ana Lima", second.Name)
	require.Empty(t, second.Email)
	require.Empty(t, second.AttendantData.TeamNames)
}

func TestParseRosterImport_EmptySheet(t *testing.T) {
	data, err := GenerateRosterExport(nil)
	require.NoError(t, err)

	reqs, err := ParseRosterImport(data)
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestSplitNames(t *testing.T) {
	require.Nil(t, splitNames(""))
	require.Equal(t, []string{"A"}, splitNames("A"))
	require.Equal(t, []string{"A", "B"}, splitNames("A; B"))
	require.Equal(t, []string{"A", "B"}, splitNames(" A ;; B ; "))
}
