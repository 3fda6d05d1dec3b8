package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaman/portfolio-backend-go/internal/middleware"
	"github.com/pzaman/portfolio-backend-go/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMigrateCreatesDatabase(t *testing.T) {
	t.Setenv("SCORING_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	db := filepath.Join(t.TempDir(), "data", "portfolio.db")

	out, err := execute(t, "migrate", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 migrations applied")
	assert.FileExists(t, db)
}

func TestIngestThenScore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCORING_CONFIG", filepath.Join(dir, "none.yaml"))
	db := filepath.Join(dir, "portfolio.db")

	chars := writeFile(t, dir, "caract.csv", "num_acc,an,mois,jour,hrmn,lum,agg,int,atm,col,dep\n"+
		"A1,2022,1,3,17:05,1,2,1,1,3,75\n"+
		"A2,2022,1,4,08:40,5,1,2,2,1,13\n"+
		"A3,2022,2,9,17:30,1,2,1,1,3,75\n")
	users := writeFile(t, dir, "usagers.csv", "num_acc,place,catu,grav,sexe,trajet,an_nais\n"+
		"A1,1,1,2,1,5,1990\n"+
		"A2,1,1,3,2,1,1950\n")

	out, err := execute(t, "ingest", models.DatasetAccidentCharacteristics, chars, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "inserted=3")
	_, err = execute(t, "ingest", models.DatasetAccidentUsers, users, "--db", db)
	require.NoError(t, err)

	out, err = execute(t, "score", "--db", db, "--hour", "17:00", "--output", "json")
	require.NoError(t, err)
	var a models.RiskAssessment
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	require.Len(t, a.Factors, 7)
	assert.Equal(t, 1.0, a.Factors[0].Score)
	assert.False(t, a.Cached)

	out, err = execute(t, "score", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")

	_, err = execute(t, "ingest", "weather", chars, "--db", db)
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--secret", "s3cret", "--subject", "ops")
	require.NoError(t, err)

	claims, err := middleware.ParseToken("s3cret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, middleware.RoleAdmin, claims.Role)
}
