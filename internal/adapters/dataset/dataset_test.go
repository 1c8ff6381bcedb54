package dataset

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const csvSample = `customer_id,name,email,industry,country,job_title,bio,company_size,web_activity_score,email_engagement_score,is_high_value
C1,Ada,ada@example.com,SaaS,US,CTO,Builds platforms.,120,0.9,0.8,1
C2,Bob,,Fintech,DE,Analyst,,30,0.2,0.1,0
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempFile(t, "leads.csv", csvSample)

	records, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "C1", records[0].CustomerID)
	assert.Equal(t, "ada@example.com", records[0].Email)
	assert.Equal(t, "CTO", records[0].JobTitle)
	assert.Equal(t, 120.0, records[0].CompanySize)
	assert.True(t, records[0].IsHighValue)

	assert.Equal(t, "C2", records[1].CustomerID)
	assert.Empty(t, records[1].Email)
	assert.False(t, records[1].IsHighValue)
}

func TestLoadCSVHeaderCaseInsensitive(t *testing.T) {
	path := writeTempFile(t, "leads.csv",
		"Customer_ID,Job_Title\nC1,CEO\n")

	records, err := LoadCSV(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CEO", records[0].JobTitle)
	// Absent numeric columns default to zero.
	assert.Zero(t, records[0].CompanySize)
}

func TestLoadCSVMissingCustomerID(t *testing.T) {
	path := writeTempFile(t, "leads.csv", "name,email\nAda,a@x.com\n")

	_, err := LoadCSV(context.Background(), path)
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE crm (
		customer_id TEXT, name TEXT, email TEXT, industry TEXT, country TEXT,
		job_title TEXT, bio TEXT, company_size REAL,
		web_activity_score REAL, email_engagement_score REAL,
		is_high_value INTEGER
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO crm VALUES
		('C1','Ada','ada@example.com','SaaS','US','CTO','Builds platforms.',120,0.9,0.8,1),
		('C2','Bob','','Fintech','DE','Analyst','',30,0.2,0.1,0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	records, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "C1", records[0].CustomerID)
	assert.True(t, records[0].IsHighValue)
	assert.Equal(t, 0.2, records[1].WebActivityScore)
	assert.False(t, records[1].IsHighValue)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(context.Background(), "leads.parquet")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
