/*
 * @module service/report/service_test
 * @description Report assembly and Excel export tests.
 * @dependencies testify, testutil, excelize
 */

package report

import (
	"encoding/json"
	"testing"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/scoring"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDataFactory, *testutil.TestDB) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	engine := scoring.NewEngine(tdb.DB)
	return NewService(tdb.DB, engine), testutil.NewTestDataFactory(tdb.DB), tdb
}

func seedAnsweredAssessment(factory *testutil.TestDataFactory) *models.Assessment {
	domain := factory.CreateDomain(testutil.WithDomainCode("DG"))
	q1 := factory.CreateQuestion(domain.ID)
	q2 := factory.CreateQuestion(domain.ID)
	a := factory.CreateAssessment(testutil.WithAssessmentStatus(models.AssessmentStatusCompleted))
	factory.CreateResponse(a.ID, q1.ID, testutil.IntPtr(3))
	factory.CreateResponse(a.ID, q2.ID, testutil.IntPtr(5))
	return a
}

func TestBuildReport(t *testing.T) {
	svc, factory, _ := newTestService(t)
	a := seedAnsweredAssessment(factory)

	report, err := svc.Build(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, report.Assessment.ID)
	assert.Equal(t, 4.0, report.Maturity.OverallScore)
	assert.Len(t, report.Questions, 2)
}

func TestBuildMissingAssessment(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Build("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportJSONIsValid(t *testing.T) {
	svc, factory, _ := newTestService(t)
	a := seedAnsweredAssessment(factory)

	data, err := svc.ExportJSON(a.ID)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "maturity")
	assert.Contains(t, decoded, "compliance")
}

func TestCompletedSummaryOnlyCompleted(t *testing.T) {
	svc, factory, tdb := newTestService(t)
	a := seedAnsweredAssessment(factory)
	factory.CreateAssessment() // draft, excluded

	score := 4.0
	require.NoError(t, tdb.DB.Model(&models.Assessment{}).Where("id = ?", a.ID).
		Update("maturity_score", score).Error)

	entries, err := svc.CompletedSummary()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a.ID, entries[0].ID)
	require.NotNil(t, entries[0].MaturityScore)
	assert.Equal(t, 4.0, *entries[0].MaturityScore)
}

func TestExportExcelSheets(t *testing.T) {
	svc, factory, _ := newTestService(t)
	a := seedAnsweredAssessment(factory)

	f, err := svc.ExportExcel(a.ID)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Domain Scores")
	assert.Contains(t, sheets, "Responses")

	code, err := f.GetCellValue("Domain Scores", "A2")
	require.NoError(t, err)
	assert.Equal(t, "DG", code)

	rows, err := f.GetRows("Responses")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus two answered questions")
}
