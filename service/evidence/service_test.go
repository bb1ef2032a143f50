/*
 * @module service/evidence/service_test
 * @description Upload, extraction and analysis-pipeline tests using the
 *              temporary directory as storage.
 * @dependencies testify, testutil
 */

package evidence

import (
	"context"
	"crypto/sha256"
	"os"
	"strings"
	"testing"

	"ndi-assessment-service/service/ai"
	"ndi-assessment-service/service/models"
	"ndi-assessment-service/service/settings"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDataFactory, *testutil.TestDB) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	settingsSvc := settings.NewService(tdb.DB, sha256.Sum256([]byte("test")))
	svc := NewService(tdb.DB, t.TempDir(), ai.NewService(tdb.DB, settingsSvc))
	return svc, testutil.NewTestDataFactory(tdb.DB), tdb
}

func createResponse(factory *testutil.TestDataFactory) *models.AssessmentResponse {
	domain := factory.CreateDomain()
	question := factory.CreateQuestion(domain.ID)
	assessment := factory.CreateAssessment()
	return factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(2))
}

func TestUploadStoresFileAndExtractsText(t *testing.T) {
	svc, factory, _ := newTestService(t)
	response := createResponse(factory)

	content := "Approved data governance charter signed by leadership."
	ev, err := svc.Upload(response.ID, testutil.IntPtr(1), "charter.txt", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "txt", ev.FileType)
	assert.Equal(t, models.AnalysisStatusPending, ev.AnalysisStatus)
	assert.Equal(t, content, ev.ExtractedText)
	assert.EqualValues(t, len(content), ev.FileSize)

	stored, err := os.ReadFile(ev.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, string(stored))
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	svc, factory, _ := newTestService(t)
	response := createResponse(factory)

	_, err := svc.Upload(response.ID, nil, "malware.exe", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestUploadRejectsUnknownResponse(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Upload("missing", nil, "a.txt", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc, factory, _ := newTestService(t)
	response := createResponse(factory)

	huge := strings.NewReader(strings.Repeat("a", MaxFileSize+1))
	_, err := svc.Upload(response.ID, nil, "big.txt", huge)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	svc, factory, _ := newTestService(t)
	response := createResponse(factory)

	ev, err := svc.Upload(response.ID, nil, "doc.txt", strings.NewReader("content"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ev.ID))
	_, err = svc.Get(ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, statErr := os.Stat(ev.FilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAnalyzeCompletesWithAdvisoryVerdict(t *testing.T) {
	svc, factory, _ := newTestService(t)

	domain := factory.CreateDomain()
	question := factory.CreateQuestion(domain.ID)
	level := factory.MaturityLevelOf(question.ID, 2)
	factory.CreateAcceptanceEvidence(level.ID, 1, "DG.2.1", nil)
	assessment := factory.CreateAssessment()
	response := factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(2))

	// Factory requirement text is "Required document 1".
	ev, err := svc.Upload(response.ID, testutil.IntPtr(1), "doc.txt",
		strings.NewReader("This required document covers the control."))
	require.NoError(t, err)

	analyzed, err := svc.Analyze(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCompleted, analyzed.AnalysisStatus)
	assert.Equal(t, "yes", analyzed.SupportsLevel())
}

func TestAnalyzePendingDrainsQueue(t *testing.T) {
	svc, factory, tdb := newTestService(t)
	response := createResponse(factory)

	for i := 0; i < 3; i++ {
		_, err := svc.Upload(response.ID, nil, "doc.txt", strings.NewReader("some text"))
		require.NoError(t, err)
	}

	analyzed := svc.AnalyzePending(context.Background(), 10)
	assert.Equal(t, 3, analyzed)

	var pending int64
	tdb.DB.Model(&models.Evidence{}).
		Where("analysis_status = ?", models.AnalysisStatusPending).
		Count(&pending)
	assert.EqualValues(t, 0, pending)
}

func TestExtractTextPlainAndUnknown(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/note.txt"
	require.NoError(t, os.WriteFile(path, []byte("hello evidence"), 0o644))

	text, err := ExtractText(path, "txt")
	require.NoError(t, err)
	assert.Equal(t, "hello evidence", text)

	text, err = ExtractText(path, "docx")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestLiteralStrings(t *testing.T) {
	stream := "BT /F1 12 Tf (Hello) Tj (World \\(escaped\\)) Tj ET"
	out := literalStrings(stream)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "World (escaped)")
	assert.NotContains(t, out, "Tf")
}
