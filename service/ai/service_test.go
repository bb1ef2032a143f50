/*
 * @module service/ai/service_test
 * @description Heuristic gap-analysis and evidence-review tests. Provider
 *              paths are exercised only for their fallback behavior: no
 *              network calls in tests.
 * @dependencies testify, testutil
 */

package ai

import (
	"context"
	"crypto/sha256"
	"testing"

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
	return NewService(tdb.DB, settingsSvc), testutil.NewTestDataFactory(tdb.DB), tdb
}

func TestAnalyzeGapsPrioritizesLargestGaps(t *testing.T) {
	svc, factory, _ := newTestService(t)

	weak := factory.CreateDomain(testutil.WithDomainCode("DG"))
	strong := factory.CreateDomain(testutil.WithDomainCode("DQ"))
	q1 := factory.CreateQuestion(weak.ID)
	q2 := factory.CreateQuestion(strong.ID)

	a := factory.CreateAssessment()
	target := 4
	require.NoError(t, svc.db.Model(&models.Assessment{}).Where("id = ?", a.ID).Update("target_level", target).Error)
	factory.CreateResponse(a.ID, q1.ID, testutil.IntPtr(1)) // gap 3
	factory.CreateResponse(a.ID, q2.ID, testutil.IntPtr(3)) // gap 1

	analysis, err := svc.AnalyzeGaps(context.Background(), a.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "heuristic", analysis.Source)
	assert.Equal(t, 4, analysis.TargetLevel)
	require.Len(t, analysis.Recommendations, 2)
	assert.Equal(t, "DG", analysis.Recommendations[0].DomainCode)
	assert.Equal(t, "high", analysis.Recommendations[0].Priority)
	assert.Equal(t, "medium", analysis.Recommendations[1].Priority)
}

func TestAnalyzeGapsSkipsDomainsAtOrAboveTarget(t *testing.T) {
	svc, factory, _ := newTestService(t)

	domain := factory.CreateDomain(testutil.WithDomainCode("DG"))
	q := factory.CreateQuestion(domain.ID)
	a := factory.CreateAssessment()
	require.NoError(t, svc.db.Model(&models.Assessment{}).Where("id = ?", a.ID).Update("target_level", 3).Error)
	factory.CreateResponse(a.ID, q.ID, testutil.IntPtr(4))

	analysis, err := svc.AnalyzeGaps(context.Background(), a.ID, "en")
	require.NoError(t, err)
	assert.Empty(t, analysis.Recommendations)
	assert.Zero(t, analysis.OverallGap)
}

func TestAnalyzeGapsArabicOutput(t *testing.T) {
	svc, factory, _ := newTestService(t)

	domain := factory.CreateDomain(testutil.WithDomainCode("DG"))
	q := factory.CreateQuestion(domain.ID)
	a := factory.CreateAssessment()
	factory.CreateResponse(a.ID, q.ID, testutil.IntPtr(1))

	analysis, err := svc.AnalyzeGaps(context.Background(), a.ID, "ar")
	require.NoError(t, err)
	require.Len(t, analysis.Recommendations, 1)
	assert.Equal(t, domain.NameAr, analysis.Recommendations[0].DomainName)
	assert.Contains(t, analysis.Recommendations[0].Action, "حوكمة")
}

func TestReviewEvidenceKeywordVerdicts(t *testing.T) {
	svc, factory, _ := newTestService(t)

	domain := factory.CreateDomain()
	q := factory.CreateQuestion(domain.ID)
	level := factory.MaturityLevelOf(q.ID, 2)
	factory.CreateAcceptanceEvidence(level.ID, 1, "DG.2.1", nil)

	a := factory.CreateAssessment()
	response := factory.CreateResponse(a.ID, q.ID, testutil.IntPtr(2))

	ev := factory.CreateEvidence(response.ID, testutil.IntPtr(1))
	// The requirement text from the factory is "Required document 1".
	require.NoError(t, svc.db.Model(&models.Evidence{}).Where("id = ?", ev.ID).
		Update("extracted_text", "This required document covers everything.").Error)

	review, err := svc.ReviewEvidence(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "yes", review.SupportsLevel)
	assert.Equal(t, "heuristic", review.Source)

	// Verdict persisted into the analysis blob.
	var reloaded models.Evidence
	require.NoError(t, svc.db.First(&reloaded, "id = ?", ev.ID).Error)
	assert.Equal(t, "yes", reloaded.SupportsLevel())
	assert.Equal(t, models.AnalysisStatusCompleted, reloaded.AnalysisStatus)
	assert.NotNil(t, reloaded.AnalyzedAt)
}

func TestReviewEvidenceNoTextIsNo(t *testing.T) {
	svc, factory, _ := newTestService(t)

	domain := factory.CreateDomain()
	q := factory.CreateQuestion(domain.ID)
	a := factory.CreateAssessment()
	response := factory.CreateResponse(a.ID, q.ID, testutil.IntPtr(1))
	ev := factory.CreateEvidence(response.ID, nil)

	review, err := svc.ReviewEvidence(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "no", review.SupportsLevel)
}

func TestChatWithoutProviderFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, "en")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestPriorityBands(t *testing.T) {
	assert.Equal(t, "high", priorityForGap(2.0))
	assert.Equal(t, "medium", priorityForGap(1.5))
	assert.Equal(t, "low", priorityForGap(0.5))
}
