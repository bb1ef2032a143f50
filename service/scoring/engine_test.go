/*
 * @module service/scoring/engine_test
 * @description Scoring engine tests over an in-memory database: domain
 *              aggregation rules, compliance determination, graceful
 *              degradation and recalculation idempotence.
 * @stateFlow taxonomy fixture -> responses -> score computation -> assertions
 * @dependencies testing, testify, ndi-assessment-service/testutil
 */

package scoring

import (
	"encoding/json"
	"testing"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	testDB  *testutil.TestDB
	factory *testutil.TestDataFactory
	engine  *Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.testDB = testutil.NewTestDB()
	s.factory = testutil.NewTestDataFactory(s.testDB.DB)
	s.engine = NewEngine(s.testDB.DB)
}

func (s *EngineTestSuite) TearDownTest() {
	s.testDB.Close()
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestMaturityRoundTrip() {
	// DG with two questions answered 3 and 5: domain score 4.0, which sits
	// exactly on the [4.00, 4.75) boundary and therefore maps to level 4.
	domain := s.factory.CreateDomain(testutil.WithDomainCode("DG"))
	q1 := s.factory.CreateQuestion(domain.ID, testutil.WithQuestionCode("DG.MQ.1"))
	q2 := s.factory.CreateQuestion(domain.ID, testutil.WithQuestionCode("DG.MQ.2"))

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, q1.ID, testutil.IntPtr(3))
	s.factory.CreateResponse(assessment.ID, q2.ID, testutil.IntPtr(5))

	result, err := s.engine.CalculateMaturityScore(assessment.ID)
	s.NoError(err)
	s.Equal(4.0, result.OverallScore)
	s.Equal(4, result.OverallLevel)
	s.Equal("Managed", result.OverallLevelNameEn)
	s.Equal("الإدارة", result.OverallLevelNameAr)
	s.Equal(80.0, result.OverallPercentage)
	s.Equal(2, result.AnsweredCount)
	s.Equal(2, result.TotalQuestions)

	s.Len(result.DomainScores, 1)
	ds := result.DomainScores[0]
	s.Equal("DG", ds.DomainCode)
	s.Equal(4.0, ds.Score)
	s.Equal(4, ds.Level)
	s.Equal(2, ds.AnsweredCount)
	s.Equal(2, ds.TotalQuestions)
}

func (s *EngineTestSuite) TestUnansweredDomainExcludedFromOverall() {
	// Domain A fully answered at 3.0, domain B untouched: overall must be
	// 3.0, not (3.0+0)/2. B itself still reports as level 0 / 0%.
	domainA := s.factory.CreateDomain(testutil.WithDomainCode("DG"))
	domainB := s.factory.CreateDomain(testutil.WithDomainCode("DQ"))
	qa := s.factory.CreateQuestion(domainA.ID)
	s.factory.CreateQuestion(domainB.ID)

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, qa.ID, testutil.IntPtr(3))

	result, err := s.engine.CalculateMaturityScore(assessment.ID)
	s.NoError(err)
	s.Equal(3.0, result.OverallScore)
	s.Equal(3, result.OverallLevel)

	s.Len(result.DomainScores, 2)
	var scoreB DomainScore
	for _, ds := range result.DomainScores {
		if ds.DomainCode == "DQ" {
			scoreB = ds
		}
	}
	s.Equal(0.0, scoreB.Score)
	s.Equal(0, scoreB.Level)
	s.Equal(0.0, scoreB.Percentage)
	s.Equal("Absence of Capabilities", scoreB.LevelNameEn)
}

func (s *EngineTestSuite) TestDomainMeanUsesAnsweredSubsetOnly() {
	// 2 of 5 questions answered with levels 2 and 4: domain score is 3.0,
	// the mean of the answered subset, not 6/5.
	domain := s.factory.CreateDomain()
	questions := make([]*models.Question, 5)
	for i := range questions {
		questions[i] = s.factory.CreateQuestion(domain.ID)
	}

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, questions[0].ID, testutil.IntPtr(2))
	s.factory.CreateResponse(assessment.ID, questions[1].ID, testutil.IntPtr(4))
	// A placeholder row without a level must count as unanswered.
	s.factory.CreateResponse(assessment.ID, questions[2].ID, nil)

	result, err := s.engine.CalculateMaturityScore(assessment.ID)
	s.NoError(err)
	s.Len(result.DomainScores, 1)
	s.Equal(3.0, result.DomainScores[0].Score)
	s.Equal(2, result.DomainScores[0].AnsweredCount)
	s.Equal(5, result.DomainScores[0].TotalQuestions)
	s.Equal(3.0, result.OverallScore)
}

func (s *EngineTestSuite) TestEmptyAssessmentScoresZero() {
	domain := s.factory.CreateDomain()
	s.factory.CreateQuestion(domain.ID)
	assessment := s.factory.CreateAssessment()

	result, err := s.engine.CalculateMaturityScore(assessment.ID)
	s.NoError(err)
	s.Equal(0.0, result.OverallScore)
	s.Equal(0, result.OverallLevel)
	s.Equal(0.0, result.OverallPercentage)
	s.Equal(0, result.AnsweredCount)
}

func (s *EngineTestSuite) TestComplianceBinaryCounts() {
	// Three specification-tagged items at the selected level; uploads cover
	// ordinals 1 and 3. Expect 2 compliant, 1 non-compliant, 66.7%.
	domain := s.factory.CreateDomain(testutil.WithDomainCode("DG"))
	question := s.factory.CreateQuestion(domain.ID, testutil.WithQuestionCode("DG.MQ.1"))
	level3 := s.factory.MaturityLevelOf(question.ID, 3)
	s.factory.CreateAcceptanceEvidence(level3.ID, 1, "DG.1.1", nil)
	s.factory.CreateAcceptanceEvidence(level3.ID, 2, "DG.1.2", nil)
	s.factory.CreateAcceptanceEvidence(level3.ID, 3, "DG.1.3", nil)

	assessment := s.factory.CreateAssessment()
	response := s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(3))
	s.factory.CreateEvidence(response.ID, testutil.IntPtr(1))
	s.factory.CreateEvidence(response.ID, testutil.IntPtr(3))

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(2, result.CompliantCount)
	s.Equal(0, result.PartialCount)
	s.Equal(1, result.NonCompliantCount)
	s.Equal(3, result.TotalSpecifications)
	s.Equal(66.7, result.CompliancePercentage)
	s.False(result.IsCompliant)
	s.Len(result.SpecificationsDetail, 3)

	for _, detail := range result.SpecificationsDetail {
		s.Equal("DG.MQ.1", detail.QuestionCode)
		if detail.EvidenceID == 2 {
			s.Equal("non_compliant", detail.Status)
			s.False(detail.HasEvidence)
		} else {
			s.Equal("compliant", detail.Status)
			s.True(detail.HasEvidence)
		}
	}
}

func (s *EngineTestSuite) TestComplianceNeverVacuouslyTrue() {
	// No specification-tagged items anywhere: total 0, percentage 0 and
	// is_compliant false.
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	level2 := s.factory.MaturityLevelOf(question.ID, 2)
	// Present but untagged, so not compliance-relevant.
	s.factory.CreateAcceptanceEvidence(level2.ID, 1, "", nil)

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(2))

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(0, result.TotalSpecifications)
	s.Equal(0.0, result.CompliancePercentage)
	s.False(result.IsCompliant)
}

func (s *EngineTestSuite) TestComplianceFullyCovered() {
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	level1 := s.factory.MaturityLevelOf(question.ID, 1)
	s.factory.CreateAcceptanceEvidence(level1.ID, 1, "DG.2.1", nil)

	assessment := s.factory.CreateAssessment()
	response := s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(1))
	s.factory.CreateEvidence(response.ID, testutil.IntPtr(1))

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(1, result.CompliantCount)
	s.Equal(100.0, result.CompliancePercentage)
	s.True(result.IsCompliant)
}

func (s *EngineTestSuite) TestInheritanceNotResolvedAcrossLevels() {
	// The level-3 item inherits from level 2 and a file was uploaded against
	// the level-2 response history, but the check only looks at files
	// attached to the current response with a matching ordinal. An inherited
	// item with no same-level upload stays non-compliant.
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	level3 := s.factory.MaturityLevelOf(question.ID, 3)
	inherits := 2
	s.factory.CreateAcceptanceEvidence(level3.ID, 1, "DG.3.1", &inherits)

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(3))

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(1, result.TotalSpecifications)
	s.Equal(0, result.CompliantCount)
	s.False(result.IsCompliant)
}

func (s *EngineTestSuite) TestUnlinkedUploadsDoNotSatisfySpecifications() {
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	level1 := s.factory.MaturityLevelOf(question.ID, 1)
	s.factory.CreateAcceptanceEvidence(level1.ID, 1, "DG.4.1", nil)

	assessment := s.factory.CreateAssessment()
	response := s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(1))
	// Uploaded but not linked to any acceptance-evidence ordinal.
	s.factory.CreateEvidence(response.ID, nil)

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(0, result.CompliantCount)
	s.Equal(1, result.NonCompliantCount)
}

func (s *EngineTestSuite) TestMissingMaturityLevelContributesNothing() {
	// Degraded taxonomy: the response's selected level has no row. The
	// response contributes zero specification items instead of failing.
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	s.testDB.DB.Where("question_id = ? AND level = ?", question.ID, 4).
		Delete(&models.MaturityLevel{})

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(4))

	result, err := s.engine.CalculateComplianceScore(assessment.ID)
	s.NoError(err)
	s.Equal(0, result.TotalSpecifications)
	s.False(result.IsCompliant)

	// The maturity engine still counts the answer itself.
	maturity, err := s.engine.CalculateMaturityScore(assessment.ID)
	s.NoError(err)
	s.Equal(4.0, maturity.OverallScore)
}

func (s *EngineTestSuite) TestCombinedQuestionDetails() {
	domain := s.factory.CreateDomain(testutil.WithDomainCode("DG"))
	question := s.factory.CreateQuestion(domain.ID, testutil.WithQuestionCode("DG.MQ.1"))
	level2 := s.factory.MaturityLevelOf(question.ID, 2)
	s.factory.CreateAcceptanceEvidence(level2.ID, 1, "DG.5.1", nil)
	s.factory.CreateAcceptanceEvidence(level2.ID, 2, "", nil)

	assessment := s.factory.CreateAssessment()
	response := s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(2))
	s.factory.CreateEvidence(response.ID, testutil.IntPtr(1))

	combined, err := s.engine.CombinedAssessment(assessment.ID)
	s.NoError(err)
	s.Len(combined.QuestionDetails, 1)

	detail := combined.QuestionDetails[0]
	s.Equal("DG.MQ.1", detail.QuestionCode)
	s.Equal("DG", detail.DomainCode)
	s.Equal(2, detail.SelectedLevel)
	s.Equal("Defined", detail.LevelNameEn)
	s.Equal(2, detail.RequiredEvidenceCount)
	s.Equal(1, detail.UploadedEvidenceCount)
	s.Len(detail.SpecificationsStatus, 1) // untagged item excluded
	s.True(detail.AllSpecsCompliant)
}

func (s *EngineTestSuite) TestAllSpecsCompliantVacuouslyTrue() {
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)

	assessment := s.factory.CreateAssessment()
	s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(1))

	combined, err := s.engine.CombinedAssessment(assessment.ID)
	s.NoError(err)
	s.Len(combined.QuestionDetails, 1)
	s.True(combined.QuestionDetails[0].AllSpecsCompliant)
	s.Empty(combined.QuestionDetails[0].SpecificationsStatus)
}

func (s *EngineTestSuite) TestRecalculateIdempotentAndPersistent() {
	domain := s.factory.CreateDomain()
	question := s.factory.CreateQuestion(domain.ID)
	level3 := s.factory.MaturityLevelOf(question.ID, 3)
	s.factory.CreateAcceptanceEvidence(level3.ID, 1, "DG.6.1", nil)

	assessment := s.factory.CreateAssessment()
	response := s.factory.CreateResponse(assessment.ID, question.ID, testutil.IntPtr(3))
	s.factory.CreateEvidence(response.ID, testutil.IntPtr(1))

	first, err := s.engine.Recalculate(assessment.ID)
	s.NoError(err)
	second, err := s.engine.Recalculate(assessment.ID)
	s.NoError(err)

	// Byte-identical results with no intervening data change.
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	s.Equal(string(firstJSON), string(secondJSON))

	var stored models.Assessment
	s.NoError(s.testDB.DB.First(&stored, "id = ?", assessment.ID).Error)
	s.NotNil(stored.MaturityScore)
	s.Equal(3.0, *stored.MaturityScore)
	s.NotNil(stored.CurrentScore)
	s.Equal(3.0, *stored.CurrentScore)
	s.NotNil(stored.ComplianceScore)
	s.Equal(100.0, *stored.ComplianceScore)
}

func (s *EngineTestSuite) TestRecalculateMissingAssessmentIsNoOp() {
	_, err := s.engine.Recalculate("does-not-exist")
	s.NoError(err)
}
