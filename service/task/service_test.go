/*
 * @module service/task/service_test
 * @description Task assignment, filtering, statistics and overdue-sweep tests.
 * @dependencies testify, testutil
 */

package task

import (
	"testing"
	"time"

	"ndi-assessment-service/service/models"
	"ndi-assessment-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDataFactory) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewService(tdb.DB), testutil.NewTestDataFactory(tdb.DB)
}

func TestCreateAndCompleteTask(t *testing.T) {
	svc, factory := newTestService(t)
	a := factory.CreateAssessment()

	task, err := svc.Create(&CreateRequest{
		AssessmentID: a.ID,
		AssignedTo:   "user-1",
		AssignedBy:   "admin-1",
		TitleEn:      "Answer governance questions",
		TitleAr:      "الإجابة على أسئلة الحوكمة",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)

	completed := models.TaskStatusCompleted
	updated, err := svc.Update(task.ID, &UpdateRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestCreateValidation(t *testing.T) {
	svc, factory := newTestService(t)
	a := factory.CreateAssessment()

	_, err := svc.Create(&CreateRequest{AssignedTo: "u"})
	assert.Error(t, err, "missing assessment")

	_, err = svc.Create(&CreateRequest{AssessmentID: "missing", AssignedTo: "u"})
	assert.Error(t, err, "unknown assessment")

	_, err = svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u", Priority: "asap"})
	assert.Error(t, err, "unknown priority")
}

func TestListFiltersByAssignee(t *testing.T) {
	svc, factory := newTestService(t)
	a := factory.CreateAssessment()

	for _, user := range []string{"user-1", "user-1", "user-2"} {
		_, err := svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: user, TitleEn: "t", TitleAr: "م"})
		require.NoError(t, err)
	}

	mine, err := svc.List("", "user-1", "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.List(a.ID, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarkOverdueSkipsCompleted(t *testing.T) {
	svc, factory := newTestService(t)
	a := factory.CreateAssessment()
	past := time.Now().Add(-48 * time.Hour)

	open, err := svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u", TitleEn: "t", TitleAr: "م", DueDate: &past})
	require.NoError(t, err)
	done, err := svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u", TitleEn: "t", TitleAr: "م", DueDate: &past})
	require.NoError(t, err)
	completed := models.TaskStatusCompleted
	_, err = svc.Update(done.ID, &UpdateRequest{Status: &completed})
	require.NoError(t, err)

	changed, err := svc.MarkOverdue(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	reloaded, err := svc.Get(open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusOverdue, reloaded.Status)

	stillDone, err := svc.Get(done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, stillDone.Status)
}

func TestStats(t *testing.T) {
	svc, factory := newTestService(t)
	a := factory.CreateAssessment()

	t1, _ := svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u1", TitleEn: "t", TitleAr: "م"})
	svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u1", TitleEn: "t", TitleAr: "م"})
	svc.Create(&CreateRequest{AssessmentID: a.ID, AssignedTo: "u2", TitleEn: "t", TitleAr: "م"})

	completed := models.TaskStatusCompleted
	_, err := svc.Update(t1.ID, &UpdateRequest{Status: &completed})
	require.NoError(t, err)

	stats, err := svc.StatsFor("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 1, stats.Completed)
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete("missing"), ErrNotFound)
}
