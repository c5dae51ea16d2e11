package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"overtime-approval/database"
	"overtime-approval/models"
	"overtime-approval/repository"
	"overtime-approval/repository/postgresql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB connects to TEST_DATABASE_URL and empties every table. Tests are
// skipped when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.Open(dsn, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	err = db.Exec("TRUNCATE TABLE approval_history, overtime_submissions, overtime_categories, user_roles, profiles CASCADE").Error
	require.NoError(t, err)
	return db
}

func TestProfileRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewProfileRepository(db)

	profile := &models.Profile{NIK: "1001", FullName: "Budi", LineArea: "Line A"}
	require.NoError(t, repo.Create(ctx, profile))
	assert.NotEmpty(t, profile.ID)

	err := repo.Create(ctx, &models.Profile{NIK: "1001", FullName: "Dup", LineArea: "Line A"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repo.ReplaceRoles(ctx, profile.ID, []models.AppRole{models.AppRoleAdmin, models.AppRoleManager}))
	require.NoError(t, repo.ReplaceRoles(ctx, profile.ID, []models.AppRole{models.AppRoleManager}))

	loaded, err := repo.GetByNIK(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, loaded.Role)
	require.Len(t, loaded.AppRoles, 1)
	assert.True(t, loaded.IsManager())
	assert.False(t, loaded.IsAdmin())

	require.NoError(t, repo.Delete(ctx, profile.ID))
	_, err = repo.GetByID(ctx, profile.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var roles int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("user_id = ?", profile.ID).Count(&roles).Error)
	assert.Zero(t, roles)
}

func TestCategoryRepository_InactiveCreate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewCategoryRepository(db)

	require.NoError(t, repo.Create(ctx, &models.OvertimeCategory{
		Name: "Night", StartTime: models.MustParseClock("22:00"), EndTime: models.MustParseClock("06:00"), IsActive: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.OvertimeCategory{
		Name: "Archived", StartTime: models.MustParseClock("08:00"), EndTime: models.MustParseClock("17:00"), IsActive: false,
	}))

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Night", active[0].Name)
	assert.Equal(t, "22:00", active[0].StartTime.String())

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmissionRepository_ApplyDecision(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profiles := postgresql.NewProfileRepository(db)
	submissions := postgresql.NewSubmissionRepository(db)

	leader := "2001"
	require.NoError(t, profiles.Create(ctx, &models.Profile{NIK: leader, FullName: "Lina", LineArea: "Line A", Role: models.RoleLeader}))
	require.NoError(t, profiles.Create(ctx, &models.Profile{NIK: "1001", FullName: "Budi", LineArea: "Line A", Approver1NIK: &leader}))

	sub := &models.OvertimeSubmission{
		EmployeeNIK:    "1001",
		SubmissionDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		StartTime:      models.MustParseClock("17:00"),
		EndTime:        models.MustParseClock("19:00"),
		TotalHours:     2,
		JobDescription: "Setup",
		Status:         models.StatusPending,
		Approver1NIK:   &leader,
	}
	require.NoError(t, submissions.Create(ctx, sub))

	inbox, err := submissions.List(ctx, models.SubmissionFilter{ActionableBy: leader})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.NotNil(t, inbox[0].Employee)
	assert.Equal(t, "Budi", inbox[0].Employee.FullName)

	byLine, err := submissions.List(ctx, models.SubmissionFilter{LineArea: "Line A", Month: 3, Year: 2025})
	require.NoError(t, err)
	assert.Len(t, byLine, 1)

	now := time.Now()
	sub.Status = models.StatusApprovedLevel1
	sub.Approver1ApprovedAt = &now
	entry := &models.ApprovalHistory{OvertimeID: sub.ID, Action: models.StatusApprovedLevel1, ApproverNIK: leader}
	require.NoError(t, submissions.ApplyDecision(ctx, sub, models.StatusPending, entry))

	stale := &models.ApprovalHistory{OvertimeID: sub.ID, Action: models.StatusRejected, ApproverNIK: leader}
	sub.Status = models.StatusRejected
	err = submissions.ApplyDecision(ctx, sub, models.StatusPending, stale)
	assert.ErrorIs(t, err, repository.ErrStaleStatus)

	stored, err := submissions.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApprovedLevel1, stored.Status)
	assert.NotNil(t, stored.Approver1ApprovedAt)

	history, err := submissions.History(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusApprovedLevel1, history[0].Action)

	count, err := submissions.CountByEmployee(ctx, "1001")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = submissions.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = postgresql.NewCategoryRepository(db).GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = profiles.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
