package logics

import (
	"testing"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	admin := &models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, db.Create(admin).Error)

	goalSvc := NewGoalService(db, nil)
	g, err := goalSvc.Create(user, CreateGoalParams{
		Title:       "Run 10km",
		Category:    models.GoalCategoryExercise,
		TargetValue: floatPtr(10),
	})
	require.NoError(t, err)
	_, _, err = goalSvc.UpdateProgress(user, g.ID, UpdateProgressParams{CurrentValue: floatPtr(10)})
	require.NoError(t, err)

	seedContent(t, db, "Protein Guide", "article", true, true)

	svc := NewAdminService(db)
	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users.TotalUsers)
	assert.Equal(t, int64(1), stats.Users.AdminUsers)
	assert.Equal(t, int64(1), stats.Goals.TotalGoals)
	assert.Equal(t, int64(1), stats.Goals.CompletedGoals)
	assert.Equal(t, int64(1), stats.Content.TotalContent)
	assert.Equal(t, int64(1), stats.Content.FeaturedContent)
	assert.Len(t, stats.RecentSignups, 2)
}

func TestAdminListUsersSearch(t *testing.T) {
	db := testDB(t)
	seedUser(t, db)
	require.NoError(t, db.Create(&models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}).Error)

	svc := NewAdminService(db)

	all, err := svc.ListUsers("", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all.Users, 2)

	found, err := svc.ListUsers("BOB", 0, 0)
	require.NoError(t, err)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "bob", found.Users[0].Username)
}

func TestAdminUpdateUserStatus(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	admin := &models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, db.Create(admin).Error)

	svc := NewAdminService(db)
	on := true

	// Cannot change own flags.
	err := svc.UpdateUserStatus(admin, admin.ID, UpdateUserStatusParams{IsAdmin: &on})
	require.Error(t, err)
	assert.True(t, IsServiceError(err, ErrValidation))

	// Empty update is rejected.
	err = svc.UpdateUserStatus(admin, user.ID, UpdateUserStatusParams{})
	require.Error(t, err)
	assert.True(t, IsServiceError(err, ErrValidation))

	// Unknown target.
	err = svc.UpdateUserStatus(admin, 999, UpdateUserStatusParams{IsAdmin: &on})
	require.Error(t, err)
	assert.True(t, IsServiceError(err, ErrNotFound))

	require.NoError(t, svc.UpdateUserStatus(admin, user.ID, UpdateUserStatusParams{IsAdmin: &on, EmailVerified: &on}))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.True(t, reloaded.IsAdmin)
	assert.True(t, reloaded.EmailVerified)
}
