package services

import (
	"context"
	"testing"
	"time"

	"overtime-approval/cache"
	"overtime-approval/events"
	"overtime-approval/models"
	"overtime-approval/notify"
	"overtime-approval/repository/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	svc       *Services
	cache     *cache.Cache
	published *events.Recorder
	outbox    *notify.Outbox

	employee *models.Profile
	leader   *models.Profile
	manager  *models.Profile
	admin    *models.Profile
	outsider *models.Profile

	regular  *models.OvertimeCategory
	night    *models.OvertimeCategory
	archived *models.OvertimeCategory
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	c, err := cache.New(16)
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		cache:     c,
		published: &events.Recorder{},
		outbox:    &notify.Outbox{},
	}
	repos := Repositories{
		Profiles:    store.Profiles(),
		Categories:  store.Categories(),
		Submissions: store.Submissions(),
	}
	f.svc = New(repos, c, f.published, f.outbox)
	f.svc.Overtime.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	profile := func(p models.Profile, roles ...models.AppRole) *models.Profile {
		require.NoError(t, repos.Profiles.Create(ctx, &p))
		if len(roles) > 0 {
			require.NoError(t, repos.Profiles.ReplaceRoles(ctx, p.ID, roles))
		}
		loaded, err := repos.Profiles.GetByID(ctx, p.ID)
		require.NoError(t, err)
		return loaded
	}
	f.leader = profile(models.Profile{NIK: "2001", FullName: "Lina Leader", LineArea: "Line A", Role: models.RoleLeader, Email: strPtr("lina@example.com")})
	f.manager = profile(models.Profile{NIK: "3001", FullName: "Maman Manager", LineArea: "Office", Role: models.RoleManager, Email: strPtr("maman@example.com")})
	f.admin = profile(models.Profile{NIK: "9001", FullName: "Ani Admin", LineArea: "Office", Role: models.RoleOperator}, models.AppRoleAdmin)
	f.employee = profile(models.Profile{NIK: "1001", FullName: "Budi", LineArea: "Line A", Role: models.RoleOperator,
		Approver1NIK: strPtr("2001"), Approver2NIK: strPtr("3001")})
	f.outsider = profile(models.Profile{NIK: "1002", FullName: "Citra", LineArea: "Line B", Role: models.RoleOperator})

	category := func(name, start, end string, active bool) *models.OvertimeCategory {
		c := &models.OvertimeCategory{Name: name, StartTime: models.MustParseClock(start), EndTime: models.MustParseClock(end), IsActive: active}
		require.NoError(t, repos.Categories.Create(ctx, c))
		return c
	}
	f.regular = category("Regular", "17:00", "19:00", true)
	f.night = category("Night", "22:00", "06:00", true)
	f.archived = category("Archived", "08:00", "17:00", false)

	return f
}

func (f *fixture) submit(t *testing.T, employee *models.Profile, category *models.OvertimeCategory) *models.OvertimeSubmission {
	t.Helper()
	sub, err := f.svc.Overtime.Submit(context.Background(), employee, SubmitOvertimeRequest{
		CategoryID:     category.ID,
		JobDescription: "Line maintenance",
	})
	require.NoError(t, err)
	return sub
}
