package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

func newScope(enforce bool) *ScopeService {
	return NewScopeService(newDirectory(newRoster()), enforce, nil)
}

func TestScopeZonalManagerCoversBothTeams(t *testing.T) {
	scope, err := newScope(true).Resolve(context.Background(), models.Session{Email: zmEmail, Role: models.RoleZonalManager}, models.FilterState{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{rm1Email, e1Email, e2Email, rm2Email, e3Email}, scope)
}

func TestScopeEmployeeSeesOnlyThemselves(t *testing.T) {
	filter := models.FilterState{SelectedEmployee: e3Email, SelectedRM: rm2Email}
	scope, err := newScope(true).Resolve(context.Background(), models.Session{Email: e1Email, Role: models.RoleEmployee}, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{e1Email}, scope)
}

func TestScopeReportingManager(t *testing.T) {
	session := models.Session{Email: rm1Email, Role: models.RoleReportingManager}
	ctx := context.Background()

	scope, err := newScope(true).Resolve(ctx, session, models.FilterState{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1Email, e2Email, rm1Email}, scope)

	scope, err = newScope(true).Resolve(ctx, session, models.FilterState{SelectedEmployee: e2Email})
	require.NoError(t, err)
	assert.Equal(t, []string{e2Email}, scope)
}

func TestScopeSelectionOutsideSubtree(t *testing.T) {
	ctx := context.Background()
	rm := models.Session{Email: rm1Email, Role: models.RoleReportingManager}
	zm := models.Session{Email: zmEmail, Role: models.RoleZonalManager}

	scope, err := newScope(true).Resolve(ctx, rm, models.FilterState{SelectedEmployee: e4Email})
	require.NoError(t, err)
	assert.Empty(t, scope)

	scope, err = newScope(true).Resolve(ctx, zm, models.FilterState{SelectedRM: rm3Email})
	require.NoError(t, err)
	assert.Empty(t, scope)

	scope, err = newScope(false).Resolve(ctx, rm, models.FilterState{SelectedEmployee: e4Email})
	require.NoError(t, err)
	assert.Equal(t, []string{e4Email}, scope)
}

func TestScopeZonalManagerSelections(t *testing.T) {
	ctx := context.Background()
	zm := models.Session{Email: zmEmail, Role: models.RoleZonalManager}

	scope, err := newScope(true).Resolve(ctx, zm, models.FilterState{SelectedRM: rm2Email})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e3Email, rm2Email}, scope)

	scope, err = newScope(true).Resolve(ctx, zm, models.FilterState{SelectedRM: rm2Email, SelectedEmployee: e1Email})
	require.NoError(t, err)
	assert.Equal(t, []string{e1Email}, scope)
}

func TestScopeProgramTeam(t *testing.T) {
	ctx := context.Background()
	pt := models.Session{Email: ptEmail, Role: models.RoleProgramTeam}

	all, err := newScope(true).Resolve(ctx, pt, models.FilterState{})
	require.NoError(t, err)
	assert.Len(t, all, 9)

	zone, err := newScope(true).Resolve(ctx, pt, models.FilterState{SelectedZM: zm2Email})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e4Email, rm3Email}, zone)

	team, err := newScope(true).Resolve(ctx, pt, models.FilterState{SelectedRM: rm1Email})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1Email, e2Email}, team)

	one, err := newScope(true).Resolve(ctx, pt, models.FilterState{SelectedZM: zmEmail, SelectedEmployee: e4Email})
	require.NoError(t, err)
	assert.Equal(t, []string{e4Email}, one)
}

func TestScopeResolveEligibleForOrders(t *testing.T) {
	zm := models.Session{Email: zmEmail, Role: models.RoleZonalManager}

	scope, err := newScope(true).ResolveEligible(context.Background(), zm, models.FilterState{}, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{rm1Email, e1Email, rm2Email, e3Email}, scope)
}

func TestScopeUnknownRole(t *testing.T) {
	_, err := newScope(true).Resolve(context.Background(), models.Session{Email: e1Email, Role: "guest"}, models.FilterState{})
	require.Error(t, err)
}

func TestScopeZonalManagerSelectingThemselves(t *testing.T) {
	ctx := context.Background()
	zm := models.Session{Email: zmEmail, Role: models.RoleZonalManager}

	for _, enforce := range []bool{true, false} {
		scope, err := newScope(enforce).Resolve(ctx, zm, models.FilterState{SelectedEmployee: zmEmail})
		require.NoError(t, err)
		assert.Equal(t, []string{zmEmail}, scope)

		eligible, err := newScope(enforce).ResolveEligible(ctx, zm, models.FilterState{SelectedEmployee: zmEmail}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{zmEmail}, eligible)
	}
}

func TestScopeResolutionIsRepeatable(t *testing.T) {
	sessions := []models.Session{
		{Email: e1Email, Role: models.RoleEmployee},
		{Email: rm1Email, Role: models.RoleReportingManager},
		{Email: zmEmail, Role: models.RoleZonalManager},
		{Email: ptEmail, Role: models.RoleProgramTeam},
	}
	filters := map[string]models.FilterState{
		"none":          {},
		"rm":            {SelectedRM: rm2Email},
		"zm":            {SelectedZM: zm2Email},
		"employee":      {SelectedEmployee: e1Email},
		"outside":       {SelectedEmployee: e4Email},
		"zm and rm":     {SelectedZM: zmEmail, SelectedRM: rm1Email},
		"explicit all":  {SelectedZM: models.FilterAll, SelectedRM: models.FilterAll, SelectedEmployee: models.FilterAll},
		"status search": {Status: "Delivered", Search: "asha"},
	}

	for _, enforce := range []bool{true, false} {
		scope := newScope(enforce)
		for _, session := range sessions {
			for name, filter := range filters {
				ctx := context.Background()
				label := string(session.Role) + "/" + name

				first, err := scope.Resolve(ctx, session, filter)
				require.NoError(t, err, label)
				second, err := scope.Resolve(ctx, session, filter)
				require.NoError(t, err, label)
				assert.Equal(t, first, second, label)

				for _, forOrders := range []bool{false, true} {
					first, err := scope.ResolveEligible(ctx, session, filter, forOrders)
					require.NoError(t, err, label)
					second, err := scope.ResolveEligible(ctx, session, filter, forOrders)
					require.NoError(t, err, label)
					assert.Equal(t, first, second, label)
				}
			}
		}
	}
}
