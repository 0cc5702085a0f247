package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-heroes/internal/pkg/common"
	"health-heroes/internal/repository"
	"health-heroes/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFamilyService(t *testing.T) (*Service, uint, uint) {
	t.Helper()
	db := testutil.DB(t)
	user, _ := testutil.CreateUser(t, db, "family@example.com")
	other, _ := testutil.CreateUser(t, db, "other@example.com")
	svc := NewService(repository.NewFamilyRepo(db))
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC) }
	return svc, user.ID, other.ID
}

func TestSetupProfile(t *testing.T) {
	svc, userID, _ := newFamilyService(t)
	ctx := context.Background()

	view, err := svc.Setup(ctx, userID, SetupParams{
		HomeResources: []string{"Kitchen", "garden", "kitchen", ""},
		Language:      "AR",
		LunchTime:     "12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen", "garden"}, []string(view.HomeResources))
	assert.Equal(t, "ar", view.Language)
	assert.Equal(t, "12:30", view.LunchTime)
	assert.Equal(t, "07:00", view.BreakfastTime)

	_, err = svc.Setup(ctx, userID, SetupParams{HomeResources: []string{"rooftop pool"}})
	assert.True(t, common.IsValidationError(err))

}

func TestAddChild(t *testing.T) {
	svc, userID, otherID := newFamilyService(t)
	ctx := context.Background()

	child, err := svc.AddChild(ctx, userID, ChildParams{
		Name:                " Yousef ",
		Birthdate:           "2021-06-01",
		Gender:              "Male",
		Interests:           []string{"Sports", "science", "sports"},
		DietaryRestrictions: []string{"nuts"},
		OtherAllergies:      " shellfish, Nuts ,, sesame ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Yousef", child.Name)
	assert.Equal(t, "male", child.Gender)
	assert.Equal(t, 4, child.Age)
	assert.Equal(t, "3-5 years", child.AgeRange)
	assert.Equal(t, []string{"sports", "science"}, []string(child.Interests))
	assert.Equal(t, []string{"nuts", "shellfish", "sesame"}, []string(child.DietaryRestrictions))

	children, err := svc.Children(ctx, userID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	view, err := svc.View(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Children, 1)
	assert.Equal(t, "3-5 years", view.Children[0].AgeRange)

	assert.True(t, errors.Is(svc.DeleteChild(ctx, otherID, child.ID), common.ErrNotFound))
	require.NoError(t, svc.DeleteChild(ctx, userID, child.ID))
	children, err = svc.Children(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestAddChildValidation(t *testing.T) {
	svc, userID, _ := newFamilyService(t)
	ctx := context.Background()

	cases := map[string]ChildParams{
		"bad date":        {Name: "A", Birthdate: "01/02/2020", Gender: "female"},
		"future birthday": {Name: "A", Birthdate: "2027-01-01", Gender: "female"},
	}
	for name, p := range cases {
		_, err := svc.AddChild(ctx, userID, p)
		assert.True(t, common.IsValidationError(err), name)
	}
}
