package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:    uuid.New(),
		Slug:  slug,
		Title: slug,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedSimulation(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, caseID string) *types.Simulation {
	tb.Helper()
	s := &types.Simulation{
		ID:     uuid.New(),
		UserID: userID,
		CaseID: caseID,
		Status: types.SimulationStatusInProgress,
		State:  datatypes.JSON([]byte(`{"stageStates":{},"eventLog":[]}`)),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed simulation: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
